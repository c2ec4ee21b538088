package shipping

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradeflow/shipping-engine/internal/geo"
	"github.com/tradeflow/shipping-engine/internal/model"
)

// Handler exposes the shipping operations over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the HTTP handler for the shipping service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the shipping API onto a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/shipping/nearest-warehouse/{sellerID}", h.NearestWarehouse)
	r.Get("/shipping/charge/{warehouseID}/{customerID}", h.ShippingCharge)
	r.Get("/shipping/quote/{sellerID}/{customerID}", h.CompleteShipping)
	r.Get("/shipping/cache/stats", h.CacheStats)
	r.Post("/shipping/cache/clear", h.ClearCache)
}

// NearestWarehouse handles GET /api/v1/shipping/nearest-warehouse/{sellerID}
func (h *Handler) NearestWarehouse(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")

	result, err := h.svc.FindNearestWarehouse(r.Context(), sellerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ShippingCharge handles
// GET /api/v1/shipping/charge/{warehouseID}/{customerID}?speed=&product=
func (h *Handler) ShippingCharge(w http.ResponseWriter, r *http.Request) {
	warehouseID := chi.URLParam(r, "warehouseID")
	customerID := chi.URLParam(r, "customerID")
	speed, ok := speedParam(r)
	if !ok {
		writeError(w, "speed must be standard or express", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CalculateShippingCharge(r.Context(), warehouseID, customerID, speed, r.URL.Query().Get("product"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CompleteShipping handles
// GET /api/v1/shipping/quote/{sellerID}/{customerID}?speed=&product=
func (h *Handler) CompleteShipping(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")
	customerID := chi.URLParam(r, "customerID")
	speed, ok := speedParam(r)
	if !ok {
		writeError(w, "speed must be standard or express", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CalculateCompleteShipping(r.Context(), sellerID, customerID, speed, r.URL.Query().Get("product"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CacheStats handles GET /api/v1/shipping/cache/stats
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CacheStats())
}

// ClearCache handles POST /api/v1/shipping/cache/clear
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// speedParam reads the ?speed= query parameter, defaulting to standard.
func speedParam(r *http.Request) (string, bool) {
	speed := r.URL.Query().Get("speed")
	switch speed {
	case "":
		return model.SpeedStandard, true
	case model.SpeedStandard, model.SpeedExpress:
		return speed, true
	default:
		return "", false
	}
}

// writeServiceError maps service error kinds to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFound *ResourceNotFoundError
	var unsupported *UnsupportedLocationError

	switch {
	case errors.As(err, &notFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &unsupported), errors.Is(err, geo.ErrInvalidCoordinate):
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrNoActiveWarehouses):
		writeError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
