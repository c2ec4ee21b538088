// Package admin provides the HTTP handlers for managing the entities the
// shipping engine reads: sellers, customers, warehouses, products, and
// delivery speed configs.
//
// Warehouse changes invalidate the shipping service's memoized
// nearest-warehouse and complete-shipping results, since those depend on
// warehouse topology.
package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradeflow/shipping-engine/internal/geo"
	"github.com/tradeflow/shipping-engine/internal/model"
	"github.com/tradeflow/shipping-engine/internal/shipping"
	"github.com/tradeflow/shipping-engine/internal/store"
)

// Handler serves the entity CRUD API.
type Handler struct {
	store store.Store
	svc   *shipping.Service
}

// NewHandler creates the admin handler. svc receives cache invalidations
// on warehouse changes.
func NewHandler(st store.Store, svc *shipping.Service) *Handler {
	return &Handler{store: st, svc: svc}
}

// Routes mounts the admin API onto a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/sellers", h.CreateSeller)
	r.Get("/sellers", h.ListSellers)
	r.Get("/sellers/{id}", h.GetSeller)

	r.Post("/customers", h.CreateCustomer)
	r.Get("/customers", h.ListCustomers)
	r.Get("/customers/{id}", h.GetCustomer)

	r.Post("/warehouses", h.CreateWarehouse)
	r.Get("/warehouses", h.ListWarehouses)
	r.Get("/warehouses/{id}", h.GetWarehouse)
	r.Put("/warehouses/{id}/active", h.SetWarehouseActive)

	r.Post("/products", h.CreateProduct)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)

	r.Put("/delivery-speeds/{speedType}", h.UpsertDeliverySpeed)
	r.Get("/delivery-speeds/{speedType}", h.GetDeliverySpeed)
}

// --- Request types ---

// LocationRequest is the coordinate pair in entity creation bodies.
type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PartyRequest is the JSON body for seller and customer creation.
type PartyRequest struct {
	Name     string          `json:"name"`
	Location LocationRequest `json:"location"`
}

// WarehouseRequest is the JSON body for warehouse creation.
type WarehouseRequest struct {
	Name     string          `json:"name"`
	Location LocationRequest `json:"location"`
	IsActive bool            `json:"is_active"`
}

// ProductRequest is the JSON body for product creation.
type ProductRequest struct {
	Name     string  `json:"name"`
	WeightKg float64 `json:"weight_kg"`
}

// SpeedRequest is the JSON body for delivery speed config upserts.
type SpeedRequest struct {
	BaseCharge       decimal.Decimal `json:"base_charge"`
	ExtraChargePerKg decimal.Decimal `json:"extra_charge_per_kg"`
}

// --- Sellers / Customers ---

func (h *Handler) CreateSeller(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeParty(w, r)
	if !ok {
		return
	}

	seller := &model.Seller{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Location:  model.Location{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude},
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateSeller(r.Context(), seller); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	slog.Info("seller created", "id", seller.ID, "name", seller.Name)
	writeJSON(w, http.StatusCreated, seller)
}

func (h *Handler) GetSeller(w http.ResponseWriter, r *http.Request) {
	seller, err := h.store.GetSeller(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (h *Handler) ListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.store.ListSellers(r.Context())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if sellers == nil {
		sellers = []model.Seller{}
	}
	writeJSON(w, http.StatusOK, sellers)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeParty(w, r)
	if !ok {
		return
	}

	customer := &model.Customer{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Location:  model.Location{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude},
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateCustomer(r.Context(), customer); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	slog.Info("customer created", "id", customer.ID, "name", customer.Name)
	writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.store.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

// decodeParty decodes and validates a seller/customer creation body.
func decodeParty(w http.ResponseWriter, r *http.Request) (PartyRequest, bool) {
	var req PartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return req, false
	}
	loc := model.Location{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}
	if err := geo.Validate("location", loc); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// --- Warehouses ---

func (h *Handler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req WarehouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	loc := model.Location{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}
	if err := geo.Validate("location", loc); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	warehouse := &model.Warehouse{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Location:  loc,
		IsActive:  req.IsActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateWarehouse(r.Context(), warehouse); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	invalidated := h.svc.InvalidateWarehouseCaches()
	slog.Info("warehouse created",
		"id", warehouse.ID,
		"name", warehouse.Name,
		"active", warehouse.IsActive,
		"cache_entries_invalidated", invalidated,
	)
	writeJSON(w, http.StatusCreated, warehouse)
}

func (h *Handler) GetWarehouse(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.store.GetWarehouse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, warehouse)
}

func (h *Handler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.store.ListWarehouses(r.Context())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if warehouses == nil {
		warehouses = []model.Warehouse{}
	}
	writeJSON(w, http.StatusOK, warehouses)
}

// SetWarehouseActive handles PUT /api/v1/admin/warehouses/{id}/active
func (h *Handler) SetWarehouseActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.SetWarehouseActive(r.Context(), id, req.IsActive); err != nil {
		writeStoreError(w, err)
		return
	}

	invalidated := h.svc.InvalidateWarehouseCaches()
	slog.Info("warehouse active flag updated",
		"id", id, "active", req.IsActive, "cache_entries_invalidated", invalidated)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

// --- Products ---

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.WeightKg <= 0 {
		writeError(w, "weight_kg must be positive", http.StatusBadRequest)
		return
	}

	product := &model.Product{
		ID:        uuid.New().String(),
		Name:      req.Name,
		WeightKg:  req.WeightKg,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateProduct(r.Context(), product); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	slog.Info("product created", "id", product.ID, "name", product.Name, "weight_kg", product.WeightKg)
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// --- Delivery speed configs ---

func (h *Handler) UpsertDeliverySpeed(w http.ResponseWriter, r *http.Request) {
	speedType := chi.URLParam(r, "speedType")
	if speedType != model.SpeedStandard && speedType != model.SpeedExpress {
		writeError(w, "speed type must be standard or express", http.StatusBadRequest)
		return
	}

	var req SpeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.BaseCharge.IsNegative() || req.ExtraChargePerKg.IsNegative() {
		writeError(w, "charges must be non-negative", http.StatusBadRequest)
		return
	}

	cfg := &model.DeliverySpeedConfig{
		SpeedType:        speedType,
		BaseCharge:       req.BaseCharge,
		ExtraChargePerKg: req.ExtraChargePerKg,
	}
	if err := h.store.UpsertDeliverySpeedConfig(r.Context(), cfg); err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Pricing inputs changed; memoized charges are stale.
	h.svc.InvalidateChargeCaches()
	slog.Info("delivery speed config upserted",
		"speed", speedType,
		"base", cfg.BaseCharge.String(),
		"extra_per_kg", cfg.ExtraChargePerKg.String(),
	)
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) GetDeliverySpeed(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.GetDeliverySpeedConfig(r.Context(), chi.URLParam(r, "speedType"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// --- Response helpers ---

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeError(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
