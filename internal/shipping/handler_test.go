package shipping_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tradeflow/shipping-engine/internal/model"
	"github.com/tradeflow/shipping-engine/internal/shipping"
	"github.com/tradeflow/shipping-engine/internal/store"
)

func newTestRouter(t *testing.T) (*store.MemoryStore, chi.Router) {
	t.Helper()
	svc, ms, _ := newTestEnv(t)
	h := shipping.NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		h.Routes(r)
	})
	return ms, r
}

func doGet(t *testing.T, router chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_NearestWarehouse(t *testing.T) {
	ms, router := newTestRouter(t)
	seedSeller(t, ms, "s1", delhi)
	seedWarehouse(t, ms, "wh-noida", noida, true)

	w := doGet(t, router, "/api/v1/shipping/nearest-warehouse/s1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.NearestWarehouseResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.WarehouseID != "wh-noida" {
		t.Errorf("unexpected warehouse: %s", result.WarehouseID)
	}
}

func TestHandler_NearestWarehouse_NotFound(t *testing.T) {
	_, router := newTestRouter(t)

	w := doGet(t, router, "/api/v1/shipping/nearest-warehouse/ghost")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown seller, got %d", w.Code)
	}
}

func TestHandler_NearestWarehouse_NoActiveWarehouses(t *testing.T) {
	ms, router := newTestRouter(t)
	seedSeller(t, ms, "s1", delhi)

	w := doGet(t, router, "/api/v1/shipping/nearest-warehouse/s1")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for empty warehouse set, got %d", w.Code)
	}
}

func TestHandler_NearestWarehouse_UnsupportedLocation(t *testing.T) {
	ms, router := newTestRouter(t)
	seedSeller(t, ms, "s1", loc(91, 0))
	seedWarehouse(t, ms, "wh-1", noida, true)

	w := doGet(t, router, "/api/v1/shipping/nearest-warehouse/s1")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for out-of-range coordinates, got %d", w.Code)
	}
}

func TestHandler_ShippingCharge(t *testing.T) {
	ms, router := newTestRouter(t)
	seedWarehouse(t, ms, "wh-1", delhi, true)
	seedCustomer(t, ms, "c1", noida)
	seedSpeeds(t, ms)
	seedProduct(t, ms, "p1", 10)

	w := doGet(t, router, "/api/v1/shipping/charge/wh-1/c1?speed=express&product=p1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.ShippingChargeResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.TransportMode != "Mini Van" {
		t.Errorf("expected Mini Van, got %s", result.TransportMode)
	}
	if result.WeightKg != 10 {
		t.Errorf("expected 10 kg, got %v", result.WeightKg)
	}
}

func TestHandler_ShippingCharge_BadSpeed(t *testing.T) {
	_, router := newTestRouter(t)

	w := doGet(t, router, "/api/v1/shipping/charge/wh-1/c1?speed=teleport")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown speed, got %d", w.Code)
	}
}

func TestHandler_ShippingCharge_DefaultsToStandard(t *testing.T) {
	ms, router := newTestRouter(t)
	seedWarehouse(t, ms, "wh-1", delhi, true)
	seedCustomer(t, ms, "c1", delhi)
	seedSpeeds(t, ms)

	w := doGet(t, router, "/api/v1/shipping/charge/wh-1/c1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.ShippingChargeResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if !result.Breakdown.ExpressCharge.IsZero() {
		t.Errorf("standard delivery should have no express charge, got %s",
			result.Breakdown.ExpressCharge)
	}
}

func TestHandler_CompleteQuote(t *testing.T) {
	ms, router := newTestRouter(t)
	seedSeller(t, ms, "s1", delhi)
	seedCustomer(t, ms, "c1", mumbai)
	seedWarehouse(t, ms, "wh-noida", noida, true)
	seedSpeeds(t, ms)

	w := doGet(t, router, "/api/v1/shipping/quote/s1/c1?speed=express")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.CompleteShippingResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Warehouse.WarehouseID != "wh-noida" {
		t.Errorf("unexpected warehouse: %s", result.Warehouse.WarehouseID)
	}
	if result.Charge.TransportMode != "Aeroplane" {
		t.Errorf("expected Aeroplane, got %s", result.Charge.TransportMode)
	}
}

func TestHandler_CacheStatsAndClear(t *testing.T) {
	ms, router := newTestRouter(t)
	seedSeller(t, ms, "s1", delhi)
	seedWarehouse(t, ms, "wh-1", noida, true)

	doGet(t, router, "/api/v1/shipping/nearest-warehouse/s1")
	doGet(t, router, "/api/v1/shipping/nearest-warehouse/s1")

	w := doGet(t, router, "/api/v1/shipping/cache/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats struct {
		Hits   uint64 `json:"hits"`
		Misses uint64 `json:"misses"`
		Size   int    `json:"size"`
	}
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected hits=1 misses=1, got hits=%d misses=%d", stats.Hits, stats.Misses)
	}
	if stats.Size != 1 {
		t.Errorf("expected 1 cached entry, got %d", stats.Size)
	}

	req := httptest.NewRequest("POST", "/api/v1/shipping/cache/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on clear, got %d", rec.Code)
	}

	w = doGet(t, router, "/api/v1/shipping/cache/stats")
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.Size != 0 {
		t.Errorf("expected empty cache after clear, got size=%d", stats.Size)
	}
}
