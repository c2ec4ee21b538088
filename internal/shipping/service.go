// Package shipping is the façade over the pricing core: it finds the
// nearest active warehouse for a seller and prices the route from a
// warehouse to a customer using distance-tiered transport rates and a
// delivery-speed surcharge.
//
// Each operation is a single unit of work: sequential reads against the
// entity store, pure computation, then one cache write of the fully
// computed result. No partial results are ever cached, and no retries
// happen here — retry policy belongs to the caller.
package shipping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tradeflow/shipping-engine/internal/cache"
	"github.com/tradeflow/shipping-engine/internal/geo"
	"github.com/tradeflow/shipping-engine/internal/metrics"
	"github.com/tradeflow/shipping-engine/internal/model"
	"github.com/tradeflow/shipping-engine/internal/pricing"
	"github.com/tradeflow/shipping-engine/internal/rates"
	"github.com/tradeflow/shipping-engine/internal/store"
)

// Cache TTLs per operation. Warehouse topology changes less often than
// per-request pricing, so nearest-warehouse results live longer.
const (
	nearestWarehouseTTL = 10 * time.Minute
	shippingChargeTTL   = 5 * time.Minute
	completeShippingTTL = 5 * time.Minute
)

// Service orchestrates warehouse lookup and charge calculation. One
// instance per process, sharing one injected memo cache.
type Service struct {
	store          store.Store
	cache          *cache.Cache
	selector       *rates.Selector
	engine         *pricing.Engine
	strictProducts bool
	hub            *WSHub // optional WebSocket hub for quote broadcasts
}

// Option configures a Service.
type Option func(*Service)

// WithStrictProducts makes an unresolvable productID an error instead of
// silently falling back to the default 1 kg weight.
func WithStrictProducts() Option {
	return func(s *Service) { s.strictProducts = true }
}

// WithHub attaches a WebSocket hub; computed quotes are broadcast to it.
func WithHub(hub *WSHub) Option {
	return func(s *Service) { s.hub = hub }
}

// NewService creates the shipping orchestrator.
func NewService(st store.Store, c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		store:    st,
		cache:    c,
		selector: rates.NewSelector(),
		engine:   pricing.NewEngine(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Cache keys: colon-delimited, namespaced per operation so pattern
// invalidation can target one operation without touching another. ---

func nearestWarehouseKey(sellerID string) string {
	return fmt.Sprintf("nearest_warehouse:seller:%s", sellerID)
}

func shippingChargeKey(warehouseID, customerID, speedType, productID string) string {
	key := fmt.Sprintf("shipping_charge:%s:%s:%s", warehouseID, customerID, speedType)
	if productID != "" {
		key += ":" + productID
	}
	return key
}

func completeShippingKey(sellerID, customerID, speedType, productID string) string {
	key := fmt.Sprintf("complete_shipping:%s:%s:%s", sellerID, customerID, speedType)
	if productID != "" {
		key += ":" + productID
	}
	return key
}

// InvalidateWarehouseCaches drops every memoized result that depends on
// warehouse topology. Called by the admin surface when warehouses change.
func (s *Service) InvalidateWarehouseCaches() int {
	n := s.cache.DeletePattern("nearest_warehouse")
	n += s.cache.DeletePattern("complete_shipping")
	return n
}

// InvalidateChargeCaches drops every memoized priced result. Called when
// pricing inputs (delivery speed configs) change.
func (s *Service) InvalidateChargeCaches() int {
	n := s.cache.DeletePattern("shipping_charge")
	n += s.cache.DeletePattern("complete_shipping")
	return n
}

// CacheStats exposes the memo cache counters.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache drops all memoized results.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// FindNearestWarehouse resolves the seller, validates its coordinates,
// and scans all active warehouses for the minimum great-circle distance.
// Ties go to the first-encountered warehouse in store order, which
// implementations keep ascending by ID, so the result is deterministic.
func (s *Service) FindNearestWarehouse(ctx context.Context, sellerID string) (model.NearestWarehouseResult, error) {
	start := time.Now()
	defer func() {
		metrics.QuoteLatency.WithLabelValues("nearest_warehouse").Observe(time.Since(start).Seconds())
	}()
	metrics.NearestLookupsTotal.Inc()

	return getCached(s, nearestWarehouseKey(sellerID), nearestWarehouseTTL,
		func() (model.NearestWarehouseResult, error) {
			return s.findNearestWarehouse(ctx, sellerID)
		})
}

func (s *Service) findNearestWarehouse(ctx context.Context, sellerID string) (model.NearestWarehouseResult, error) {
	var zero model.NearestWarehouseResult

	seller, err := s.store.GetSeller(ctx, sellerID)
	if err != nil {
		return zero, mapStoreErr(err, "Seller", sellerID)
	}
	if err := geo.Validate("seller", seller.Location); err != nil {
		return zero, &UnsupportedLocationError{Resource: "Seller", ID: sellerID, Cause: err}
	}

	warehouses, err := s.store.ListActiveWarehouses(ctx)
	if err != nil {
		return zero, err
	}
	if len(warehouses) == 0 {
		return zero, ErrNoActiveWarehouses
	}

	var nearest *model.Warehouse
	var nearestDist float64
	for i := range warehouses {
		w := &warehouses[i]
		if err := geo.Validate("warehouse", w.Location); err != nil {
			return zero, &UnsupportedLocationError{Resource: "Warehouse", ID: w.ID, Cause: err}
		}
		dist, err := geo.Distance(seller.Location, w.Location)
		if err != nil {
			return zero, err
		}
		// Strictly-less keeps the first-encountered warehouse on ties.
		if nearest == nil || dist < nearestDist {
			nearest = w
			nearestDist = dist
		}
	}

	result := model.NearestWarehouseResult{
		WarehouseID:       nearest.ID,
		WarehouseName:     nearest.Name,
		WarehouseLocation: nearest.Location,
		DistanceKm:        geo.Round(nearestDist, 2),
	}

	slog.Info("nearest warehouse selected",
		"seller", sellerID,
		"warehouse", nearest.ID,
		"distance_km", result.DistanceKm,
		"candidates", len(warehouses),
	)
	return result, nil
}

// CalculateShippingCharge prices the route from a warehouse to a
// customer. productID is optional; when empty the shipment weighs
// model.DefaultWeightKg.
func (s *Service) CalculateShippingCharge(ctx context.Context, warehouseID, customerID, speedType, productID string) (model.ShippingChargeResult, error) {
	start := time.Now()
	defer func() {
		metrics.QuoteLatency.WithLabelValues("shipping_charge").Observe(time.Since(start).Seconds())
	}()

	return getCached(s, shippingChargeKey(warehouseID, customerID, speedType, productID), shippingChargeTTL,
		func() (model.ShippingChargeResult, error) {
			return s.calculateShippingCharge(ctx, warehouseID, customerID, speedType, productID)
		})
}

func (s *Service) calculateShippingCharge(ctx context.Context, warehouseID, customerID, speedType, productID string) (model.ShippingChargeResult, error) {
	var zero model.ShippingChargeResult

	warehouse, err := s.store.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return zero, mapStoreErr(err, "Warehouse", warehouseID)
	}
	if err := geo.Validate("warehouse", warehouse.Location); err != nil {
		return zero, &UnsupportedLocationError{Resource: "Warehouse", ID: warehouseID, Cause: err}
	}

	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return zero, mapStoreErr(err, "Customer", customerID)
	}
	if err := geo.Validate("customer", customer.Location); err != nil {
		return zero, &UnsupportedLocationError{Resource: "Customer", ID: customerID, Cause: err}
	}

	speed, err := s.store.GetDeliverySpeedConfig(ctx, speedType)
	if err != nil {
		return zero, mapStoreErr(err, "DeliverySpeedConfig", speedType)
	}

	weight, err := s.resolveWeight(ctx, productID)
	if err != nil {
		return zero, err
	}

	distance, err := geo.Distance(warehouse.Location, customer.Location)
	if err != nil {
		return zero, err
	}
	distance = geo.Round(distance, 2)

	band, err := s.selector.Select(distance)
	if err != nil {
		return zero, err
	}

	total, breakdown := s.engine.Quote(distance, weight, band, *speed)

	result := model.ShippingChargeResult{
		ShippingCharge: total,
		TransportMode:  band.Mode,
		DistanceKm:     distance,
		WeightKg:       weight,
		Breakdown:      breakdown,
	}

	metrics.QuotesTotal.WithLabelValues(band.Mode).Inc()
	slog.Info("shipping charge computed",
		"warehouse", warehouseID,
		"customer", customerID,
		"speed", speedType,
		"mode", band.Mode,
		"distance_km", distance,
		"weight_kg", weight,
		"total", total.String(),
	)
	return result, nil
}

// resolveWeight returns the shipment weight for an optional productID.
// A missing product falls back to the default weight in lenient mode;
// strict mode turns the miss into a not-found error instead of letting a
// typo'd productID silently change the price.
func (s *Service) resolveWeight(ctx context.Context, productID string) (float64, error) {
	if productID == "" {
		return model.DefaultWeightKg, nil
	}
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if s.strictProducts {
			return 0, mapStoreErr(err, "Product", productID)
		}
		slog.Warn("product not found, using default weight",
			"product", productID, "default_kg", model.DefaultWeightKg)
		return model.DefaultWeightKg, nil
	}
	return product.WeightKg, nil
}

// CalculateCompleteShipping combines nearest-warehouse selection with the
// priced route to the customer.
func (s *Service) CalculateCompleteShipping(ctx context.Context, sellerID, customerID, speedType, productID string) (model.CompleteShippingResult, error) {
	start := time.Now()
	defer func() {
		metrics.QuoteLatency.WithLabelValues("complete_shipping").Observe(time.Since(start).Seconds())
	}()

	result, err := getCached(s, completeShippingKey(sellerID, customerID, speedType, productID), completeShippingTTL,
		func() (model.CompleteShippingResult, error) {
			warehouse, err := s.FindNearestWarehouse(ctx, sellerID)
			if err != nil {
				return model.CompleteShippingResult{}, err
			}
			charge, err := s.CalculateShippingCharge(ctx, warehouse.WarehouseID, customerID, speedType, productID)
			if err != nil {
				return model.CompleteShippingResult{}, err
			}
			return model.CompleteShippingResult{Warehouse: warehouse, Charge: charge}, nil
		})
	if err != nil {
		return result, err
	}

	if s.hub != nil {
		s.hub.Broadcast(QuoteEvent{
			Type:          "quote_computed",
			SellerID:      sellerID,
			CustomerID:    customerID,
			SpeedType:     speedType,
			WarehouseID:   result.Warehouse.WarehouseID,
			TransportMode: result.Charge.TransportMode,
			DistanceKm:    result.Charge.DistanceKm,
			Total:         result.Charge.ShippingCharge.String(),
		})
	}
	return result, nil
}

// getCached wraps cache.GetOrSet with the prometheus hit/miss counters.
func getCached[T any](s *Service, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			metrics.CacheHitsTotal.Inc()
			return typed, nil
		}
	}
	metrics.CacheMissesTotal.Inc()

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	s.cache.Set(key, value, ttl)
	return value, nil
}

// mapStoreErr converts a store miss into the service's not-found surface;
// anything else (connectivity and the like) passes through untouched.
func mapStoreErr(err error, resource, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &ResourceNotFoundError{Resource: resource, ID: id}
	}
	return err
}
