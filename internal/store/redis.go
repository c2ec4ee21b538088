package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradeflow/shipping-engine/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and invalidate the cache; reads
// check Redis first then fall back to the primary.
//
// This is the cross-process entity cache; it is independent of the
// in-process quote memo cache in internal/cache.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, invalidate/refresh cache) ---

func (s *CachedStore) CreateSeller(ctx context.Context, sl *model.Seller) error {
	if err := s.primary.CreateSeller(ctx, sl); err != nil {
		return err
	}
	s.cacheJSON(ctx, sellerKey(sl.ID), sl)
	return nil
}

func (s *CachedStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	if err := s.primary.CreateCustomer(ctx, c); err != nil {
		return err
	}
	s.cacheJSON(ctx, customerKey(c.ID), c)
	return nil
}

func (s *CachedStore) CreateWarehouse(ctx context.Context, w *model.Warehouse) error {
	if err := s.primary.CreateWarehouse(ctx, w); err != nil {
		return err
	}
	// Invalidate the active-set snapshot; next read re-populates.
	s.rdb.Del(ctx, activeWarehousesKey, warehouseKey(w.ID))
	return nil
}

func (s *CachedStore) SetWarehouseActive(ctx context.Context, id string, active bool) error {
	if err := s.primary.SetWarehouseActive(ctx, id, active); err != nil {
		return err
	}
	s.rdb.Del(ctx, activeWarehousesKey, warehouseKey(id))
	return nil
}

func (s *CachedStore) CreateProduct(ctx context.Context, p *model.Product) error {
	if err := s.primary.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.cacheJSON(ctx, productKey(p.ID), p)
	return nil
}

func (s *CachedStore) UpsertDeliverySpeedConfig(ctx context.Context, cfg *model.DeliverySpeedConfig) error {
	if err := s.primary.UpsertDeliverySpeedConfig(ctx, cfg); err != nil {
		return err
	}
	s.rdb.Del(ctx, speedKey(cfg.SpeedType))
	return nil
}

// --- Read-through (check cache first) ---

func (s *CachedStore) GetSeller(ctx context.Context, id string) (*model.Seller, error) {
	var sl model.Seller
	if s.readJSON(ctx, sellerKey(id), &sl) {
		return &sl, nil
	}

	got, err := s.primary.GetSeller(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheJSON(ctx, sellerKey(id), got)
	return got, nil
}

func (s *CachedStore) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	if s.readJSON(ctx, customerKey(id), &c) {
		return &c, nil
	}

	got, err := s.primary.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheJSON(ctx, customerKey(id), got)
	return got, nil
}

func (s *CachedStore) GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error) {
	var w model.Warehouse
	if s.readJSON(ctx, warehouseKey(id), &w) {
		return &w, nil
	}

	got, err := s.primary.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheJSON(ctx, warehouseKey(id), got)
	return got, nil
}

func (s *CachedStore) ListActiveWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	if s.readJSON(ctx, activeWarehousesKey, &warehouses) {
		return warehouses, nil
	}

	warehouses, err := s.primary.ListActiveWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheJSON(ctx, activeWarehousesKey, warehouses)
	return warehouses, nil
}

func (s *CachedStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if s.readJSON(ctx, productKey(id), &p) {
		return &p, nil
	}

	got, err := s.primary.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheJSON(ctx, productKey(id), got)
	return got, nil
}

func (s *CachedStore) GetDeliverySpeedConfig(ctx context.Context, speedType string) (*model.DeliverySpeedConfig, error) {
	var cfg model.DeliverySpeedConfig
	if s.readJSON(ctx, speedKey(speedType), &cfg) {
		return &cfg, nil
	}

	got, err := s.primary.GetDeliverySpeedConfig(ctx, speedType)
	if err != nil {
		return nil, err
	}
	s.cacheJSON(ctx, speedKey(speedType), got)
	return got, nil
}

// --- Passthrough (not cached) ---

func (s *CachedStore) ListSellers(ctx context.Context) ([]model.Seller, error) {
	return s.primary.ListSellers(ctx)
}

func (s *CachedStore) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.primary.ListCustomers(ctx)
}

func (s *CachedStore) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	return s.primary.ListWarehouses(ctx)
}

func (s *CachedStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.primary.ListProducts(ctx)
}

// --- Cache helpers ---

func (s *CachedStore) cacheJSON(ctx context.Context, key string, v any) {
	if data, err := json.Marshal(v); err == nil {
		s.rdb.Set(ctx, key, data, s.ttl)
	}
}

func (s *CachedStore) readJSON(ctx context.Context, key string, dst any) bool {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

const activeWarehousesKey = "warehouses:active"

func sellerKey(id string) string    { return fmt.Sprintf("seller:%s", id) }
func customerKey(id string) string  { return fmt.Sprintf("customer:%s", id) }
func warehouseKey(id string) string { return fmt.Sprintf("warehouse:%s", id) }
func productKey(id string) string   { return fmt.Sprintf("product:%s", id) }
func speedKey(st string) string     { return fmt.Sprintf("speed:%s", st) }
