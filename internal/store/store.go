// Package store defines the entity store for the shipping engine.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing and development).
package store

import (
	"context"
	"errors"

	"github.com/tradeflow/shipping-engine/internal/model"
)

// ErrNotFound is wrapped by every lookup that misses. Callers test with
// errors.Is and map it to their own not-found surface.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence interface. The shipping service only reads;
// the admin surface also writes.
type Store interface {
	// --- Sellers ---

	CreateSeller(ctx context.Context, s *model.Seller) error
	GetSeller(ctx context.Context, id string) (*model.Seller, error)
	ListSellers(ctx context.Context) ([]model.Seller, error)

	// --- Customers ---

	CreateCustomer(ctx context.Context, c *model.Customer) error
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)

	// --- Warehouses ---

	CreateWarehouse(ctx context.Context, w *model.Warehouse) error
	GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error)

	// ListWarehouses returns all warehouses in ascending ID order.
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)

	// ListActiveWarehouses returns only isActive warehouses, in ascending
	// ID order. The ordering makes nearest-warehouse tie-breaks
	// reproducible.
	ListActiveWarehouses(ctx context.Context) ([]model.Warehouse, error)

	// SetWarehouseActive flips a warehouse's active flag.
	SetWarehouseActive(ctx context.Context, id string, active bool) error

	// --- Products ---

	CreateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)

	// --- Delivery speed configs ---

	UpsertDeliverySpeedConfig(ctx context.Context, cfg *model.DeliverySpeedConfig) error
	GetDeliverySpeedConfig(ctx context.Context, speedType string) (*model.DeliverySpeedConfig, error)
}
