package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tradeflow/shipping-engine/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu         sync.RWMutex
	sellers    map[string]*model.Seller
	customers  map[string]*model.Customer
	warehouses map[string]*model.Warehouse
	products   map[string]*model.Product
	speeds     map[string]*model.DeliverySpeedConfig
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sellers:    make(map[string]*model.Seller),
		customers:  make(map[string]*model.Customer),
		warehouses: make(map[string]*model.Warehouse),
		products:   make(map[string]*model.Product),
		speeds:     make(map[string]*model.DeliverySpeedConfig),
	}
}

// --- Sellers ---

func (s *MemoryStore) CreateSeller(_ context.Context, sl *model.Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sellers[sl.ID]; exists {
		return fmt.Errorf("seller %s already exists", sl.ID)
	}
	// Store a copy to avoid external mutation.
	cp := *sl
	s.sellers[sl.ID] = &cp
	return nil
}

func (s *MemoryStore) GetSeller(_ context.Context, id string) (*model.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.sellers[id]
	if !ok {
		return nil, fmt.Errorf("%w: seller %s", ErrNotFound, id)
	}
	cp := *sl
	return &cp, nil
}

func (s *MemoryStore) ListSellers(_ context.Context) ([]model.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Seller, 0, len(s.sellers))
	for _, sl := range s.sellers {
		out = append(out, *sl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- Customers ---

func (s *MemoryStore) CreateCustomer(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.ID]; exists {
		return fmt.Errorf("customer %s already exists", c.ID)
	}
	cp := *c
	s.customers[c.ID] = &cp
	return nil
}

func (s *MemoryStore) GetCustomer(_ context.Context, id string) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) ListCustomers(_ context.Context) ([]model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- Warehouses ---

func (s *MemoryStore) CreateWarehouse(_ context.Context, w *model.Warehouse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.warehouses[w.ID]; exists {
		return fmt.Errorf("warehouse %s already exists", w.ID)
	}
	cp := *w
	s.warehouses[w.ID] = &cp
	return nil
}

func (s *MemoryStore) GetWarehouse(_ context.Context, id string) (*model.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.warehouses[id]
	if !ok {
		return nil, fmt.Errorf("%w: warehouse %s", ErrNotFound, id)
	}
	cp := *w
	return &cp, nil
}

func (s *MemoryStore) ListWarehouses(_ context.Context) ([]model.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listWarehousesLocked(false), nil
}

func (s *MemoryStore) ListActiveWarehouses(_ context.Context) ([]model.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listWarehousesLocked(true), nil
}

// listWarehousesLocked returns warehouses sorted by ID. Caller holds the lock.
func (s *MemoryStore) listWarehousesLocked(activeOnly bool) []model.Warehouse {
	out := make([]model.Warehouse, 0, len(s.warehouses))
	for _, w := range s.warehouses {
		if activeOnly && !w.IsActive {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) SetWarehouseActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.warehouses[id]
	if !ok {
		return fmt.Errorf("%w: warehouse %s", ErrNotFound, id)
	}
	w.IsActive = active
	return nil
}

// --- Products ---

func (s *MemoryStore) CreateProduct(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return fmt.Errorf("product %s already exists", p.ID)
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- Delivery speed configs ---

func (s *MemoryStore) UpsertDeliverySpeedConfig(_ context.Context, cfg *model.DeliverySpeedConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *cfg
	s.speeds[cfg.SpeedType] = &cp
	return nil
}

func (s *MemoryStore) GetDeliverySpeedConfig(_ context.Context, speedType string) (*model.DeliverySpeedConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.speeds[speedType]
	if !ok {
		return nil, fmt.Errorf("%w: delivery speed config %s", ErrNotFound, speedType)
	}
	cp := *cfg
	return &cp, nil
}
