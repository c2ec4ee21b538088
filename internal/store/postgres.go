package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tradeflow/shipping-engine/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Monetary config values are stored as NUMERIC for exact decimal
// precision; coordinates and weights as DOUBLE PRECISION.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return fmt.Errorf("get %s %s: %w", what, id, err)
}

// --- Sellers ---

func (s *PostgresStore) CreateSeller(ctx context.Context, sl *model.Seller) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sellers (id, name, latitude, longitude, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sl.ID, sl.Name, sl.Location.Latitude, sl.Location.Longitude, sl.CreatedAt,
	)
	return err
}

func (s *PostgresStore) GetSeller(ctx context.Context, id string) (*model.Seller, error) {
	var sl model.Seller
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, latitude, longitude, created_at FROM sellers WHERE id = $1`, id).
		Scan(&sl.ID, &sl.Name, &sl.Location.Latitude, &sl.Location.Longitude, &sl.CreatedAt)
	if err != nil {
		return nil, notFound(err, "seller", id)
	}
	return &sl, nil
}

func (s *PostgresStore) ListSellers(ctx context.Context) ([]model.Seller, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, latitude, longitude, created_at FROM sellers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []model.Seller
	for rows.Next() {
		var sl model.Seller
		if err := rows.Scan(&sl.ID, &sl.Name, &sl.Location.Latitude,
			&sl.Location.Longitude, &sl.CreatedAt); err != nil {
			return nil, err
		}
		sellers = append(sellers, sl)
	}
	return sellers, rows.Err()
}

// --- Customers ---

func (s *PostgresStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO customers (id, name, latitude, longitude, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Location.Latitude, c.Location.Longitude, c.CreatedAt,
	)
	return err
}

func (s *PostgresStore) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, latitude, longitude, created_at FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Location.Latitude, &c.Location.Longitude, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &c, nil
}

func (s *PostgresStore) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, latitude, longitude, created_at FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Location.Latitude,
			&c.Location.Longitude, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// --- Warehouses ---

func (s *PostgresStore) CreateWarehouse(ctx context.Context, w *model.Warehouse) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO warehouses (id, name, latitude, longitude, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID, w.Name, w.Location.Latitude, w.Location.Longitude, w.IsActive, w.CreatedAt,
	)
	return err
}

func (s *PostgresStore) GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error) {
	var w model.Warehouse
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, latitude, longitude, is_active, created_at
		 FROM warehouses WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Location.Latitude, &w.Location.Longitude,
			&w.IsActive, &w.CreatedAt)
	if err != nil {
		return nil, notFound(err, "warehouse", id)
	}
	return &w, nil
}

func (s *PostgresStore) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	return s.listWarehouses(ctx,
		`SELECT id, name, latitude, longitude, is_active, created_at
		 FROM warehouses ORDER BY id`)
}

func (s *PostgresStore) ListActiveWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	return s.listWarehouses(ctx,
		`SELECT id, name, latitude, longitude, is_active, created_at
		 FROM warehouses WHERE is_active ORDER BY id`)
}

func (s *PostgresStore) listWarehouses(ctx context.Context, query string) ([]model.Warehouse, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []model.Warehouse
	for rows.Next() {
		var w model.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location.Latitude,
			&w.Location.Longitude, &w.IsActive, &w.CreatedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (s *PostgresStore) SetWarehouseActive(ctx context.Context, id string, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE warehouses SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: warehouse %s", ErrNotFound, id)
	}
	return nil
}

// --- Products ---

func (s *PostgresStore) CreateProduct(ctx context.Context, p *model.Product) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO products (id, name, weight_kg, created_at)
		 VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.WeightKg, p.CreatedAt,
	)
	return err
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, weight_kg, created_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.WeightKg, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return &p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, weight_kg, created_at FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.WeightKg, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// --- Delivery speed configs ---

func (s *PostgresStore) UpsertDeliverySpeedConfig(ctx context.Context, cfg *model.DeliverySpeedConfig) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO delivery_speed_configs (speed_type, base_charge, extra_charge_per_kg)
		 VALUES ($1, $2::NUMERIC, $3::NUMERIC)
		 ON CONFLICT (speed_type) DO UPDATE
		 SET base_charge = EXCLUDED.base_charge,
		     extra_charge_per_kg = EXCLUDED.extra_charge_per_kg`,
		cfg.SpeedType, cfg.BaseCharge.String(), cfg.ExtraChargePerKg.String(),
	)
	return err
}

func (s *PostgresStore) GetDeliverySpeedConfig(ctx context.Context, speedType string) (*model.DeliverySpeedConfig, error) {
	var cfg model.DeliverySpeedConfig
	var base, extra string

	err := s.pool.QueryRow(ctx,
		`SELECT speed_type, base_charge::TEXT, extra_charge_per_kg::TEXT
		 FROM delivery_speed_configs WHERE speed_type = $1`, speedType).
		Scan(&cfg.SpeedType, &base, &extra)
	if err != nil {
		return nil, notFound(err, "delivery speed config", speedType)
	}

	cfg.BaseCharge, _ = decimal.NewFromString(base)
	cfg.ExtraChargePerKg, _ = decimal.NewFromString(extra)
	return &cfg, nil
}
