// Package model defines the core domain types shared across the shipping engine.
// All monetary values use shopspring/decimal — never float64 for money.
// Distances (km) and weights (kg) are physical measures and stay float64.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery speed types.
const (
	SpeedStandard = "standard"
	SpeedExpress  = "express"
)

// DefaultWeightKg is the shipment weight assumed when no product is given.
const DefaultWeightKg = 1.0

// Location is a WGS84 coordinate pair attached to sellers, customers,
// and warehouses.
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Seller is a marketplace seller shipping from the nearest warehouse.
type Seller struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Customer is the delivery destination of a shipment.
type Customer struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Warehouse is a fulfillment site. Only active warehouses participate in
// nearest-warehouse search.
type Warehouse struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Location  Location  `json:"location"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Product carries the shipment weight. Optional input to pricing; shipments
// without a product default to DefaultWeightKg.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	WeightKg  float64   `json:"weight_kg" db:"weight_kg"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DeliverySpeedConfig holds the per-speed pricing parameters. One record
// per speed type, looked up by the speed type string.
type DeliverySpeedConfig struct {
	SpeedType        string          `json:"speed_type" db:"speed_type"`
	BaseCharge       decimal.Decimal `json:"base_charge" db:"base_charge"`
	ExtraChargePerKg decimal.Decimal `json:"extra_charge_per_kg" db:"extra_charge_per_kg"`
}

// NearestWarehouseResult is the outcome of a nearest-warehouse query.
// Derived per query, never persisted.
type NearestWarehouseResult struct {
	WarehouseID       string   `json:"warehouse_id"`
	WarehouseName     string   `json:"warehouse_name"`
	WarehouseLocation Location `json:"warehouse_location"`
	DistanceKm        float64  `json:"distance_km"`
}

// ChargeBreakdown itemizes the components summing to the total charge.
// Each field is independently rounded to 2 decimal places.
type ChargeBreakdown struct {
	BaseCharge      decimal.Decimal `json:"base_charge"`
	TransportCharge decimal.Decimal `json:"transport_charge"`
	ExpressCharge   decimal.Decimal `json:"express_charge"`
}

// ShippingChargeResult is a priced warehouse→customer route.
type ShippingChargeResult struct {
	ShippingCharge decimal.Decimal `json:"shipping_charge"`
	TransportMode  string          `json:"transport_mode"`
	DistanceKm     float64         `json:"distance_km"`
	WeightKg       float64         `json:"weight_kg"`
	Breakdown      ChargeBreakdown `json:"breakdown"`
}

// CompleteShippingResult combines the nearest-warehouse selection with the
// priced route to the customer.
type CompleteShippingResult struct {
	Warehouse NearestWarehouseResult `json:"warehouse"`
	Charge    ShippingChargeResult   `json:"charge"`
}
