// Package pricing composes the total shipping charge from the base
// charge, the distance-and-weight transport charge, and the express
// surcharge.
//
// All monetary values use shopspring/decimal — never float64 for money.
// Each displayed breakdown field and the total are rounded to 2 decimal
// places independently, half away from zero. The total is computed from
// the unrounded components and then rounded, so components are never
// rounded-then-summed. BaseCharge is config-supplied 2-decimal data and
// passes through untouched.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tradeflow/shipping-engine/internal/model"
	"github.com/tradeflow/shipping-engine/internal/rates"
)

// ChargeScale is the number of decimal places for monetary rounding.
const ChargeScale int32 = 2

// Engine prices a route given its distance, weight, transport band, and
// delivery-speed configuration. It is stateless.
type Engine struct{}

// NewEngine creates a pricing engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Quote computes the total charge and its breakdown:
//
//	transport = distanceKm · ratePerKmPerKg · weightKg
//	express   = extraChargePerKg · weightKg   (express speed only)
//	total     = base + transport + express
//
// Inputs are assumed validated upstream (distanceKm ≥ 0, weightKg > 0);
// for such inputs no output is negative or NaN.
func (e *Engine) Quote(distanceKm, weightKg float64, band rates.Band, speed model.DeliverySpeedConfig) (decimal.Decimal, model.ChargeBreakdown) {
	distance := decimal.NewFromFloat(distanceKm)
	weight := decimal.NewFromFloat(weightKg)

	transport := distance.Mul(band.RatePerKmPerKg).Mul(weight)

	express := decimal.Zero
	if speed.SpeedType == model.SpeedExpress {
		express = speed.ExtraChargePerKg.Mul(weight)
	}

	total := speed.BaseCharge.Add(transport).Add(express)

	breakdown := model.ChargeBreakdown{
		BaseCharge:      speed.BaseCharge,
		TransportCharge: transport.Round(ChargeScale),
		ExpressCharge:   express.Round(ChargeScale),
	}
	return total.Round(ChargeScale), breakdown
}
