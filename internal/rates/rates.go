// Package rates maps a shipment distance to a transport mode and a
// per-km-per-kg rate using an ordered table of distance bands.
//
// Bands are contiguous half-open intervals [MinKm, MaxKm) covering
// [0, ∞), so every non-negative distance matches exactly one band.
// The table is the extension point: adding a short-range "Drone" band,
// say, changes only the table, never calling code.
package rates

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrNegativeDistance is returned when Select is given a negative
// distance. That is a programmer error upstream, so it fails loud.
var ErrNegativeDistance = errors.New("rates: distance must be non-negative")

// Band is one contiguous distance interval mapped to a transport mode
// and its rate. MaxKm of +Inf marks the unbounded final band.
type Band struct {
	Mode           string
	MinKm          float64
	MaxKm          float64
	RatePerKmPerKg decimal.Decimal
}

// Contains reports whether d falls in [MinKm, MaxKm).
func (b Band) Contains(d float64) bool {
	return d >= b.MinKm && d < b.MaxKm
}

// Selector resolves distances against an ordered band table.
type Selector struct {
	bands []Band
}

// defaultBands is the fixed band table for this domain, ascending by
// distance. Upper bounds are exclusive: 100.0 km selects Truck and
// 500.0 km selects Aeroplane.
var defaultBands = []Band{
	{Mode: "Mini Van", MinKm: 0, MaxKm: 100, RatePerKmPerKg: decimal.NewFromFloat(3.00)},
	{Mode: "Truck", MinKm: 100, MaxKm: 500, RatePerKmPerKg: decimal.NewFromFloat(2.00)},
	{Mode: "Aeroplane", MinKm: 500, MaxKm: math.Inf(1), RatePerKmPerKg: decimal.NewFromFloat(1.00)},
}

// NewSelector creates a selector over the default band table.
func NewSelector() *Selector {
	return &Selector{bands: defaultBands}
}

// NewSelectorWithBands creates a selector over a custom table. Bands must
// be ascending, contiguous, and cover [0, ∞); that is the caller's
// contract, not re-validated here.
func NewSelectorWithBands(bands []Band) *Selector {
	return &Selector{bands: bands}
}

// Select returns the band matching distanceKm, or ErrNegativeDistance
// for negative input.
func (s *Selector) Select(distanceKm float64) (Band, error) {
	if distanceKm < 0 {
		return Band{}, ErrNegativeDistance
	}
	for _, b := range s.bands {
		if b.Contains(distanceKm) {
			return b, nil
		}
	}
	// Unreachable while the table covers [0, ∞); kept as a loud failure
	// if a custom table leaves a gap.
	return Band{}, errors.New("rates: no band covers distance")
}

// Bands returns a copy of the selector's table, for introspection.
func (s *Selector) Bands() []Band {
	out := make([]Band, len(s.bands))
	copy(out, s.bands)
	return out
}
