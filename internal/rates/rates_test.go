package rates

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSelect_ModesAndRates(t *testing.T) {
	s := NewSelector()

	tests := []struct {
		distance float64
		mode     string
		rate     float64
	}{
		{0, "Mini Van", 3.0},
		{50, "Mini Van", 3.0},
		{99.999, "Mini Van", 3.0},
		{100, "Truck", 2.0},
		{250, "Truck", 2.0},
		{499.999, "Truck", 2.0},
		{500, "Aeroplane", 1.0},
		{600, "Aeroplane", 1.0},
		{12000, "Aeroplane", 1.0},
	}
	for _, tt := range tests {
		band, err := s.Select(tt.distance)
		if err != nil {
			t.Fatalf("Select(%v): unexpected error %v", tt.distance, err)
		}
		if band.Mode != tt.mode {
			t.Errorf("Select(%v).Mode = %s, want %s", tt.distance, band.Mode, tt.mode)
		}
		if !band.RatePerKmPerKg.Equal(decimal.NewFromFloat(tt.rate)) {
			t.Errorf("Select(%v).Rate = %s, want %v", tt.distance, band.RatePerKmPerKg, tt.rate)
		}
	}
}

func TestSelect_BoundariesAreHalfOpen(t *testing.T) {
	s := NewSelector()

	below, _ := s.Select(99.999)
	at, _ := s.Select(100.0)
	if below.Mode == at.Mode {
		t.Errorf("100 km boundary should switch modes: below=%s at=%s", below.Mode, at.Mode)
	}
	if at.Mode != "Truck" {
		t.Errorf("exactly 100 km should select Truck, got %s", at.Mode)
	}

	at500, _ := s.Select(500.0)
	if at500.Mode != "Aeroplane" {
		t.Errorf("exactly 500 km should select Aeroplane, got %s", at500.Mode)
	}
}

func TestSelect_NegativeDistance(t *testing.T) {
	s := NewSelector()
	_, err := s.Select(-1)
	if err != ErrNegativeDistance {
		t.Errorf("expected ErrNegativeDistance, got %v", err)
	}
}

func TestSelect_EveryNonNegativeDistanceMatches(t *testing.T) {
	s := NewSelector()
	for _, d := range []float64{0, 0.001, 99.999999, 100, 100.000001, 499.999999, 500, 1e6} {
		if _, err := s.Select(d); err != nil {
			t.Errorf("Select(%v) should match a band, got %v", d, err)
		}
	}
}

func TestNewSelectorWithBands_Extension(t *testing.T) {
	// Adding a short-range Drone band requires no changes to callers.
	bands := []Band{
		{Mode: "Drone", MinKm: 0, MaxKm: 5, RatePerKmPerKg: decimal.NewFromFloat(5.0)},
		{Mode: "Mini Van", MinKm: 5, MaxKm: 100, RatePerKmPerKg: decimal.NewFromFloat(3.0)},
		{Mode: "Truck", MinKm: 100, MaxKm: math.Inf(1), RatePerKmPerKg: decimal.NewFromFloat(2.0)},
	}
	s := NewSelectorWithBands(bands)

	band, err := s.Select(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if band.Mode != "Drone" {
		t.Errorf("expected Drone for 2 km, got %s", band.Mode)
	}

	band, err = s.Select(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if band.Mode != "Mini Van" {
		t.Errorf("half-open boundary: 5 km should select Mini Van, got %s", band.Mode)
	}
}
