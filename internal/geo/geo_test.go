package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/tradeflow/shipping-engine/internal/model"
)

func loc(lat, lon float64) model.Location {
	return model.Location{Latitude: lat, Longitude: lon}
}

// --- Validation tests ---

func TestValidate_InRange(t *testing.T) {
	tests := []struct {
		name string
		l    model.Location
	}{
		{"origin", loc(0, 0)},
		{"north pole", loc(90, 0)},
		{"south pole", loc(-90, 0)},
		{"antimeridian east", loc(0, 180)},
		{"antimeridian west", loc(0, -180)},
		{"delhi", loc(28.6139, 77.2090)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate("a", tt.l); err != nil {
				t.Errorf("expected valid, got %v", err)
			}
		})
	}
}

func TestValidate_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		l     model.Location
		field string
	}{
		{"lat too high", loc(90.01, 0), "latitude"},
		{"lat too low", loc(-91, 0), "latitude"},
		{"lon too high", loc(0, 180.5), "longitude"},
		{"lon too low", loc(0, -181), "longitude"},
		{"lat NaN", loc(math.NaN(), 0), "latitude"},
		{"lon NaN", loc(0, math.NaN()), "longitude"},
		{"lat +Inf", loc(math.Inf(1), 0), "latitude"},
		{"lon -Inf", loc(0, math.Inf(-1)), "longitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("b", tt.l)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("error should unwrap to ErrInvalidCoordinate: %v", err)
			}
			var ice *InvalidCoordinateError
			if !errors.As(err, &ice) {
				t.Fatalf("expected *InvalidCoordinateError, got %T", err)
			}
			if ice.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ice.Field)
			}
			if ice.Point != "b" {
				t.Errorf("expected point b, got %s", ice.Point)
			}
		})
	}
}

// --- Distance tests ---

func TestDistance_IdenticalPoints(t *testing.T) {
	p := loc(28.6139, 77.2090)
	d, err := Distance(p, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 0 {
		t.Errorf("identical points should yield 0, got %v", d)
	}
}

func TestDistance_DelhiMumbai(t *testing.T) {
	delhi := loc(28.6139, 77.2090)
	mumbai := loc(19.0760, 72.8777)

	d, err := Distance(delhi, mumbai)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d-1155) > 5 {
		t.Errorf("Delhi–Mumbai should be ≈1155 km, got %v", d)
	}
}

func TestDistance_Symmetry(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Location
	}{
		{"delhi-mumbai", loc(28.6139, 77.2090), loc(19.0760, 72.8777)},
		{"cross equator", loc(-33.8688, 151.2093), loc(35.6762, 139.6503)},
		{"cross antimeridian", loc(0, 179.5), loc(0, -179.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab, err := Distance(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ba, err := Distance(tt.b, tt.a)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("distance should be symmetric: ab=%v ba=%v", ab, ba)
			}
		})
	}
}

func TestDistance_Antimeridian(t *testing.T) {
	// One degree of longitude across the date line at the equator,
	// ≈ 111.19 km, same as anywhere else on the equator.
	across, err := Distance(loc(0, 179.5), loc(0, -179.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plain, err := Distance(loc(0, 0), loc(0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(across-plain) > 0.001 {
		t.Errorf("antimeridian crossing should match plain 1° span: %v vs %v", across, plain)
	}
}

func TestDistance_PoleToPole(t *testing.T) {
	d, err := Distance(loc(90, 0), loc(-90, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Half the Earth's circumference: π·R.
	want := math.Pi * EarthRadiusKm
	if math.Abs(d-want) > 0.001 {
		t.Errorf("pole-to-pole should be π·R=%v, got %v", want, d)
	}
}

func TestDistance_InvalidInputRejected(t *testing.T) {
	_, err := Distance(loc(91, 0), loc(0, 0))
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}

	_, err = Distance(loc(0, 0), loc(0, 181))
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

// --- Rounding tests (pin the half-away-from-zero rule) ---

func TestRound_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in     float64
		places int32
		want   float64
	}{
		{2.345, 2, 2.35},
		{2.344, 2, 2.34},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{-2.345, 2, -2.35},
		{1155.1234, 2, 1155.12},
		{0.005, 2, 0.01},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}
