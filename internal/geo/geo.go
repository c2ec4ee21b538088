// Package geo computes great-circle distances between coordinate pairs
// using the haversine formula.
//
// The formula is continuous across the poles and the antimeridian, so no
// special-casing is needed there. Coordinates are validated up front: an
// out-of-range or non-finite latitude/longitude is a domain error, never
// silently clamped.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/tradeflow/shipping-engine/internal/model"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinate is the sentinel wrapped by every coordinate
// validation failure.
var ErrInvalidCoordinate = errors.New("geo: invalid coordinate")

// InvalidCoordinateError identifies which field of which point failed
// validation. Unwraps to ErrInvalidCoordinate.
type InvalidCoordinateError struct {
	Point string  // "a" or "b", or a caller-supplied label
	Field string  // "latitude" or "longitude"
	Value float64 // the offending value
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("geo: invalid coordinate: point %s %s=%v out of range", e.Point, e.Field, e.Value)
}

func (e *InvalidCoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// Validate checks that loc has a finite latitude in [-90, 90] and a finite
// longitude in [-180, 180]. point labels the location in the returned error.
func Validate(point string, loc model.Location) error {
	if math.IsNaN(loc.Latitude) || math.IsInf(loc.Latitude, 0) ||
		loc.Latitude < -90 || loc.Latitude > 90 {
		return &InvalidCoordinateError{Point: point, Field: "latitude", Value: loc.Latitude}
	}
	if math.IsNaN(loc.Longitude) || math.IsInf(loc.Longitude, 0) ||
		loc.Longitude < -180 || loc.Longitude > 180 {
		return &InvalidCoordinateError{Point: point, Field: "longitude", Value: loc.Longitude}
	}
	return nil
}

// Distance returns the great-circle distance in km between a and b:
//
//	h = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlon/2)
//	d = 2R·atan2(√h, √(1−h))
//
// Identical points yield exactly 0. Returns an *InvalidCoordinateError if
// either point fails validation.
func Distance(a, b model.Location) (float64, error) {
	if err := Validate("a", a); err != nil {
		return 0, err
	}
	if err := Validate("b", b); err != nil {
		return 0, err
	}

	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h)), nil
}

// Round rounds v to the given number of decimal places using
// round-half-away-from-zero (shopspring/decimal's Round rule).
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
