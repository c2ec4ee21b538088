package shipping

import (
	"errors"
	"fmt"
)

// ErrNoActiveWarehouses is returned when the active-warehouse set is
// empty. Distinct from not-found: it signals a system-configuration
// problem, not a bad request.
var ErrNoActiveWarehouses = errors.New("shipping: no active warehouses available")

// ResourceNotFoundError reports a referenced seller, customer, warehouse,
// product, or delivery speed config that does not exist.
type ResourceNotFoundError struct {
	Resource string
	ID       string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("shipping: %s %s not found", e.Resource, e.ID)
}

// UnsupportedLocationError reports an entity whose coordinates exist but
// are outside the serviceable range. Distinct from not-found so callers
// can message "we don't deliver there" rather than "that ID doesn't exist".
type UnsupportedLocationError struct {
	Resource string
	ID       string
	Cause    error
}

func (e *UnsupportedLocationError) Error() string {
	return fmt.Sprintf("shipping: %s %s has unsupported location: %v", e.Resource, e.ID, e.Cause)
}

func (e *UnsupportedLocationError) Unwrap() error { return e.Cause }
