package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrLayerNotFound = fmt.Errorf("%w: layer", ErrNotFound)
	ErrFieldNotFound = fmt.Errorf("%w: field", ErrNotFound)

	// Analysis errors
	ErrShapeUnavailable = errors.New("distribution shape capability unavailable")
)

// Error constructors with context
func NewFieldNotFoundError(field string) error {
	return fmt.Errorf("%w %q", ErrFieldNotFound, field)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
