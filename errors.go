package micromap

import (
	"errors"
	"fmt"
)

// Error definitions for capacity handling
var (
	ErrCapacityExceeded = errors.New("micromap: capacity exceeded")
)

// CapacityError reports a bulk insert that would overflow the single slot.
// It wraps ErrCapacityExceeded so callers can match with errors.Is.
type CapacityError struct {
	Attempted int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("micromap: capacity exceeded, cannot add %d entries", e.Attempted)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
