package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// SettlementError wraps any unexpected failure inside an atomic settlement
// unit. The unit is rolled back in full, so retrying is safe.
type SettlementError struct {
	Cause error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed: %v", e.Cause)
}

func (e *SettlementError) Unwrap() error {
	return e.Cause
}

func wrapNotFound(kind string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
}
