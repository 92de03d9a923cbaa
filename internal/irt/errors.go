package irt

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check: errors.Is(err, irt.ErrInvalidParameter)
var (
	ErrInvalidParameter = errors.New("irt: invalid parameter")
	ErrNonFinite        = errors.New("irt: non-finite value")
)

// ValidationError reports malformed input: a non-finite number, an
// out-of-range parameter or a bad history entry. Index is the offending
// position in a response history, or -1 when not applicable.
type ValidationError struct {
	Field  string
	Index  int
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("validation: history[%d].%s = %v: %s", e.Index, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("validation: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidParameter }

// ComputationError reports a calculation that produced NaN or Inf from
// otherwise valid input.
type ComputationError struct {
	Op    string
	Value float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation: %s produced %v", e.Op, e.Value)
}

func (e *ComputationError) Unwrap() error { return ErrNonFinite }

func invalid(field string, value float64, reason string) *ValidationError {
	return &ValidationError{Field: field, Index: -1, Value: value, Reason: reason}
}
