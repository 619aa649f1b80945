package opt

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError describes the first malformed element found in an input.
type ValidationError struct {
	Field  string // "start", "end", "weight", "value", "capacity"
	Index  int    // position in the caller's slice, -1 for scalar arguments
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s at index %d (id %q): %s", e.Field, e.Index, e.ID, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ValidateIntervals rejects non-finite bounds and windows with start > end.
func ValidateIntervals(ivs []Interval) error {
	for i, iv := range ivs {
		if !finite(iv.Start) {
			return &ValidationError{Field: "start", Index: i, ID: iv.ID, Reason: "must be a finite number"}
		}
		if !finite(iv.End) {
			return &ValidationError{Field: "end", Index: i, ID: iv.ID, Reason: "must be a finite number"}
		}
		if iv.Start > iv.End {
			return &ValidationError{Field: "start", Index: i, ID: iv.ID, Reason: fmt.Sprintf("start %g is after end %g", iv.Start, iv.End)}
		}
	}
	return nil
}

// ValidateItems rejects non-positive or non-finite weights, non-finite values
// and a NaN capacity. A capacity <= 0 is valid and yields an empty load.
func ValidateItems(items []WeightedItem, capacity float64) error {
	if math.IsNaN(capacity) {
		return &ValidationError{Field: "capacity", Index: -1, Reason: "must be a number"}
	}
	for i, it := range items {
		if !finite(it.Weight) || it.Weight <= 0 {
			return &ValidationError{Field: "weight", Index: i, ID: it.ID, Reason: "must be a finite number > 0"}
		}
		if !finite(it.Value) {
			return &ValidationError{Field: "value", Index: i, ID: it.ID, Reason: "must be a finite number"}
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
