package growth

import (
	"fmt"
	"math"
)

// InvalidParameterError names the input that is non-positive, non-finite or
// out of range. Reason is empty for the first two.
type InvalidParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: must be a positive finite number", e.Field, e.Value)
}

func requirePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InvalidParameterError{Field: field, Value: v}
	}
	return nil
}

func requireHorizon(years float64) error {
	if err := requirePositive(FieldYears, years); err != nil {
		return err
	}
	if years > MaxYears {
		return &InvalidParameterError{Field: FieldYears, Value: years, Reason: fmt.Sprintf("must be at most %d", MaxYears)}
	}
	return nil
}
