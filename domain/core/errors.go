package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors: fatal, raised before any per-row processing
	ErrMissingField  = errors.New("metadata field not found")
	ErrUnknownSample = errors.New("sample id not found in table")
	ErrUnknownTest   = errors.New("unknown test name")

	// Data-shape errors: fatal, invalidate every row
	ErrNonNumericGradient = errors.New("gradient values could not be converted to float")
	ErrLengthMismatch     = errors.New("paired sample lists differ in length")
	ErrEmptyTable         = errors.New("table has no features")
)

// Error constructors with context
func NewMissingFieldError(field string) error {
	return fmt.Errorf("%w: %q", ErrMissingField, field)
}

func NewUnknownSampleError(sample SampleID) error {
	return fmt.Errorf("%w: %q", ErrUnknownSample, sample)
}

func NewUnknownTestError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownTest, name)
}

func NewGradientError(sample SampleID, raw string) error {
	return fmt.Errorf("%w: sample %q has value %q", ErrNonNumericGradient, sample, raw)
}

func NewLengthMismatchError(before, after int) error {
	return fmt.Errorf("%w: %d before vs %d after", ErrLengthMismatch, before, after)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrUnknownSample) ||
		errors.Is(err, ErrUnknownTest)
}

func IsDataShapeError(err error) bool {
	return errors.Is(err, ErrNonNumericGradient) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrEmptyTable)
}
