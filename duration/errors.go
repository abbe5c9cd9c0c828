package duration

import (
	"errors"
	"fmt"
)

var (
	// ErrNegative is returned for numeric input below zero.
	ErrNegative = errors.New("negative duration not allowed")
	// ErrNotFinite is returned for NaN or infinite floating point input.
	ErrNotFinite = errors.New("non-finite float")
	// ErrOverflow is returned when a value leaves the representable range.
	ErrOverflow = errors.New("duration overflow")
	// ErrEmpty is returned for strings without any number/unit pair.
	ErrEmpty = errors.New("empty duration string")
	// ErrTooLarge is returned when a formatted value does not fit the
	// requested output width.
	ErrTooLarge = errors.New("duration too large")
	// ErrInvalidType is returned for input values of an unsupported type.
	ErrInvalidType = errors.New("invalid type: expected integer seconds, float seconds.millis, " +
		"or a string like '1h 23m 45s' / '123s' / '250ms'")
	// ErrExpectedNumber is wrapped by a SyntaxError when a duration string
	// has something other than digits where a number must start.
	ErrExpectedNumber = errors.New("expected number")
	// ErrExpectedUnit is wrapped by a SyntaxError when a number is not
	// followed by a unit.
	ErrExpectedUnit = errors.New("expected unit after number")
	// ErrUnknownUnit is wrapped by a SyntaxError when a unit is not one of
	// d, h, m, s or ms.
	ErrUnknownUnit = errors.New("unknown unit")
)

// SyntaxError describes a malformed duration string.
type SyntaxError struct {
	Offset int    // byte offset of the error in the input
	Unit   string // offending unit text, set for ErrUnknownUnit
	Err    error  // one of ErrExpectedNumber, ErrExpectedUnit, ErrUnknownUnit
}

func (e *SyntaxError) Error() string {
	if errors.Is(e.Err, ErrUnknownUnit) {
		return fmt.Sprintf("unknown unit '%s' (use d, h, m, s, ms)", e.Unit)
	}
	return fmt.Sprintf("%v at position %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
