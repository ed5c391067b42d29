package contracts

import (
	"errors"
	"fmt"
)

// Per-event outcomes. They never abort the remaining events.
var (
	ErrEventNotFound     = errors.New("event date not found in series")
	ErrWindowOutOfBounds = errors.New("event window out of bounds")
	ErrTestNotComputable = errors.New("test not computable")
	ErrInvalidHalfWidth  = errors.New("window half width must be >= 1")
)

// DataFormatError reports malformed price input.
// Fatal for the asset's pipeline only.
type DataFormatError struct {
	Symbol string
	Field  string
	Row    int // -1 when not row specific
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("data format error [%s] %s (row %d): %s", e.Symbol, e.Field, e.Row, e.Reason)
	}
	return fmt.Sprintf("data format error [%s] %s: %s", e.Symbol, e.Field, e.Reason)
}

// NewDataFormatError builds a DataFormatError that is not tied to a row
func NewDataFormatError(symbol, field, reason string) *DataFormatError {
	return &DataFormatError{Symbol: symbol, Field: field, Row: -1, Reason: reason}
}

// IsDataFormatError reports whether err wraps a DataFormatError
func IsDataFormatError(err error) bool {
	var dfe *DataFormatError
	return errors.As(err, &dfe)
}

// OutcomeReason maps an error to a short, stable reason code for reports
func OutcomeReason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, ErrWindowOutOfBounds):
		return "window_out_of_bounds"
	case errors.Is(err, ErrTestNotComputable):
		return "test_not_computable"
	case errors.Is(err, ErrInvalidHalfWidth):
		return "invalid_half_width"
	case IsDataFormatError(err):
		return "data_format_error"
	default:
		return "error"
	}
}
