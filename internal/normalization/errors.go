package normalization

import "errors"

// ErrInvalidInput is returned when a decision or return row carries a date
// that cannot be parsed. This is the only condition that aborts attribution
// for a ticker; malformed upstream data must surface, not be skipped.
var ErrInvalidInput = errors.New("invalid input")
