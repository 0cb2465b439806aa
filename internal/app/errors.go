package service

import "errors"

// Sentinel kinds for service-level errors.
var (
	ErrTooManySelections = errors.New("too many selections in one estimate call")
)
