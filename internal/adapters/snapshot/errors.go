package snapshot

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound = errors.New("catalog snapshot not found")
	ErrParse    = errors.New("catalog snapshot malformed")
	ErrWrite    = errors.New("catalog snapshot write failed")
)
