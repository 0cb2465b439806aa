package sizing

import "errors"

// Sentinel kinds for sizing errors.
var (
	ErrUnknownSize = errors.New("unknown size")
)
