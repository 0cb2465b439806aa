package estimate

import "strings"

// Code identifies one class of selection validation failure.
type Code string

// Validation failure codes.
const (
	CodeEmptySelections Code = "EMPTY_SELECTIONS"
	CodeUnknownFeature  Code = "UNKNOWN_FEATURE"
	CodeInvalidSize     Code = "INVALID_SIZE"
	CodeUnknownRole     Code = "UNKNOWN_ROLE"
)

// ValidationError describes one rejected selection detail.
type ValidationError struct {
	Code      Code   `json:"code"`
	FeatureID string `json:"featureId,omitempty"`
	Size      string `json:"size,omitempty"`
	Message   string `json:"message"`
}

// ValidationErrors is the exhaustive list of everything wrong with a
// calculation request. The calculator never fails fast: callers always see
// the complete list.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return "invalid selections: " + strings.Join(msgs, "; ")
}
