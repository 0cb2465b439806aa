package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for tabular adapter errors.
var (
	ErrParse = errors.New("tabular parse failed")
	ErrWrite = errors.New("tabular write failed")
)

// RowError describes one problem in one row of an imported file.
type RowError struct {
	File    string `json:"file"`
	Row     int    `json:"row"` // 1-based; the header is row 1
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Row, e.Message)
}

// RowErrors is the exhaustive list of row problems found in an import. The
// importer never stops at the first bad row.
type RowErrors []RowError

func (e RowErrors) Error() string {
	msgs := make([]string, len(e))
	for i, re := range e {
		msgs[i] = re.Error()
	}
	return strings.Join(msgs, "\n")
}
