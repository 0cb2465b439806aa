// Package catalogctl implements the offline bulk-edit tool that converts
// catalog snapshots to and from the tabular TSV layout.
package catalogctl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scopeworks/estimator/internal/adapters/tabular"
	"github.com/scopeworks/estimator/internal/domain/model"
)

// Exported file names within the output directory.
const (
	RolesFileName   = "roles.tsv"
	EntriesFileName = "entries.tsv"

	outFilePerm = 0o644
	outDirPerm  = 0o755
)

// ExportOptions configures one export run.
type ExportOptions struct {
	// Input is the path of the catalog snapshot JSON file to export.
	Input string
	// Output is the directory receiving roles.tsv and entries.tsv.
	Output string
}

// RunExport converts a snapshot file into the two TSV files. Output is
// deterministic, so re-exporting unchanged data is diff-clean.
func RunExport(_ context.Context, opts ExportOptions) error {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var snap model.CatalogSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse catalog %s: %w", opts.Input, err)
	}

	if err := os.MkdirAll(opts.Output, outDirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rolesPath := filepath.Join(opts.Output, RolesFileName)
	rolesFile, err := os.OpenFile(rolesPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outFilePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", rolesPath, err)
	}
	defer rolesFile.Close()
	if err := tabular.WriteRoles(rolesFile, snap.Roles); err != nil {
		return fmt.Errorf("write %s: %w", rolesPath, err)
	}

	entriesPath := filepath.Join(opts.Output, EntriesFileName)
	entriesFile, err := os.OpenFile(entriesPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outFilePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", entriesPath, err)
	}
	defer entriesFile.Close()
	if err := tabular.WriteEntries(entriesFile, &snap); err != nil {
		return fmt.Errorf("write %s: %w", entriesPath, err)
	}

	fmt.Fprintf(os.Stdout, "exported %d roles and %d entries to %s\n",
		len(snap.Roles), len(snap.Entries), opts.Output)
	return nil
}
