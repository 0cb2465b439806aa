package catalogctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/scopeworks/estimator/internal/adapters/tabular"
)

// ImportOptions configures one import run.
type ImportOptions struct {
	// Roles and Entries are the TSV input paths.
	Roles   string
	Entries string
	// Output is the catalog snapshot JSON file to write.
	Output string
	// ValidateOnly parses and validates without writing anything.
	ValidateOnly bool
	// Force allows overwriting an existing output file.
	Force bool
}

// RunImport parses the TSV pair into a snapshot and writes it as a catalog
// JSON file. Every row-level problem is reported before the run fails; a
// single bad row never hides the rest.
func RunImport(_ context.Context, opts ImportOptions) error {
	if !opts.ValidateOnly && opts.Output == "" {
		return errors.New("--output is required unless --validate-only is set")
	}

	rolesFile, err := os.Open(opts.Roles)
	if err != nil {
		return fmt.Errorf("open roles file: %w", err)
	}
	defer rolesFile.Close()

	entriesFile, err := os.Open(opts.Entries)
	if err != nil {
		return fmt.Errorf("open entries file: %w", err)
	}
	defer entriesFile.Close()

	snap, err := tabular.ReadCatalog(
		filepath.Base(opts.Roles), rolesFile,
		filepath.Base(opts.Entries), entriesFile,
	)
	if err != nil {
		var rowErrs tabular.RowErrors
		if errors.As(err, &rowErrs) {
			for _, re := range rowErrs {
				fmt.Fprintln(os.Stderr, re.Error())
			}
			return fmt.Errorf("import failed with %d validation error(s)", len(rowErrs))
		}
		return err
	}

	// Entries reference roles across the two files; the importer validated
	// that, so referential integrity holds before anything is written.
	if opts.ValidateOnly {
		fmt.Fprintf(os.Stdout, "validated %d roles and %d entries\n",
			len(snap.Roles), len(snap.Entries))
		return nil
	}

	if !opts.Force {
		if _, err := os.Stat(opts.Output); err == nil {
			return fmt.Errorf("output file %s already exists (use --force to overwrite)", opts.Output)
		}
	}

	snap.Timestamp = time.Now().UTC().Truncate(time.Second)
	snap.Version = uuid.NewString()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(opts.Output, data, outFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", opts.Output, err)
	}

	fmt.Fprintf(os.Stdout, "imported %d roles and %d entries into %s\n",
		len(snap.Roles), len(snap.Entries), opts.Output)
	return nil
}
