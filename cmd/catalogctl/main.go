// Package main provides the catalogctl CLI for offline bulk catalog edits.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scopeworks/estimator/internal/catalogctl"
)

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Convert estimation catalogs between JSON snapshots and TSV",
	Long:          "catalogctl exports a catalog snapshot to spreadsheet-friendly TSV files and imports edited TSV files back into a snapshot, validating every row.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var exportOpts catalogctl.ExportOptions

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a catalog snapshot to roles.tsv and entries.tsv",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return catalogctl.RunExport(cmd.Context(), exportOpts)
	},
}

var importOpts catalogctl.ImportOptions

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import roles.tsv and entries.tsv into a catalog snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return catalogctl.RunImport(cmd.Context(), importOpts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOpts.Input, "input", "", "catalog snapshot JSON file to export")
	exportCmd.Flags().StringVar(&exportOpts.Output, "output", "", "directory receiving the TSV files")
	_ = exportCmd.MarkFlagRequired("input")
	_ = exportCmd.MarkFlagRequired("output")

	importCmd.Flags().StringVar(&importOpts.Roles, "roles", "", "roles TSV file")
	importCmd.Flags().StringVar(&importOpts.Entries, "entries", "", "entries TSV file")
	importCmd.Flags().StringVar(&importOpts.Output, "output", "", "catalog snapshot JSON file to write")
	importCmd.Flags().BoolVar(&importOpts.ValidateOnly, "validate-only", false, "validate the TSV files without writing")
	importCmd.Flags().BoolVar(&importOpts.Force, "force", false, "overwrite the output file if it exists")
	_ = importCmd.MarkFlagRequired("roles")
	_ = importCmd.MarkFlagRequired("entries")

	rootCmd.AddCommand(exportCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
