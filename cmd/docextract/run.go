package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"docextract/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	var profile, out string

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Extract records from one document into an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			path := args[0]
			if out == "" {
				out = defaultOutput(a.cfg.OutputDir, path)
			}

			req, err := a.request(path, profile, out)
			if err != nil {
				return err
			}
			res, err := a.pipeline.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			if res.ExportErr != nil {
				return fmt.Errorf("export %s: %w", out, res.ExportErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "extraction profile, or auto to detect it (default DEFAULT_PROFILE)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output XLSX path (default OUTPUT_DIR/<name>.xlsx)")
	return cmd
}

// defaultOutput returns outDir/<document name>.xlsx.
func defaultOutput(outDir, path string) string {
	base := filepath.Base(path)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".xlsx")
}

// printResult writes a one-line summary of res.
func printResult(w io.Writer, res *pipeline.Result) {
	_, _ = fmt.Fprintf(w, "%s: %d records (%s) -> %s\n", res.Document, len(res.Records), res.Provenance, res.Output)
}
