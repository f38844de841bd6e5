package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"docextract/internal/extraction"
	"docextract/internal/inbox"
	"docextract/internal/pipeline"
)

func newBatchCmd() *cobra.Command {
	var profile, outDir string

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Extract records from every document in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if outDir == "" {
				outDir = a.cfg.OutputDir
			}

			ctx := cmd.Context()
			files, err := inbox.Scan(ctx, args[0])
			if err != nil {
				return err
			}
			slog.Info("inbox scanned", "dir", args[0], "documents", len(files))

			reqs := make([]pipeline.Request, 0, len(files))
			for _, f := range files {
				req, err := a.request(f.AbsPath, profile, inbox.OutputPath(outDir, f))
				if err != nil {
					return err
				}
				req.Document = f.RelPath
				reqs = append(reqs, req)
			}

			results := a.pipeline.Batch(ctx, reqs, a.cfg.BatchConcurrency)
			if failed := printBatch(cmd.OutOrStdout(), results); failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "extraction profile, or auto to detect it (default DEFAULT_PROFILE)")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (default OUTPUT_DIR)")
	return cmd
}

// printBatch writes one line per document and returns the number of failures.
// A document whose records could not be exported counts as failed.
func printBatch(w io.Writer, results []pipeline.BatchResult) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			_, _ = fmt.Fprintf(w, "%s: failed (%s): %v\n", r.Document, extraction.KindOf(r.Err), r.Err)
		case r.Result.ExportErr != nil:
			failed++
			_, _ = fmt.Fprintf(w, "%s: %d records, export failed: %v\n", r.Document, len(r.Result.Records), r.Result.ExportErr)
		default:
			printResult(w, r.Result)
		}
	}
	return failed
}
