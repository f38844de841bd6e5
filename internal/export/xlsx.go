// Package export writes assembled tables to spreadsheet files.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"docextract/internal/assemble"
	"docextract/internal/contextutil"
)

// DefaultSheet is the name of the single worksheet written.
const DefaultSheet = "Sheet1"

// XLSXExporter writes a table as a one-sheet workbook: a header row of
// column names followed by one row per record.
type XLSXExporter struct {
	Sheet string
}

// NewXLSXExporter creates an exporter writing to sheet (DefaultSheet if empty).
func NewXLSXExporter(sheet string) *XLSXExporter {
	return &XLSXExporter{Sheet: sheet}
}

// Write saves t to dest, creating parent directories.
func (e *XLSXExporter) Write(ctx context.Context, t *assemble.Table, dest string) error {
	start := time.Now()

	f, err := e.workbook(t)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := f.SaveAs(dest); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "xlsx written",
		"path", dest,
		"rows", len(t.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Render streams the workbook for t to w.
func (e *XLSXExporter) Render(w io.Writer, t *assemble.Table) error {
	f, err := e.workbook(t)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func (e *XLSXExporter) sheet() string {
	if e.Sheet != "" {
		return e.Sheet
	}
	return DefaultSheet
}

func (e *XLSXExporter) workbook(t *assemble.Table) (*excelize.File, error) {
	if t == nil {
		return nil, fmt.Errorf("nil table")
	}

	f := excelize.NewFile()
	sheet := e.sheet()
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	write := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		vals := make([]any, len(values))
		for i, v := range values {
			vals[i] = v
		}
		return f.SetSheetRow(sheet, cell, &vals)
	}

	if err := write(1, t.Columns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := write(i+2, row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if n := len(t.Columns); n > 0 {
		last, _ := excelize.ColumnNumberToName(n)
		_ = f.SetColWidth(sheet, "A", last, 24)
	}
	return f, nil
}
