// Package assemble normalizes records into the fixed table written by exporters.
package assemble

import (
	"docextract/internal/extraction"
)

// Table is the exported tabular form of a record set.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Options tunes Assemble.
type Options struct {
	// AllowEmpty returns a header-only table for zero records instead of failing.
	AllowEmpty bool
}

// Assemble lays records out in schema order. Columns are the schema headers;
// each row holds exactly the schema fields with missing values as "".
// Zero records fail with extraction.ErrEmptySet.
func Assemble(records []extraction.Record, schema extraction.Schema) (*Table, error) {
	return AssembleWith(records, schema, Options{})
}

// AssembleWith is Assemble with options.
func AssembleWith(records []extraction.Record, schema extraction.Schema, opts Options) (*Table, error) {
	if len(records) == 0 && !opts.AllowEmpty {
		return nil, extraction.ErrEmptySet
	}

	names := schema.Names()
	t := &Table{
		Columns: schema.Headers(),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = r[name]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Records returns the rows of t keyed by field name.
func (t *Table) Records(schema extraction.Schema) []extraction.Record {
	names := schema.Names()
	out := make([]extraction.Record, len(t.Rows))
	for i, row := range t.Rows {
		r := make(extraction.Record, len(names))
		for j, name := range names {
			if j < len(row) {
				r[name] = row[j]
			} else {
				r[name] = ""
			}
		}
		out[i] = r
	}
	return out
}
