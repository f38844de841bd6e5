package main

import (
	"fmt"
	"os"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API extracts tabular records (roll numbers, names, statuses, profile links)
// from PDF, text and markdown documents.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: docextract API
//   description: |
//     Retrieval-augmented record extraction with a deterministic pattern fallback.
//     Results are returned as JSON or as an XLSX workbook.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json
//   - application/vnd.openxmlformats-officedocument.spreadsheetml.sheet

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if _, werr := fmt.Fprintf(os.Stderr, "Error: %v\n", err); werr != nil {
			fmt.Printf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}
