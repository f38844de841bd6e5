// Package fallback extracts records from chunks with regular expressions
// when generation yields nothing usable.
package fallback

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"docextract/internal/extraction"
	"docextract/internal/segment"
)

// Pattern extracts one field.
type Pattern struct {
	Field  string
	Regexp *regexp.Regexp
	// Scheme is prefixed to every match that does not already start with it.
	Scheme string
}

// Compile builds patterns for the fields that declare one. Matching is case-insensitive.
func Compile(fields []extraction.Field) ([]Pattern, error) {
	var patterns []Pattern
	for _, f := range fields {
		if f.Pattern == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("field %q pattern: %v: %w", f.Name, err, extraction.ErrConfig)
		}
		patterns = append(patterns, Pattern{Field: f.Name, Regexp: re, Scheme: f.Scheme})
	}
	return patterns, nil
}

// Extract scans every chunk with every pattern and zips the matches into
// records by position: record i holds the i-th match of each field, and
// fields with fewer matches are padded with "". Matches of different fields
// are not paired by proximity, so a document listing a profile without its
// neighbour's counterpart shifts every following row.
//
// It fails with extraction.ErrNoMatch when no pattern matches anything.
func Extract(chunks []segment.Chunk, patterns []Pattern) ([]extraction.Record, error) {
	matches := make([][]string, len(patterns))
	rows := 0
	for i, p := range patterns {
		for _, c := range chunks {
			for _, m := range p.Regexp.FindAllStringSubmatch(c.Text, -1) {
				v := normalize(pick(m))
				if v == "" {
					continue
				}
				matches[i] = append(matches[i], withScheme(v, p.Scheme))
			}
		}
		rows = max(rows, len(matches[i]))
	}

	if rows == 0 {
		return nil, extraction.ErrNoMatch
	}

	records := make([]extraction.Record, rows)
	for r := range records {
		rec := make(extraction.Record, len(patterns))
		for i, p := range patterns {
			if r < len(matches[i]) {
				rec[p.Field] = matches[i][r]
			} else {
				rec[p.Field] = ""
			}
		}
		records[r] = rec
	}
	return records, nil
}

// pick returns the first capture group when the pattern has one. A group
// that took no part in the match yields "".
func pick(m []string) string {
	if len(m) > 1 {
		return m[1]
	}
	return m[0]
}

// normalize removes all whitespace from s.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func withScheme(s, scheme string) string {
	if scheme != "" && !strings.HasPrefix(strings.ToLower(s), strings.ToLower(scheme)) {
		s = scheme + s
	}
	return s
}
