package segment

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinLineLength drops short noise lines (page numbers, stray marks).
const DefaultMinLineLength = 5

// LineSegmenter emits one chunk per sufficiently long line.
type LineSegmenter struct {
	MinLen int
}

// Segment implements Segmenter.
func (s LineSegmenter) Segment(text string) ([]Chunk, error) {
	return Lines(text, s.MinLen), nil
}

// Lines splits text into trimmed lines, dropping any line whose trimmed
// length in runes is <= minLen.
func Lines(text string, minLen int) []Chunk {
	chunks := []Chunk{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= minLen {
			continue
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Text: line})
	}
	return chunks
}
