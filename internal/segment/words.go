package segment

import (
	"fmt"
	"strings"

	"docextract/internal/extraction"
)

const (
	// DefaultChunkSize is the default number of words per chunk.
	DefaultChunkSize = 500
	// DefaultOverlap is the default number of words shared by consecutive chunks.
	DefaultOverlap = 50
)

// WordSegmenter cuts text into fixed-size word windows.
type WordSegmenter struct {
	Size    int
	Overlap int
}

// Segment implements Segmenter.
func (s WordSegmenter) Segment(text string) ([]Chunk, error) {
	return Words(text, s.Size, s.Overlap)
}

// Words splits text on whitespace into chunks of size words, each sharing
// overlap words with its predecessor. The final chunk may be shorter.
// Empty text yields no chunks and no error.
func Words(text string, size, overlap int) ([]Chunk, error) {
	if err := validateWindow(size, overlap); err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []Chunk{}, nil
	}

	step := size - overlap
	chunks := make([]Chunk, 0, len(words)/step+1)
	for start := 0; ; start += step {
		end := min(start+size, len(words))
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  strings.Join(words[start:end], " "),
		})
		if end == len(words) {
			break
		}
	}
	return chunks, nil
}

func validateWindow(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("chunk size %d must be positive: %w", size, extraction.ErrConfig)
	}
	if overlap < 0 {
		return fmt.Errorf("overlap %d must not be negative: %w", overlap, extraction.ErrConfig)
	}
	if overlap >= size {
		return fmt.Errorf("overlap %d >= chunk size %d: %w", overlap, size, extraction.ErrConfig)
	}
	return nil
}
