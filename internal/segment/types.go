package segment

import (
	"fmt"

	"docextract/internal/extraction"
)

// Chunk is a retrieval unit cut from the source text.
type Chunk struct {
	Index int    // Position within the document (starts at 0)
	Text  string // Chunk body
}

// Mode selects the segmentation granularity.
type Mode string

const (
	ModeWords Mode = "words"
	ModeLines Mode = "lines"
)

// Segmenter splits raw document text into chunks.
type Segmenter interface {
	Segment(text string) ([]Chunk, error)
}

// New returns the segmenter for mode.
// size and overlap apply to ModeWords, minLen to ModeLines.
func New(mode Mode, size, overlap, minLen int) (Segmenter, error) {
	switch mode {
	case ModeWords, "":
		if err := validateWindow(size, overlap); err != nil {
			return nil, err
		}
		return WordSegmenter{Size: size, Overlap: overlap}, nil
	case ModeLines:
		if minLen < 0 {
			return nil, fmt.Errorf("min line length %d < 0: %w", minLen, extraction.ErrConfig)
		}
		return LineSegmenter{MinLen: minLen}, nil
	default:
		return nil, fmt.Errorf("unknown segmentation mode %q: %w", mode, extraction.ErrConfig)
	}
}
