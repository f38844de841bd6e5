package pipeline

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"docextract/internal/segment"
)

// TokensPerRune is an approximation for token counting (4 chars per token).
const TokensPerRune = 4.0

// ChunkStats describes the segmentation of one document.
type ChunkStats struct {
	// Pages is the number of pages returned by the text source.
	Pages int `json:"pages"`
	// BlankPages is the number of pages with no text.
	BlankPages int `json:"blank_pages"`
	// Chunks is the number of chunks embedded into the index.
	Chunks int `json:"chunks"`
	// ContextChunks is the number of chunks retrieved as context.
	ContextChunks int `json:"context_chunks"`
	// ContextRunes is the length of the retrieved context before prompt truncation.
	ContextRunes int `json:"context_runes"`
	// Tokens contains statistics about estimated token counts per chunk.
	Tokens TokenStats `json:"tokens"`
}

// TokenStats contains statistics about token counts in chunks.
type TokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// pageStats counts pages and blank pages.
func pageStats(pages []string) ChunkStats {
	st := ChunkStats{Pages: len(pages)}
	for _, p := range pages {
		if strings.TrimSpace(p) == "" {
			st.BlankPages++
		}
	}
	return st
}

// estimateTokens estimates the token count of text from its rune count.
func estimateTokens(text string) int {
	n := int(math.Round(float64(utf8.RuneCountInString(text)) / TokensPerRune))
	if n < 1 {
		return 1
	}
	return n
}

// chunkTokenStats computes token statistics over chunks.
func chunkTokenStats(chunks []segment.Chunk) TokenStats {
	counts := make([]int, 0, len(chunks))
	for _, c := range chunks {
		counts = append(counts, estimateTokens(c.Text))
	}
	return computeTokenStats(counts)
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) TokenStats {
	if len(tokenCounts) == 0 {
		return TokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return TokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
