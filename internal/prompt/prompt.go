// Package prompt renders the extraction prompt sent to the generator.
package prompt

import (
	"strconv"
	"strings"
)

const (
	// DefaultMaxContextRunes bounds the context section of a prompt.
	DefaultMaxContextRunes = 6000
	// DefaultDescription opens the prompt when a profile sets none.
	DefaultDescription = "Extract the records from the text below."

	truncatedMarker = "…(truncated)"
)

// Builder renders extraction prompts. The zero value is ready to use.
type Builder struct {
	// Description is the first line of the prompt, e.g. "Extract student details from the text below."
	Description string
	// MaxContextRunes caps the context length. Zero means DefaultMaxContextRunes.
	MaxContextRunes int
}

// Build renders a prompt with the default builder.
func Build(context string, fields []string) string {
	return Builder{}.Build(context, fields)
}

// Build renders the instruction for fields followed by context.
// The output depends only on the builder settings and the arguments.
func (b Builder) Build(context string, fields []string) string {
	desc := strings.TrimSpace(b.Description)
	if desc == "" {
		desc = DefaultDescription
	}

	var sb strings.Builder
	sb.WriteString(desc)
	sb.WriteString("\n\nReturn ONLY JSON in this exact format:\n[\n  ")
	sb.WriteString(example(fields))
	sb.WriteString("\n]\n\n")
	sb.WriteString("Each object must have exactly these keys, in this order: ")
	sb.WriteString(strings.Join(fields, ", "))
	sb.WriteString(".\n")
	sb.WriteString("Every value is a string. Use \"\" when a value is unknown. Do not add other keys.\n\n")
	sb.WriteString("Text:\n")
	sb.WriteString(Truncate(context, b.maxContext()))
	sb.WriteString("\n")
	return sb.String()
}

func (b Builder) maxContext() int {
	if b.MaxContextRunes > 0 {
		return b.MaxContextRunes
	}
	return DefaultMaxContextRunes
}

// example renders one object of the target shape, e.g. {"roll": "...", "name": "..."}.
func example(fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = strconv.Quote(f) + `: "..."`
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Truncate cuts s to at most limit runes, appending a marker when it cuts.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + "\n" + truncatedMarker
		}
		n++
	}
	return s
}
