package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuild_Shape(t *testing.T) {
	got := Build("Roll 12 Asha Pass", []string{"roll", "name", "status"})

	assert.True(t, strings.HasPrefix(got, DefaultDescription))
	assert.Contains(t, got, `{"roll": "...", "name": "...", "status": "..."}`)
	assert.Contains(t, got, "in this order: roll, name, status.")
	assert.True(t, strings.HasSuffix(got, "Text:\nRoll 12 Asha Pass\n"))
}

func TestBuild_Deterministic(t *testing.T) {
	fields := []string{"LinkedIn", "GitHub"}
	b := Builder{Description: "Extract student details from the text below."}

	first := b.Build("context", fields)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, b.Build("context", fields))
	}
	assert.True(t, strings.HasPrefix(first, "Extract student details from the text below.\n"))
}

func TestBuild_FieldOrderMatters(t *testing.T) {
	a := Build("ctx", []string{"roll", "name"})
	b := Build("ctx", []string{"name", "roll"})
	assert.NotEqual(t, a, b)
}

func TestBuild_TruncatesContext(t *testing.T) {
	ctx := strings.Repeat("é", 100)
	got := Builder{MaxContextRunes: 10}.Build(ctx, []string{"name"})

	assert.Contains(t, got, strings.Repeat("é", 10)+"\n"+truncatedMarker)
	assert.NotContains(t, got, strings.Repeat("é", 11))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "abc", max: 5, want: "abc"},
		{name: "exact", in: "abcde", max: 5, want: "abcde"},
		{name: "cut", in: "abcdef", max: 5, want: "abcde\n" + truncatedMarker},
		{name: "multibyte", in: "日本語テキスト", max: 3, want: "日本語\n" + truncatedMarker},
		{name: "unbounded", in: "abcdef", max: 0, want: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
