package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownSource reads a markdown file as one page of plain text.
// Block elements and table rows each start a new line; markup is dropped.
type MarkdownSource struct {
	Path   string
	parser goldmark.Markdown
}

// NewMarkdownSource creates a source for the markdown file at path.
func NewMarkdownSource(path string) *MarkdownSource {
	return &MarkdownSource{
		Path: path,
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Pages returns the plain text of the document as a single page.
func (s *MarkdownSource) Pages(context.Context) ([]string, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return []string{}, nil
	}
	return []string{PlainText(s.parser, content)}, nil
}

// PlainText renders markdown content as plain text.
func PlainText(md goldmark.Markdown, content []byte) string {
	doc := md.Parser().Parse(text.NewReader(content))

	var b strings.Builder
	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteString("\n")
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				newline()
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *east.TableHeader, *east.TableRow:
			newline()
			b.WriteString(tableRowText(node, content))
			newline()
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			b.Write(node.Segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}

		case *ast.String:
			b.Write(node.Value)

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			newline()
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.Write(line.Value(content))
			}
			return ast.WalkSkipChildren, nil

		default:
			if n.Type() == ast.TypeBlock {
				newline()
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// tableRowText joins the cell texts of a table row with " | ".
func tableRowText(row ast.Node, content []byte) string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); !ok {
			continue
		}
		cells = append(cells, strings.TrimSpace(inlineText(c, content)))
	}
	return strings.Join(cells, " | ")
}

func inlineText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
