package loader

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownToText flattens markdown to plain text by walking the parsed AST
// and collecting text content. Block boundaries become blank lines so the
// chunker's paragraph separators keep working; inline markup is dropped.
func markdownToText(src string) (string, error) {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var buf strings.Builder

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}

		case *ast.CodeSpan:
			if entering {
				for c := node.FirstChild(); c != nil; c = c.NextSibling() {
					if t, ok := c.(*ast.Text); ok {
						buf.Write(t.Segment.Value(source))
					}
				}
				return ast.WalkSkipChildren, nil
			}

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(source))
				}
				buf.WriteString("\n")
			}

		case *ast.Heading, *ast.Paragraph, *ast.Blockquote:
			if !entering {
				buf.WriteString("\n\n")
			}

		case *ast.ListItem:
			if !entering {
				buf.WriteString("\n")
			}

		case *ast.List:
			if !entering {
				buf.WriteString("\n")
			}

		case *ast.ThematicBreak:
			if entering {
				buf.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	return collapseBlankLines(buf.String()), nil
}

// collapseBlankLines trims trailing whitespace and squeezes runs of more
// than one blank line down to a single blank line.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blank = 0
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
