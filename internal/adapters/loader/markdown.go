package loader

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TitleExtractor finds the first heading of a markdown document.
type TitleExtractor struct {
	md goldmark.Markdown
}

// NewTitleExtractor creates a title extractor with the default parser.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{md: goldmark.New()}
}

// Title returns the text of the highest-level heading that appears first,
// or "" if the document has no headings.
func (e *TitleExtractor) Title(source []byte) string {
	doc := e.md.Parser().Parse(text.NewReader(source))

	var best *ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if best == nil || h.Level < best.Level {
			best = h
		}
		return ast.WalkSkipChildren, nil
	})
	if best == nil {
		return ""
	}
	return headingText(best, source)
}

func headingText(h *ast.Heading, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return string(bytes.TrimSpace(buf.Bytes()))
}
