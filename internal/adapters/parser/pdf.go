// Package parser provides document parsing adapters.
// PDFParser implements ports.DocumentParser with ledongthuc/pdf, which
// decodes glyphs through each font's encoding and ToUnicode CMap.
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

// PDFParser extracts the text layer of PDF files.
type PDFParser struct{}

// NewPDFParser creates a PDF parser.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse extracts text page by page. Each page's text is followed by a
// newline; pages without a text layer contribute only the newline.
func (p *PDFParser) Parse(ctx context.Context, path string) (doc *ports.ParsedDocument, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The reader panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("reading PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	defer f.Close()

	pageCount := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(reader.Page(i))
		if err != nil {
			return nil, fmt.Errorf("extracting page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return &ports.ParsedDocument{
		Text:  sb.String(),
		Pages: pageCount,
		Title: documentTitle(reader),
	}, nil
}

func pageText(page pdf.Page) (string, error) {
	if page.V.IsNull() {
		return "", nil
	}
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		font := page.Font(name)
		fonts[name] = &font
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return "", err
	}
	// Unmapped glyph codes decode to U+FFFD.
	text = strings.ReplaceAll(text, "\uFFFD", "")
	return strings.Trim(text, "\n"), nil
}

func documentTitle(reader *pdf.Reader) string {
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	return strings.TrimSpace(info.Key("Title").Text())
}

// SupportedFormats returns formats this parser handles.
func (p *PDFParser) SupportedFormats() []string {
	return []string{"pdf"}
}
