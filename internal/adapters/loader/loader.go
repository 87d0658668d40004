// Package loader provides document loading adapters.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

// TextLoader loads UTF-8 text documents (.txt, .md, .markdown) verbatim.
type TextLoader struct {
	titles *TitleExtractor
}

// NewTextLoader creates a new text document loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{titles: NewTitleExtractor()}
}

// Load reads a text document from the given path.
func (l *TextLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s is not valid UTF-8", filepath.Base(path))
	}

	doc := &entities.Document{
		Name:     filepath.Base(path),
		Path:     path,
		Format:   entities.FormatText,
		Content:  string(content),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		LoadedAt: time.Now(),
	}
	if isMarkdown(path) {
		doc.Format = entities.FormatMarkdown
		doc.Title = l.titles.Title(content)
	}
	return doc, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *TextLoader) SupportedExtensions() []string {
	return []string{".md", ".markdown", ".txt"}
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// PDFLoader loads PDF documents through a DocumentParser.
type PDFLoader struct {
	parser ports.DocumentParser
}

// NewPDFLoader creates a PDF loader backed by parser.
func NewPDFLoader(parser ports.DocumentParser) *PDFLoader {
	return &PDFLoader{parser: parser}
}

// Load extracts the text layer of a PDF. A PDF without extractable text is
// an error so that image-only scans are skipped rather than loaded empty.
func (l *PDFLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	parsed, err := l.parser.Parse(ctx, path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return nil, fmt.Errorf("%s has no extractable text", filepath.Base(path))
	}

	return &entities.Document{
		Name:     filepath.Base(path),
		Path:     path,
		Format:   entities.FormatPDF,
		Content:  parsed.Text,
		Title:    parsed.Title,
		Pages:    parsed.Pages,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		LoadedAt: time.Now(),
	}, nil
}

// SupportedExtensions returns file extensions.
func (l *PDFLoader) SupportedExtensions() []string {
	return []string{".pdf"}
}

// MultiLoader dispatches to a loader by file extension.
type MultiLoader struct {
	loaders map[string]ports.DocumentLoader
}

// NewMultiLoader creates a loader for the given extensions. An empty list
// enables every extension the text and PDF loaders support.
func NewMultiLoader(parser ports.DocumentParser, extensions []string) *MultiLoader {
	m := &MultiLoader{loaders: make(map[string]ports.DocumentLoader)}
	all := []ports.DocumentLoader{NewTextLoader(), NewPDFLoader(parser)}

	enabled := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		enabled[NormalizeExtension(ext)] = true
	}
	for _, l := range all {
		for _, ext := range l.SupportedExtensions() {
			if len(enabled) == 0 || enabled[ext] {
				m.loaders[ext] = l
			}
		}
	}
	return m
}

// Load dispatches to the appropriate loader based on extension.
func (m *MultiLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := m.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	return l.Load(ctx, path)
}

// SupportedExtensions returns all enabled extensions, sorted.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.loaders))
	for ext := range m.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// NormalizeExtension lower-cases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
