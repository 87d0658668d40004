// Package entities contains core business entities.
// These are pure domain objects with no external dependencies.
package entities

import "time"

// Format is the kind of source file a document was extracted from.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatPDF      Format = "pdf"
)

// NoDocumentsAnswer is returned verbatim when nothing is loaded.
const NoDocumentsAnswer = "No documents are available to answer your query."

// UnknownSource is reported when an answer was produced without loaded files.
const UnknownSource = "N/A"

// Document is one successfully loaded source file.
type Document struct {
	Name     string // base filename, unique within a snapshot
	Path     string
	Format   Format
	Content  string
	Title    string // first markdown heading or PDF info title
	Pages    int    // PDF page count, 0 for text formats
	Size     int64
	ModTime  time.Time
	LoadedAt time.Time
}

// Info returns the listing view of the document.
func (d Document) Info() DocumentInfo {
	return DocumentInfo{
		Name:    d.Name,
		Format:  d.Format,
		Title:   d.Title,
		Pages:   d.Pages,
		Size:    d.Size,
		ModTime: d.ModTime,
	}
}

// DocumentInfo is document metadata without its content.
type DocumentInfo struct {
	Name    string    `json:"name"`
	Format  Format    `json:"format"`
	Title   string    `json:"title,omitempty"`
	Pages   int       `json:"pages,omitempty"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// Snapshot is an immutable, ordered set of loaded documents.
// The document order is both the context order and the source order.
type Snapshot struct {
	docs     []Document
	names    []string
	loadedAt time.Time
}

// NewSnapshot builds a snapshot from documents in load order.
// A later document with an already-seen name replaces the earlier content
// but keeps the earlier position.
func NewSnapshot(docs []Document, loadedAt time.Time) *Snapshot {
	s := &Snapshot{loadedAt: loadedAt}
	index := make(map[string]int, len(docs))
	for _, d := range docs {
		if i, ok := index[d.Name]; ok {
			s.docs[i] = d
			continue
		}
		index[d.Name] = len(s.docs)
		s.docs = append(s.docs, d)
		s.names = append(s.names, d.Name)
	}
	return s
}

// EmptySnapshot returns a snapshot with no documents.
func EmptySnapshot() *Snapshot {
	return &Snapshot{}
}

// Len returns the number of documents.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}

// Empty reports whether the snapshot holds no documents.
func (s *Snapshot) Empty() bool {
	return s.Len() == 0
}

// Documents returns a copy of the documents in order.
func (s *Snapshot) Documents() []Document {
	if s == nil {
		return nil
	}
	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Names returns a copy of the loaded file list in order.
func (s *Snapshot) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}

// AnswerResult is the outcome of a question. Sources is nil when no
// documents were available.
type AnswerResult struct {
	Text    string
	Sources []string
}

// AuditEntry records one answered question.
type AuditEntry struct {
	ID        int64
	RequestID string
	Query     string // empty unless query logging is enabled
	Answer    string
	Sources   []string
	Provider  string
	Model     string
	Success   bool
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}
