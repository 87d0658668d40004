// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"

	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
)

// CompletionRequest is a single non-streaming completion call.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// CompletionService produces a text completion from a hosted or local model.
type CompletionService interface {
	// Complete returns the first textual choice of the model's reply.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Provider names the backend, e.g. "openai".
	Provider() string

	// Model names the model the service calls.
	Model() string
}

// DocumentLoader reads one file into a document.
type DocumentLoader interface {
	// Load reads and extracts the document at path.
	Load(ctx context.Context, path string) (*entities.Document, error)

	// SupportedExtensions returns lower-case extensions including the dot.
	SupportedExtensions() []string
}

// ParsedDocument is the text layer of a binary document.
type ParsedDocument struct {
	Text  string
	Pages int
	Title string // document info title, if any
}

// DocumentParser extracts text from binary document formats.
type DocumentParser interface {
	// Parse extracts the text layer of the file at path.
	Parse(ctx context.Context, path string) (*ParsedDocument, error)

	// SupportedFormats returns formats this parser handles (e.g. "pdf").
	SupportedFormats() []string
}

// AuditLog persists a record of answered questions.
type AuditLog interface {
	Record(ctx context.Context, entry entities.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]entities.AuditEntry, error)
	Close() error
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
	FileRenamed
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}
