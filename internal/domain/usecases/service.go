package usecases

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

const auditWriteTimeout = 5 * time.Second

// ServiceConfig configures the DocumentService.
type ServiceConfig struct {
	DocsPath string

	// LogQueries stores question text in the audit log.
	LogQueries bool
}

// DocumentService owns the loaded corpus and answers questions against it.
//
// The corpus is an immutable snapshot behind an atomic pointer: Refresh
// builds a new snapshot off to the side and swaps it in, and each Answer
// reads the pointer exactly once, so a reader never sees parts of two
// different loads. Refresh calls are serialized.
type DocumentService struct {
	cfg    ServiceConfig
	ingest *IngestUseCase
	query  *QueryUseCase
	audit  ports.AuditLog
	logger arbor.ILogger

	snapshot  atomic.Pointer[entities.Snapshot]
	refreshMu sync.Mutex
}

// NewDocumentService wires the service. It performs no I/O; call Initialize
// before serving. audit may be nil.
func NewDocumentService(cfg ServiceConfig, ingest *IngestUseCase, query *QueryUseCase, audit ports.AuditLog, logger arbor.ILogger) *DocumentService {
	s := &DocumentService{
		cfg:    cfg,
		ingest: ingest,
		query:  query,
		audit:  audit,
		logger: logger,
	}
	s.snapshot.Store(entities.EmptySnapshot())
	return s
}

// Initialize performs the first load.
func (s *DocumentService) Initialize(ctx context.Context) error {
	s.logger.Info().Str("dir", s.cfg.DocsPath).Msg("Loading documents")
	return s.Refresh(ctx)
}

// Refresh reloads the documents directory and publishes the result. On
// failure the previous snapshot stays in place.
func (s *DocumentService) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snap, err := s.ingest.LoadDirectory(ctx, s.cfg.DocsPath)
	if err != nil {
		s.logger.Error().Err(err).Str("dir", s.cfg.DocsPath).Msg("Document refresh failed, keeping previous documents")
		return err
	}

	s.snapshot.Store(snap)
	if snap.Empty() {
		s.logger.Warn().Str("dir", s.cfg.DocsPath).Msg("No documents found or loaded")
	} else {
		s.logger.Info().Strs("files", snap.Names()).Msg("Documents published")
	}
	return nil
}

// Answer answers query from the current snapshot. A blank query is an
// INVALID_INPUT error. With no documents loaded the fixed no-documents
// answer is returned without calling the completion service.
func (s *DocumentService) Answer(ctx context.Context, query string) (*entities.AnswerResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.InvalidInput("query must not be empty")
	}

	snap := s.snapshot.Load()
	if snap.Empty() {
		return &entities.AnswerResult{Text: entities.NoDocumentsAnswer}, nil
	}

	start := time.Now()
	text, err := s.query.Answer(ctx, AssembleContext(snap), query)

	sources := snap.Names()
	if len(sources) == 0 {
		sources = []string{entities.UnknownSource}
	}
	s.record(ctx, query, text, sources, err, time.Since(start))

	if err != nil {
		return nil, err
	}
	return &entities.AnswerResult{Text: text, Sources: sources}, nil
}

// Documents lists the current snapshot's documents.
func (s *DocumentService) Documents() []entities.DocumentInfo {
	docs := s.snapshot.Load().Documents()
	infos := make([]entities.DocumentInfo, len(docs))
	for i, d := range docs {
		infos[i] = d.Info()
	}
	return infos
}

// Snapshot returns the currently published snapshot.
func (s *DocumentService) Snapshot() *entities.Snapshot {
	return s.snapshot.Load()
}

func (s *DocumentService) record(ctx context.Context, query, answer string, sources []string, answerErr error, elapsed time.Duration) {
	if s.audit == nil {
		return
	}

	entry := entities.AuditEntry{
		RequestID: RequestIDFromContext(ctx),
		Answer:    answer,
		Sources:   sources,
		Provider:  s.query.llm.Provider(),
		Model:     s.query.llm.Model(),
		Success:   answerErr == nil,
		Duration:  elapsed,
		CreatedAt: time.Now(),
	}
	if s.cfg.LogQueries {
		entry.Query = query
	}
	if answerErr != nil {
		entry.Error = answerErr.Error()
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()
	if err := s.audit.Record(writeCtx, entry); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write audit entry")
	}
}

type requestIDKey struct{}

// WithRequestID returns a context carrying a request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
