// Package auditlog provides persistence for answered questions.
// SQLiteAuditLog implements ports.AuditLog on a local SQLite file.
package auditlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
)

// SQLiteAuditLog stores audit entries in SQLite.
type SQLiteAuditLog struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteAuditLog opens (or creates) the audit database at dbPath.
func NewSQLiteAuditLog(dbPath string) (*SQLiteAuditLog, error) {
	if dbPath == "" {
		dbPath = "./data/audit.db"
	}

	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteAuditLog{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteAuditLog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT,
		query TEXT,
		answer TEXT,
		sources TEXT NOT NULL DEFAULT '[]',
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		success INTEGER NOT NULL,
		error TEXT,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_answers_created_at ON answers(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one entry.
func (s *SQLiteAuditLog) Record(ctx context.Context, entry entities.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sources := entry.Sources
	if sources == nil {
		sources = []string{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO answers (request_id, query, answer, sources, provider, model, success, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.RequestID,
		entry.Query,
		entry.Answer,
		string(sourcesJSON),
		entry.Provider,
		entry.Model,
		entry.Success,
		entry.Error,
		entry.Duration.Milliseconds(),
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteAuditLog) Recent(ctx context.Context, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, query, answer, sources, provider, model, success, error, duration_ms, created_at
		FROM answers
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var (
			e           entities.AuditEntry
			requestID   sql.NullString
			query       sql.NullString
			answer      sql.NullString
			errText     sql.NullString
			sourcesJSON string
			durationMS  int64
		)
		err := rows.Scan(&e.ID, &requestID, &query, &answer, &sourcesJSON,
			&e.Provider, &e.Model, &e.Success, &errText, &durationMS, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &e.Sources); err != nil {
			return nil, fmt.Errorf("decoding sources of entry %d: %w", e.ID, err)
		}
		e.RequestID = requestID.String
		e.Query = query.String
		e.Answer = answer.String
		e.Error = errText.String
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *SQLiteAuditLog) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM answers").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteAuditLog) Close() error {
	return s.db.Close()
}
