package auditlog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
)

func newTestLog(t *testing.T) *SQLiteAuditLog {
	t.Helper()
	log, err := NewSQLiteAuditLog(filepath.Join(t.TempDir(), "nested", "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestSQLiteAuditLog_RecordAndRecent(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Record(ctx, entities.AuditEntry{
		RequestID: "req-1",
		Query:     "refund window?",
		Answer:    "30 days",
		Sources:   []string{"policy.md", "faq.pdf"},
		Provider:  "openai",
		Model:     "gpt-3.5-turbo",
		Success:   true,
		Duration:  1500 * time.Millisecond,
	}))
	require.NoError(t, log.Record(ctx, entities.AuditEntry{
		RequestID: "req-2",
		Provider:  "openai",
		Model:     "gpt-3.5-turbo",
		Success:   false,
		Error:     "UPSTREAM_SERVICE: completion service failed",
	}))

	entries, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "req-2", entries[0].RequestID, "newest first")
	assert.False(t, entries[0].Success)
	assert.Empty(t, entries[0].Sources)
	assert.Contains(t, entries[0].Error, "UPSTREAM_SERVICE")

	first := entries[1]
	assert.Equal(t, "refund window?", first.Query)
	assert.Equal(t, []string{"policy.md", "faq.pdf"}, first.Sources)
	assert.Equal(t, 1500*time.Millisecond, first.Duration)
	assert.True(t, first.Success)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestSQLiteAuditLog_RecentLimit(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Record(ctx, entities.AuditEntry{RequestID: fmt.Sprintf("r%d", i), Provider: "p", Model: "m", Success: true}))
	}

	entries, err := log.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "r4", entries[0].RequestID)
}

func TestSQLiteAuditLog_ConcurrentRecords(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, log.Record(ctx, entities.AuditEntry{RequestID: fmt.Sprintf("r%d", i), Provider: "p", Model: "m"}))
		}(i)
	}
	wg.Wait()

	count, err := log.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}

func TestSQLiteAuditLog_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()

	log, err := NewSQLiteAuditLog(path)
	require.NoError(t, err)
	require.NoError(t, log.Record(ctx, entities.AuditEntry{RequestID: "kept", Provider: "p", Model: "m"}))
	require.NoError(t, log.Close())

	reopened, err := NewSQLiteAuditLog(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].RequestID)
}
