package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_PreservesOrder(t *testing.T) {
	now := time.Now()
	snap := NewSnapshot([]Document{
		{Name: "b.md", Content: "B"},
		{Name: "a.md", Content: "A"},
		{Name: "c.pdf", Content: "C"},
	}, now)

	assert.Equal(t, []string{"b.md", "a.md", "c.pdf"}, snap.Names())
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, now, snap.LoadedAt())

	docs := snap.Documents()
	for i, d := range docs {
		assert.Equal(t, snap.Names()[i], d.Name, "store and file list must agree")
	}
}

func TestSnapshot_DuplicateNameKeepsFirstPosition(t *testing.T) {
	snap := NewSnapshot([]Document{
		{Name: "a.md", Content: "first"},
		{Name: "b.md", Content: "B"},
		{Name: "a.md", Content: "second"},
	}, time.Now())

	assert.Equal(t, []string{"a.md", "b.md"}, snap.Names())
	assert.Equal(t, "second", snap.Documents()[0].Content)
}

func TestSnapshot_CopiesAreIndependent(t *testing.T) {
	snap := NewSnapshot([]Document{{Name: "a.md"}}, time.Now())

	names := snap.Names()
	names[0] = "mutated"
	docs := snap.Documents()
	docs[0].Name = "mutated"

	assert.Equal(t, []string{"a.md"}, snap.Names())
	assert.Equal(t, "a.md", snap.Documents()[0].Name)
}

func TestSnapshot_NilAndEmpty(t *testing.T) {
	var nilSnap *Snapshot
	assert.True(t, nilSnap.Empty())
	assert.Nil(t, nilSnap.Names())
	assert.True(t, EmptySnapshot().Empty())
}

func TestDocument_Info(t *testing.T) {
	mod := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := Document{Name: "guide.pdf", Format: FormatPDF, Content: "text", Pages: 4, Size: 2048, ModTime: mod}

	info := doc.Info()
	assert.Equal(t, "guide.pdf", info.Name)
	assert.Equal(t, FormatPDF, info.Format)
	assert.Equal(t, 4, info.Pages)
	assert.Equal(t, int64(2048), info.Size)
	assert.Equal(t, mod, info.ModTime)
}
