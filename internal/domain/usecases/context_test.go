package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
)

func TestAssembleContext_Format(t *testing.T) {
	snap := entities.NewSnapshot([]entities.Document{
		{Name: "a.md", Content: "alpha"},
		{Name: "b.pdf", Content: "beta\n"},
	}, time.Now())

	want := "--- a.md ---\nalpha\n---\n--- b.pdf ---\nbeta\n"
	assert.Equal(t, want, AssembleContext(snap))
}

func TestAssembleContext_Deterministic(t *testing.T) {
	snap := entities.NewSnapshot([]entities.Document{
		{Name: "x.txt", Content: "one"},
		{Name: "y.txt", Content: "two"},
		{Name: "z.txt", Content: "three"},
	}, time.Now())

	first := AssembleContext(snap)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, AssembleContext(snap))
	}
}

func TestAssembleContext_Empty(t *testing.T) {
	assert.Equal(t, "", AssembleContext(entities.EmptySnapshot()))
	assert.Equal(t, "", AssembleContext(nil))
}

func TestAssembleContext_SingleDocument(t *testing.T) {
	snap := entities.NewSnapshot([]entities.Document{{Name: "only.md", Content: ""}}, time.Now())
	assert.Equal(t, "--- only.md ---\n", AssembleContext(snap))
}
