package usecases

import (
	"strings"

	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
)

// documentSeparator goes between consecutive document blocks.
const documentSeparator = "\n---\n"

// AssembleContext renders every document as "--- name ---\ncontent" in
// snapshot order, joined by documentSeparator. Nothing is truncated: the
// whole corpus goes into every prompt, so large corpora can exceed the
// model's input limit.
func AssembleContext(snap *entities.Snapshot) string {
	docs := snap.Documents()
	if len(docs) == 0 {
		return ""
	}

	size := len(documentSeparator) * (len(docs) - 1)
	for _, d := range docs {
		size += len(d.Name) + len(d.Content) + 9
	}

	var sb strings.Builder
	sb.Grow(size)
	for i, d := range docs {
		if i > 0 {
			sb.WriteString(documentSeparator)
		}
		sb.WriteString("--- ")
		sb.WriteString(d.Name)
		sb.WriteString(" ---\n")
		sb.WriteString(d.Content)
	}
	return sb.String()
}
