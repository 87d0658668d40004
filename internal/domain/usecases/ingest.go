// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

const defaultLoadWorkers = 4

// IngestUseCase builds a snapshot from the files directly inside a directory.
type IngestUseCase struct {
	loader  ports.DocumentLoader
	workers int
	logger  arbor.ILogger
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
func NewIngestUseCase(loader ports.DocumentLoader, workers int, logger arbor.ILogger) *IngestUseCase {
	if workers <= 0 {
		workers = defaultLoadWorkers
	}
	return &IngestUseCase{
		loader:  loader,
		workers: workers,
		logger:  logger,
	}
}

// LoadDirectory extracts every supported file in dir (non-recursive) and
// returns them as a snapshot in filename order. Files that fail to load are
// logged and left out. A missing directory yields an empty snapshot; any
// other directory error is a LOAD_ERROR.
func (uc *IngestUseCase) LoadDirectory(ctx context.Context, dir string) (*entities.Snapshot, error) {
	paths, err := uc.scan(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			uc.logger.Warn().Str("dir", dir).Msg("Documents directory does not exist, nothing loaded")
			return entities.NewSnapshot(nil, time.Now()), nil
		}
		return nil, apperr.LoadFailed(dir, err)
	}

	start := time.Now()
	docs := make([]*entities.Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := uc.loader.Load(gctx, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				uc.logger.Warn().Err(err).Str("file", filepath.Base(path)).Msg("Skipping document that failed to load")
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading documents from %s: %w", dir, err)
	}

	loaded := make([]entities.Document, 0, len(docs))
	for _, d := range docs {
		if d != nil {
			loaded = append(loaded, *d)
		}
	}

	snap := entities.NewSnapshot(loaded, time.Now())
	uc.logger.Info().
		Str("dir", dir).
		Int("candidates", len(paths)).
		Int("loaded", snap.Len()).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("Documents loaded")
	return snap, nil
}

// scan lists candidate files in dir in lexicographic filename order.
// Hidden files are ignored, matching shell glob behaviour.
func (uc *IngestUseCase) scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	supported := make(map[string]bool)
	for _, ext := range uc.loader.SupportedExtensions() {
		supported[strings.ToLower(ext)] = true
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !supported[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		path := filepath.Join(dir, name)
		if !isRegularFile(entry, path) {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// isRegularFile follows symlinks so linked documents are still picked up.
func isRegularFile(entry fs.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
