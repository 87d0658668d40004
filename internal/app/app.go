// Package app wires configuration into a ready-to-use document service.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/adapters/auditlog"
	"github.com/0xcro3dile/docchat-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/docchat-go/internal/adapters/llm"
	"github.com/0xcro3dile/docchat-go/internal/adapters/loader"
	"github.com/0xcro3dile/docchat-go/internal/adapters/parser"
	"github.com/0xcro3dile/docchat-go/internal/config"
	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
	"github.com/0xcro3dile/docchat-go/internal/domain/usecases"
	"github.com/0xcro3dile/docchat-go/internal/infrastructure/scheduler"
)

// App holds the wired components. Construction does no document I/O;
// call Service.Initialize before serving.
type App struct {
	Config  *config.Config
	Logger  arbor.ILogger
	LLM     ports.CompletionService
	Loader  *loader.MultiLoader
	Audit   *auditlog.SQLiteAuditLog // nil when auditing is disabled
	Service *usecases.DocumentService

	scheduler *scheduler.RefreshScheduler
	cancel    context.CancelFunc
}

// New validates cfg and builds the application. A missing credential or an
// invalid setting is a STARTUP_CONFIG error.
func New(ctx context.Context, cfg *config.Config, logger arbor.ILogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger}

	a.Loader = loader.NewMultiLoader(parser.NewPDFParser(), cfg.Documents.Extensions)
	if len(a.Loader.SupportedExtensions()) == 0 {
		return nil, apperr.StartupConfig(fmt.Sprintf("no supported extensions in documents.extensions %v", cfg.Documents.Extensions))
	}

	completion, err := llm.NewCompletionService(ctx, llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		RateLimit: cfg.LLM.RateLimit,
		Burst:     cfg.LLM.Burst,
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStartupConfig, "creating completion client")
	}
	a.LLM = completion

	var audit ports.AuditLog
	if cfg.Audit.Enabled {
		a.Audit, err = auditlog.NewSQLiteAuditLog(cfg.Audit.Path)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodeStartupConfig, "opening audit log").WithDetail("path", cfg.Audit.Path)
		}
		audit = a.Audit
	}

	ingest := usecases.NewIngestUseCase(a.Loader, cfg.Documents.Workers, logger)
	query := usecases.NewQueryUseCase(completion, usecases.GenerationConfig{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.TimeoutDuration(),
	}, logger)

	a.Service = usecases.NewDocumentService(usecases.ServiceConfig{
		DocsPath:   cfg.Documents.Path,
		LogQueries: cfg.Audit.LogQueries,
	}, ingest, query, audit, logger)

	logger.Info().
		Str("provider", completion.Provider()).
		Str("model", completion.Model()).
		Str("docs", cfg.Documents.Path).
		Strs("extensions", a.Loader.SupportedExtensions()).
		Bool("audit", cfg.Audit.Enabled).
		Msg("Application initialized")
	return a, nil
}

// StartBackground starts the directory watcher and the refresh schedule
// when they are configured. Both stop on Close or when ctx ends.
func (a *App) StartBackground(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.Config.Documents.Watch {
		watcher, err := filewatcher.NewFSNotifyWatcher(a.Loader.SupportedExtensions(), a.Logger)
		if err != nil {
			return fmt.Errorf("creating file watcher: %w", err)
		}
		refresher := usecases.NewAutoRefresher(watcher, a.Service, a.Config.Documents.Path, a.Config.Documents.WatchDebounceDuration(), a.Logger)
		go func() {
			if err := refresher.Run(ctx); err != nil {
				a.Logger.Warn().Err(err).Str("dir", a.Config.Documents.Path).Msg("Directory watch unavailable")
			}
		}()
	}

	if schedule := strings.TrimSpace(a.Config.Documents.RefreshSchedule); schedule != "" {
		a.scheduler = scheduler.NewRefreshScheduler(a.Service, a.Logger)
		if err := a.scheduler.Start(schedule); err != nil {
			a.scheduler = nil
			return apperr.Wrap(err, apperr.CodeStartupConfig, "starting refresh schedule")
		}
	}
	return nil
}

// Close stops background work and releases the audit database.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.Audit != nil {
		if err := a.Audit.Close(); err != nil {
			return fmt.Errorf("closing audit log: %w", err)
		}
	}
	return nil
}
