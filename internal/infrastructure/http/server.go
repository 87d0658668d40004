// Package http serves the document chat API over echo.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/config"
	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
	"github.com/0xcro3dile/docchat-go/internal/domain/usecases"
)

const (
	shutdownTimeout = 10 * time.Second
	bodyLimit       = "1M"
)

// DocumentService is the facade the handlers call.
type DocumentService interface {
	Answer(ctx context.Context, query string) (*entities.AnswerResult, error)
	Refresh(ctx context.Context) error
	Documents() []entities.DocumentInfo
}

// Server is the HTTP server for the chat API.
type Server struct {
	service DocumentService
	cfg     config.ServerConfig
	version string
	logger  arbor.ILogger
	echo    *echo.Echo
}

// NewServer creates the server and registers its routes.
func NewServer(service DocumentService, cfg config.ServerConfig, version string, logger arbor.ILogger) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		version: version,
		logger:  logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error().Err(err).Str("stack", string(stack)).Msg("Recovered from panic")
			return err
		},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(usecases.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(s.requestLogger())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.registerRoutes(e)
	s.echo = e
	return s
}

func (s *Server) registerRoutes(e *echo.Echo) {
	chatTimeout := requestTimeout(s.cfg.RequestTimeoutDuration())

	e.GET("/", s.handleRoot)
	e.POST("/chat/", s.handleChat, chatTimeout)
	e.POST("/chat", s.handleChat, chatTimeout)
	e.POST("/documents/refresh/", s.handleRefresh)
	e.POST("/documents/refresh", s.handleRefresh)
	e.GET("/documents/", s.handleListDocuments)
	e.GET("/documents", s.handleListDocuments)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.echo,
		ReadTimeout:  s.cfg.ReadTimeoutDuration(),
		WriteTimeout: s.cfg.WriteTimeoutDuration(),
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", server.Addr).Str("version", s.version).Msg("HTTP server listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err := <-shutdownErr
	s.logger.Info().Msg("HTTP server stopped")
	return err
}
