package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
)

const (
	healthMessage  = "Document Chat API is running!"
	refreshMessage = "Documents re-indexed successfully."
)

// MessageResponse is a body carrying a single human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ChatRequest is the body of POST /chat/.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the body returned by POST /chat/. SourceDocuments is
// null when no documents were loaded.
type ChatResponse struct {
	Answer          string   `json:"answer"`
	SourceDocuments []string `json:"source_documents"`
}

// DocumentsResponse lists the loaded documents.
type DocumentsResponse struct {
	Documents []entities.DocumentInfo `json:"documents"`
	Count     int                     `json:"count"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: healthMessage})
}

func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Request body must be JSON with a query field.", err)
	}
	if req.Query == "" {
		return NewBadRequestError("Query cannot be empty.", nil)
	}

	s.logger.Debug().Int("query_chars", len(req.Query)).Msg("Received query")

	result, err := s.service.Answer(c.Request().Context(), req.Query)
	if err != nil {
		return fromDomainError(err, "An internal error occurred.")
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Answer:          result.Text,
		SourceDocuments: result.Sources,
	})
}

func (s *Server) handleRefresh(c echo.Context) error {
	if err := s.service.Refresh(c.Request().Context()); err != nil {
		return fromDomainError(err, "Failed to refresh documents.")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: refreshMessage})
}

func (s *Server) handleListDocuments(c echo.Context) error {
	docs := s.service.Documents()
	if docs == nil {
		docs = []entities.DocumentInfo{}
	}
	return c.JSON(http.StatusOK, DocumentsResponse{Documents: docs, Count: len(docs)})
}
