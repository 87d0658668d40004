package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
)

// documentService is the part of the facade the tools use.
type documentService interface {
	Answer(ctx context.Context, query string) (*entities.AnswerResult, error)
	Refresh(ctx context.Context) error
	Documents() []entities.DocumentInfo
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}

// handleAskDocuments implements the ask_documents tool.
func handleAskDocuments(svc documentService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return errorResult("Error: query parameter is required"), nil
		}

		result, err := svc.Answer(ctx, query)
		if err != nil {
			logger.Error().Err(err).Msg("ask_documents failed")
			if apperr.Is(err, apperr.CodeInvalidInput) {
				return errorResult(fmt.Sprintf("Error: %v", err)), nil
			}
			return errorResult("Error: the completion service failed to answer"), nil
		}

		return textResult(formatAnswer(result)), nil
	}
}

// handleRefreshDocuments implements the refresh_documents tool.
func handleRefreshDocuments(svc documentService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := svc.Refresh(ctx); err != nil {
			logger.Error().Err(err).Msg("refresh_documents failed")
			return errorResult("Error: failed to refresh documents"), nil
		}
		return textResult(fmt.Sprintf("Documents re-indexed successfully. %d loaded.", len(svc.Documents()))), nil
	}
}

// handleListDocuments implements the list_documents tool.
func handleListDocuments(svc documentService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatDocuments(svc.Documents())), nil
	}
}

func formatAnswer(result *entities.AnswerResult) string {
	var sb strings.Builder
	sb.WriteString(result.Text)
	if len(result.Sources) > 0 {
		sb.WriteString("\n\n**Sources:** ")
		sb.WriteString(strings.Join(result.Sources, ", "))
	}
	return sb.String()
}

func formatDocuments(docs []entities.DocumentInfo) string {
	if len(docs) == 0 {
		return "No documents are loaded."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Loaded documents (%d)\n\n", len(docs))
	for _, d := range docs {
		fmt.Fprintf(&sb, "- **%s** (%s, %d bytes", d.Name, d.Format, d.Size)
		if d.Pages > 0 {
			fmt.Fprintf(&sb, ", %d pages", d.Pages)
		}
		sb.WriteString(")")
		if d.Title != "" {
			fmt.Fprintf(&sb, ": %s", d.Title)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
