package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
)

func registerTools(s *server.MCPServer, svc documentService, logger arbor.ILogger) {
	s.AddTool(createAskDocumentsTool(), handleAskDocuments(svc, logger))
	s.AddTool(createRefreshDocumentsTool(), handleRefreshDocuments(svc, logger))
	s.AddTool(createListDocumentsTool(), handleListDocuments(svc))
}

func createAskDocumentsTool() mcp.Tool {
	return mcp.NewTool("ask_documents",
		mcp.WithDescription("Answer a question using only the loaded documents. Returns the answer and the documents that were in context."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
	)
}

func createRefreshDocumentsTool() mcp.Tool {
	return mcp.NewTool("refresh_documents",
		mcp.WithDescription("Reload every document from the documents directory"),
	)
}

func createListDocumentsTool() mcp.Tool {
	return mcp.NewTool("list_documents",
		mcp.WithDescription("List the currently loaded documents with format, size and title"),
	)
}
