// Package mcp exposes the documentation corpus over the Model Context
// Protocol using the mcp-go library, so AI assistants can list, read, and
// search the site's documents through a standardized stdio transport.
package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"docsmith/internal/content"
	"docsmith/internal/logging"
	"docsmith/internal/site"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is stamped at build time via ldflags.
var Version = "dev"

// Server wraps an mcp-go server around a loaded site model.
type Server struct {
	model     *site.Model
	logger    *logging.AppLogger
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server over the given site.
func NewServer(model *site.Model, logger *logging.AppLogger) *Server {
	s := &Server{
		model:  model,
		logger: logger,
	}

	s.mcpServer = server.NewMCPServer(
		"docsmith",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Query the documentation site: list_docs enumerates pages, read_doc returns a page's markdown, search_docs finds pages by content."),
	)

	listTool := mcp.NewTool("list_docs",
		mcp.WithDescription("List all documents with their IDs, titles, and descriptions, in sidebar order."),
	)
	s.mcpServer.AddTool(listTool, s.handleListDocs)

	readTool := mcp.NewTool("read_doc",
		mcp.WithDescription("Read the markdown content of a document by its ID."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Document ID, e.g. cli/overview"),
		),
	)
	s.mcpServer.AddTool(readTool, s.handleReadDoc)

	searchTool := mcp.NewTool("search_docs",
		mcp.WithDescription("Search document titles, descriptions, and bodies for a query string."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search query"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchDocs)

	return s
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("Starting MCP server", "docs", len(s.model.Docs.Docs))
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// orderedDocs returns documents in sidebar order, with any documents the
// sidebar does not reference appended in ID order.
func (s *Server) orderedDocs() []*content.Document {
	var docs []*content.Document
	seen := make(map[string]bool)

	for _, id := range s.model.Sidebar.DocIDs() {
		if doc := s.model.Docs.Get(id); doc != nil && !seen[id] {
			docs = append(docs, doc)
			seen[id] = true
		}
	}

	var rest []*content.Document
	for _, doc := range s.model.Docs.Docs {
		if !seen[doc.ID] {
			rest = append(rest, doc)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].ID < rest[j].ID })
	return append(docs, rest...)
}

func (s *Server) handleListDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, doc := range s.orderedDocs() {
		fmt.Fprintf(&b, "%s - %s", doc.ID, doc.Title())
		if doc.Meta.Description != "" {
			fmt.Fprintf(&b, ": %s", doc.Meta.Description)
		}
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("No documents found."), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleReadDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc := s.model.Docs.Get(id)
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no document with ID %q", id)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title())
	if doc.Meta.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", doc.Meta.Description)
	}
	b.Write(doc.Body)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return mcp.NewToolResultError("query cannot be empty"), nil
	}

	var matches []string
	for _, doc := range s.orderedDocs() {
		haystack := strings.ToLower(doc.Title() + "\n" + doc.Meta.Description + "\n" + string(doc.Body))
		if strings.Contains(haystack, query) {
			matches = append(matches, fmt.Sprintf("%s - %s", doc.ID, doc.Title()))
		}
	}

	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No documents match %q.", query)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Documents matching %q:\n%s", query, strings.Join(matches, "\n"))), nil
}
