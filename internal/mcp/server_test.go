package mcp

import (
	"context"
	"strings"
	"testing"

	"docsmith/internal/config"
	"docsmith/internal/content"
	"docsmith/internal/logging"
	"docsmith/internal/sidebar"
	"docsmith/internal/site"

	"github.com/mark3labs/mcp-go/mcp"
)

func testModel(t *testing.T) *site.Model {
	t.Helper()

	docs, err := content.NewCollection([]*content.Document{
		{
			ID:      "index",
			RelPath: "index.md",
			Meta:    content.Frontmatter{Title: "Home", Description: "The front page."},
			Body:    []byte("Welcome to the project."),
		},
		{
			ID:      "guides/install",
			RelPath: "guides/install.md",
			Meta:    content.Frontmatter{Title: "Installation", Description: "Setup steps."},
			Body:    []byte("Run the installer, then verify with `--version`."),
		},
		{
			ID:      "unlisted",
			RelPath: "unlisted.md",
			Meta:    content.Frontmatter{Title: "Unlisted", Description: "Not in the sidebar."},
			Body:    []byte("orphan page"),
		},
	})
	if err != nil {
		t.Fatalf("failed to build collection: %v", err)
	}

	cfg := config.Default()
	return &site.Model{
		Config: &cfg,
		Docs:   docs,
		Sidebar: &sidebar.Sidebar{Items: []*sidebar.Node{
			{Doc: "guides/install"},
			{Doc: "index"},
		}},
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("tool result content is %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func requestWith(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestNewServer(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	s := NewServer(testModel(t), logger)
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
	if s.mcpServer == nil {
		t.Error("underlying MCP server not initialized")
	}
}

func TestOrderedDocs(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	s := NewServer(testModel(t), logger)

	docs := s.orderedDocs()
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}
	// sidebar order first, then unreferenced docs
	want := []string{"guides/install", "index", "unlisted"}
	for i, w := range want {
		if docs[i].ID != w {
			t.Errorf("docs[%d] = %q, want %q", i, docs[i].ID, w)
		}
	}
}

func TestHandleListDocs(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	s := NewServer(testModel(t), logger)

	result, err := s.handleListDocs(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListDocs failed: %v", err)
	}

	text := textOf(t, result)
	if !strings.Contains(text, "guides/install") || !strings.Contains(text, "Installation") {
		t.Errorf("listing missing expected entries:\n%s", text)
	}
	if strings.Index(text, "guides/install") > strings.Index(text, "unlisted") {
		t.Error("sidebar-ordered docs should come before unreferenced ones")
	}
}

func TestHandleReadDoc(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	s := NewServer(testModel(t), logger)

	t.Run("existing document", func(t *testing.T) {
		result, err := s.handleReadDoc(context.Background(), requestWith(map[string]any{"id": "guides/install"}))
		if err != nil {
			t.Fatalf("handleReadDoc failed: %v", err)
		}
		text := textOf(t, result)
		if !strings.Contains(text, "# Installation") {
			t.Errorf("missing title heading:\n%s", text)
		}
		if !strings.Contains(text, "Run the installer") {
			t.Errorf("missing body:\n%s", text)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		result, err := s.handleReadDoc(context.Background(), requestWith(map[string]any{"id": "nope"}))
		if err != nil {
			t.Fatalf("handleReadDoc failed: %v", err)
		}
		if !result.IsError {
			t.Error("expected an error result for an unknown ID")
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		result, err := s.handleReadDoc(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("handleReadDoc failed: %v", err)
		}
		if !result.IsError {
			t.Error("expected an error result for a missing id argument")
		}
	})
}

func TestHandleSearchDocs(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	s := NewServer(testModel(t), logger)

	t.Run("match in body is case-insensitive", func(t *testing.T) {
		result, err := s.handleSearchDocs(context.Background(), requestWith(map[string]any{"query": "INSTALLER"}))
		if err != nil {
			t.Fatalf("handleSearchDocs failed: %v", err)
		}
		text := textOf(t, result)
		if !strings.Contains(text, "guides/install") {
			t.Errorf("expected install doc in results:\n%s", text)
		}
		if strings.Contains(text, "unlisted") {
			t.Errorf("unexpected match:\n%s", text)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		result, err := s.handleSearchDocs(context.Background(), requestWith(map[string]any{"query": "zzzzzz"}))
		if err != nil {
			t.Fatalf("handleSearchDocs failed: %v", err)
		}
		if !strings.Contains(textOf(t, result), "No documents match") {
			t.Error("expected a no-matches message")
		}
	})

	t.Run("blank query rejected", func(t *testing.T) {
		result, err := s.handleSearchDocs(context.Background(), requestWith(map[string]any{"query": "   "}))
		if err != nil {
			t.Fatalf("handleSearchDocs failed: %v", err)
		}
		if !result.IsError {
			t.Error("expected an error result for a blank query")
		}
	})
}
