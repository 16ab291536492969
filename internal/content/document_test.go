package content

import (
	"strings"
	"testing"
)

func TestDeriveID(t *testing.T) {
	tests := []struct {
		name     string
		relPath  string
		slug     string
		expected string
	}{
		{
			name:     "simple file",
			relPath:  "overview.md",
			expected: "overview",
		},
		{
			name:     "nested file",
			relPath:  "cli/overview.md",
			expected: "cli/overview",
		},
		{
			name:     "root index collapses",
			relPath:  "index.md",
			expected: "index",
		},
		{
			name:     "directory index collapses to directory",
			relPath:  "cli/index.md",
			expected: "cli",
		},
		{
			name:     "README collapses like index",
			relPath:  "guides/README.md",
			expected: "guides",
		},
		{
			name:     "slug replaces final segment",
			relPath:  "cli/overview.md",
			slug:     "intro",
			expected: "cli/intro",
		},
		{
			name:     "slug on root-level file",
			relPath:  "overview.md",
			slug:     "start-here",
			expected: "start-here",
		},
		{
			name:     "slug with slashes replaces whole path",
			relPath:  "cli/overview.md",
			slug:     "reference/cli",
			expected: "reference/cli",
		},
		{
			name:     "mdx extension",
			relPath:  "api/widgets.mdx",
			expected: "api/widgets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveID(tt.relPath, tt.slug)
			if got != tt.expected {
				t.Errorf("deriveID(%q, %q) = %q, want %q", tt.relPath, tt.slug, got, tt.expected)
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	t.Run("full frontmatter", func(t *testing.T) {
		raw := []byte(`---
title: Overview
description: What this thing does.
sidebar_position: 2
draft: false
---

# Overview

Some prose.
`)
		doc, err := ParseDocument(raw, "/tmp/overview.md", "overview.md")
		if err != nil {
			t.Fatalf("ParseDocument failed: %v", err)
		}
		if !doc.HasFrontmatter {
			t.Error("expected HasFrontmatter to be true")
		}
		if doc.Meta.Title != "Overview" {
			t.Errorf("Title = %q, want %q", doc.Meta.Title, "Overview")
		}
		if doc.Meta.SidebarPosition != 2 {
			t.Errorf("SidebarPosition = %d, want 2", doc.Meta.SidebarPosition)
		}
		if doc.ID != "overview" {
			t.Errorf("ID = %q, want %q", doc.ID, "overview")
		}
		if strings.Contains(string(doc.Body), "title:") {
			t.Error("body still contains frontmatter")
		}
		if !strings.Contains(string(doc.Body), "# Overview") {
			t.Error("body lost its markdown content")
		}
	})

	t.Run("no frontmatter header", func(t *testing.T) {
		raw := []byte("# Just Markdown\n\nNo header at all.\n")
		doc, err := ParseDocument(raw, "/tmp/plain.md", "plain.md")
		if err != nil {
			t.Fatalf("ParseDocument failed: %v", err)
		}
		if doc.HasFrontmatter {
			t.Error("expected HasFrontmatter to be false")
		}
		if string(doc.Body) != string(raw) {
			t.Error("body should be the unchanged input")
		}
	})

	t.Run("malformed frontmatter is an error", func(t *testing.T) {
		raw := []byte("---\ntitle: [unclosed\n---\n\nbody\n")
		if _, err := ParseDocument(raw, "/tmp/bad.md", "bad.md"); err == nil {
			t.Error("expected an error for malformed frontmatter")
		}
	})
}

func TestDocumentTitleFallback(t *testing.T) {
	tests := []struct {
		name     string
		doc      Document
		expected string
	}{
		{
			name:     "frontmatter title wins",
			doc:      Document{ID: "getting-started", Meta: Frontmatter{Title: "Getting Started Guide"}},
			expected: "Getting Started Guide",
		},
		{
			name:     "hyphenated filename is title-cased",
			doc:      Document{ID: "cli/getting-started"},
			expected: "Getting Started",
		},
		{
			name:     "underscores treated like hyphens",
			doc:      Document{ID: "api_reference"},
			expected: "Api Reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.Title(); got != tt.expected {
				t.Errorf("Title() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDocumentProblems(t *testing.T) {
	t.Run("missing header reported once", func(t *testing.T) {
		doc := Document{RelPath: "plain.md"}
		problems := doc.Problems()
		if len(problems) != 1 {
			t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
		}
		if !strings.Contains(problems[0], "missing frontmatter") {
			t.Errorf("unexpected problem: %s", problems[0])
		}
	})

	t.Run("missing title and description both reported", func(t *testing.T) {
		doc := Document{RelPath: "x.md", HasFrontmatter: true}
		problems := doc.Problems()
		if len(problems) != 2 {
			t.Fatalf("expected 2 problems, got %d: %v", len(problems), problems)
		}
	})

	t.Run("complete frontmatter is clean", func(t *testing.T) {
		doc := Document{
			RelPath:        "x.md",
			HasFrontmatter: true,
			Meta:           Frontmatter{Title: "X", Description: "About X."},
		}
		if problems := doc.Problems(); len(problems) != 0 {
			t.Errorf("expected no problems, got %v", problems)
		}
	})
}

func TestRoute(t *testing.T) {
	doc := Document{ID: "cli/overview"}
	if got := doc.Route(); got != "/cli/overview/" {
		t.Errorf("Route() = %q, want %q", got, "/cli/overview/")
	}
}
