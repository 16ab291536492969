package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsmith/internal/config"
	"docsmith/internal/logging"
)

func TestNormalizeRemoteURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
		wantErr  bool
	}{
		{
			name:     "https url passes through",
			in:       "https://github.com/example/docs.git",
			expected: "https://github.com/example/docs.git",
		},
		{
			name:     "https url gains .git suffix",
			in:       "https://github.com/example/docs",
			expected: "https://github.com/example/docs.git",
		},
		{
			name:     "ssh url converted to https",
			in:       "git@github.com:example/docs.git",
			expected: "https://github.com/example/docs.git",
		},
		{
			name:     "ssh url without .git",
			in:       "git@gitlab.com:group/project",
			expected: "https://gitlab.com/group/project.git",
		},
		{
			name:    "empty url rejected",
			in:      "   ",
			wantErr: true,
		},
		{
			name:    "http rejected",
			in:      "http://github.com/example/docs.git",
			wantErr: true,
		},
		{
			name:    "malformed ssh remote rejected",
			in:      "git@github.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeRemoteURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("normalizeRemoteURL(%q) expected an error, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeRemoteURL(%q) failed: %v", tt.in, err)
			}
			if got != tt.expected {
				t.Errorf("normalizeRemoteURL(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestValidateTokenFormat(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "classic token", token: "ghp_1234567890abcdef1234567890"},
		{name: "fine-grained token", token: "github_pat_1234567890abcdef1234567890"},
		{name: "empty", token: "", wantErr: true},
		{name: "whitespace inside", token: "ghp_12345 67890abcdef", wantErr: true},
		{name: "wrong prefix", token: "gho_1234567890abcdef1234567890", wantErr: true},
		{name: "too short", token: "ghp_123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTokenFormat(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTokenFormat(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"api-docs", "api-docs"},
		{"API Docs", "api-docs"},
		{"weird/name:here", "weird-name-here"},
		{"under_score", "under_score"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.expected {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestLocalSourcePrepare(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	t.Run("valid relative path anchored at site dir", func(t *testing.T) {
		siteDir := t.TempDir()
		docsPath := filepath.Join(siteDir, "shared", "docs")
		if err := os.MkdirAll(docsPath, 0755); err != nil {
			t.Fatal(err)
		}

		src := NewLocalSource(config.ContentSource{Name: "shared", Path: "shared", DocsDir: "docs"}, siteDir)
		got, err := src.Prepare(logger)
		if err != nil {
			t.Fatalf("Prepare failed: %v", err)
		}
		if got != docsPath {
			t.Errorf("Prepare = %q, want %q", got, docsPath)
		}
	})

	t.Run("docs dir defaults to source root", func(t *testing.T) {
		siteDir := t.TempDir()
		srcRoot := filepath.Join(siteDir, "handbook")
		if err := os.MkdirAll(srcRoot, 0755); err != nil {
			t.Fatal(err)
		}

		src := NewLocalSource(config.ContentSource{Name: "handbook", Path: "handbook"}, siteDir)
		got, err := src.Prepare(logger)
		if err != nil {
			t.Fatalf("Prepare failed: %v", err)
		}
		if got != srcRoot {
			t.Errorf("Prepare = %q, want %q", got, srcRoot)
		}
	})

	t.Run("empty path rejected", func(t *testing.T) {
		src := NewLocalSource(config.ContentSource{Name: "x", Path: "  "}, t.TempDir())
		if _, err := src.Prepare(logger); err == nil {
			t.Error("expected an error for an empty path")
		}
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		src := NewLocalSource(config.ContentSource{Name: "x", Path: "../outside"}, t.TempDir())
		_, err := src.Prepare(logger)
		if err == nil || !strings.Contains(err.Error(), "traversal") {
			t.Errorf("expected a traversal error, got %v", err)
		}
	})

	t.Run("missing directory rejected", func(t *testing.T) {
		src := NewLocalSource(config.ContentSource{Name: "x", Path: "nope"}, t.TempDir())
		if _, err := src.Prepare(logger); err == nil {
			t.Error("expected an error for a missing directory")
		}
	})
}

func TestForDispatch(t *testing.T) {
	remote := For(config.ContentSource{Name: "r", RemoteURL: "https://github.com/example/docs.git"}, ".")
	if _, ok := remote.(GitSource); !ok {
		t.Errorf("expected GitSource, got %T", remote)
	}

	local := For(config.ContentSource{Name: "l", Path: "docs"}, ".")
	if _, ok := local.(LocalSource); !ok {
		t.Errorf("expected LocalSource, got %T", local)
	}
}
