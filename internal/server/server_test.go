package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docsmith/internal/logging"
)

func TestWithin(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		path string
		want bool
	}{
		{"direct child", "/site/public", "/site/public/index.html", true},
		{"nested child", "/site/public", "/site/public/a/b.html", true},
		{"the directory itself", "/site/public", "/site/public", true},
		{"sibling", "/site/public", "/site/docs/index.md", false},
		{"parent", "/site/public", "/site", false},
		{"prefix but not child", "/site/public", "/site/public-old/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := within(tt.dir, tt.path); got != tt.want {
				t.Errorf("within(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
			}
		})
	}
}

func TestRunServesOutputAndRebuildsOnChange(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	siteDir := t.TempDir()
	outputDir := filepath.Join(siteDir, "public")
	docsDir := filepath.Join(siteDir, "docs")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		t.Fatal(err)
	}

	rebuilds := make(chan struct{}, 8)
	rebuild := func() error {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outputDir, "index.html"), []byte("<h1>ok</h1>"), 0644); err != nil {
			return err
		}
		select {
		case rebuilds <- struct{}{}:
		default:
		}
		return nil
	}

	srv := New(outputDir, 39173, rebuild, logger)
	srv.WatchDirs = []string{docsDir}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// initial build ran before the listener came up
	select {
	case <-rebuilds:
	case <-time.After(2 * time.Second):
		t.Fatal("initial rebuild never ran")
	}

	url := fmt.Sprintf("http://localhost:%d/", srv.Port)
	var resp *http.Response
	var err error
	for i := 0; i < 20; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never became reachable: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / = %d, want 200", resp.StatusCode)
	}

	// touching a watched file triggers a debounced rebuild
	if err := os.WriteFile(filepath.Join(docsDir, "page.md"), []byte("# hi"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-rebuilds:
	case <-time.After(3 * time.Second):
		t.Fatal("change did not trigger a rebuild")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after shutdown", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunFailsWhenInitialBuildFails(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	srv := New(t.TempDir(), 39174, func() error {
		return fmt.Errorf("boom")
	}, logger)

	if err := srv.Run(context.Background()); err == nil {
		t.Error("expected an error when the initial build fails")
	}
}
