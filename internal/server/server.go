// Package server implements the local preview server: it serves the built
// output directory over HTTP and watches the site's inputs, rebuilding on
// change with a short debounce.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docsmith/internal/logging"

	"github.com/fsnotify/fsnotify"
)

const debounceDuration = 500 * time.Millisecond

// Server serves a built site and rebuilds it when inputs change.
type Server struct {
	OutputDir string
	WatchDirs []string // directories watched recursively
	WatchFiles []string // single files watched (site.yaml, sidebar.yaml)
	Port      int

	// Rebuild runs a full site build. Called once before serving and again
	// after every debounced change batch.
	Rebuild func() error

	logger *logging.AppLogger
}

// New creates a preview server.
func New(outputDir string, port int, rebuild func() error, logger *logging.AppLogger) *Server {
	return &Server{
		OutputDir: outputDir,
		Port:      port,
		Rebuild:   rebuild,
		logger:    logger,
	}
}

// Run performs the initial build, starts watching, and serves until the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range s.WatchDirs {
		if err := watchRecursive(watcher, dir); err != nil {
			s.logger.Warn("Cannot watch directory", "dir", dir, "error", err)
		}
	}
	for _, f := range s.WatchFiles {
		if _, err := os.Stat(f); err == nil {
			if err := watcher.Add(f); err != nil {
				s.logger.Warn("Cannot watch file", "file", f, "error", err)
			}
		}
	}

	go s.watchLoop(ctx, watcher)

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.OutputDir)))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Preview server listening", "addr", fmt.Sprintf("http://localhost:%d", s.Port))
	fmt.Printf("Serving %s at http://localhost:%d\n", s.OutputDir, s.Port)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("preview server failed: %w", err)
	}
	return nil
}

// watchLoop coalesces change events and triggers rebuilds. Changes landing
// inside the output directory are ignored or every build would trigger the
// next one.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if within(s.OutputDir, event.Name) {
				continue
			}

			// Newly created directories need their own watch.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchRecursive(watcher, event.Name)
				}
			}

			s.logger.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDuration, func() {
				s.logger.Info("Rebuilding after change")
				if err := s.Rebuild(); err != nil {
					s.logger.Error("Rebuild failed", "error", err)
					fmt.Printf("Rebuild failed: %v\n", err)
				} else {
					fmt.Println("Site rebuilt.")
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("Watcher error", "error", err)
		}
	}
}

// watchRecursive adds dir and every subdirectory to the watcher.
func watchRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (!filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
