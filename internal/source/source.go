// Package source resolves the content sources declared in site.yaml to
// local docs directories. A source is either a local directory used as-is
// or a git repository cloned into the XDG data cache and refreshed by
// `docsmith sync`.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docsmith/internal/config"
	"docsmith/internal/logging"

	"github.com/adrg/xdg"
)

const appName = "docsmith"

// Source abstracts where a docs tree comes from. Implementations resolve
// to a local filesystem path holding the source's docs directory.
type Source interface {
	// Prepare validates and prepares the source, returning the absolute
	// path of its docs directory.
	Prepare(logger *logging.AppLogger) (docsPath string, err error)
}

// For builds a Source from a config declaration. The siteDir anchors
// relative local paths.
func For(decl config.ContentSource, siteDir string) Source {
	if decl.IsRemote() {
		return NewGitSource(decl)
	}
	return NewLocalSource(decl, siteDir)
}

// CacheDir returns the clone cache directory for a named remote source.
func CacheDir(name string) string {
	return filepath.Join(xdg.DataHome, appName, "sources", sanitizeName(name))
}

// CachedDocsPath resolves a remote source's docs directory from the clone
// cache without touching the network. Builds stay offline; `docsmith sync`
// is the only command that talks to remotes.
func CachedDocsPath(decl config.ContentSource) (string, error) {
	docsPath := joinDocsDir(CacheDir(decl.Name), decl.DocsDir)
	info, err := os.Stat(docsPath)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("source %s is not synced yet (run `docsmith sync`)", decl.Name)
	}
	return docsPath, nil
}

// sanitizeName keeps cache directory names to a safe character set.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// LocalSource is a docs tree on the local filesystem. No network
// operations are performed; Prepare only validates the path.
type LocalSource struct {
	Name    string
	Path    string
	DocsDir string
	siteDir string
}

// NewLocalSource creates a local source from a config declaration.
func NewLocalSource(decl config.ContentSource, siteDir string) LocalSource {
	return LocalSource{
		Name:    decl.Name,
		Path:    decl.Path,
		DocsDir: decl.DocsDir,
		siteDir: siteDir,
	}
}

// Prepare validates the directory and returns its docs path.
func (ls LocalSource) Prepare(logger *logging.AppLogger) (string, error) {
	trimmed := strings.TrimSpace(ls.Path)
	if trimmed == "" {
		return "", fmt.Errorf("source %s: local path cannot be empty", ls.Name)
	}
	if strings.Contains(trimmed, "..") {
		return "", fmt.Errorf("source %s: path traversal not allowed", ls.Name)
	}

	expanded := expandPath(trimmed)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(ls.siteDir, expanded)
	}
	clean := filepath.Clean(expanded)

	docsPath := joinDocsDir(clean, ls.DocsDir)
	info, err := os.Stat(docsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("source %s: docs directory does not exist: %s", ls.Name, docsPath)
		}
		return "", fmt.Errorf("source %s: cannot access docs directory: %w", ls.Name, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source %s: docs path is not a directory: %s", ls.Name, docsPath)
	}

	if logger != nil {
		logger.Debug("Local content source validated", "source", ls.Name, "path", docsPath)
	}
	return docsPath, nil
}

// joinDocsDir appends the source's docs subdirectory, defaulting to the
// root of the source itself when unset.
func joinDocsDir(root, docsDir string) string {
	if docsDir == "" {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(docsDir))
}

// expandPath expands a leading "~/" to the user's home directory.
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
