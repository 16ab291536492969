package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docsmith/internal/config"
	"docsmith/internal/logging"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
)

// GitSource is a docs tree hosted in a git repository. The repository is
// shallow-cloned into the XDG data cache on first use and reset to the
// remote head on sync.
//
// Authentication is tried public-first; private repositories fall back to
// the GitHub token from the system keyring (`docsmith sync --token` stores
// one). SSH URLs are converted to their HTTPS form so the token applies.
type GitSource struct {
	Name      string
	RemoteURL string
	Branch    string // empty means the remote's default branch
	DocsDir   string
}

// NewGitSource creates a git source from a config declaration.
func NewGitSource(decl config.ContentSource) GitSource {
	return GitSource{
		Name:      decl.Name,
		RemoteURL: decl.RemoteURL,
		Branch:    decl.Branch,
		DocsDir:   decl.DocsDir,
	}
}

// Prepare clones the repository if the cache is empty, fetches and resets
// to the remote head otherwise, and returns the docs directory inside the
// prepared clone.
func (gs GitSource) Prepare(logger *logging.AppLogger) (string, error) {
	remoteURL, err := normalizeRemoteURL(gs.RemoteURL)
	if err != nil {
		return "", fmt.Errorf("source %s: %w", gs.Name, err)
	}

	localPath := CacheDir(gs.Name)

	cloned, err := isCloned(localPath)
	if err != nil {
		return "", fmt.Errorf("source %s: %w", gs.Name, err)
	}

	if cloned {
		if err := gs.fetch(localPath, remoteURL, logger); err != nil {
			// A stale cache is still a usable docs tree; prefer building
			// offline over failing the whole site.
			if logger != nil {
				logger.Warn("Could not refresh content source, using cached clone", "source", gs.Name, "error", err)
			}
		}
	} else {
		if err := gs.clone(localPath, remoteURL, logger); err != nil {
			return "", fmt.Errorf("source %s: clone failed: %w", gs.Name, err)
		}
	}

	docsPath := joinDocsDir(localPath, gs.DocsDir)
	if info, err := os.Stat(docsPath); err != nil || !info.IsDir() {
		return "", fmt.Errorf("source %s: repository has no docs directory at %s", gs.Name, docsPath)
	}
	return docsPath, nil
}

// isCloned reports whether localPath already holds a git repository. A
// non-empty directory that is not a repository is treated as a conflict so
// the cache never silently overwrites foreign content.
func isCloned(localPath string) (bool, error) {
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return false, nil
	}
	_, err := git.PlainOpen(localPath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, git.ErrRepositoryNotExists) {
		entries, readErr := os.ReadDir(localPath)
		if readErr == nil && len(entries) == 0 {
			return false, nil
		}
		return false, fmt.Errorf("cache directory %s contains non-git content; remove it and retry", localPath)
	}
	return false, fmt.Errorf("cannot inspect cache directory: %w", err)
}

func (gs GitSource) clone(localPath, remoteURL string, logger *logging.AppLogger) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:          remoteURL,
		Depth:        1,
		SingleBranch: true,
	}
	if gs.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(gs.Branch)
	}

	if logger != nil {
		logger.Info("Cloning content source", "source", gs.Name, "url", remoteURL)
	}

	_, err := git.PlainClone(localPath, opts)
	if err == nil {
		return nil
	}
	if !isAuthError(err) {
		return err
	}

	// Private repository: retry with the stored token.
	auth, authErr := keyringAuth()
	if authErr != nil {
		return fmt.Errorf("repository requires authentication and no token is stored (run `docsmith sync --token`): %w", err)
	}
	opts.Auth = auth
	_, err = git.PlainClone(localPath, opts)
	return err
}

func (gs GitSource) fetch(localPath, remoteURL string, logger *logging.AppLogger) error {
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("failed to open cached clone: %w", err)
	}

	fetchOpts := &git.FetchOptions{Depth: 1}
	err = repo.Fetch(fetchOpts)
	if err != nil && isAuthError(err) {
		auth, authErr := keyringAuth()
		if authErr == nil {
			fetchOpts.Auth = auth
			err = repo.Fetch(fetchOpts)
		}
	}
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("fetch failed: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	branch := gs.Branch
	if branch == "" {
		head, err := repo.Head()
		if err != nil {
			return fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		branch = head.Name().Short()
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return fmt.Errorf("failed to resolve origin/%s: %w", branch, err)
	}

	// The cache is treated as read-only: hard reset to the remote head.
	if err := wt.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return fmt.Errorf("failed to reset to origin/%s: %w", branch, err)
	}

	if logger != nil {
		logger.Info("Content source refreshed", "source", gs.Name, "branch", branch, "commit", remoteRef.Hash().String()[:8])
	}
	return nil
}

// isAuthError loosely matches go-git's authentication failures.
func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "authentication required") ||
		strings.Contains(msg, "authorization failed") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "403")
}

// keyringAuth builds HTTP basic auth from the stored GitHub token.
func keyringAuth() (*http.BasicAuth, error) {
	token, err := GetToken()
	if err != nil {
		return nil, err
	}
	// GitHub accepts any non-empty username with a PAT password.
	return &http.BasicAuth{Username: "docsmith", Password: token}, nil
}

// normalizeRemoteURL converts SSH remotes to HTTPS and requires an
// https:// scheme otherwise.
func normalizeRemoteURL(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", fmt.Errorf("remote URL cannot be empty")
	}

	// git@host:owner/repo.git -> https://host/owner/repo.git
	if strings.HasPrefix(remote, "git@") {
		rest := strings.TrimPrefix(remote, "git@")
		host, repoPath, ok := strings.Cut(rest, ":")
		if !ok || host == "" || repoPath == "" {
			return "", fmt.Errorf("unrecognized SSH remote URL: %s", remote)
		}
		remote = "https://" + host + "/" + repoPath
	}

	if !strings.HasPrefix(remote, "https://") {
		return "", fmt.Errorf("remote URL must be https:// or git@ form, got %s", remote)
	}
	if !strings.HasSuffix(remote, ".git") {
		remote += ".git"
	}
	return remote, nil
}
