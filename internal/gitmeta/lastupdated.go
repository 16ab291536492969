// Package gitmeta annotates documents with metadata taken from the site's
// git history. It is best-effort: a site that is not a git repository
// builds fine, just without timestamps.
package gitmeta

import (
	"errors"
	"fmt"
	"path/filepath"

	"docsmith/internal/content"
	"docsmith/internal/logging"

	git "github.com/go-git/go-git/v6"
)

// Annotate fills LastUpdated on each document with the committer time of
// the newest commit touching its source file. Uncommitted files are left
// with a zero time.
func Annotate(docs []*content.Document, siteDir string, logger *logging.AppLogger) error {
	repo, err := git.PlainOpenWithOptions(siteDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			if logger != nil {
				logger.Debug("Site is not a git repository, skipping last-updated metadata", "dir", siteDir)
			}
			return nil
		}
		return fmt.Errorf("failed to open git repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to resolve git worktree: %w", err)
	}
	root := wt.Filesystem.Root()

	for _, doc := range docs {
		rel, err := filepath.Rel(root, doc.SourcePath)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		iter, err := repo.Log(&git.LogOptions{
			FileName: &rel,
			Order:    git.LogOrderCommitterTime,
		})
		if err != nil {
			if logger != nil {
				logger.Debug("No git history for document", "path", rel, "error", err)
			}
			continue
		}

		commit, err := iter.Next()
		iter.Close()
		if err != nil {
			continue
		}
		doc.LastUpdated = commit.Committer.When.UTC()
	}
	return nil
}
