package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"docsmith/internal/logging"
)

// markdownExtensions contains supported markdown file extensions.
var markdownExtensions = []string{
	".md", ".mdown", ".mkdn", ".mkd", ".markdown", ".mdx",
}

// skipDirs are directory names never descended into while scanning docs.
var skipDirs = []string{
	"node_modules", ".git", "vendor", "build", "dist", ".cache", ".vscode", ".idea",
}

// IsMarkdownFile checks if a filename has a markdown extension.
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(markdownExtensions, ext)
}

// ScanResult is the outcome of scanning one docs tree.
type ScanResult struct {
	Docs []*Document

	// Drafts counts documents excluded because of frontmatter draft: true.
	Drafts int
}

// ScanDir recursively scans docsDir for markdown documents, parses their
// frontmatter, and returns them sorted by relative path so downstream
// processing is deterministic. Draft documents are excluded from the result.
//
// The optional prefix is prepended to every document ID; it is how merged
// content sources are mounted under their own route namespace.
func ScanDir(docsDir, prefix string, logger *logging.AppLogger) (*ScanResult, error) {
	info, err := os.Stat(docsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("docs directory does not exist: %s", docsDir)
		}
		return nil, fmt.Errorf("cannot access docs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs path is not a directory: %s", docsDir)
	}

	prefix = strings.Trim(prefix, "/")
	result := &ScanResult{}

	walkErr := filepath.WalkDir(docsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", p, err)
		}
		if d.IsDir() {
			name := d.Name()
			if p != docsDir && (strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsMarkdownFile(d.Name()) || strings.HasPrefix(d.Name(), "_") {
			return nil
		}

		raw, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		rel, err := filepath.Rel(docsDir, p)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)

		doc, err := ParseDocument(raw, p, rel)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", rel, err)
		}
		if doc.Meta.Draft {
			result.Drafts++
			if logger != nil {
				logger.Debug("Skipping draft document", "path", rel)
			}
			return nil
		}
		if prefix != "" {
			doc.ID = prefix + "/" + doc.ID
			doc.Prefix = prefix
		}

		result.Docs = append(result.Docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error scanning docs directory: %w", walkErr)
	}

	sort.Slice(result.Docs, func(i, j int) bool {
		return result.Docs[i].RelPath < result.Docs[j].RelPath
	})

	if logger != nil {
		logger.Debug("Scanned docs directory", "dir", docsDir, "docCount", len(result.Docs), "drafts", result.Drafts)
	}
	return result, nil
}

// Collection is the full scanned corpus with lookup tables the sidebar,
// link checker, and renderers all share.
type Collection struct {
	Docs []*Document

	byID map[string]*Document
}

// NewCollection indexes scanned documents by ID. Duplicate IDs (two files
// resolving to the same route, e.g. via slug overrides) are an error.
func NewCollection(docs []*Document) (*Collection, error) {
	c := &Collection{
		Docs: docs,
		byID: make(map[string]*Document, len(docs)),
	}
	for _, doc := range docs {
		if existing, ok := c.byID[doc.ID]; ok {
			return nil, fmt.Errorf("documents %s and %s both resolve to ID %q", existing.RelPath, doc.RelPath, doc.ID)
		}
		c.byID[doc.ID] = doc
	}
	return c, nil
}

// Get returns the document with the given ID, or nil.
func (c *Collection) Get(id string) *Document {
	return c.byID[strings.Trim(id, "/")]
}

// HasRoute reports whether an internal route ("/cli/overview/", with or
// without the trailing slash or a fragment) resolves to a document.
func (c *Collection) HasRoute(route string) bool {
	route = strings.SplitN(route, "#", 2)[0]
	route = strings.Trim(route, "/")
	if route == "" {
		route = "index"
	}
	_, ok := c.byID[route]
	return ok
}

// IDs returns all document IDs in sorted order.
func (c *Collection) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
