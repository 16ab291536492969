package site

import (
	"fmt"
	"os"
	"path/filepath"

	"docsmith/internal/config"
	"docsmith/internal/content"
	"docsmith/internal/logging"
	"docsmith/internal/sidebar"
	"docsmith/internal/source"
)

// Model is the fully loaded site: configuration, the merged document
// collection, and the validated navigation tree. It is the input to the
// builder, the checker, the MCP server, and the TUI browser.
type Model struct {
	Config  *config.Config
	SiteDir string
	Docs    *content.Collection
	Sidebar *sidebar.Sidebar

	// SidebarGenerated records whether the tree was autogenerated rather
	// than loaded from sidebar.yaml.
	SidebarGenerated bool

	// SidebarProblems holds sidebar validation violations. `check` reports
	// them; `build` refuses to proceed while any exist.
	SidebarProblems []string
}

// Load assembles the site model from a site directory: config, the site's
// own docs tree, every declared content source, and the sidebar. Sidebar
// violations are collected on the model rather than failing the load, so
// `check` can report them alongside everything else.
func Load(siteDir string, logger *logging.AppLogger) (*Model, error) {
	cfg, err := config.Load(siteDir)
	if err != nil {
		return nil, err
	}
	return LoadWithConfig(cfg, siteDir, logger)
}

// LoadWithConfig is Load with an already-parsed configuration.
func LoadWithConfig(cfg *config.Config, siteDir string, logger *logging.AppLogger) (*Model, error) {
	docsDir := filepath.Join(siteDir, cfg.DocsDir)
	scanned, err := content.ScanDir(docsDir, "", logger)
	if err != nil {
		return nil, err
	}
	docs := scanned.Docs

	for _, decl := range cfg.Sources {
		srcDocs, err := loadSource(decl, siteDir, logger)
		if err != nil {
			return nil, err
		}
		docs = append(docs, srcDocs...)
	}

	collection, err := content.NewCollection(docs)
	if err != nil {
		return nil, err
	}

	sb, generated, err := loadSidebar(collection, docsDir)
	if err != nil {
		return nil, err
	}

	return &Model{
		Config:           cfg,
		SiteDir:          siteDir,
		Docs:             collection,
		Sidebar:          sb,
		SidebarGenerated: generated,
		SidebarProblems:  sb.Validate(collection),
	}, nil
}

// loadSource resolves one declared content source and scans its docs tree,
// mounted under the source's route prefix (defaulting to its name).
func loadSource(decl config.ContentSource, siteDir string, logger *logging.AppLogger) ([]*content.Document, error) {
	var docsPath string
	var err error
	if decl.IsRemote() {
		docsPath, err = source.CachedDocsPath(decl)
	} else {
		docsPath, err = source.For(decl, siteDir).Prepare(logger)
	}
	if err != nil {
		return nil, err
	}

	prefix := decl.Prefix
	if prefix == "" {
		prefix = decl.Name
	}

	scanned, err := content.ScanDir(docsPath, prefix, logger)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", decl.Name, err)
	}
	return scanned.Docs, nil
}

// loadSidebar loads sidebar.yaml from the docs directory when present,
// otherwise autogenerates the tree from the directory structure.
func loadSidebar(docs *content.Collection, docsDir string) (*sidebar.Sidebar, bool, error) {
	path := filepath.Join(docsDir, sidebar.FileName)
	if _, err := os.Stat(path); err == nil {
		sb, err := sidebar.Load(path)
		if err != nil {
			return nil, false, err
		}
		return sb, false, nil
	}
	return sidebar.Generate(docs, docsDir), true, nil
}

func joinProblems(problems []string) string {
	out := problems[0]
	for _, p := range problems[1:] {
		out += "\n  - " + p
	}
	return out
}
