package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"docsmith/internal/config"
	"docsmith/internal/sidebar"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Scaffold a new documentation site",
	Long: `Init creates a starter site: site.yaml, a docs directory with a few
sample documents, a sidebar.yaml referencing them, and an empty static
directory. Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := siteDir
		if len(args) == 1 {
			dir = args[0]
		}

		if err := scaffoldSite(dir); err != nil {
			return err
		}
		fmt.Printf("Initialized a new site in %s\n", dir)
		fmt.Println("Next: edit site.yaml, then run `docsmith serve`.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func scaffoldSite(dir string) error {
	cfgPath := filepath.Join(dir, config.DefaultFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.DefaultFileName, dir)
	}

	cfg := config.Default()
	cfg.Title = "My Documentation"
	cfg.URL = "https://example.com"

	docsDir := filepath.Join(dir, cfg.DocsDir)
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, cfg.StaticDir), 0o755); err != nil {
		return fmt.Errorf("failed to create static directory: %w", err)
	}

	if err := cfg.SaveTo(cfgPath); err != nil {
		return err
	}

	for name, content := range starterDocs {
		path := filepath.Join(docsDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	sidebarPath := filepath.Join(docsDir, sidebar.FileName)
	if _, err := os.Stat(sidebarPath); err == nil {
		return nil
	}
	if err := os.WriteFile(sidebarPath, []byte(starterSidebar), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", sidebar.FileName, err)
	}
	return nil
}

var starterDocs = map[string]string{
	"index.md": `---
title: Welcome
description: The front page of your new documentation site.
sidebar_position: 1
---

# Welcome

This site was scaffolded by docsmith. Edit the files under the docs
directory and run ` + "`docsmith serve`" + ` to preview your changes live.

:::tip
Frontmatter is optional. A document without it gets a title derived
from its filename.
:::
`,
	"getting-started.md": `---
title: Getting Started
description: Add pages, link between them, and preview the site.
sidebar_position: 2
---

# Getting Started

Add markdown files under the docs directory. Each file becomes a page;
its route is its path relative to the docs directory.

Link between documents with relative links, for example
[the front page](index.md). Broken internal links are reported by
` + "`docsmith check`" + `.
`,
}

const starterSidebar = `sidebar:
  - doc: index
    label: Welcome
  - doc: getting-started
`
