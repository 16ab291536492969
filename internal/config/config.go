package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docsmith/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the conventional site configuration file name.
const DefaultFileName = "site.yaml"

// BrokenLinkPolicy controls how dead internal links are handled at build time.
type BrokenLinkPolicy string

const (
	// BrokenLinksWarn logs each dead link but lets the build succeed.
	BrokenLinksWarn BrokenLinkPolicy = "warn"
	// BrokenLinksThrow fails the build on the first reported batch of dead links.
	BrokenLinksThrow BrokenLinkPolicy = "throw"
	// BrokenLinksIgnore silences dead-link reporting entirely.
	BrokenLinksIgnore BrokenLinkPolicy = "ignore"
)

// IsValid checks if the policy is one of the supported values.
func (p BrokenLinkPolicy) IsValid() bool {
	return p == BrokenLinksWarn || p == BrokenLinksThrow || p == BrokenLinksIgnore
}

// NavbarItem is a single entry in the top navigation bar. Exactly one of
// To (internal route) or Href (external URL) should be set.
type NavbarItem struct {
	Label    string `yaml:"label"`
	To       string `yaml:"to,omitempty"`
	Href     string `yaml:"href,omitempty"`
	Position string `yaml:"position,omitempty"` // "left" (default) or "right"
}

// FooterLink is one link inside a footer group.
type FooterLink struct {
	Label string `yaml:"label"`
	To    string `yaml:"to,omitempty"`
	Href  string `yaml:"href,omitempty"`
}

// FooterGroup is a titled column of footer links.
type FooterGroup struct {
	Title string       `yaml:"title"`
	Links []FooterLink `yaml:"links"`
}

// MetaTag is rendered into every page head.
type MetaTag struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

// Theme holds the site color palette applied through the base layout.
type Theme struct {
	Primary    string `yaml:"primary,omitempty"`
	Background string `yaml:"background,omitempty"`
	Text       string `yaml:"text,omitempty"`
}

// ContentSource declares an additional docs tree to merge into the site.
// Local sources point at a directory; remote sources are git repositories
// cloned into the XDG data cache by `docsmith sync`.
type ContentSource struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path,omitempty"`       // local directory (exclusive with remote_url)
	RemoteURL string `yaml:"remote_url,omitempty"` // git repository URL
	Branch    string `yaml:"branch,omitempty"`     // optional branch for remote sources
	DocsDir   string `yaml:"docs_dir,omitempty"`   // subdirectory holding docs, default "docs"
	Prefix    string `yaml:"prefix,omitempty"`     // route prefix to mount the docs under
}

// IsRemote reports whether the source needs a git clone.
func (s ContentSource) IsRemote() bool {
	return s.RemoteURL != ""
}

// Config is the site-wide configuration singleton, read once at build start.
type Config struct {
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline,omitempty"`
	URL     string `yaml:"url"`
	BaseURL string `yaml:"base_url,omitempty"`

	DocsDir   string `yaml:"docs_dir,omitempty"`
	StaticDir string `yaml:"static_dir,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`

	OnBrokenLinks   BrokenLinkPolicy `yaml:"on_broken_links,omitempty"`
	ShowLastUpdated bool             `yaml:"show_last_updated,omitempty"`

	Navbar []NavbarItem  `yaml:"navbar,omitempty"`
	Footer []FooterGroup `yaml:"footer,omitempty"`
	Meta   []MetaTag     `yaml:"meta,omitempty"`
	Theme  Theme         `yaml:"theme,omitempty"`

	Sources []ContentSource `yaml:"sources,omitempty"`
}

// Default returns a Config with sensible defaults for a fresh site.
func Default() Config {
	return Config{
		Title:         "Documentation",
		BaseURL:       "/",
		DocsDir:       "docs",
		StaticDir:     "static",
		OutputDir:     "public",
		OnBrokenLinks: BrokenLinksWarn,
	}
}

// Load reads and validates the site configuration from siteDir.
func Load(siteDir string) (*Config, error) {
	path := filepath.Join(siteDir, DefaultFileName)
	logging.Debug("Loading site config", "path", path)
	return LoadFrom(path)
}

// LoadFrom loads and validates the configuration from a specific path.
// Missing optional fields are filled with defaults.
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open site config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills zero-valued optional fields and normalizes BaseURL
// to the "/.../" form the router and templates expect.
func (c *Config) applyDefaults() {
	if c.DocsDir == "" {
		c.DocsDir = "docs"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.OnBrokenLinks == "" {
		c.OnBrokenLinks = BrokenLinksWarn
	}
	if c.BaseURL == "" {
		c.BaseURL = "/"
	}
	if !strings.HasPrefix(c.BaseURL, "/") {
		c.BaseURL = "/" + c.BaseURL
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
}

// Validate checks the configuration for structural problems. It collects
// everything wrong rather than stopping at the first issue, so authors can
// fix a config in one pass.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(c.URL) == "" {
		problems = append(problems, "url is required")
	}
	if !c.OnBrokenLinks.IsValid() {
		problems = append(problems, fmt.Sprintf("on_broken_links must be one of warn, throw, ignore (got %q)", c.OnBrokenLinks))
	}
	for i, item := range c.Navbar {
		if item.Label == "" {
			problems = append(problems, fmt.Sprintf("navbar[%d]: label is required", i))
		}
		if item.To != "" && item.Href != "" {
			problems = append(problems, fmt.Sprintf("navbar[%d] (%s): set either to or href, not both", i, item.Label))
		}
		if item.To == "" && item.Href == "" {
			problems = append(problems, fmt.Sprintf("navbar[%d] (%s): one of to or href is required", i, item.Label))
		}
		if item.Position != "" && item.Position != "left" && item.Position != "right" {
			problems = append(problems, fmt.Sprintf("navbar[%d] (%s): position must be left or right", i, item.Label))
		}
	}
	for i, group := range c.Footer {
		if group.Title == "" {
			problems = append(problems, fmt.Sprintf("footer[%d]: title is required", i))
		}
		for j, link := range group.Links {
			if link.Label == "" {
				problems = append(problems, fmt.Sprintf("footer[%d].links[%d]: label is required", i, j))
			}
			if link.To == "" && link.Href == "" {
				problems = append(problems, fmt.Sprintf("footer[%d].links[%d] (%s): one of to or href is required", i, j, link.Label))
			}
		}
	}
	seen := make(map[string]bool)
	for i, src := range c.Sources {
		if src.Name == "" {
			problems = append(problems, fmt.Sprintf("sources[%d]: name is required", i))
		}
		if seen[src.Name] {
			problems = append(problems, fmt.Sprintf("sources[%d]: duplicate source name %q", i, src.Name))
		}
		seen[src.Name] = true
		if src.Path == "" && src.RemoteURL == "" {
			problems = append(problems, fmt.Sprintf("sources[%d] (%s): one of path or remote_url is required", i, src.Name))
		}
		if src.Path != "" && src.RemoteURL != "" {
			problems = append(problems, fmt.Sprintf("sources[%d] (%s): set either path or remote_url, not both", i, src.Name))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid site config:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// SaveTo writes the config to a specific path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
