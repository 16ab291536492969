// Package site orchestrates the build: configuration plus scanned content
// plus the sidebar tree in, rendered HTML pages, static assets, a search
// index, and a build manifest out.
package site

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"docsmith/internal/config"
	"docsmith/internal/content"
	"docsmith/internal/gitmeta"
	"docsmith/internal/linkcheck"
	"docsmith/internal/logging"
	"docsmith/internal/render"
	"docsmith/internal/sidebar"
)

//go:embed templates
var templateFS embed.FS

// SearchIndexFileName is the JSON search index emitted with every build.
const SearchIndexFileName = "search.json"

// Report summarizes a completed build.
type Report struct {
	Pages       int
	StaticFiles int
	Violations  []linkcheck.Violation
	OutputDir   string
}

// Builder renders a loaded site model into the output directory.
type Builder struct {
	model    *Model
	logger   *logging.AppLogger
	renderer *render.Renderer
	tmpl     *template.Template
}

// NewBuilder parses the embedded layout templates and prepares a builder.
func NewBuilder(model *Model, logger *logging.AppLogger) (*Builder, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout templates: %w", err)
	}
	return &Builder{
		model:    model,
		logger:   logger,
		renderer: render.New(),
		tmpl:     tmpl,
	}, nil
}

// Build runs the full pipeline. Dead internal links are handled per the
// configured policy: warn logs them, throw fails before anything is
// written, ignore skips the check output entirely.
func (b *Builder) Build() (*Report, error) {
	cfg := b.model.Config
	report := &Report{OutputDir: filepath.Join(b.model.SiteDir, cfg.OutputDir)}

	if len(b.model.SidebarProblems) > 0 {
		return report, fmt.Errorf("sidebar validation failed:\n  - %s", joinProblems(b.model.SidebarProblems))
	}

	if cfg.OnBrokenLinks != config.BrokenLinksIgnore {
		report.Violations = linkcheck.Check(b.model.Docs)
		for _, v := range report.Violations {
			b.logger.Warn("Broken internal link", "doc", v.DocID, "link", v.Link)
		}
		if cfg.OnBrokenLinks == config.BrokenLinksThrow && len(report.Violations) > 0 {
			return report, fmt.Errorf("build failed: %d broken internal link(s)", len(report.Violations))
		}
	}

	if cfg.ShowLastUpdated {
		if err := gitmeta.Annotate(b.model.Docs.Docs, b.model.SiteDir, b.logger); err != nil {
			return report, err
		}
	}

	outputDir := report.OutputDir
	if err := os.RemoveAll(outputDir); err != nil {
		return report, fmt.Errorf("failed to clean output directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := b.writeAssets(outputDir); err != nil {
		return report, err
	}

	staticDir := filepath.Join(b.model.SiteDir, cfg.StaticDir)
	if _, err := os.Stat(staticDir); err == nil {
		copied, err := copyDirContents(staticDir, outputDir)
		if err != nil {
			return report, fmt.Errorf("failed to copy static assets: %w", err)
		}
		report.StaticFiles = copied
	}

	manifest := NewManifest()
	nav := b.buildNav()
	var index []searchEntry

	// Docs.Docs is sorted by the scanner; iteration order and therefore
	// output is deterministic.
	for _, doc := range b.model.Docs.Docs {
		res, err := b.renderer.Render(doc.Body)
		if err != nil {
			return report, fmt.Errorf("failed to render %s: %w", doc.ID, err)
		}

		page, err := b.executePage(doc, res, nav)
		if err != nil {
			return report, err
		}

		outPath := b.outputPath(outputDir, doc)
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return report, fmt.Errorf("failed to create directory for %s: %w", doc.ID, err)
		}
		if err := os.WriteFile(outPath, page, 0644); err != nil {
			return report, fmt.Errorf("failed to write page %s: %w", doc.ID, err)
		}

		manifest.Record(doc.Route(), page)
		index = append(index, searchEntryFor(doc, res))
		report.Pages++
	}

	if err := b.writeSearchIndex(outputDir, index); err != nil {
		return report, err
	}
	if err := manifest.WriteTo(outputDir); err != nil {
		return report, err
	}

	b.logger.Info("Site built", "pages", report.Pages, "static", report.StaticFiles, "output", outputDir)
	return report, nil
}

// outputPath maps a document to its file in the output tree. Routes are
// directory-style: "cli/overview" becomes cli/overview/index.html; the root
// "index" document becomes the site's index.html.
func (b *Builder) outputPath(outputDir string, doc *content.Document) string {
	if doc.ID == "index" {
		return filepath.Join(outputDir, "index.html")
	}
	return filepath.Join(outputDir, filepath.FromSlash(doc.ID), "index.html")
}

// routeURL resolves a document route to a served URL under the base URL.
func (b *Builder) routeURL(route string) string {
	route = strings.Trim(route, "/")
	if route == "" || route == "index" {
		return b.model.Config.BaseURL
	}
	return b.model.Config.BaseURL + route + "/"
}

func (b *Builder) writeAssets(outputDir string) error {
	css, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return fmt.Errorf("failed to read bundled stylesheet: %w", err)
	}
	assetsDir := filepath.Join(outputDir, "assets")
	if err := os.MkdirAll(assetsDir, 0755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(assetsDir, "style.css"), css, 0644); err != nil {
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}
	return nil
}

// searchEntry is one record of the emitted search index.
type searchEntry struct {
	Route       string   `json:"route"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Headings    []string `json:"headings,omitempty"`
}

func searchEntryFor(doc *content.Document, res *render.Result) searchEntry {
	var headings []string
	for _, h := range res.Headings {
		headings = append(headings, h.Text)
	}
	return searchEntry{
		Route:       doc.Route(),
		Title:       doc.Title(),
		Description: doc.Meta.Description,
		Headings:    headings,
	}
}

func (b *Builder) writeSearchIndex(outputDir string, entries []searchEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode search index: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(outputDir, SearchIndexFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write search index: %w", err)
	}
	return nil
}

// copyDirContents recursively copies src into dst, returning the number of
// files copied.
func copyDirContents(src, dst string) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}

// navLink is a resolved navigation entry handed to templates. Internal
// routes are expanded to full URLs, so templates never touch raw doc IDs.
type navLink struct {
	Label    string
	URL      string
	External bool
	Children []navLink
}

// buildNav resolves the sidebar tree into labeled, linked entries. Doc
// leaves without an explicit label use the document title.
func (b *Builder) buildNav() []navLink {
	var convert func(nodes []*sidebar.Node) []navLink
	convert = func(nodes []*sidebar.Node) []navLink {
		var out []navLink
		for _, n := range nodes {
			switch {
			case n.IsDoc():
				doc := b.model.Docs.Get(n.Doc)
				label := n.Label
				if label == "" && doc != nil {
					label = doc.Title()
				}
				out = append(out, navLink{
					Label: label,
					URL:   b.routeURL(n.Doc),
				})
			case n.IsCategory():
				out = append(out, navLink{
					Label:    n.Category,
					Children: convert(n.Items),
				})
			case n.IsLink():
				out = append(out, navLink{
					Label:    n.Label,
					URL:      n.Href,
					External: true,
				})
			}
		}
		return out
	}
	return convert(b.model.Sidebar.Items)
}
