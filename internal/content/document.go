package content

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Frontmatter is the YAML metadata header expected at the top of every
// document. Title and Description are required by `docsmith check`;
// everything else is optional.
type Frontmatter struct {
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	SidebarPosition int      `yaml:"sidebar_position,omitempty"`
	Slug            string   `yaml:"slug,omitempty"`
	Draft           bool     `yaml:"draft,omitempty"`
	HideTOC         bool     `yaml:"hide_toc,omitempty"`
	Tags            []string `yaml:"tags,omitempty"`
}

// Document is one markdown page: an identifier, parsed frontmatter, and the
// markdown body with the frontmatter stripped. Documents are created by the
// scanner and never mutated afterwards.
type Document struct {
	// ID is the route-forming identifier relative to the docs root,
	// slash-separated, without extension (e.g. "cli/overview").
	ID string

	// SourcePath is the absolute path of the markdown file.
	SourcePath string

	// RelPath is the path relative to the docs root, as scanned.
	RelPath string

	// Prefix is the route prefix of the content source the document came
	// from ("" for the site's own docs tree).
	Prefix string

	Meta Frontmatter

	// Body is the markdown content without the frontmatter header.
	Body []byte

	// HasFrontmatter records whether a frontmatter block was present at all.
	HasFrontmatter bool

	// LastUpdated is the newest commit time touching the file, when git
	// metadata is enabled. Zero otherwise.
	LastUpdated time.Time
}

// Route returns the site-relative route for the document ("/cli/overview/").
func (d *Document) Route() string {
	return "/" + d.ID + "/"
}

// Title returns the frontmatter title, falling back to a title-cased form
// of the filename when the frontmatter omits it.
func (d *Document) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	base := path.Base(d.ID)
	cleaned := strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	return cases.Title(language.English).String(cleaned)
}

// Problems reports frontmatter-integrity violations for `docsmith check`.
// A missing title still renders (filename fallback) but is reported here.
func (d *Document) Problems() []string {
	var problems []string
	if !d.HasFrontmatter {
		problems = append(problems, fmt.Sprintf("%s: missing frontmatter header", d.RelPath))
		return problems
	}
	if strings.TrimSpace(d.Meta.Title) == "" {
		problems = append(problems, fmt.Sprintf("%s: frontmatter is missing required field 'title'", d.RelPath))
	}
	if strings.TrimSpace(d.Meta.Description) == "" {
		problems = append(problems, fmt.Sprintf("%s: frontmatter is missing required field 'description'", d.RelPath))
	}
	return problems
}

// ParseDocument parses raw file bytes into a Document. Files without a
// frontmatter header are accepted; the whole content becomes the body and
// HasFrontmatter is false so check can flag it.
func ParseDocument(raw []byte, sourcePath, relPath string) (*Document, error) {
	doc := &Document{
		SourcePath: sourcePath,
		RelPath:    relPath,
	}

	body, err := frontmatter.Parse(bytes.NewReader(raw), &doc.Meta)
	if err != nil {
		return nil, fmt.Errorf("invalid frontmatter in %s: %w", relPath, err)
	}
	doc.Body = body
	// Parse returns the input unchanged when no header is present; a
	// prose-only page still builds, and check reports the omission.
	doc.HasFrontmatter = len(body) != len(raw)

	doc.ID = deriveID(relPath, doc.Meta.Slug)
	if doc.ID == "" {
		return nil, fmt.Errorf("cannot derive document ID from %q", relPath)
	}
	return doc, nil
}

// deriveID turns a docs-root-relative file path into a document ID.
// "cli/overview.md" -> "cli/overview"; "cli/index.md" -> "cli";
// a frontmatter slug replaces the final segment.
func deriveID(relPath, slug string) string {
	p := strings.TrimSuffix(relPath, path.Ext(relPath))
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")

	base := path.Base(p)
	dir := path.Dir(p)
	if base == "index" || base == "README" {
		if dir == "." {
			p = "index"
		} else {
			p = dir
		}
	}

	if slug != "" {
		slug = strings.Trim(slug, "/")
		if dir := path.Dir(p); dir != "." && !strings.Contains(slug, "/") {
			p = dir + "/" + slug
		} else {
			p = slug
		}
	}
	return p
}
