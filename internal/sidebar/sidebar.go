// Package sidebar models the declarative navigation tree: leaves referencing
// document IDs, labeled categories with ordered children, and external links.
// The tree either comes from an explicit sidebar.yaml or is generated from
// the docs directory structure.
package sidebar

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docsmith/internal/content"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName is the conventional explicit sidebar declaration file.
const FileName = "sidebar.yaml"

// Node is one entry in the sidebar tree. Exactly one of the three kinds is
// set per node:
//   - Doc leaf:       doc (document ID), optional label override
//   - Category:       category (label) plus items
//   - External link:  label plus href
type Node struct {
	Doc      string  `yaml:"doc,omitempty"`
	Category string  `yaml:"category,omitempty"`
	Label    string  `yaml:"label,omitempty"`
	Href     string  `yaml:"href,omitempty"`
	Items    []*Node `yaml:"items,omitempty"`

	// position orders autogenerated entries; not part of the file format.
	position int
}

// IsDoc reports whether the node is a document leaf.
func (n *Node) IsDoc() bool { return n.Doc != "" }

// IsCategory reports whether the node is a category.
func (n *Node) IsCategory() bool { return n.Category != "" }

// IsLink reports whether the node is an external link.
func (n *Node) IsLink() bool { return n.Href != "" }

// Sidebar is the navigation tree root.
type Sidebar struct {
	Items []*Node `yaml:"sidebar"`
}

// Load reads an explicit sidebar declaration file.
func Load(path string) (*Sidebar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidebar file: %w", err)
	}

	var sb Sidebar
	if err := yaml.Unmarshal(raw, &sb); err != nil {
		return nil, fmt.Errorf("failed to parse sidebar file: %w", err)
	}
	if len(sb.Items) == 0 {
		return nil, fmt.Errorf("sidebar file %s declares no entries", path)
	}
	return &sb, nil
}

// Validate checks the tree against the scanned documents. It returns every
// violation found rather than failing fast:
//   - every node must be exactly one of doc / category / link
//   - every doc leaf must resolve to an existing document
//   - no document may be referenced by two entries
//   - categories must have at least one item
func (sb *Sidebar) Validate(docs *content.Collection) []string {
	var problems []string
	seen := make(map[string]bool)

	var walk func(nodes []*Node, trail string)
	walk = func(nodes []*Node, trail string) {
		for i, n := range nodes {
			where := fmt.Sprintf("%s[%d]", trail, i)

			kinds := 0
			if n.IsDoc() {
				kinds++
			}
			if n.IsCategory() {
				kinds++
			}
			if n.IsLink() && !n.IsDoc() && !n.IsCategory() {
				kinds++
			}
			if kinds != 1 {
				problems = append(problems, fmt.Sprintf("%s: entry must be exactly one of doc, category, or link", where))
				continue
			}

			switch {
			case n.IsDoc():
				if docs.Get(n.Doc) == nil {
					problems = append(problems, fmt.Sprintf("%s: doc %q does not exist", where, n.Doc))
				} else if seen[n.Doc] {
					problems = append(problems, fmt.Sprintf("%s: doc %q is referenced more than once", where, n.Doc))
				}
				seen[n.Doc] = true
			case n.IsCategory():
				if len(n.Items) == 0 {
					problems = append(problems, fmt.Sprintf("%s: category %q has no items", where, n.Category))
				}
				walk(n.Items, where+".items")
			case n.IsLink():
				if n.Label == "" {
					problems = append(problems, fmt.Sprintf("%s: link is missing a label", where))
				}
			}
		}
	}
	walk(sb.Items, "sidebar")
	return problems
}

// DocIDs returns the IDs of all document leaves in tree order. This is the
// canonical reading order used by the search index and the TUI browser.
func (sb *Sidebar) DocIDs() []string {
	var ids []string
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n.IsDoc() {
				ids = append(ids, n.Doc)
			}
			walk(n.Items)
		}
	}
	walk(sb.Items)
	return ids
}

// categoryMeta is the optional _category_.yaml file inside a docs directory,
// relabeling or repositioning the autogenerated category for that directory.
type categoryMeta struct {
	Label    string `yaml:"label"`
	Position int    `yaml:"position,omitempty"`
}

// Generate builds a sidebar from the docs directory structure: one category
// per subdirectory, one leaf per document. Entries are ordered by
// sidebar_position (or _category_.yaml position for directories); entries
// without a position sort after positioned ones. Ties break by file name,
// ascending, so output is deterministic.
func Generate(docs *content.Collection, docsDir string) *Sidebar {
	root := &Node{}
	byDir := map[string]*Node{"": root}

	// materialize the category chain for a directory path
	var categoryFor func(dir string) *Node
	categoryFor = func(dir string) *Node {
		if n, ok := byDir[dir]; ok {
			return n
		}
		parent := categoryFor(parentDir(dir))
		n := &Node{
			Category: categoryLabel(docsDir, dir),
			position: categoryPosition(docsDir, dir),
		}
		parent.Items = append(parent.Items, n)
		byDir[dir] = n
		return n
	}

	for _, doc := range docs.Docs {
		dir := filepath.ToSlash(filepath.Dir(doc.RelPath))
		if dir == "." {
			dir = ""
		}
		cat := categoryFor(dir)
		cat.Items = append(cat.Items, &Node{
			Doc:      doc.ID,
			position: doc.Meta.SidebarPosition,
		})
	}

	sortTree(root, docs)
	return &Sidebar{Items: root.Items}
}

// sortTree orders every level by (position, name). Position zero means
// "unpositioned" and sorts after every positioned entry.
func sortTree(n *Node, docs *content.Collection) {
	sort.SliceStable(n.Items, func(i, j int) bool {
		a, b := n.Items[i], n.Items[j]
		ap, bp := a.position, b.position
		if ap == 0 {
			ap = 1 << 30
		}
		if bp == 0 {
			bp = 1 << 30
		}
		if ap != bp {
			return ap < bp
		}
		return sortName(a, docs) < sortName(b, docs)
	})
	for _, child := range n.Items {
		sortTree(child, docs)
	}
}

func sortName(n *Node, docs *content.Collection) string {
	if n.IsDoc() {
		if d := docs.Get(n.Doc); d != nil {
			return filepath.Base(d.RelPath)
		}
		return n.Doc
	}
	return n.Category
}

func parentDir(dir string) string {
	parent := filepath.ToSlash(filepath.Dir(dir))
	if parent == "." || parent == "/" {
		return ""
	}
	return parent
}

func categoryLabel(docsDir, dir string) string {
	if meta := readCategoryMeta(docsDir, dir); meta != nil && meta.Label != "" {
		return meta.Label
	}
	base := filepath.Base(dir)
	cleaned := strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	return cases.Title(language.English).String(cleaned)
}

func categoryPosition(docsDir, dir string) int {
	if meta := readCategoryMeta(docsDir, dir); meta != nil {
		return meta.Position
	}
	return 0
}

func readCategoryMeta(docsDir, dir string) *categoryMeta {
	raw, err := os.ReadFile(filepath.Join(docsDir, filepath.FromSlash(dir), "_category_.yaml"))
	if err != nil {
		return nil
	}
	var meta categoryMeta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil
	}
	return &meta
}
