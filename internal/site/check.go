package site

import (
	"fmt"

	"docsmith/internal/linkcheck"
)

// CheckReport aggregates every documentation-integrity violation found in a
// loaded site, grouped the way `docsmith check` prints them.
type CheckReport struct {
	Frontmatter []string
	Sidebar     []string
	Links       []linkcheck.Violation
}

// Clean reports whether no violations were found.
func (r *CheckReport) Clean() bool {
	return len(r.Frontmatter) == 0 && len(r.Sidebar) == 0 && len(r.Links) == 0
}

// Total is the number of violations across all groups.
func (r *CheckReport) Total() int {
	return len(r.Frontmatter) + len(r.Sidebar) + len(r.Links)
}

// Check runs every integrity property against the loaded site without
// writing any output: required frontmatter fields, sidebar leaf resolution
// and duplicates, and internal-link liveness. All violations are collected
// so authors can fix a site in one pass.
func Check(model *Model) *CheckReport {
	report := &CheckReport{
		Sidebar: model.SidebarProblems,
	}

	for _, doc := range model.Docs.Docs {
		report.Frontmatter = append(report.Frontmatter, doc.Problems()...)
	}

	report.Links = linkcheck.Check(model.Docs)
	return report
}

// Summary renders the report as printable lines.
func (r *CheckReport) Summary() []string {
	var lines []string
	for _, p := range r.Frontmatter {
		lines = append(lines, fmt.Sprintf("frontmatter: %s", p))
	}
	for _, p := range r.Sidebar {
		lines = append(lines, fmt.Sprintf("sidebar: %s", p))
	}
	for _, v := range r.Links {
		lines = append(lines, fmt.Sprintf("link: %s", v))
	}
	return lines
}
