// Package linkcheck verifies that internal links in document prose resolve
// to known routes. Absolute links ("/cli/overview") are matched against the
// route table directly; relative links ("./setup.md", "../guides/intro.md")
// are resolved against the linking document first.
package linkcheck

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"docsmith/internal/content"
)

// Violation is one dead internal link.
type Violation struct {
	DocID  string // document containing the link
	Link   string // the link target as written
	Target string // the route it resolved to
}

func (v Violation) String() string {
	if v.Link == v.Target {
		return fmt.Sprintf("%s: dead link %q", v.DocID, v.Link)
	}
	return fmt.Sprintf("%s: dead link %q (resolves to %s)", v.DocID, v.Link, v.Target)
}

var (
	// inline links and images: [label](target), ![alt](target "title")
	inlineLinkRE = regexp.MustCompile(`!?\[[^\]]*\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	// reference definitions: [label]: target
	refDefRE = regexp.MustCompile(`(?m)^\s*\[[^\]]+\]:\s+(\S+)`)
	// raw HTML anchors: href="target"
	hrefRE = regexp.MustCompile(`href="([^"]+)"`)
)

// Check scans every document body for internal links and reports the ones
// that do not resolve. Results are ordered by document then link so output
// is stable.
func Check(docs *content.Collection) []Violation {
	var violations []Violation

	for _, doc := range docs.Docs {
		body := stripFences(string(doc.Body))

		seen := make(map[string]bool)
		for _, target := range extractTargets(body) {
			if seen[target] {
				continue
			}
			seen[target] = true

			route, internal := resolve(target, doc)
			if !internal {
				continue
			}
			if !docs.HasRoute(route) {
				violations = append(violations, Violation{
					DocID:  doc.ID,
					Link:   target,
					Target: route,
				})
			}
		}
	}
	return violations
}

// extractTargets pulls every link target out of a markdown body.
func extractTargets(body string) []string {
	var targets []string
	for _, re := range []*regexp.Regexp{inlineLinkRE, refDefRE, hrefRE} {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			targets = append(targets, m[1])
		}
	}
	return targets
}

// resolve normalizes a link target to a route, reporting whether it is an
// internal doc link at all. External URLs, pure fragments, mailto links, and
// static-asset paths (non-markdown extensions) are not checked.
func resolve(target string, doc *content.Document) (string, bool) {
	target = strings.SplitN(target, "#", 2)[0]
	target = strings.SplitN(target, "?", 2)[0]
	if target == "" {
		return "", false
	}
	if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
		return "", false
	}

	if ext := path.Ext(target); ext != "" && !content.IsMarkdownFile(target) {
		return "", false
	}

	if strings.HasPrefix(target, "/") {
		return trimMarkdownExt(target), true
	}

	// relative to the linking document's directory within the docs tree,
	// under the mount prefix of its content source
	base := path.Dir(doc.RelPath)
	if base == "." {
		base = ""
	}
	joined := path.Clean(path.Join(doc.Prefix, base, target))
	if strings.HasPrefix(joined, "..") {
		// escapes the docs root; nothing it could resolve to
		return "/" + joined, true
	}
	return "/" + trimMarkdownExt(joined), true
}

func trimMarkdownExt(p string) string {
	if content.IsMarkdownFile(p) {
		p = strings.TrimSuffix(p, path.Ext(p))
	}
	base := path.Base(p)
	if base == "index" || base == "README" {
		p = path.Dir(p)
		if p == "." {
			p = ""
		}
	}
	return strings.TrimSuffix(p, "/")
}

// stripFences blanks out fenced code blocks so link syntax in code samples
// is not treated as a real link.
func stripFences(body string) string {
	lines := strings.Split(body, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			lines[i] = ""
			continue
		}
		if inFence {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
