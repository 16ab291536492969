package site

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"docsmith/internal/config"
	"docsmith/internal/content"
	"docsmith/internal/render"
)

// pageData is the template context for one rendered page.
type pageData struct {
	Site        *config.Config
	Doc         *content.Document
	Title       string
	Description string
	Content     template.HTML
	Headings    []render.Heading
	Nav         []navLink
	Navbar      navbarData
	Footer      []footerGroup
	ThemeCSS    template.CSS
	BaseURL     string
	LastUpdated string
}

type navbarData struct {
	Left  []navLink
	Right []navLink
}

type footerGroup struct {
	Title string
	Links []navLink
}

// executePage runs the base layout for one document.
func (b *Builder) executePage(doc *content.Document, res *render.Result, nav []navLink) ([]byte, error) {
	cfg := b.model.Config

	lastUpdated := ""
	if cfg.ShowLastUpdated && !doc.LastUpdated.IsZero() {
		lastUpdated = doc.LastUpdated.Format("January 2, 2006")
	}

	data := pageData{
		Site:        cfg,
		Doc:         doc,
		Title:       doc.Title(),
		Description: doc.Meta.Description,
		Content:     template.HTML(res.HTML),
		Headings:    res.Headings,
		Nav:         nav,
		Navbar:      b.buildNavbar(),
		Footer:      b.buildFooter(),
		ThemeCSS:    themeCSS(cfg.Theme),
		BaseURL:     cfg.BaseURL,
		LastUpdated: lastUpdated,
	}
	if doc.Meta.HideTOC {
		data.Headings = nil
	}

	var buf bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("failed to execute layout for %s: %w", doc.ID, err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) buildNavbar() navbarData {
	var nb navbarData
	for _, item := range b.model.Config.Navbar {
		link := navLink{Label: item.Label}
		if item.Href != "" {
			link.URL = item.Href
			link.External = true
		} else {
			link.URL = b.routeURL(item.To)
		}
		if item.Position == "right" {
			nb.Right = append(nb.Right, link)
		} else {
			nb.Left = append(nb.Left, link)
		}
	}
	return nb
}

func (b *Builder) buildFooter() []footerGroup {
	var groups []footerGroup
	for _, g := range b.model.Config.Footer {
		group := footerGroup{Title: g.Title}
		for _, l := range g.Links {
			link := navLink{Label: l.Label}
			if l.Href != "" {
				link.URL = l.Href
				link.External = true
			} else {
				link.URL = b.routeURL(l.To)
			}
			group.Links = append(group.Links, link)
		}
		groups = append(groups, group)
	}
	return groups
}

// themeCSS turns the configured palette into CSS custom properties. Built
// in Go so the values land in the stylesheet without html/template's CSS
// sanitization mangling author-supplied colors.
func themeCSS(t config.Theme) template.CSS {
	var b strings.Builder
	b.WriteString(":root{")
	if t.Primary != "" {
		fmt.Fprintf(&b, "--ds-primary:%s;", sanitizeColor(t.Primary))
	}
	if t.Background != "" {
		fmt.Fprintf(&b, "--ds-background:%s;", sanitizeColor(t.Background))
	}
	if t.Text != "" {
		fmt.Fprintf(&b, "--ds-text:%s;", sanitizeColor(t.Text))
	}
	b.WriteString("}")
	return template.CSS(b.String())
}

// sanitizeColor keeps palette values to characters valid in CSS color
// notation, since themeCSS bypasses template escaping.
func sanitizeColor(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '#', r == '(', r == ')', r == ',', r == '.', r == '%', r == ' ', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
