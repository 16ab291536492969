// Package render converts document markdown into HTML: a goldmark pipeline
// with GFM tables, auto heading IDs, emoji shortcodes, and an admonition
// pre-transform, plus heading extraction for the per-page table of contents.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Heading is one TOC entry extracted from a rendered document.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

// Result is the rendered form of one document body.
type Result struct {
	HTML     string
	Headings []Heading
}

// Renderer is a reusable markdown-to-HTML converter. Safe to share across
// documents; goldmark instances are stateless between Convert calls.
type Renderer struct {
	md goldmark.Markdown
}

// New creates the site renderer. Raw HTML is allowed because the admonition
// transform injects container tags ahead of conversion.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				emoji.Emoji,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Render converts a markdown body to HTML and extracts h2/h3 headings for
// the table of contents.
func (r *Renderer) Render(src []byte) (*Result, error) {
	src = TransformAdmonitions(src)

	reader := text.NewReader(src)
	pctx := parser.NewContext()
	doc := r.md.Parser().Parse(reader, parser.WithContext(pctx))

	headings, err := extractHeadings(doc, src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("markdown rendering failed: %w", err)
	}

	return &Result{
		HTML:     buf.String(),
		Headings: headings,
	}, nil
}

// extractHeadings walks the parsed AST collecting level 2-3 headings with
// the anchor IDs the auto-heading-ID parser assigned.
func extractHeadings(doc ast.Node, src []byte) ([]Heading, error) {
	var headings []Heading

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level < 2 || h.Level > 3 {
			return ast.WalkContinue, nil
		}

		anchor := ""
		if id, found := h.AttributeString("id"); found {
			if b, ok := id.([]byte); ok {
				anchor = string(b)
			}
		}
		headings = append(headings, Heading{
			Level:  h.Level,
			Text:   headingText(h, src),
			Anchor: anchor,
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("heading extraction failed: %w", err)
	}
	return headings, nil
}

// headingText flattens the inline children of a heading to plain text.
func headingText(h *ast.Heading, src []byte) string {
	var buf bytes.Buffer
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		collectText(c, src, &buf)
	}
	return buf.String()
}

func collectText(n ast.Node, src []byte, buf *bytes.Buffer) {
	switch t := n.(type) {
	case *ast.Text:
		buf.Write(t.Segment.Value(src))
	case *ast.String:
		buf.Write(t.Value)
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			collectText(c, src, buf)
		}
	}
}
