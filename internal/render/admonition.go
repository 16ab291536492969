package render

import (
	"bytes"
	"fmt"
	"strings"
)

// admonitionTypes are the directive names accepted in :::blocks.
var admonitionTypes = map[string]bool{
	"note":    true,
	"tip":     true,
	"info":    true,
	"warning": true,
	"danger":  true,
	"caution": true,
}

// defaultAdmonitionTitles label a block when the opening line carries none.
var defaultAdmonitionTitles = map[string]string{
	"note":    "Note",
	"tip":     "Tip",
	"info":    "Info",
	"warning": "Warning",
	"danger":  "Danger",
	"caution": "Caution",
}

// TransformAdmonitions rewrites :::tip / :::warning style blocks into raw
// HTML containers before markdown conversion. The inner lines stay markdown;
// blank lines around the injected tags make goldmark resume normal block
// parsing inside the container. Fenced code blocks are left untouched so a
// ::: inside a code sample is not mistaken for a directive.
func TransformAdmonitions(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	var out bytes.Buffer

	inFence := false
	fenceMarker := ""
	depth := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inFence {
			out.WriteString(line)
			out.WriteByte('\n')
			if strings.HasPrefix(trimmed, fenceMarker) {
				inFence = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = true
			fenceMarker = trimmed[:3]
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}

		if kind, title, ok := parseAdmonitionOpen(trimmed); ok {
			depth++
			fmt.Fprintf(&out, "<div class=\"admonition admonition-%s\">\n", kind)
			fmt.Fprintf(&out, "<p class=\"admonition-title\">%s</p>\n\n", escapeHTML(title))
			continue
		}
		if trimmed == ":::" && depth > 0 {
			depth--
			out.WriteString("\n</div>\n")
			continue
		}

		out.WriteString(line)
		out.WriteByte('\n')
	}

	// Unterminated blocks still need their containers closed or the rest
	// of the page ends up inside the admonition.
	for ; depth > 0; depth-- {
		out.WriteString("\n</div>\n")
	}

	result := out.Bytes()
	// Restore the original trailing-newline shape.
	if len(src) > 0 && src[len(src)-1] != '\n' {
		result = bytes.TrimSuffix(result, []byte("\n"))
	}
	return result
}

// parseAdmonitionOpen matches ":::tip" or ":::tip Custom Title".
func parseAdmonitionOpen(line string) (kind, title string, ok bool) {
	if !strings.HasPrefix(line, ":::") || line == ":::" {
		return "", "", false
	}
	rest := strings.TrimPrefix(line, ":::")
	fields := strings.SplitN(rest, " ", 2)
	kind = strings.ToLower(strings.TrimSpace(fields[0]))
	if !admonitionTypes[kind] {
		return "", "", false
	}
	if len(fields) == 2 && strings.TrimSpace(fields[1]) != "" {
		title = strings.TrimSpace(fields[1])
	} else {
		title = defaultAdmonitionTitles[kind]
	}
	return kind, title, true
}

func escapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
