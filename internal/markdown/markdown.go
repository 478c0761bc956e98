// Package markdown holds the text transformations between the generative
// model's output and what the rest of the system stores and renders:
// section splitting with fuzzy title reconciliation, line/block
// classification for the office renderers, and HTML preview conversion.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var htmlConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ToHTML converts markdown to an HTML preview fragment. Empty in, empty out;
// a converter failure also yields empty rather than an error — the preview
// is derived data and regenerated on every content write.
func ToHTML(markdownContent string) string {
	if markdownContent == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := htmlConverter.Convert([]byte(markdownContent), &buf); err != nil {
		return ""
	}
	return buf.String()
}

var (
	excessNewlinesRe   = regexp.MustCompile(`\n{3,}`)
	headingBeforeRe    = regexp.MustCompile("([^\n])\n(#{1,6} )")
	headingAfterRe     = regexp.MustCompile("(#{1,6} .+)\n([^\n])")
	headingMarkerRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldMarkerRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicMarkerRe     = regexp.MustCompile(`\*(.+?)\*`)
	boldUnderscoreRe   = regexp.MustCompile(`__(.+?)__`)
	italicUnderscoreRe = regexp.MustCompile(`_(.+?)_`)
	linkMarkerRe       = regexp.MustCompile(`\[(.+?)\]\(.+?\)`)
	codeMarkerRe       = regexp.MustCompile("`(.+?)`")
	bulletMarkerRe     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberMarkerRe     = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	quoteMarkerRe      = regexp.MustCompile(`(?m)^\s*>\s+`)
)

// ExtractTitle returns the first level-1 heading, or "" when none exists.
func ExtractTitle(markdownContent string) string {
	for _, line := range strings.Split(markdownContent, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// CleanForPreview collapses runs of 3+ newlines and guarantees blank lines
// around headings so the HTML converter sees well-formed blocks.
func CleanForPreview(markdownContent string) string {
	content := excessNewlinesRe.ReplaceAllString(markdownContent, "\n\n")
	content = headingBeforeRe.ReplaceAllString(content, "$1\n\n$2")
	content = headingAfterRe.ReplaceAllString(content, "$1\n\n$2")
	return strings.TrimSpace(content)
}

// ToPlainText strips all markdown formatting, keeping only the visible text.
func ToPlainText(markdownContent string) string {
	text := headingMarkerRe.ReplaceAllString(markdownContent, "")
	text = boldMarkerRe.ReplaceAllString(text, "$1")
	text = italicMarkerRe.ReplaceAllString(text, "$1")
	text = boldUnderscoreRe.ReplaceAllString(text, "$1")
	text = italicUnderscoreRe.ReplaceAllString(text, "$1")
	text = linkMarkerRe.ReplaceAllString(text, "$1")
	text = codeMarkerRe.ReplaceAllString(text, "$1")
	text = bulletMarkerRe.ReplaceAllString(text, "")
	text = numberMarkerRe.ReplaceAllString(text, "")
	text = quoteMarkerRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractDocument removes code fences the model sometimes wraps a whole
// generated document in.
func ExtractDocument(rawContent string) string {
	content := strings.TrimSpace(rawContent)
	if strings.HasPrefix(content, "```markdown") {
		content = strings.TrimSpace(content[len("```markdown"):])
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimSpace(content[3:])
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSpace(content[:len(content)-3])
	}
	return content
}
