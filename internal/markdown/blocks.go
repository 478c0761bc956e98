package markdown

import (
	"regexp"
	"strings"
)

// BlockKind classifies a single source line (table rows aggregate into a
// multi-line run at render time).
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockBullet
	BlockNumbered
	BlockQuote
	BlockTableRow
	BlockBlank
)

var numberedRe = regexp.MustCompile(`^\d+\.\s`)

// ClassifyLine returns the kind of a raw line and, for headings, the level
// (1-4). Deeper heading markers than #### classify as paragraphs.
func ClassifyLine(line string) (BlockKind, int) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return BlockBlank, 0
	case strings.HasPrefix(trimmed, "#### "):
		return BlockHeading, 4
	case strings.HasPrefix(trimmed, "### "):
		return BlockHeading, 3
	case strings.HasPrefix(trimmed, "## "):
		return BlockHeading, 2
	case strings.HasPrefix(trimmed, "# "):
		return BlockHeading, 1
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "• "):
		return BlockBullet, 0
	case numberedRe.MatchString(trimmed):
		return BlockNumbered, 0
	case strings.HasPrefix(trimmed, "> "):
		return BlockQuote, 0
	case strings.HasPrefix(trimmed, "|"):
		return BlockTableRow, 0
	default:
		return BlockParagraph, 0
	}
}

// StripMarker removes the block marker from a classified line, returning the
// inner text. For table rows it returns the line unchanged (cell splitting
// is the renderer's business).
func StripMarker(line string, kind BlockKind, level int) string {
	trimmed := strings.TrimSpace(line)
	switch kind {
	case BlockHeading:
		return strings.TrimSpace(trimmed[level+1:])
	case BlockBullet:
		return strings.TrimSpace(strings.TrimLeft(trimmed, "-*• "))
	case BlockNumbered:
		return strings.TrimSpace(numberedRe.ReplaceAllString(trimmed, ""))
	case BlockQuote:
		return strings.TrimSpace(strings.TrimPrefix(trimmed, "> "))
	default:
		return trimmed
	}
}

// IsMarkdown reports whether a chunk uses the Markdown vocabulary at all.
// Legacy plain-text content (generated before the Markdown pipeline) carries
// none of these markers and takes the simpler rendering path.
func IsMarkdown(chunk string) bool {
	return strings.Contains(chunk, "##") ||
		strings.Contains(chunk, "**") ||
		strings.Contains(chunk, "*")
}

// SpanStyle is the visual style of one inline run.
type SpanStyle int

const (
	SpanPlain SpanStyle = iota
	SpanBold
	SpanItalic
	SpanCode
	SpanLink
)

type Span struct {
	Style SpanStyle
	Text  string
	URL   string // only for SpanLink
}

// One alternation, ordered so that ** is tried before * — a token that
// opens both resolves as bold.
var inlineSpanRe = regexp.MustCompile(`\*\*(.+?)\*\*|\*(.+?)\*|` + "`(.+?)`" + `|\[([^\]]+)\]\(([^)]+)\)`)

// ParseInlineSpans splits text into styled runs for **bold**, *italic*,
// `code` and [text](url) spans, with plain runs for the gaps. The returned
// texts carry no residual markers. Never empty for non-empty input.
func ParseInlineSpans(text string) []Span {
	var spans []Span
	last := 0
	for _, m := range inlineSpanRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, Span{Style: SpanPlain, Text: text[last:m[0]]})
		}
		switch {
		case m[2] >= 0:
			spans = append(spans, Span{Style: SpanBold, Text: text[m[2]:m[3]]})
		case m[4] >= 0:
			spans = append(spans, Span{Style: SpanItalic, Text: text[m[4]:m[5]]})
		case m[6] >= 0:
			spans = append(spans, Span{Style: SpanCode, Text: text[m[6]:m[7]]})
		case m[8] >= 0:
			spans = append(spans, Span{Style: SpanLink, Text: text[m[8]:m[9]], URL: text[m[10]:m[11]]})
		}
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Style: SpanPlain, Text: text[last:]})
	}
	return spans
}

// TableCells splits one |-delimited row into trimmed cell texts.
func TableCells(row string) []string {
	trimmed := strings.TrimSpace(row)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// IsTableSeparator reports whether a row is the |---|---| header separator.
func IsTableSeparator(row string) bool {
	for _, cell := range TableCells(row) {
		if cell == "" {
			continue
		}
		if strings.Trim(cell, ":-") != "" {
			return false
		}
	}
	return true
}
