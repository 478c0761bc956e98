package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		kind  BlockKind
		level int
	}{
		{"blank", "   ", BlockBlank, 0},
		{"h2", "## Overview", BlockHeading, 2},
		{"h3", "### Details", BlockHeading, 3},
		{"h4", "#### Fine Print", BlockHeading, 4},
		{"h1", "# Title", BlockHeading, 1},
		{"dash_bullet", "- item", BlockBullet, 0},
		{"star_bullet", "* item", BlockBullet, 0},
		{"dot_bullet", "• item", BlockBullet, 0},
		{"numbered", "3. step three", BlockNumbered, 0},
		{"quote", "> insight", BlockQuote, 0},
		{"table_row", "| a | b |", BlockTableRow, 0},
		{"paragraph", "just text", BlockParagraph, 0},
		{"bold_start_is_paragraph", "**Point:** detail", BlockParagraph, 0},
		{"indented_bullet", "  - nested item", BlockBullet, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, level := ClassifyLine(tc.line)
			if kind != tc.kind || level != tc.level {
				t.Fatalf("ClassifyLine(%q)=(%v,%d), want (%v,%d)", tc.line, kind, level, tc.kind, tc.level)
			}
		})
	}
}

func TestStripMarker(t *testing.T) {
	cases := []struct {
		line  string
		kind  BlockKind
		level int
		want  string
	}{
		{"## Overview", BlockHeading, 2, "Overview"},
		{"#### Deep", BlockHeading, 4, "Deep"},
		{"- bullet text", BlockBullet, 0, "bullet text"},
		{"1. first step", BlockNumbered, 0, "first step"},
		{"> quoted wisdom", BlockQuote, 0, "quoted wisdom"},
		{"plain line", BlockParagraph, 0, "plain line"},
	}
	for _, tc := range cases {
		if got := StripMarker(tc.line, tc.kind, tc.level); got != tc.want {
			t.Errorf("StripMarker(%q)=%q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestParseInlineSpans(t *testing.T) {
	got := ParseInlineSpans("Has **bold** and *italic* and `code` and [link](http://x) ends.")
	want := []Span{
		{Style: SpanPlain, Text: "Has "},
		{Style: SpanBold, Text: "bold"},
		{Style: SpanPlain, Text: " and "},
		{Style: SpanItalic, Text: "italic"},
		{Style: SpanPlain, Text: " and "},
		{Style: SpanCode, Text: "code"},
		{Style: SpanPlain, Text: " and "},
		{Style: SpanLink, Text: "link", URL: "http://x"},
		{Style: SpanPlain, Text: " ends."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("spans mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseInlineSpansBoldBeforeItalic(t *testing.T) {
	got := ParseInlineSpans("**Point:** detail")
	if len(got) != 2 {
		t.Fatalf("expected 2 spans, got %d: %+v", len(got), got)
	}
	if got[0].Style != SpanBold || got[0].Text != "Point:" {
		t.Errorf("leading ** must resolve as bold, got %+v", got[0])
	}
	if got[1].Style != SpanPlain || got[1].Text != " detail" {
		t.Errorf("trailing run wrong: %+v", got[1])
	}
}

func TestParseInlineSpansNoResidualMarkers(t *testing.T) {
	for _, sp := range ParseInlineSpans("**a** *b* `c` [d](u) plain") {
		if sp.Style == SpanPlain {
			continue
		}
		for _, marker := range []string{"*", "`", "[", "]"} {
			if strings.Contains(sp.Text, marker) {
				t.Errorf("span %+v carries residual marker %q", sp, marker)
			}
		}
	}
}

func TestParseInlineSpansPlainOnly(t *testing.T) {
	got := ParseInlineSpans("no styling at all")
	if len(got) != 1 || got[0].Style != SpanPlain || got[0].Text != "no styling at all" {
		t.Fatalf("plain text should yield one plain span, got %+v", got)
	}
}

func TestIsMarkdown(t *testing.T) {
	cases := []struct {
		chunk string
		want  bool
	}{
		{"## Heading\n\nBody", true},
		{"Some **bold** prose", true},
		{"* a starred item", true},
		{"Plain paragraphs only.\n\n- with a dash list.", false},
	}
	for _, tc := range cases {
		if got := IsMarkdown(tc.chunk); got != tc.want {
			t.Errorf("IsMarkdown(%q)=%v, want %v", tc.chunk, got, tc.want)
		}
	}
}

func TestTableCells(t *testing.T) {
	got := TableCells("| Feature | Benefit | Cost |")
	want := []string{"Feature", "Benefit", "Cost"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TableCells=%v, want %v", got, want)
	}
}

func TestIsTableSeparator(t *testing.T) {
	cases := []struct {
		row  string
		want bool
	}{
		{"|---------|---------|", true},
		{"| :--- | ---: |", true},
		{"| Feature | Benefit |", false},
	}
	for _, tc := range cases {
		if got := IsTableSeparator(tc.row); got != tc.want {
			t.Errorf("IsTableSeparator(%q)=%v, want %v", tc.row, got, tc.want)
		}
	}
}
