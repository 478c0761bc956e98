package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	got := ToHTML("## Heading\n\nSome **bold** text.")
	if !strings.Contains(got, "<h2") || !strings.Contains(got, "Heading") {
		t.Errorf("expected an h2 element, got %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("expected bold run, got %q", got)
	}
}

func TestToHTMLTables(t *testing.T) {
	got := ToHTML("| A | B |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(got, "<table>") {
		t.Errorf("GFM tables should render, got %q", got)
	}
}

func TestToHTMLEmpty(t *testing.T) {
	if got := ToHTML(""); got != "" {
		t.Errorf("empty input must yield empty output, got %q", got)
	}
}

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"first_h1", "# My Report\n\nIntro text", "My Report"},
		{"h1_after_prose", "preamble\n# Actual Title\nmore", "Actual Title"},
		{"no_h1", "## Only Subheadings\ntext", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTitle(tc.content); got != tc.want {
				t.Errorf("ExtractTitle=%q, want %q", got, tc.want)
			}
		})
	}
}

func TestCleanForPreview(t *testing.T) {
	got := CleanForPreview("first\n\n\n\nsecond")
	if got != "first\n\nsecond" {
		t.Errorf("newline runs should collapse to two, got %q", got)
	}

	got = CleanForPreview("intro text\n## Heading\nbody text")
	if !strings.Contains(got, "intro text\n\n## Heading") {
		t.Errorf("heading needs a blank line before it, got %q", got)
	}
	if !strings.Contains(got, "## Heading\n\nbody text") {
		t.Errorf("heading needs a blank line after it, got %q", got)
	}
}

func TestToPlainText(t *testing.T) {
	in := "## Heading\n\n- **Bold** item\n1. _numbered_\n> quote with [link](http://x) and `code`"
	got := ToPlainText(in)
	for _, forbidden := range []string{"#", "*", "_", "- ", "1.", ">", "`", "(http"} {
		if strings.Contains(got, forbidden) {
			t.Errorf("plain text still contains %q: %q", forbidden, got)
		}
	}
	for _, kept := range []string{"Heading", "Bold item", "numbered", "quote with link and code"} {
		if !strings.Contains(got, kept) {
			t.Errorf("plain text lost %q: %q", kept, got)
		}
	}
}

func TestExtractDocument(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"markdown_fence", "```markdown\n# Doc\nbody\n```", "# Doc\nbody"},
		{"bare_fence", "```\n# Doc\n```", "# Doc"},
		{"no_fence", "# Doc\nbody", "# Doc\nbody"},
		{"surrounding_whitespace", "  \n# Doc\n  ", "# Doc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractDocument(tc.in); got != tc.want {
				t.Errorf("ExtractDocument=%q, want %q", got, tc.want)
			}
		})
	}
}
