package docgen

import (
	"archive/zip"
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestParseSlideContent(t *testing.T) {
	content := "TITLE: Growth Strategy\nCONTENT:\n• Expand into two new markets\n- Hire regional leads\n* Double marketing spend\nIMAGE_SUGGESTION: A rising bar chart\n"
	got := ParseSlideContent(content)
	if got.Title != "Growth Strategy" {
		t.Errorf("title=%q", got.Title)
	}
	wantBullets := []string{"Expand into two new markets", "Hire regional leads", "Double marketing spend"}
	if !reflect.DeepEqual(got.Bullets, wantBullets) {
		t.Errorf("bullets=%v, want %v", got.Bullets, wantBullets)
	}
	if got.ImageSuggestion != "A rising bar chart" {
		t.Errorf("image suggestion=%q", got.ImageSuggestion)
	}
}

func TestParseSlideContentSpeakerNotesDropped(t *testing.T) {
	content := "TITLE: T\nCONTENT:\n- Visible bullet\nSPEAKER_NOTES: remind audience of context\ntrailing note text that is not a bullet"
	got := ParseSlideContent(content)
	if !reflect.DeepEqual(got.Bullets, []string{"Visible bullet"}) {
		t.Errorf("notes must close the content block, bullets=%v", got.Bullets)
	}
}

func TestParseSlideContentNotePrefixVariants(t *testing.T) {
	for _, prefix := range []string{"SPEAKER_NOTES:", "NOTES:", "SPEAKER:", "NOTE:", "notes:"} {
		content := "CONTENT:\n- keep\n" + prefix + " drop this\n- lost"
		got := ParseSlideContent(content)
		if !reflect.DeepEqual(got.Bullets, []string{"keep"}) {
			t.Errorf("prefix %q: bullets=%v, want [keep]", prefix, got.Bullets)
		}
	}
}

func TestParseSlideContentEmpty(t *testing.T) {
	got := ParseSlideContent("")
	if got.Title != "" || got.Bullets != nil || got.ImageSuggestion != "" {
		t.Errorf("empty content should parse to zero value, got %+v", got)
	}
}

func readZipParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a zip archive: %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(body)
	}
	return parts
}

func TestWritePptxPartInventory(t *testing.T) {
	var buf bytes.Buffer
	sections := []Section{
		{Title: "One", Content: "TITLE: One\nCONTENT:\n- a"},
		{Title: "Two", Content: "TITLE: Two\nCONTENT:\n- b"},
	}
	if err := WritePptx(&buf, "Deck", sections); err != nil {
		t.Fatalf("WritePptx: %v", err)
	}
	parts := readZipParts(t, buf.Bytes())

	// Title slide plus one per section.
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide3.xml",
		"ppt/slides/_rels/slide3.xml.rels",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	if _, ok := parts["ppt/slides/slide4.xml"]; ok {
		t.Errorf("unexpected fourth slide")
	}
	if !strings.Contains(parts["[Content_Types].xml"], "/ppt/slides/slide3.xml") {
		t.Errorf("content types missing slide3 override")
	}
	if !strings.Contains(parts["ppt/presentation.xml"], `cx="9144000" cy="5143500"`) {
		t.Errorf("presentation missing 16:9 slide size: %s", parts["ppt/presentation.xml"])
	}
}

func TestWritePptxTitleSlide(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePptx(&buf, "My <Deck>", nil); err != nil {
		t.Fatalf("WritePptx: %v", err)
	}
	parts := readZipParts(t, buf.Bytes())
	slide := parts["ppt/slides/slide1.xml"]
	if !strings.Contains(slide, "My &lt;Deck&gt;") {
		t.Errorf("title must be XML-escaped, got %s", slide)
	}
	if !strings.Contains(slide, "AI-Generated Presentation") {
		t.Errorf("title slide missing subtitle")
	}
}

func TestWritePptxImagePlaceholder(t *testing.T) {
	var buf bytes.Buffer
	sections := []Section{{
		Title:   "Visual",
		Content: "TITLE: Visual\nCONTENT:\n- point\nIMAGE_SUGGESTION: sunset photo",
	}}
	if err := WritePptx(&buf, "Deck", sections); err != nil {
		t.Fatalf("WritePptx: %v", err)
	}
	parts := readZipParts(t, buf.Bytes())
	slide := parts["ppt/slides/slide2.xml"]
	if !strings.Contains(slide, "sunset photo") {
		t.Errorf("image suggestion text missing")
	}
	if !strings.Contains(slide, `val="C8C8C8"`) {
		t.Errorf("image placeholder should carry a bordered frame")
	}
	if !strings.Contains(slide, "📷 Image:") {
		t.Errorf("image placeholder label missing")
	}
}
