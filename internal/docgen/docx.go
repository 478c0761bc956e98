package docgen

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/draftforge/draftforge-backend/internal/markdown"
)

// Heading palette, half-points and hex RGB without the leading #.
const (
	docTitleSize = 48 // 24pt
	h2Size       = 32 // 16pt
	h3Size       = 28 // 14pt
	h4Size       = 24 // 12pt

	docTitleColor = "1F4E78"
	h2Color       = "1F4E78"
	h3Color       = "2E74B5"
	h4Color       = "4472C4"
	linkColor     = "0563C1"

	quoteFill = "F2F2F2"
	codeFill  = "E7E6E6"

	bulletNumID  = 1
	decimalNumID = 2
)

// EmptySectionPlaceholder stands in for sections that were never generated.
const EmptySectionPlaceholder = "No content generated yet."

// WriteDocx renders the sections as a Word document and writes the finished
// package to w.
func WriteDocx(w io.Writer, title string, sections []Section) error {
	b := &docxBuilder{}
	b.titleParagraph(title)
	b.separator()
	for _, s := range sections {
		content := strings.TrimSpace(s.Content)
		if content == "" {
			content = EmptySectionPlaceholder
		}
		if markdown.IsMarkdown(content) {
			b.renderMarkdownChunk(content)
		} else {
			b.renderLegacyChunk(s.Title, content)
		}
	}
	return b.writeTo(w)
}

type docxBuilder struct {
	body strings.Builder
}

func (b *docxBuilder) titleParagraph(title string) {
	b.body.WriteString(`<w:p><w:pPr><w:jc w:val="center"/><w:spacing w:after="240"/></w:pPr>`)
	b.body.WriteString(fmt.Sprintf(
		`<w:r><w:rPr><w:b/><w:sz w:val="%d"/><w:color w:val="%s"/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		docTitleSize, docTitleColor, xmlEscape(title)))
}

func (b *docxBuilder) separator() {
	b.body.WriteString(`<w:p><w:pPr><w:spacing w:after="240"/></w:pPr>`)
	b.body.WriteString(`<w:r><w:t xml:space="preserve">` + strings.Repeat("_", 80) + `</w:t></w:r></w:p>`)
}

func (b *docxBuilder) heading(text string, size int, color string) {
	b.body.WriteString(`<w:p><w:pPr><w:spacing w:before="240" w:after="120"/></w:pPr>`)
	b.body.WriteString(fmt.Sprintf(
		`<w:r><w:rPr><w:b/><w:sz w:val="%d"/><w:color w:val="%s"/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		size, color, xmlEscape(text)))
}

// paragraph writes a body paragraph from parsed inline spans. pPr carries the
// paragraph-level properties; an empty pPr gets the default spacing.
func (b *docxBuilder) paragraph(spans []markdown.Span, pPr string) {
	if pPr == "" {
		pPr = `<w:pPr><w:spacing w:after="200" w:line="276" w:lineRule="auto"/><w:jc w:val="both"/></w:pPr>`
	}
	b.body.WriteString(`<w:p>` + pPr)
	for _, sp := range spans {
		b.run(sp, false)
	}
	b.body.WriteString(`</w:p>`)
}

func (b *docxBuilder) listItem(spans []markdown.Span, numID int) {
	pPr := fmt.Sprintf(
		`<w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="%d"/></w:numPr><w:spacing w:after="120"/></w:pPr>`,
		numID)
	b.paragraph(spans, pPr)
}

func (b *docxBuilder) quote(spans []markdown.Span) {
	pPr := fmt.Sprintf(
		`<w:pPr><w:shd w:val="clear" w:color="auto" w:fill="%s"/><w:ind w:left="360" w:right="360"/><w:spacing w:after="200"/></w:pPr>`,
		quoteFill)
	b.body.WriteString(`<w:p>` + pPr)
	for _, sp := range spans {
		b.run(sp, true)
	}
	b.body.WriteString(`</w:p>`)
}

// run emits one styled text run. forceItalic is used by blockquotes, where
// every run renders italic on top of its own style.
func (b *docxBuilder) run(sp markdown.Span, forceItalic bool) {
	var rPr strings.Builder
	switch sp.Style {
	case markdown.SpanBold:
		rPr.WriteString(`<w:b/>`)
	case markdown.SpanItalic:
		rPr.WriteString(`<w:i/>`)
	case markdown.SpanCode:
		rPr.WriteString(`<w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/>`)
		rPr.WriteString(fmt.Sprintf(`<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, codeFill))
	case markdown.SpanLink:
		rPr.WriteString(fmt.Sprintf(`<w:color w:val="%s"/><w:u w:val="single"/>`, linkColor))
	}
	if forceItalic && sp.Style != markdown.SpanItalic {
		rPr.WriteString(`<w:i/>`)
	}
	b.body.WriteString(`<w:r>`)
	if rPr.Len() > 0 {
		b.body.WriteString(`<w:rPr>` + rPr.String() + `</w:rPr>`)
	}
	b.body.WriteString(`<w:t xml:space="preserve">` + xmlEscape(sp.Text) + `</w:t></w:r>`)
}

func (b *docxBuilder) table(header []string, rows [][]string) {
	cols := len(header)
	b.body.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/>`)
	b.body.WriteString(`<w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for i := 0; i < cols; i++ {
		b.body.WriteString(`<w:gridCol/>`)
	}
	b.body.WriteString(`</w:tblGrid>`)
	b.tableRow(header, true, cols)
	for _, row := range rows {
		b.tableRow(row, false, cols)
	}
	b.body.WriteString(`</w:tbl>`)
	// Word needs a paragraph between a table and whatever follows.
	b.body.WriteString(`<w:p/>`)
}

func (b *docxBuilder) tableRow(cells []string, bold bool, cols int) {
	b.body.WriteString(`<w:tr>`)
	for i := 0; i < cols; i++ {
		text := ""
		if i < len(cells) {
			text = markdown.ToPlainText(cells[i])
		}
		b.body.WriteString(`<w:tc><w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr><w:p><w:r>`)
		if bold {
			b.body.WriteString(`<w:rPr><w:b/></w:rPr>`)
		}
		b.body.WriteString(`<w:t xml:space="preserve">` + xmlEscape(text) + `</w:t></w:r></w:p></w:tc>`)
	}
	b.body.WriteString(`</w:tr>`)
}

// renderMarkdownChunk walks the chunk line by line with a cursor, dispatching
// each block kind to the matching paragraph shape. Table rows are collected
// into contiguous runs before rendering.
func (b *docxBuilder) renderMarkdownChunk(chunk string) {
	lines := strings.Split(chunk, "\n")
	i := 0
	for i < len(lines) {
		kind, level := markdown.ClassifyLine(lines[i])
		switch kind {
		case markdown.BlockBlank:
			i++
		case markdown.BlockHeading:
			text := markdown.ToPlainText(markdown.StripMarker(lines[i], kind, level))
			switch level {
			case 3:
				b.heading(text, h3Size, h3Color)
			case 4:
				b.heading(text, h4Size, h4Color)
			default:
				b.heading(text, h2Size, h2Color)
			}
			i++
		case markdown.BlockBullet:
			b.listItem(markdown.ParseInlineSpans(markdown.StripMarker(lines[i], kind, level)), bulletNumID)
			i++
		case markdown.BlockNumbered:
			b.listItem(markdown.ParseInlineSpans(markdown.StripMarker(lines[i], kind, level)), decimalNumID)
			i++
		case markdown.BlockQuote:
			b.quote(markdown.ParseInlineSpans(markdown.StripMarker(lines[i], kind, level)))
			i++
		case markdown.BlockTableRow:
			i = b.renderTableRun(lines, i)
		default:
			b.paragraph(markdown.ParseInlineSpans(strings.TrimSpace(lines[i])), "")
			i++
		}
	}
}

// renderTableRun consumes the contiguous run of table-row lines starting at
// start and returns the index past it. Runs shorter than two rows are dropped.
func (b *docxBuilder) renderTableRun(lines []string, start int) int {
	end := start
	for end < len(lines) {
		if kind, _ := markdown.ClassifyLine(lines[end]); kind != markdown.BlockTableRow {
			break
		}
		end++
	}
	run := lines[start:end]
	if len(run) < 2 {
		return end
	}
	header := markdown.TableCells(run[0])
	var rows [][]string
	for _, line := range run[1:] {
		if markdown.IsTableSeparator(line) {
			continue
		}
		rows = append(rows, markdown.TableCells(line))
	}
	b.table(header, rows)
	return end
}

// renderLegacyChunk handles plain-text content from before generation emitted
// markdown: a styled section heading, then blank-line paragraphs with simple
// bullet detection.
func (b *docxBuilder) renderLegacyChunk(title, content string) {
	b.heading(title, h2Size, h2Color)
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if marker, ok := legacyBulletMarker(line); ok {
				text := strings.TrimSpace(strings.TrimPrefix(line, marker))
				b.listItem([]markdown.Span{{Style: markdown.SpanPlain, Text: text}}, bulletNumID)
			} else {
				b.paragraph([]markdown.Span{{Style: markdown.SpanPlain, Text: line}}, "")
			}
		}
	}
}

func legacyBulletMarker(line string) (string, bool) {
	for _, m := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, m) {
			return m, true
		}
	}
	return "", false
}

func (b *docxBuilder) writeTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/_rels/document.xml.rels", docxDocumentRels},
		{"word/styles.xml", docxStyles},
		{"word/numbering.xml", docxNumbering},
		{"word/document.xml", b.documentXML()},
	}
	for _, p := range parts {
		if err := writePart(zw, p.name, p.content); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (b *docxBuilder) documentXML() string {
	return `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + b.body.String() +
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`
}

const docxContentTypes = `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>` +
	`</Types>`

const docxRootRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const docxDocumentRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>` +
	`</Relationships>`

const docxStyles = `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr>` +
	`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/>` +
	`<w:sz w:val="22"/><w:szCs w:val="22"/>` +
	`</w:rPr></w:rPrDefault></w:docDefaults>` +
	`</w:styles>`

const docxNumbering = `<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:abstractNum w:abstractNumId="0">` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/>` +
	`<w:lvlJc w:val="left"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr>` +
	`<w:rPr><w:rFonts w:ascii="Symbol" w:hAnsi="Symbol"/></w:rPr></w:lvl>` +
	`</w:abstractNum>` +
	`<w:abstractNum w:abstractNumId="1">` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/>` +
	`<w:lvlJc w:val="left"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl>` +
	`</w:abstractNum>` +
	`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
	`<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>` +
	`</w:numbering>`
