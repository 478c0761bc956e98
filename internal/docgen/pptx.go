package docgen

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// Widescreen 16:9 deck, 10in x 5.625in.
var (
	slideWidthEMU  = emu(10)
	slideHeightEMU = emu(5.625)
)

// ParsedSlideContent is the structured form of a presentation section's
// stored content: a slide title, its visible bullets, and an optional image
// suggestion for the right-hand placeholder.
type ParsedSlideContent struct {
	Title           string
	Bullets         []string
	ImageSuggestion string
}

var speakerNotePrefixes = []string{"SPEAKER_NOTES:", "NOTES:", "SPEAKER:", "NOTE:"}

// ParseSlideContent reads the TITLE:/CONTENT:/IMAGE_SUGGESTION: grammar that
// slide generation produces. Speaker-note lines are dropped entirely, and any
// note prefix also closes the content block so trailing notes never leak into
// bullets.
func ParseSlideContent(content string) ParsedSlideContent {
	var parsed ParsedSlideContent
	if content == "" {
		return parsed
	}
	inContent := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if isSpeakerNote(line) {
			inContent = false
			continue
		}
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			parsed.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "CONTENT:"):
			inContent = true
		case strings.HasPrefix(line, "IMAGE_SUGGESTION:"):
			parsed.ImageSuggestion = strings.TrimSpace(strings.TrimPrefix(line, "IMAGE_SUGGESTION:"))
			inContent = false
		case inContent && line != "":
			if bullet := strings.TrimSpace(strings.TrimLeft(line, "•-*")); bullet != "" {
				parsed.Bullets = append(parsed.Bullets, bullet)
			}
		}
	}
	return parsed
}

func isSpeakerNote(line string) bool {
	upper := strings.ToUpper(line)
	for _, prefix := range speakerNotePrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// WritePptx renders the sections as a slide deck: a title slide followed by
// one content slide per section.
func WritePptx(w io.Writer, title string, sections []Section) error {
	slides := []string{titleSlideXML(title)}
	for _, s := range sections {
		slides = append(slides, contentSlideXML(s))
	}

	zw := zip.NewWriter(w)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", pptxContentTypes(len(slides))},
		{"_rels/.rels", pptxRootRels},
		{"ppt/presentation.xml", presentationXML(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRels(len(slides))},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for i, slide := range slides {
		parts = append(parts,
			struct{ name, content string }{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slide},
			struct{ name, content string }{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), slideRels},
		)
	}
	for _, p := range parts {
		if err := writePart(zw, p.name, p.content); err != nil {
			return err
		}
	}
	return zw.Close()
}

type slidePara struct {
	text        string
	sizeHundPt  int
	bold        bool
	italic      bool
	bullet      bool
	center      bool
	spaceBefore int // hundredths of a point
}

func titleSlideXML(title string) string {
	var shapes strings.Builder
	shapes.WriteString(textboxXML(2, "Title", emu(0.5), emu(1.75), emu(9), emu(1.2), false,
		[]slidePara{{text: title, sizeHundPt: 4000, bold: true, center: true}}))
	shapes.WriteString(textboxXML(3, "Subtitle", emu(0.5), emu(3.1), emu(9), emu(0.8), false,
		[]slidePara{{text: "AI-Generated Presentation", sizeHundPt: 2000, center: true}}))
	return slideXML(shapes.String())
}

func contentSlideXML(s Section) string {
	parsed := ParseSlideContent(s.Content)
	slideTitle := parsed.Title
	if slideTitle == "" {
		slideTitle = s.Title
	}

	var shapes strings.Builder
	shapes.WriteString(textboxXML(2, "Slide Title", emu(0.5), emu(0.3), emu(9), emu(0.8), false,
		[]slidePara{{text: slideTitle, sizeHundPt: 3200, bold: true}}))

	if parsed.ImageSuggestion != "" {
		// Two-column layout: bullets on the left, bordered image placeholder
		// on the right.
		shapes.WriteString(textboxXML(3, "Content", emu(0.5), emu(1.5), emu(5), emu(3.5), false,
			bulletParas(parsed.Bullets, 1800, 600)))
		shapes.WriteString(textboxXML(4, "Image Placeholder", emu(6), emu(1.5), emu(3.5), emu(3.5), true,
			[]slidePara{
				{text: "📷 Image:", sizeHundPt: 1400, italic: true, center: true},
				{text: parsed.ImageSuggestion, sizeHundPt: 1400, italic: true, center: true},
			}))
	} else {
		shapes.WriteString(textboxXML(3, "Content", emu(1), emu(1.5), emu(8), emu(3.5), false,
			bulletParas(parsed.Bullets, 2000, 800)))
	}
	return slideXML(shapes.String())
}

func bulletParas(bullets []string, sizeHundPt, spaceBefore int) []slidePara {
	paras := make([]slidePara, 0, len(bullets))
	for _, b := range bullets {
		paras = append(paras, slidePara{
			text:        b,
			sizeHundPt:  sizeHundPt,
			bullet:      true,
			spaceBefore: spaceBefore,
		})
	}
	return paras
}

func textboxXML(id int, name string, x, y, w, h int, border bool, paras []slidePara) string {
	var sb strings.Builder
	sb.WriteString(`<p:sp><p:nvSpPr>`)
	sb.WriteString(fmt.Sprintf(`<p:cNvPr id="%d" name="%s"/>`, id, xmlEscape(name)))
	sb.WriteString(`<p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr>`)
	sb.WriteString(fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, x, y, w, h))
	sb.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	if border {
		sb.WriteString(`<a:ln w="12700"><a:solidFill><a:srgbClr val="C8C8C8"/></a:solidFill></a:ln>`)
	}
	sb.WriteString(`</p:spPr><p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	for _, p := range paras {
		sb.WriteString(paraXML(p))
	}
	if len(paras) == 0 {
		sb.WriteString(`<a:p/>`)
	}
	sb.WriteString(`</p:txBody></p:sp>`)
	return sb.String()
}

func paraXML(p slidePara) string {
	var sb strings.Builder
	sb.WriteString(`<a:p><a:pPr`)
	if p.center {
		sb.WriteString(` algn="ctr"`)
	}
	sb.WriteString(`>`)
	if p.spaceBefore > 0 {
		sb.WriteString(fmt.Sprintf(`<a:spcBef><a:spcPts val="%d"/></a:spcBef>`, p.spaceBefore))
	}
	if p.bullet {
		sb.WriteString(`<a:buFont typeface="Arial"/><a:buChar char="&#8226;"/>`)
	} else {
		sb.WriteString(`<a:buNone/>`)
	}
	sb.WriteString(`</a:pPr><a:r><a:rPr lang="en-US"`)
	if p.sizeHundPt > 0 {
		sb.WriteString(fmt.Sprintf(` sz="%d"`, p.sizeHundPt))
	}
	if p.bold {
		sb.WriteString(` b="1"`)
	}
	if p.italic {
		sb.WriteString(` i="1"`)
	}
	sb.WriteString(` dirty="0"><a:latin typeface="Calibri"/></a:rPr>`)
	sb.WriteString(`<a:t>` + xmlEscape(p.text) + `</a:t></a:r></a:p>`)
	return sb.String()
}

func slideXML(shapes string) string {
	return `<p:sld ` + pptxNamespaces + `>` +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
}

const pptxNamespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

func pptxContentTypes(slideCount int) string {
	var sb strings.Builder
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		sb.WriteString(fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i))
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

const pptxRootRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`</Relationships>`

func presentationXML(slideCount int) string {
	var sb strings.Builder
	sb.WriteString(`<p:presentation ` + pptxNamespaces + `>`)
	sb.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	sb.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= slideCount; i++ {
		sb.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1))
	}
	sb.WriteString(`</p:sldIdLst>`)
	sb.WriteString(fmt.Sprintf(`<p:sldSz cx="%d" cy="%d"/>`, slideWidthEMU, slideHeightEMU))
	sb.WriteString(`<p:notesSz cx="6858000" cy="9144000"/></p:presentation>`)
	return sb.String()
}

func presentationRels(slideCount int) string {
	var sb strings.Builder
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 1; i <= slideCount; i++ {
		sb.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i))
	}
	sb.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>`, slideCount+2))
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

const slideMasterXML = `<p:sldMaster ` + pptxNamespaces + `>` +
	`<p:cSld><p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
	`</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = `<p:sldLayout ` + pptxNamespaces + ` type="blank">` +
	`<p:cSld><p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const slideLayoutRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const slideRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`</Relationships>`

const themeXML = `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme">` +
	`<a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements></a:theme>`
