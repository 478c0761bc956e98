// Package docgen emits the two export formats as OOXML packages: a ZIP
// container of XML parts, written with archive/zip and hand-built part
// templates. The input shape is the splitter's output: ordered sections of
// title + stored content.
package docgen

import (
	"archive/zip"
	"fmt"
	"strings"
)

// Section is one ordered unit of a project as the renderers consume it.
type Section struct {
	Title   string
	Content string
}

// emuPerInch is the OOXML drawing unit (English Metric Units).
const emuPerInch = 914400

func emu(inches float64) int {
	return int(inches * emuPerInch)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}

func writePart(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	if _, err := w.Write([]byte(xmlHeader + content)); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// SafeFilename derives the download filename from a project title, keeping
// it header-safe.
func SafeFilename(title, ext string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "Untitled"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\n', '\r':
			return '_'
		}
		return r
	}, name)
	return name + "." + ext
}
