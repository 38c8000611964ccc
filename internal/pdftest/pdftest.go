// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package pdftest builds small, valid PDF documents in memory for tests.
// Every page uses one Type1 font with a fixed advance of 500/1000 em, so a
// 12pt glyph is exactly 6 units wide.
package pdftest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

const (
	// Top is the baseline of the first line laid out by Paragraphs.
	Top = 720.0
	// Left is the x of every line laid out by Paragraphs.
	Left = 72.0
	// FontSize is the size used by Paragraphs.
	FontSize = 12.0
	// LineStep is the distance between two lines of a paragraph.
	LineStep = 14.0
	// ParagraphStep is the distance between the last line of a paragraph and the next one.
	ParagraphStep = 30.0
)

// Line is one text-showing operation at an absolute position.
type Line struct {
	X, Y float64
	Size float64
	Text string
}

// Page is the content of one page. Raw, when set, replaces the generated
// content stream verbatim.
type Page struct {
	Lines []Line
	Raw   string
}

// Doc describes the document to build.
type Doc struct {
	Pages []Page
	Info  map[string]string
	XMP   string
	// Encrypt adds a Standard Security handler no password can open.
	Encrypt bool
}

// Paragraphs lays out each paragraph line by line from the top of the page,
// leaving a wider gap between paragraphs.
func Paragraphs(paragraphs ...[]string) Page {
	var p Page
	y := Top
	for i, para := range paragraphs {
		if i > 0 {
			y -= ParagraphStep - LineStep
		}
		for _, text := range para {
			p.Lines = append(p.Lines, Line{X: Left, Y: y, Size: FontSize, Text: text})
			y -= LineStep
		}
	}
	return p
}

// Lines returns a page with one line per string.
func Lines(lines ...string) Page {
	return Paragraphs(lines)
}

// Simple builds a document with one page per argument.
func Simple(pages ...Page) []byte {
	return Build(Doc{Pages: pages})
}

// Build serializes d. Object layout: 1 catalog, 2 page tree, 3 font, then a
// page and a content stream per page, then the optional info and XMP objects.
func Build(d Doc) []byte {
	w := &writer{}
	w.buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	nPages := len(d.Pages)
	infoID, xmpID := 0, 0
	next := 4 + 2*nPages
	if len(d.Info) > 0 {
		infoID = next
		next++
	}
	if d.XMP != "" {
		xmpID = next
		next++
	}
	w.offsets = make([]int, next)

	catalog := "<< /Type /Catalog /Pages 2 0 R"
	if xmpID > 0 {
		catalog += fmt.Sprintf(" /Metadata %d 0 R", xmpID)
	}
	w.object(1, catalog+" >>")

	kids := make([]string, nPages)
	for i := range d.Pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	w.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), nPages))

	widths := strings.TrimSpace(strings.Repeat("500 ", 126-32+1))
	w.object(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
		"/FirstChar 32 /LastChar 126 /Widths ["+widths+"] >>")

	for i, p := range d.Pages {
		pageID, contentID := 4+2*i, 5+2*i
		w.object(pageID, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentID))
		w.stream(contentID, "", content(p))
	}

	if infoID > 0 {
		keys := make([]string, 0, len(d.Info))
		for k := range d.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&b, " /%s (%s)", k, escape(d.Info[k]))
		}
		b.WriteString(" >>")
		w.object(infoID, b.String())
	}
	if xmpID > 0 {
		w.stream(xmpID, "/Type /Metadata /Subtype /XML", d.XMP)
	}

	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", next)
	w.buf.WriteString("0000000000 65535 f \n")
	for id := 1; id < next; id++ {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[id])
	}

	trailer := fmt.Sprintf("<< /Size %d /Root 1 0 R", next)
	if infoID > 0 {
		trailer += fmt.Sprintf(" /Info %d 0 R", infoID)
	}
	if d.Encrypt {
		zeros := strings.Repeat("00", 32)
		trailer += " /Encrypt << /Filter /Standard /V 1 /R 2 /O <" + zeros + "> /U <" + zeros + "> /P -4 >>" +
			" /ID [<00112233445566778899aabbccddeeff> <00112233445566778899aabbccddeeff>]"
	}
	fmt.Fprintf(&w.buf, "trailer\n%s >>\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return w.buf.Bytes()
}

type writer struct {
	buf     bytes.Buffer
	offsets []int
}

func (w *writer) object(id int, body string) {
	w.offsets[id] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", id, body)
}

func (w *writer) stream(id int, dict, data string) {
	w.offsets[id] = w.buf.Len()
	if dict != "" {
		dict += " "
	}
	fmt.Fprintf(&w.buf, "%d 0 obj\n<< %s/Length %d >>\nstream\n%s\nendstream\nendobj\n", id, dict, len(data), data)
}

func content(p Page) string {
	if p.Raw != "" {
		return p.Raw
	}
	var b strings.Builder
	b.WriteString("BT\n")
	var size float64
	for _, l := range p.Lines {
		s := l.Size
		if s == 0 {
			s = FontSize
		}
		if s != size {
			fmt.Fprintf(&b, "/F1 %g Tf\n", s)
			size = s
		}
		fmt.Fprintf(&b, "1 0 0 1 %g %g Tm\n(%s) Tj\n", l.X, l.Y, escape(l.Text))
	}
	b.WriteString("ET")
	return b.String()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
