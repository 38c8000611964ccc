// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sassoftware/pdf-xtract-search/logger"
)

// Meta describes a document: Info dictionary fields (XMP values win when both
// are present), structure and the Standard Security permissions.
type Meta struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Keywords     string `json:"keywords,omitempty"`
	Creator      string `json:"creator,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreationDate string `json:"creationDate,omitempty"`
	ModDate      string `json:"modDate,omitempty"`

	PDFVersion string `json:"pdfVersion,omitempty"`
	Pages      int    `json:"pages"`
	HasXMP     bool   `json:"hasXMP"`
	Encrypted  bool   `json:"encrypted"`

	Permissions Permissions `json:"permissions"`
}

// Permissions are the access flags of the Encrypt dictionary (ISO 32000-1 §7.6.3.2).
// An unencrypted document grants everything.
type Permissions struct {
	Print          bool `json:"print"`
	Modify         bool `json:"modify"`
	ExtractContent bool `json:"extractContent"`
	Annotate       bool `json:"annotate"`
	FillInForm     bool `json:"fillInForm"`
	Accessibility  bool `json:"accessibility"`
	Assemble       bool `json:"assemble"`
	PrintFaithful  bool `json:"printFaithful"`
}

// xmpPacket maps the parts of an XMP packet that overlap the Info dictionary.
// Element names are matched by namespace URI, so any prefix works.
type xmpPacket struct {
	XMLName xml.Name `xml:"xmpmeta"`
	RDF     struct {
		Descriptions []xmpDescription `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# Description"`
	} `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# RDF"`
}

type xmpDescription struct {
	Title       rdfList `xml:"http://purl.org/dc/elements/1.1/ title"`
	Description rdfList `xml:"http://purl.org/dc/elements/1.1/ description"`
	Creator     rdfList `xml:"http://purl.org/dc/elements/1.1/ creator"`

	Producer string `xml:"http://ns.adobe.com/pdf/1.3/ Producer"`
	Keywords string `xml:"http://ns.adobe.com/pdf/1.3/ Keywords"`

	CreatorTool string `xml:"http://ns.adobe.com/xap/1.0/ CreatorTool"`
	CreateDate  string `xml:"http://ns.adobe.com/xap/1.0/ CreateDate"`
	ModifyDate  string `xml:"http://ns.adobe.com/xap/1.0/ ModifyDate"`
}

// rdfList holds dc values, which come wrapped in rdf:Alt (title, description)
// or rdf:Seq (creator).
type rdfList struct {
	Alt []string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# Alt>li"`
	Seq []string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# Seq>li"`
}

// first is the default-language entry, which writers put first.
func (l rdfList) first() string {
	for _, items := range [][]string{l.Alt, l.Seq} {
		if len(items) > 0 {
			return strings.TrimSpace(items[0])
		}
	}
	return ""
}

// xmpFields are the XMP values Metadata merges with the Info dictionary.
type xmpFields struct {
	Title, Creator, Subject, Keywords, CreatorTool, Producer, CreateDate, ModifyDate string
}

// prefer returns a if non-empty after trimming, otherwise b.
func prefer(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// Metadata reads the document information of data. It fails like Extract on
// input that is not a readable PDF.
func (p *processor) Metadata(ctx context.Context, data []byte) (m Meta, err error) {
	logger.Debug(fmt.Sprintf("Reading metadata: bytes=%d", len(data)), true)

	if err := p.acquireSlot(ctx); err != nil {
		return Meta{}, err
	}
	defer p.sem.Release(1)

	r, err := p.open(data)
	if err != nil {
		logger.Error("failed to open PDF for metadata", "err", err)
		return Meta{}, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			m, err = Meta{}, &ParseError{Err: fmt.Errorf("malformed metadata: %v", rec)}
		}
	}()

	info := readInfo(r)
	xmpXML, err := readXMP(r)
	if err != nil {
		logger.Error("failed to read XMP metadata", "err", err)
		return Meta{}, &ParseError{Err: err}
	}

	var xf xmpFields
	if xmpXML != "" {
		if got, ok := parseXMPWithXML(xmpXML); ok {
			xf = got
		} else {
			xf = parseXMPFallback(xmpXML)
		}
	}

	trailer := r.Trailer()
	m = Meta{
		Title:        prefer(xf.Title, info.Title),
		Author:       prefer(xf.Creator, info.Author),
		Subject:      prefer(xf.Subject, info.Subject),
		Keywords:     prefer(xf.Keywords, info.Keywords),
		Creator:      prefer(xf.CreatorTool, info.Creator),
		Producer:     prefer(xf.Producer, info.Producer),
		CreationDate: prefer(xf.CreateDate, info.CreationDate),
		ModDate:      prefer(xf.ModifyDate, info.ModDate),
		PDFVersion:   headerVersion(data),
		Pages:        r.NumPage(),
		HasXMP:       xmpXML != "",
		Encrypted:    trailer.Key("Encrypt").Kind() == pdf.Dict,
		Permissions:  permissions(trailer.Key("Encrypt")),
	}

	logger.Debug(fmt.Sprintf("Metadata extraction completed: pages=%d", m.Pages), true)
	return m, nil
}

// MetadataJSON writes the metadata of data as pretty JSON to w.
func (p *processor) MetadataJSON(ctx context.Context, data []byte, w io.Writer) error {
	m, err := p.Metadata(ctx, data)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

type infoFields struct {
	Title, Author, Subject, Keywords, Creator, Producer, CreationDate, ModDate string
}

// readInfo extracts metadata stored in the PDF's /Info dictionary.
func readInfo(r *pdf.Reader) infoFields {
	logger.Debug("reading Info dictionary")
	info := r.Trailer().Key("Info")
	return infoFields{
		Title:        info.Key("Title").Text(),
		Author:       info.Key("Author").Text(),
		Subject:      info.Key("Subject").Text(),
		Keywords:     info.Key("Keywords").Text(),
		Creator:      info.Key("Creator").Text(),
		Producer:     info.Key("Producer").Text(),
		CreationDate: info.Key("CreationDate").Text(),
		ModDate:      info.Key("ModDate").Text(),
	}
}

// readXMP returns the catalog's /Metadata stream, or "" when there is none.
func readXMP(r *pdf.Reader) (string, error) {
	md := r.Trailer().Key("Root").Key("Metadata")
	if md.Kind() != pdf.Stream {
		logger.Debug("No XMP metadata stream")
		return "", nil
	}
	rc := md.Reader()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read XMP stream: %w", err)
	}
	logger.Debug(fmt.Sprintf("XMP metadata stream read: bytes=%d", len(b)))
	return string(b), nil
}

// parseXMPWithXML decodes an XMP packet. Decoding is lenient because producers
// often emit HTML entities and unclosed tags. When several rdf:Description
// elements set a field, the last one wins. ok is false when the packet does
// not decode at all.
func parseXMPWithXML(packet string) (f xmpFields, ok bool) {
	var pkt xmpPacket
	dec := xml.NewDecoder(strings.NewReader(packet))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&pkt); err != nil {
		logger.Debug(fmt.Sprintf("XMP packet does not decode: err=%v", err))
		return xmpFields{}, false
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	for _, d := range pkt.RDF.Descriptions {
		set(&f.Title, d.Title.first())
		set(&f.Creator, d.Creator.first())
		set(&f.Subject, d.Description.first())
		set(&f.Keywords, d.Keywords)
		set(&f.Producer, d.Producer)
		set(&f.CreatorTool, d.CreatorTool)
		set(&f.CreateDate, d.CreateDate)
		set(&f.ModifyDate, d.ModifyDate)
	}
	return f, true
}

// parseXMPFallback scans a packet that does not decode for the usual prefixed
// elements and takes the text of the first match of each.
func parseXMPFallback(packet string) xmpFields {
	text := func(names ...string) string {
		for _, name := range names {
			open, end := "<"+name+">", "</"+name+">"
			i := strings.Index(packet, open)
			if i < 0 {
				continue
			}
			body := packet[i+len(open):]
			if j := strings.Index(body, end); j >= 0 {
				return strings.TrimSpace(stripXMLTags(body[:j]))
			}
		}
		return ""
	}
	return xmpFields{
		Title:       text("dc:title", "pdf:Title", "xmp:Title", "rdf:li"),
		Creator:     text("dc:creator", "pdf:Author", "xmp:Author", "rdf:li"),
		Subject:     text("dc:description", "pdf:Subject"),
		Keywords:    text("pdf:Keywords", "xmp:Keywords"),
		CreatorTool: text("xmp:CreatorTool"),
		Producer:    text("pdf:Producer"),
		CreateDate:  text("xmp:CreateDate"),
		ModifyDate:  text("xmp:ModifyDate"),
	}
}

// stripXMLTags drops everything between '<' and '>'. Entities are left as is.
func stripXMLTags(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// headerVersion returns the version from the %PDF- header line.
func headerVersion(data []byte) string {
	if len(data) > 1024 {
		data = data[:1024]
	}
	line := string(data)
	i := strings.Index(line, "%PDF-")
	if i < 0 {
		return ""
	}
	line = line[i+len("%PDF-"):]
	if j := strings.IndexAny(line, "\r\n"); j >= 0 {
		line = line[:j]
	}
	return strings.TrimSpace(line)
}

// permissions decodes the P entry of the Encrypt dictionary.
// In Standard Security a bit set to 1 means the permission is granted.
func permissions(enc pdf.Value) Permissions {
	if enc.Kind() != pdf.Dict {
		return Permissions{true, true, true, true, true, true, true, true}
	}
	p := uint32(enc.Key("P").Int64())
	perm := Permissions{
		Print:          p&(1<<2) != 0,
		Modify:         p&(1<<3) != 0,
		ExtractContent: p&(1<<4) != 0,
		Annotate:       p&(1<<5) != 0,
		Accessibility:  p&(1<<9) != 0,
		Assemble:       p&(1<<10) != 0,
	}
	perm.FillInForm = p&(1<<8) != 0 || perm.Annotate
	perm.PrintFaithful = p&(1<<11) != 0 || perm.Print
	return perm
}
