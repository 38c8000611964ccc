// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Exporter writes a report in one format.
type Exporter interface {
	Export(w io.Writer, r *Report) error
	// Ext is the file extension, without the dot.
	Ext() string
}

// NewExporter returns the exporter for format ("txt" or "json").
func NewExporter(format string, tag language.Tag) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "txt", "text":
		return &TXTExporter{Locale: tag}, nil
	case "json":
		return &JSONExporter{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// TXTExporter writes the human-readable plain text report.
type TXTExporter struct {
	Locale language.Tag
}

func (e *TXTExporter) Ext() string { return "txt" }

func (e *TXTExporter) Export(w io.Writer, r *Report) error {
	if r == nil || len(r.Results) == 0 {
		return ErrNothingToExport
	}
	p := printer(e.Locale)
	wide, narrow := strings.Repeat("=", 80), strings.Repeat("-", 40)

	var b strings.Builder
	b.WriteString(p.Sprintf(msgTitle) + "\n")
	if r.Document != "" {
		b.WriteString(p.Sprintf(msgDocument, r.Document) + "\n")
	}
	b.WriteString(p.Sprintf(msgKeywords, strings.Join(r.Keywords, "; ")) + "\n")
	b.WriteString(p.Sprintf(msgFound, len(r.Results)) + "\n")
	b.WriteString(p.Sprintf(msgDate, r.GeneratedAt.Format(dateLayout(e.Locale))) + "\n")
	b.WriteString(wide + "\n\n")

	for i, res := range r.Results {
		b.WriteString(p.Sprintf(msgResult, i+1) + "\n")
		b.WriteString(p.Sprintf(msgPage, res.PageNumber) + "\n")
		b.WriteString(p.Sprintf(msgMatched, strings.Join(res.MatchedKeywords, ", ")) + "\n")
		b.WriteString(narrow + "\n")
		b.WriteString(res.Paragraph + "\n")
		b.WriteString(wide + "\n\n")
	}

	pages := make([]string, len(r.Pages))
	for i, n := range r.Pages {
		pages[i] = strconv.Itoa(n)
	}
	b.WriteString("\n" + p.Sprintf(msgSummary) + "\n")
	b.WriteString(p.Sprintf(msgTotal, len(r.Results)) + "\n")
	b.WriteString(p.Sprintf(msgPages, strings.Join(pages, ", ")) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// JSONExporter writes the report as JSON.
type JSONExporter struct {
	Indent string
}

func (e *JSONExporter) Ext() string { return "json" }

func (e *JSONExporter) Export(w io.Writer, r *Report) error {
	if r == nil || len(r.Results) == 0 {
		return ErrNothingToExport
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", e.Indent)
	return enc.Encode(r)
}
