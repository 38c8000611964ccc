// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// wordGapRatio is the horizontal gap, as a fraction of the font size, that is
// read as a word break inside a run when the document does not draw a space.
const wordGapRatio = 0.15

// buildRuns merges the glyphs of a page, in content-stream order, into runs.
// A glyph continues the current run when it uses the same font and size, sits
// on the same baseline and starts no further than one em after the run ends.
// Whitespace-only runs are dropped.
func buildRuns(glyphs []pdf.Text) []TextRun {
	var runs []TextRun
	var cur *TextRun
	var b strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = b.String()
		if strings.TrimSpace(cur.Text) != "" {
			runs = append(runs, *cur)
		}
		cur = nil
		b.Reset()
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && continuesRun(cur, g) {
			end := cur.X + cur.Width
			if g.X-end > wordGapRatio*em(cur.Height) && !strings.HasSuffix(b.String(), " ") && g.S != " " {
				b.WriteByte(' ')
			}
			b.WriteString(g.S)
			if right := g.X + g.W - cur.X; right > cur.Width {
				cur.Width = right
			}
			continue
		}
		flush()
		cur = &TextRun{
			X:      g.X,
			Y:      g.Y,
			Width:  g.W,
			Height: g.FontSize,
			Font:   g.Font,
		}
		b.WriteString(g.S)
	}
	flush()
	return runs
}

func continuesRun(cur *TextRun, g pdf.Text) bool {
	if g.Font != cur.Font || g.FontSize != cur.Height {
		return false
	}
	size := em(cur.Height)
	if math.Abs(g.Y-cur.Y) >= size/2 {
		return false
	}
	end := cur.X + cur.Width
	return g.X >= end-size/2 && g.X <= end+size
}

func em(size float64) float64 {
	if size <= 0 {
		return 1
	}
	return size
}

// assembleText renders runs into the page text.
func assembleText(runs []TextRun, layout TextLayout, gapFactor float64) string {
	if layout == TextLayoutLines {
		return assembleLines(runs, gapFactor)
	}
	parts := make([]string, 0, len(runs))
	for _, r := range runs {
		if s := strings.TrimSpace(r.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// assembleLines joins runs sharing a baseline with a space and lines with a
// newline. A vertical gap above gapFactor times the line's font size becomes a
// blank line.
func assembleLines(runs []TextRun, gapFactor float64) string {
	var b strings.Builder
	var lineY, lineSize float64
	started := false

	for _, r := range runs {
		s := strings.TrimSpace(r.Text)
		if s == "" {
			continue
		}
		if !started {
			b.WriteString(s)
			lineY, lineSize, started = r.Y, r.Height, true
			continue
		}
		dy := math.Abs(r.Y - lineY)
		switch {
		case dy < em(lineSize)/2:
			b.WriteByte(' ')
			if r.Height > lineSize {
				lineSize = r.Height
			}
		case dy > gapFactor*em(lineSize):
			b.WriteString("\n\n")
			lineY, lineSize = r.Y, r.Height
		default:
			b.WriteByte('\n')
			lineY, lineSize = r.Y, r.Height
		}
		b.WriteString(s)
	}
	return b.String()
}
