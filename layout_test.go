// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glyphs lays s out left to right at (x, y), each glyph w units wide.
func glyphs(s string, x, y, w, size float64) []pdf.Text {
	var out []pdf.Text
	for _, r := range s {
		out = append(out, pdf.Text{Font: "Helvetica", FontSize: size, X: x, Y: y, W: w, S: string(r)})
		x += w
	}
	return out
}

func TestBuildRuns(t *testing.T) {
	t.Run("same baseline merges", func(t *testing.T) {
		runs := buildRuns(glyphs("Hello world", 10, 100, 5, 10))
		require.Len(t, runs, 1)
		assert.Equal(t, "Hello world", runs[0].Text)
		assert.Equal(t, 10.0, runs[0].X)
		assert.Equal(t, 55.0, runs[0].Width)
		assert.Equal(t, 10.0, runs[0].Height)
	})

	t.Run("new baseline starts a run", func(t *testing.T) {
		in := append(glyphs("top", 10, 100, 5, 10), glyphs("bottom", 10, 86, 5, 10)...)
		runs := buildRuns(in)
		require.Len(t, runs, 2)
		assert.Equal(t, "top", runs[0].Text)
		assert.Equal(t, "bottom", runs[1].Text)
		assert.Equal(t, 86.0, runs[1].Y)
	})

	t.Run("font change starts a run", func(t *testing.T) {
		in := glyphs("ab", 10, 100, 5, 10)
		bold := glyphs("cd", 20, 100, 5, 10)
		for i := range bold {
			bold[i].Font = "Helvetica-Bold"
		}
		runs := buildRuns(append(in, bold...))
		require.Len(t, runs, 2)
		assert.Equal(t, "Helvetica-Bold", runs[1].Font)
	})

	t.Run("wide gap starts a run", func(t *testing.T) {
		in := append(glyphs("left", 10, 100, 5, 10), glyphs("right", 300, 100, 5, 10)...)
		runs := buildRuns(in)
		require.Len(t, runs, 2)
		assert.Equal(t, 300.0, runs[1].X)
	})

	t.Run("small gap becomes a space", func(t *testing.T) {
		in := append(glyphs("two", 10, 100, 5, 10), glyphs("words", 28, 100, 5, 10)...)
		runs := buildRuns(in)
		require.Len(t, runs, 1)
		assert.Equal(t, "two words", runs[0].Text)
	})

	t.Run("zero width glyphs stay in one run", func(t *testing.T) {
		runs := buildRuns(glyphs("abc", 10, 100, 0, 10))
		require.Len(t, runs, 1)
		assert.Equal(t, "abc", runs[0].Text)
	})

	t.Run("whitespace runs dropped", func(t *testing.T) {
		in := append(glyphs("   ", 10, 100, 5, 10), glyphs("x", 10, 50, 5, 10)...)
		runs := buildRuns(in)
		require.Len(t, runs, 1)
		assert.Equal(t, "x", runs[0].Text)
	})

	t.Run("no glyphs", func(t *testing.T) {
		assert.Empty(t, buildRuns(nil))
	})
}

func TestAssembleText_Flat(t *testing.T) {
	runs := []TextRun{
		{Text: "Intro. ", Y: 100, Height: 10},
		{Text: "  ", Y: 90, Height: 10},
		{Text: "Body text", Y: 60, Height: 10},
	}
	assert.Equal(t, "Intro. Body text", assembleText(runs, TextLayoutFlat, 1.5))
	assert.Equal(t, "", assembleText(nil, TextLayoutFlat, 1.5))
}

func TestAssembleText_Lines(t *testing.T) {
	runs := []TextRun{
		{Text: "Title", Y: 100, Height: 10},
		{Text: "left", Y: 80, Height: 10},
		{Text: "right", Y: 80.5, Height: 10},
		{Text: "next line", Y: 68, Height: 10},
	}
	assert.Equal(t, "Title\n\nleft right\nnext line", assembleText(runs, TextLayoutLines, 1.5))
}
