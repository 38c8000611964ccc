// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

// ExtractedPage is the text content of one page.
// Text is the page's runs assembled according to Config.TextLayout.
type ExtractedPage struct {
	PageNumber int       `json:"pageNumber"`
	Text       string    `json:"text"`
	TextRuns   []TextRun `json:"textRuns"`
}

// TextRun is a positioned text fragment: glyphs drawn with one font on one baseline.
// Height is the font size in user space units.
type TextRun struct {
	Text   string  `json:"str"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Font   string  `json:"font,omitempty"`
}
