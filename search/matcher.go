// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package search finds the paragraphs of extracted pages that contain every
// keyword of a query.
//
// Matching is a case-insensitive substring test without word boundaries, so
// "learn" matches "learning". A paragraph is reported only when all keywords
// are present in it.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	xtract "github.com/sassoftware/pdf-xtract-search"
	"github.com/sassoftware/pdf-xtract-search/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinParagraphLength is the trimmed length, in characters, a paragraph must
// exceed. Shorter fragments are headers, page numbers and similar noise.
const MinParagraphLength = 20

// paragraphBreak is a blank line, in LF or CRLF style. The blank line may hold
// any Unicode space, including NBSP, vertical tab, the line and paragraph
// separators and the byte order mark.
var paragraphBreak = regexp.MustCompile(`\n` + blank + `*\n|\r\n` + blank + `*\r\n`)

const blank = `[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// SearchResult is a paragraph that contains every keyword of a search.
type SearchResult struct {
	PageNumber      int      `json:"pageNumber"`
	Paragraph       string   `json:"paragraph"`
	MatchedKeywords []string `json:"matchedKeywords"`
}

// SplitParagraphs splits page text on blank lines and returns the trimmed
// paragraphs longer than MinParagraphLength.
func SplitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		p = strings.TrimFunc(p, isBlank)
		if utf8.RuneCountInString(p) > MinParagraphLength {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// FindMatches returns, in page then paragraph order, every paragraph that
// contains all keywords. Keywords are trimmed before matching and reported in
// their trimmed, original-case form. It never fails: no pages or no keywords
// yield an empty result.
func FindMatches(pages []xtract.ExtractedPage, keywords []string) []SearchResult {
	results := []SearchResult{}
	if len(pages) == 0 || len(keywords) == 0 {
		return results
	}

	// cases.Caser keeps state, so one per call.
	lower := cases.Lower(language.Und)

	trimmed := make([]string, len(keywords))
	folded := make([]string, len(keywords))
	for i, k := range keywords {
		trimmed[i] = strings.TrimSpace(k)
		folded[i] = lower.String(trimmed[i])
	}

	for _, page := range pages {
		for _, paragraph := range SplitParagraphs(page.Text) {
			haystack := lower.String(paragraph)
			matched := make([]string, 0, len(keywords))
			for i, k := range folded {
				if strings.Contains(haystack, k) {
					matched = append(matched, trimmed[i])
				}
			}
			if len(matched) == len(keywords) {
				results = append(results, SearchResult{
					PageNumber:      page.PageNumber,
					Paragraph:       paragraph,
					MatchedKeywords: matched,
				})
			}
		}
	}

	logger.Debug("search completed", "pages", len(pages), "keywords", len(keywords), "results", len(results))
	return results
}

// Pages returns the distinct page numbers of results in ascending order.
func Pages(results []SearchResult) []int {
	seen := make(map[int]struct{}, len(results))
	pages := make([]int, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.PageNumber]; ok {
			continue
		}
		seen[r.PageNumber] = struct{}{}
		pages = append(pages, r.PageNumber)
	}
	sort.Ints(pages)
	return pages
}
