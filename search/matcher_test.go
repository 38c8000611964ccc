// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	xtract "github.com/sassoftware/pdf-xtract-search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aiParagraph = "Machine learning and artificial intelligence are transforming industries today across many sectors."

func aiPages() []xtract.ExtractedPage {
	return []xtract.ExtractedPage{{PageNumber: 1, Text: "Intro.\n\n" + aiParagraph}}
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lf blank line",
			text: "Intro.\n\n" + aiParagraph,
			want: []string{aiParagraph},
		},
		{
			name: "crlf blank line",
			text: "first paragraph is long enough\r\n\r\nsecond paragraph is long enough",
			want: []string{"first paragraph is long enough", "second paragraph is long enough"},
		},
		{
			name: "whitespace inside blank line",
			text: "first paragraph is long enough\n \t \nsecond paragraph is long enough",
			want: []string{"first paragraph is long enough", "second paragraph is long enough"},
		},
		{
			name: "nbsp inside blank line",
			text: "first paragraph is long enough\n\u00a0\nsecond paragraph is long enough",
			want: []string{"first paragraph is long enough", "second paragraph is long enough"},
		},
		{
			name: "vertical tab inside blank line",
			text: "first paragraph is long enough\n\v\nsecond paragraph is long enough",
			want: []string{"first paragraph is long enough", "second paragraph is long enough"},
		},
		{
			name: "separators and bom inside blank line",
			text: "first paragraph is long enough\n\u2028\u2029\ufeff\nsecond paragraph is long enough\ufeff",
			want: []string{"first paragraph is long enough", "second paragraph is long enough"},
		},
		{
			name: "single newline does not split",
			text: "one line of the paragraph\nand the next line",
			want: []string{"one line of the paragraph\nand the next line"},
		},
		{
			name: "flat text is one paragraph",
			text: "Intro. " + aiParagraph,
			want: []string{"Intro. " + aiParagraph},
		},
		{
			name: "exactly twenty characters dropped",
			text: "12345678901234567890\n\n123456789012345678901",
			want: []string{"123456789012345678901"},
		},
		{
			name: "length counts characters not bytes",
			text: "ááááááááááááááááááá",
			want: nil,
		},
		{
			name: "trimmed before measuring",
			text: "   short paragraph      \n\n",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitParagraphs(tt.text))
		})
	}
}

func TestFindMatches_Examples(t *testing.T) {
	t.Run("all keywords present", func(t *testing.T) {
		got := FindMatches(aiPages(), []string{"machine learning", "artificial intelligence"})
		require.Len(t, got, 1)
		assert.Equal(t, SearchResult{
			PageNumber:      1,
			Paragraph:       aiParagraph,
			MatchedKeywords: []string{"machine learning", "artificial intelligence"},
		}, got[0])
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FindMatches(aiPages(), []string{"blockchain"}))
	})

	t.Run("duplicate keywords with different case", func(t *testing.T) {
		got := FindMatches(aiPages(), []string{"Machine", "machine"})
		require.Len(t, got, 1)
		assert.Equal(t, []string{"Machine", "machine"}, got[0].MatchedKeywords)
	})

	t.Run("one keyword missing", func(t *testing.T) {
		assert.Empty(t, FindMatches(aiPages(), []string{"machine", "blockchain"}))
	})
}

func TestFindMatches_Semantics(t *testing.T) {
	pages := []xtract.ExtractedPage{
		{PageNumber: 1, Text: "Header\n\nThe LEARNING rate of the model matters a lot.\n\nNothing relevant in this paragraph."},
		{PageNumber: 2, Text: "Learning happens on page two as well, in depth."},
		{PageNumber: 3, Text: ""},
	}

	t.Run("substring without word boundary", func(t *testing.T) {
		got := FindMatches(pages, []string{"learn"})
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].PageNumber)
		assert.Equal(t, 2, got[1].PageNumber)
	})

	t.Run("paragraph case preserved", func(t *testing.T) {
		got := FindMatches(pages, []string{"learning rate"})
		require.Len(t, got, 1)
		assert.Equal(t, "The LEARNING rate of the model matters a lot.", got[0].Paragraph)
	})

	t.Run("keywords are trimmed", func(t *testing.T) {
		got := FindMatches(pages, []string{"  model  "})
		require.Len(t, got, 1)
		assert.Equal(t, []string{"model"}, got[0].MatchedKeywords)
	})

	t.Run("unicode case folding", func(t *testing.T) {
		p := []xtract.ExtractedPage{{PageNumber: 4, Text: "ÜBER ÉCOLES: uma análise das ESCOLAS públicas."}}
		got := FindMatches(p, []string{"über", "Análise"})
		require.Len(t, got, 1)
		assert.Equal(t, []string{"über", "Análise"}, got[0].MatchedKeywords)
	})

	t.Run("page then paragraph order", func(t *testing.T) {
		multi := []xtract.ExtractedPage{
			{PageNumber: 1, Text: "alpha paragraph number one here\n\nalpha paragraph number two here"},
			{PageNumber: 2, Text: "alpha paragraph number three here"},
		}
		got := FindMatches(multi, []string{"alpha"})
		require.Len(t, got, 3)
		assert.Contains(t, got[0].Paragraph, "one")
		assert.Contains(t, got[1].Paragraph, "two")
		assert.Contains(t, got[2].Paragraph, "three")
	})
}

func TestFindMatches_EmptyInputs(t *testing.T) {
	got := FindMatches(aiPages(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = FindMatches(nil, []string{"machine"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindMatches_Properties(t *testing.T) {
	pages := []xtract.ExtractedPage{
		{PageNumber: 1, Text: "Cats and dogs are common household pets.\n\nDogs bark loudly at night sometimes.\n\nshort"},
		{PageNumber: 2, Text: "Birds and cats rarely get along well together.\n\nFish swim quietly in the tank all day."},
		{PageNumber: 5, Text: "Cats, dogs, birds and fish all live in this house."},
	}
	queries := [][]string{
		{"cats"},
		{"cats", "dogs"},
		{"cats", "dogs", "birds"},
		{"cats", "dogs", "birds", "fish"},
		{"DOGS"},
		{"zebra"},
	}

	for _, q := range queries {
		got := FindMatches(pages, q)

		// idempotent
		assert.Equal(t, got, FindMatches(pages, q))

		for _, r := range got {
			assert.Greater(t, utf8.RuneCountInString(r.Paragraph), MinParagraphLength)
			assert.Len(t, r.MatchedKeywords, len(q))
			for _, k := range q {
				assert.Contains(t, strings.ToLower(r.Paragraph), strings.ToLower(k))
			}
		}

		// every paragraph containing all keywords is reported
		want := 0
		for _, p := range pages {
			for _, para := range SplitParagraphs(p.Text) {
				all := true
				for _, k := range q {
					all = all && strings.Contains(strings.ToLower(para), strings.ToLower(k))
				}
				if all {
					want++
				}
			}
		}
		assert.Len(t, got, want, "query %v", q)
	}

	// adding a keyword never grows the result set
	for i := 1; i < 4; i++ {
		assert.LessOrEqual(t, len(FindMatches(pages, queries[i])), len(FindMatches(pages, queries[i-1])))
	}
}

func TestPages(t *testing.T) {
	results := []SearchResult{{PageNumber: 5}, {PageNumber: 2}, {PageNumber: 5}, {PageNumber: 1}, {PageNumber: 2}}
	assert.Equal(t, []int{1, 2, 5}, Pages(results))
	assert.Equal(t, []int{}, Pages(nil))
}
