// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sassoftware/pdf-xtract-search/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var generatedAt = time.Date(2026, 10, 17, 14, 3, 5, 0, time.UTC)

func sampleResults() []search.SearchResult {
	return []search.SearchResult{
		{PageNumber: 3, Paragraph: "Machine learning on page three is discussed here.", MatchedKeywords: []string{"machine", "learning"}},
		{PageNumber: 1, Paragraph: "Machine learning appears first on page one.", MatchedKeywords: []string{"machine", "learning"}},
		{PageNumber: 3, Paragraph: "Another machine learning paragraph on page three.", MatchedKeywords: []string{"machine", "learning"}},
	}
}

func TestNew(t *testing.T) {
	r, err := New(sampleResults(), []string{"machine", "learning"}, generatedAt)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, r.Pages, "distinct pages, ascending")
	assert.Len(t, r.Results, 3)

	_, err = New(nil, []string{"machine"}, generatedAt)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestTXTExporter_English(t *testing.T) {
	r, err := New(sampleResults(), []string{"machine", "learning"}, generatedAt)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&TXTExporter{Locale: language.English}).Export(&buf, r))
	out := buf.String()

	wide := strings.Repeat("=", 80)
	assert.True(t, strings.HasPrefix(out, "SEARCH RESULTS\nKeywords: machine; learning\nParagraphs found: 3\nSearch date: 2026-10-17 14:03:05\n"+wide+"\n\n"))
	assert.Contains(t, out, "RESULT 1\nPage: 3\nMatched keywords: machine, learning\n"+strings.Repeat("-", 40)+"\nMachine learning on page three is discussed here.\n"+wide+"\n\n")
	assert.Contains(t, out, "RESULT 3\nPage: 3\n")
	assert.True(t, strings.HasSuffix(out, "\nSummary:\n- Total results: 3\n- Pages with results: 1, 3\n"))
}

func TestTXTExporter_Portuguese(t *testing.T) {
	r, err := New(sampleResults()[:1], []string{"machine"}, generatedAt)
	require.NoError(t, err)
	r.Document = "relatorio.pdf"

	var buf bytes.Buffer
	require.NoError(t, (&TXTExporter{Locale: language.BrazilianPortuguese}).Export(&buf, r))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "RESULTADOS DA BUSCA\nDocumento: relatorio.pdf\nPalavras-chave: machine\n"))
	assert.Contains(t, out, "Data da busca: 17/10/2026, 14:03:05\n")
	assert.Contains(t, out, "Página: 3\n")
	assert.Contains(t, out, "Palavras encontradas: machine, learning\n")
	assert.Contains(t, out, "- Páginas com resultados: 3\n")
}

func TestTXTExporter_Deterministic(t *testing.T) {
	r, err := New(sampleResults(), []string{"machine"}, generatedAt)
	require.NoError(t, err)

	var a, b bytes.Buffer
	e := &TXTExporter{Locale: language.English}
	require.NoError(t, e.Export(&a, r))
	require.NoError(t, e.Export(&b, r))
	assert.Equal(t, a.String(), b.String())
}

func TestExporters_NothingToExport(t *testing.T) {
	for _, e := range []Exporter{&TXTExporter{}, &JSONExporter{}} {
		var buf bytes.Buffer
		assert.ErrorIs(t, e.Export(&buf, &Report{}), ErrNothingToExport)
		assert.ErrorIs(t, e.Export(&buf, nil), ErrNothingToExport)
		assert.Zero(t, buf.Len())
	}
}

func TestJSONExporter(t *testing.T) {
	r, err := New(sampleResults(), []string{"machine", "learning"}, generatedAt)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{Indent: "  "}).Export(&buf, r))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"machine", "learning"}, got.Keywords)
	assert.Equal(t, []int{1, 3}, got.Pages)
	assert.True(t, generatedAt.Equal(got.GeneratedAt))
	require.Len(t, got.Results, 3)
	assert.Equal(t, 3, got.Results[0].PageNumber)
}

func TestNewExporter(t *testing.T) {
	e, err := NewExporter("TXT", language.English)
	require.NoError(t, err)
	assert.Equal(t, "txt", e.Ext())

	e, err = NewExporter("json", language.English)
	require.NoError(t, err)
	assert.Equal(t, "json", e.Ext())

	_, err = NewExporter("pdf", language.English)
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "search_results_2026-10-17.txt", FileName(language.English, generatedAt, "txt"))
	assert.Equal(t, "resultados_busca_2026-10-17.txt", FileName(language.BrazilianPortuguese, generatedAt, "txt"))
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"en-US", language.English},
		{"pt-BR", language.BrazilianPortuguese},
		{"pt", language.BrazilianPortuguese},
		{"de", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocale(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLocale("not a locale!")
	assert.Error(t, err)
}

func TestNothingToExport(t *testing.T) {
	assert.Equal(t, "No results to export.", NothingToExport(language.English))
	assert.Equal(t, "Nenhum resultado encontrado para exportar.", NothingToExport(language.BrazilianPortuguese))
}

func TestWriteFile(t *testing.T) {
	r, err := New(sampleResults(), []string{"machine"}, generatedAt)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), FileName(language.English, generatedAt, "txt"))
	require.NoError(t, WriteFile(path, &TXTExporter{}, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "SEARCH RESULTS\n"))
}
