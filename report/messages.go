// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys double as the English text.
const (
	msgTitle      = "SEARCH RESULTS"
	msgDocument   = "Document: %s"
	msgKeywords   = "Keywords: %s"
	msgFound      = "Paragraphs found: %d"
	msgDate       = "Search date: %s"
	msgResult     = "RESULT %d"
	msgPage       = "Page: %d"
	msgMatched    = "Matched keywords: %s"
	msgSummary    = "Summary:"
	msgTotal      = "- Total results: %d"
	msgPages      = "- Pages with results: %s"
	msgFilePrefix = "search_results"
	msgNothing    = "No results to export."
)

// Supported lists the report languages. The first one is the fallback.
var Supported = []language.Tag{language.English, language.BrazilianPortuguese}

var (
	messages = catalog.NewBuilder(catalog.Fallback(language.English))
	matcher  = language.NewMatcher(Supported)
)

func init() {
	pt := map[string]string{
		msgTitle:      "RESULTADOS DA BUSCA",
		msgDocument:   "Documento: %s",
		msgKeywords:   "Palavras-chave: %s",
		msgFound:      "Total de parágrafos encontrados: %d",
		msgDate:       "Data da busca: %s",
		msgResult:     "RESULTADO %d",
		msgPage:       "Página: %d",
		msgMatched:    "Palavras encontradas: %s",
		msgSummary:    "Resumo:",
		msgTotal:      "- Total de resultados: %d",
		msgPages:      "- Páginas com resultados: %s",
		msgFilePrefix: "resultados_busca",
		msgNothing:    "Nenhum resultado encontrado para exportar.",
	}
	for key, msg := range pt {
		mustSet(language.English, key, key)
		mustSet(language.BrazilianPortuguese, key, msg)
	}
}

func mustSet(tag language.Tag, key, msg string) {
	if err := messages.SetString(tag, key, msg); err != nil {
		panic(fmt.Sprintf("report: bad message %q: %v", key, err))
	}
}

// ParseLocale maps a BCP 47 string such as "pt", "pt-BR" or "en-US" to the
// closest supported language.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return language.English, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", s, err)
	}
	_, idx, _ := matcher.Match(tag)
	return Supported[idx], nil
}

// NothingToExport is the localized notice for an empty result set.
func NothingToExport(tag language.Tag) string {
	return printer(tag).Sprintf(msgNothing)
}

func printer(tag language.Tag) *message.Printer {
	_, idx, _ := matcher.Match(tag)
	return message.NewPrinter(Supported[idx], message.Catalog(messages))
}

func dateLayout(tag language.Tag) string {
	_, idx, _ := matcher.Match(tag)
	if Supported[idx] == language.BrazilianPortuguese {
		return "02/01/2006, 15:04:05"
	}
	return "2006-01-02 15:04:05"
}
