// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package report renders search results into exportable reports.
package report

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sassoftware/pdf-xtract-search/logger"
	"github.com/sassoftware/pdf-xtract-search/search"
	"golang.org/x/text/language"
)

// ErrNothingToExport signals an empty result set. No report is produced.
var ErrNothingToExport = errors.New("nothing to export")

// Report is one search, ready to export.
type Report struct {
	Document    string                `json:"document,omitempty"`
	Keywords    []string              `json:"keywords"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Results     []search.SearchResult `json:"results"`
	// Pages lists the distinct pages with at least one result, ascending.
	Pages []int `json:"pages"`
}

// New builds a report from results. It returns ErrNothingToExport when
// results is empty.
func New(results []search.SearchResult, keywords []string, now time.Time) (*Report, error) {
	if len(results) == 0 {
		return nil, ErrNothingToExport
	}
	return &Report{
		Keywords:    keywords,
		GeneratedAt: now,
		Results:     results,
		Pages:       search.Pages(results),
	}, nil
}

// FileName returns the default export file name for a report generated at now,
// e.g. "search_results_2026-10-17.txt".
func FileName(tag language.Tag, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", printer(tag).Sprintf(msgFilePrefix), now.Format("2006-01-02"), ext)
}

// WriteFile exports r to path, replacing any existing file.
func WriteFile(path string, e Exporter, r *Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()

	if err := e.Export(f, r); err != nil {
		logger.Error("failed to export report", "path", path, "err", err)
		return err
	}
	logger.Debug(fmt.Sprintf("Report written: path=%s results=%d", path, len(r.Results)), true)
	return nil
}
