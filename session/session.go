// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package session holds the state of one interactive search session: the
// selected document, the current keywords and results, and the view settings.
//
// A search runs extraction and matching as one unit. Only one search may be in
// flight per document; selecting another document discards the results of a
// search still running against the previous one.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	xtract "github.com/sassoftware/pdf-xtract-search"
	"github.com/sassoftware/pdf-xtract-search/logger"
	"github.com/sassoftware/pdf-xtract-search/report"
	"github.com/sassoftware/pdf-xtract-search/search"
)

var (
	ErrInvalidFile      = errors.New("not a valid PDF file")
	ErrNoDocument       = errors.New("no document selected")
	ErrSearchInProgress = errors.New("a search is already running")
	// ErrStale is returned by a search whose document was replaced while it ran.
	ErrStale = errors.New("document changed during search")
	// ErrNoKeywords is search.ErrNoKeywords, re-exported for callers of Search.
	ErrNoKeywords = search.ErrNoKeywords
)

// Extractor turns document bytes into pages.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]xtract.ExtractedPage, error)
}

// Document is the selected file.
type Document struct {
	Name string
	Size int
	data []byte
}

type Session struct {
	proc Extractor

	mu         sync.Mutex
	doc        *Document
	generation uint64
	searching  bool
	keywords   []string
	results    []search.SearchResult
	sidebar    bool
	view       View
}

func New(proc Extractor) *Session {
	return &Session{
		proc:    proc,
		sidebar: true,
		view:    NewView(),
	}
}

// Open selects a document. Input that is not a PDF is rejected with
// ErrInvalidFile and the current selection is kept. Otherwise results and
// keywords are cleared and any running search becomes stale.
func (s *Session) Open(name string, data []byte) error {
	if len(data) == 0 || !mimetype.Detect(data).Is("application/pdf") {
		logger.Debug(fmt.Sprintf("Rejected file: name=%s", name))
		return fmt.Errorf("%s: %w", name, ErrInvalidFile)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &Document{Name: name, Size: len(data), data: data}
	s.reset()
	s.view = NewView()
	logger.Debug(fmt.Sprintf("Document selected: name=%s size=%d", name, len(data)), true)
	return nil
}

// Close returns to the empty state: no document, no results, sidebar expanded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	s.reset()
	s.sidebar = true
}

func (s *Session) reset() {
	s.generation++
	s.searching = false
	s.keywords = nil
	s.results = nil
}

// Search parses raw into keywords and searches the selected document.
// On success the results replace the previous ones. On failure the previous
// results are kept and the document stays selected so the user may retry.
func (s *Session) Search(ctx context.Context, raw string) ([]search.SearchResult, error) {
	keywords := search.ParseKeywords(raw, search.DefaultSeparator)
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return nil, ErrNoDocument
	}
	if s.searching {
		s.mu.Unlock()
		return nil, ErrSearchInProgress
	}
	s.searching = true
	s.keywords = keywords
	doc, gen := s.doc, s.generation
	s.mu.Unlock()

	logger.Debug(fmt.Sprintf("Search started: document=%s keywords=%d", doc.Name, len(keywords)), true)
	pages, err := s.proc.Extract(ctx, doc.data)
	var results []search.SearchResult
	if err == nil {
		results = search.FindMatches(pages, keywords)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		logger.Debug(fmt.Sprintf("Search discarded: document=%s", doc.Name), true)
		return nil, ErrStale
	}
	s.searching = false
	if err != nil {
		logger.Error("search failed", "document", doc.Name, "err", err)
		return nil, err
	}
	s.results = results
	logger.Debug(fmt.Sprintf("Search finished: document=%s results=%d", doc.Name, len(results)), true)
	return cloneResults(results), nil
}

// Export writes the current results with e. It returns report.ErrNothingToExport
// when there are none.
func (s *Session) Export(w io.Writer, e report.Exporter, now time.Time) error {
	s.mu.Lock()
	results, keywords := s.results, s.keywords
	var name string
	if s.doc != nil {
		name = s.doc.Name
	}
	s.mu.Unlock()

	r, err := report.New(results, keywords, now)
	if err != nil {
		return err
	}
	r.Document = name
	return e.Export(w, r)
}

// Document returns a copy of the selected document, or nil.
func (s *Session) Document() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	d := *s.doc
	return &d
}

// Results returns a copy of the current results.
func (s *Session) Results() []search.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneResults(s.results)
}

func cloneResults(results []search.SearchResult) []search.SearchResult {
	out := make([]search.SearchResult, len(results))
	for i, r := range results {
		r.MatchedKeywords = slices.Clone(r.MatchedKeywords)
		out[i] = r
	}
	return out
}

func (s *Session) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.keywords)
}

// Searching reports whether a search is running against the selected document.
func (s *Session) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

func (s *Session) ToggleSidebar() {
	s.mu.Lock()
	s.sidebar = !s.sidebar
	s.mu.Unlock()
}

func (s *Session) SidebarExpanded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebar
}

// View returns a copy of the view settings.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// UpdateView applies fn to the view settings.
func (s *Session) UpdateView(fn func(v *View)) {
	s.mu.Lock()
	fn(&s.view)
	s.mu.Unlock()
}
