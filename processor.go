// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/sassoftware/pdf-xtract-search/logger"
	"github.com/sassoftware/pdf-xtract-search/tracer"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const pdfMIME = "application/pdf"

// Processor defines the contract for extracting the pages of a PDF document.
type Processor interface {
	Extract(ctx context.Context, data []byte) ([]ExtractedPage, error)
}

// ExtractorStrategy defines how to extract text from a single page.
// Different strategies handle errors differently (strict vs. best-effort).
type ExtractorStrategy interface {
	ExtractPage(ctx context.Context, page pdf.Page, num int) (ExtractedPage, error)
}

// StrictExtractor enforces strict parsing.
// If any page fails, the entire extraction fails.
type StrictExtractor struct {
	Layout    TextLayout
	GapFactor float64
}

func (s *StrictExtractor) ExtractPage(ctx context.Context, page pdf.Page, num int) (ExtractedPage, error) {
	runs, err := readRuns(ctx, page)
	if err != nil {
		return ExtractedPage{}, err
	}
	return ExtractedPage{
		PageNumber: num,
		Text:       assembleText(runs, s.Layout, s.GapFactor),
		TextRuns:   runs,
	}, nil
}

// BestEffortExtractor tolerates errors.
// A page that fails is returned empty so page numbering is preserved.
type BestEffortExtractor struct {
	Layout    TextLayout
	GapFactor float64
}

func (b *BestEffortExtractor) ExtractPage(ctx context.Context, page pdf.Page, num int) (ExtractedPage, error) {
	runs, err := readRuns(ctx, page)
	if err != nil {
		// In best-effort mode, ignore errors and continue.
		logger.Debug("BestEffortExtractor: failed to extract page text, ignoring error", "page", num, "err", err, true)
		return ExtractedPage{PageNumber: num, TextRuns: []TextRun{}}, nil
	}
	return ExtractedPage{
		PageNumber: num,
		Text:       assembleText(runs, b.Layout, b.GapFactor),
		TextRuns:   runs,
	}, nil
}

// readRuns interprets the page content stream. The parser reports malformed
// content by panicking, so panics are turned into errors here. The parser is
// not context aware: on cancellation the call returns and the parse finishes
// in the background.
func readRuns(ctx context.Context, page pdf.Page) ([]TextRun, error) {
	type outcome struct {
		runs []TextRun
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		var out outcome
		defer func() {
			if r := recover(); r != nil {
				out = outcome{err: fmt.Errorf("malformed content stream: %v", r)}
			}
			done <- out
		}()
		if page.V.IsNull() {
			out.err = errors.New("null page")
			return
		}
		out.runs = buildRuns(page.Content().Text)
		if out.runs == nil {
			out.runs = []TextRun{}
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.runs, out.err
	}
}

// processor manages PDF extraction with concurrency control
// and delegates page-level work to the chosen ExtractorStrategy.
type processor struct {
	cfg       *Config
	sem       *semaphore.Weighted
	extractor ExtractorStrategy
}

// NewProcessor validates the config and creates a new processor.
// Selects the correct ExtractorStrategy (Strict or BestEffort).
func NewProcessor(cfg *Config) *processor {
	//Select ExtractorStrategy
	var extractor ExtractorStrategy
	switch cfg.ParsingMode {
	case Strict:
		extractor = &StrictExtractor{Layout: cfg.TextLayout, GapFactor: cfg.ParagraphGapFactor}
	case BestEffort:
		extractor = &BestEffortExtractor{Layout: cfg.TextLayout, GapFactor: cfg.ParagraphGapFactor}
	}

	//Validate the config object
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	//Set the logger function
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}
	// the trace log is process wide; the newest processor decides
	tracer.Enable(cfg.DebugOn)

	logger.Debug(fmt.Sprintf("Processor initialized: parsing_mode=%v, text_layout=%v, max_concurrent_pdfs=%d, max_workers_per_pdf=%d",
		cfg.ParsingMode, cfg.TextLayout, cfg.MaxConcurrentPDFs, cfg.MaxWorkersPerPDF), true)

	return &processor{
		cfg:       cfg,
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrentPDFs)),
		extractor: extractor,
	}
}

// Extract returns one ExtractedPage per page, ordered by page number starting at 1.
// Unreadable input fails with a *ParseError. In strict mode a failing page aborts
// the whole extraction; in best-effort mode it is returned as an empty page.
func (p *processor) Extract(ctx context.Context, data []byte) ([]ExtractedPage, error) {
	logger.Debug(fmt.Sprintf("Starting extraction: bytes=%d", len(data)), true)

	if err := p.acquireSlot(ctx); err != nil {
		logger.Debug(fmt.Sprintf("Failed to acquire slot: err=%v", err), true)
		return nil, err
	}
	defer p.sem.Release(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := p.open(data)
	if err != nil {
		logger.Debug(fmt.Sprintf("Failed to open PDF: err=%v", err), true)
		return nil, err
	}

	total := r.NumPage()
	logger.Debug(fmt.Sprintf("Total pages detected: pages=%d", total), true)

	if total == 0 {
		return []ExtractedPage{}, nil
	}

	pages := make([]ExtractedPage, total)
	numWorkers := p.adjustWorkerCount(p.cfg.MaxWorkersPerPDF, total)
	jobs := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		return p.feedJobs(gctx, total, jobs)
	})
	p.startWorkers(gctx, g, r, jobs, pages, numWorkers)

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug(fmt.Sprintf("Extraction aborted: err=%v", err), true)
		return nil, err
	}

	logger.Debug(fmt.Sprintf("Extraction completed: pages=%d", total), true)
	return pages, nil
}

// ExtractFile reads path and extracts it with Extract.
func (p *processor) ExtractFile(ctx context.Context, path string) ([]ExtractedPage, error) {
	data, err := p.readFile(path)
	if err != nil {
		return nil, err
	}
	return p.Extract(ctx, data)
}

// Page extracts a single page. num is 1-based.
func (p *processor) Page(ctx context.Context, data []byte, num int) (ExtractedPage, error) {
	logger.Debug(fmt.Sprintf("Extracting single page: page=%d", num), true)

	if err := p.acquireSlot(ctx); err != nil {
		return ExtractedPage{}, err
	}
	defer p.sem.Release(1)

	r, err := p.open(data)
	if err != nil {
		return ExtractedPage{}, err
	}
	if num < 1 || num > r.NumPage() {
		return ExtractedPage{}, fmt.Errorf("page %d of %d: %w", num, r.NumPage(), ErrPageOutOfRange)
	}
	return p.extractPageWithRetries(ctx, r, num)
}

// open checks that data looks like a PDF and hands it to the parser.
func (p *processor) open(data []byte) (r *pdf.Reader, err error) {
	if len(data) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("empty input: %w", ErrNotPDF)}
	}
	if p.cfg.MaxFileSize > 0 && int64(len(data)) > p.cfg.MaxFileSize {
		return nil, &ParseError{Err: fmt.Errorf("%d bytes, limit %d: %w", len(data), p.cfg.MaxFileSize, ErrFileTooLarge)}
	}
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		return nil, &ParseError{Err: fmt.Errorf("detected %s: %w", mt.String(), ErrNotPDF)}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, &ParseError{Err: fmt.Errorf("malformed document: %v", rec)}
		}
	}()

	src := bytes.NewReader(data)
	if p.cfg.Password != "" {
		tried := false
		r, err = pdf.NewReaderEncrypted(src, int64(len(data)), func() string {
			if tried {
				return ""
			}
			tried = true
			return p.cfg.Password
		})
	} else {
		r, err = pdf.NewReader(src, int64(len(data)))
	}
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, &ParseError{Err: fmt.Errorf("%v: %w", err, ErrEncrypted)}
		}
		return nil, &ParseError{Err: err}
	}
	return r, nil
}

func (p *processor) readFile(path string) ([]byte, error) {
	if p.cfg.MaxFileSize > 0 {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if fi.Size() > p.cfg.MaxFileSize {
			return nil, &ParseError{Err: fmt.Errorf("%s is %d bytes, limit %d: %w", path, fi.Size(), p.cfg.MaxFileSize, ErrFileTooLarge)}
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (p *processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	logger.Debug("Slot acquired successfully", true)
	return nil
}

func (p *processor) adjustWorkerCount(maxWorkers, total int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > runtime.NumCPU() {
		maxWorkers = runtime.NumCPU()
	}
	if maxWorkers > total {
		maxWorkers = total
	}
	logger.Debug(fmt.Sprintf("Adjusted worker count: workers=%d", maxWorkers), true)
	return maxWorkers
}

// startWorkers spawns numWorkers goroutines on g. Each worker owns the slots of
// pages for the page numbers it receives, so pages needs no locking.
func (p *processor) startWorkers(ctx context.Context, g *errgroup.Group, r *pdf.Reader, jobs <-chan int, pages []ExtractedPage, numWorkers int) {
	logger.Debug(fmt.Sprintf("Spawning workers: num_workers=%d", numWorkers), true)
	for w := 1; w <= numWorkers; w++ {
		id := w
		g.Go(func() error {
			logger.Debug(fmt.Sprintf("Worker started: id=%d", id), true)
			for i := range jobs {
				page, err := p.extractPageWithRetries(ctx, r, i)
				if err != nil {
					logger.Debug(fmt.Sprintf("Worker: page extraction error: worker_id=%d page=%d err=%v", id, i, err), true)
					return err
				}
				pages[i-1] = page
				logger.Debug(fmt.Sprintf("Worker: page extracted successfully: worker_id=%d page=%d runs=%d", id, i, len(page.TextRuns)), true)
			}
			logger.Debug(fmt.Sprintf("Worker finished: id=%d", id), true)
			return nil
		})
	}
}

func (p *processor) extractPageWithRetries(ctx context.Context, r *pdf.Reader, num int) (ExtractedPage, error) {
	var page ExtractedPage
	var err error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		ctxPage, cancel := context.WithTimeout(ctx, p.cfg.WorkerTimeout)
		page, err = p.extractor.ExtractPage(ctxPage, lookupPage(r, num), num)
		cancel()
		if err == nil || ctx.Err() != nil {
			break
		}
		logger.Debug(fmt.Sprintf("Retrying page extraction: attempt=%d err=%v", attempt, err), true)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ExtractedPage{}, ctx.Err()
		}
		return ExtractedPage{}, &ParseError{Page: num, Err: err}
	}
	return page, nil
}

// lookupPage resolves page num, returning a null page if the page tree is malformed.
func lookupPage(r *pdf.Reader, num int) (page pdf.Page) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Debug(fmt.Sprintf("Page lookup failed: page=%d err=%v", num, rec), true)
			page = pdf.Page{}
		}
	}()
	return r.Page(num)
}

func (p *processor) feedJobs(ctx context.Context, total int, jobs chan<- int) error {
	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			logger.Debug("Context cancelled while feeding jobs", true)
			return ctx.Err()
		case jobs <- i:
			logger.Debug(fmt.Sprintf("Job queued: page=%d", i), true)
		}
	}
	logger.Debug(fmt.Sprintf("All jobs queued: total_pages=%d", total), true)
	return nil
}
