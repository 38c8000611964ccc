// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Command pdfsearch extracts the text of a PDF, finds the paragraphs that
// contain every given keyword and optionally exports them as a report.
//
//	pdfsearch search -k "machine learning; data" [-format txt|json] [-o file] file.pdf
//	pdfsearch meta file.pdf
//	pdfsearch view -page 2 file.pdf
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	xtract "github.com/sassoftware/pdf-xtract-search"
	"github.com/sassoftware/pdf-xtract-search/logger"
	"github.com/sassoftware/pdf-xtract-search/report"
	"github.com/sassoftware/pdf-xtract-search/search"
	"github.com/sassoftware/pdf-xtract-search/session"
	"github.com/sassoftware/pdf-xtract-search/tracer"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `usage: pdfsearch <command> [flags] file.pdf

commands:
  search   find paragraphs containing all keywords
  meta     print document metadata as JSON
  view     print the text and runs of one page
`

// now is replaced in tests.
var now = time.Now

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}
	switch args[0] {
	case "search":
		return runSearch(ctx, args[1:], stdout, stderr)
	case "meta":
		return runMeta(ctx, args[1:], stdout, stderr)
	case "view":
		return runView(ctx, args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}
}

// common holds the flags every command accepts.
type common struct {
	config   string
	password string
	verbose  bool
	trace    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "YAML configuration file")
	fs.StringVar(&c.password, "password", "", "password of an encrypted document")
	fs.BoolVar(&c.verbose, "v", false, "log debug messages to stderr")
	fs.BoolVar(&c.trace, "trace", false, "print the trace log to stderr on exit")
}

// loadConfig reads the configuration and routes library logs to slog.
func (c *common) loadConfig(stderr io.Writer) (*xtract.Config, error) {
	cfg := xtract.NewDefaultConfig()
	if c.config != "" {
		loaded, err := xtract.LoadConfig(c.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.password != "" {
		cfg.Password = c.password
	}
	level := slog.LevelInfo
	if c.verbose || cfg.DebugOn {
		level = slog.LevelDebug
	}
	cfg.DebugOn = c.verbose || c.trace || cfg.DebugOn
	cfg.Logger = slogAdapter(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

func (c *common) finish(stderr io.Writer) {
	if c.trace {
		tracer.Flush(stderr)
	}
}

func slogAdapter(l *slog.Logger) logger.LogFunc {
	return func(level logger.LogLevel, msg string, keyvals ...interface{}) {
		switch level {
		case logger.DebugLevel:
			l.Debug(msg, keyvals...)
		case logger.ErrorLevel:
			l.Error(msg, keyvals...)
		default:
			l.Info(msg, keyvals...)
		}
	}
}

// parse parses args and requires exactly one positional file argument.
func parse(fs *flag.FlagSet, args []string) (string, bool) {
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "%s: expected exactly one PDF file\n", fs.Name())
		fs.Usage()
		return "", false
	}
	return fs.Arg(0), true
}

func failure(stderr io.Writer, err error) int {
	var pe *xtract.ParseError
	switch {
	case errors.As(err, &pe) && pe.Page > 0:
		fmt.Fprintf(stderr, "error: could not read page %d: %v\n", pe.Page, pe.Err)
	case errors.As(err, &pe):
		fmt.Fprintf(stderr, "error: could not read the document: %v\n", pe.Err)
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return exitFail
}

func runSearch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	keywords := fs.String("k", "", `keywords separated by ";" (all must appear in a paragraph)`)
	format := fs.String("format", "txt", "export format: txt or json")
	output := fs.String("o", "", `export file, or a directory to use the default report name; "-" writes to stdout`)
	locale := fs.String("locale", "en", "report language: en or pt-BR")

	path, ok := parse(fs, args)
	if !ok {
		return exitUsage
	}
	tag, err := report.ParseLocale(*locale)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	exporter, err := report.NewExporter(*format, tag)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if len(search.ParseKeywords(*keywords, search.DefaultSeparator)) == 0 {
		fmt.Fprintln(stderr, "error: at least one keyword is required (-k)")
		return exitUsage
	}

	cfg, err := c.loadConfig(stderr)
	if err != nil {
		return failure(stderr, err)
	}
	defer c.finish(stderr)

	data, err := os.ReadFile(path)
	if err != nil {
		return failure(stderr, err)
	}
	s := session.New(xtract.NewProcessor(cfg))
	if err := s.Open(filepath.Base(path), data); err != nil {
		return failure(stderr, err)
	}
	results, err := s.Search(ctx, *keywords)
	if err != nil {
		return failure(stderr, err)
	}

	if len(results) == 0 {
		fmt.Fprintln(stdout, "No paragraphs contain all the keywords.")
		return exitOK
	}
	for i, r := range results {
		fmt.Fprintf(stdout, "[%d] page %d (%s)\n%s\n\n", i+1, r.PageNumber, strings.Join(r.MatchedKeywords, ", "), r.Paragraph)
	}
	fmt.Fprintf(stdout, "%d paragraph(s) on page(s) %s\n", len(results), joinInts(search.Pages(results)))

	switch *output {
	case "":
		return exitOK
	case "-":
		if err := s.Export(stdout, exporter, now()); err != nil {
			return failure(stderr, err)
		}
		return exitOK
	}
	dest := *output
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, report.FileName(tag, now(), exporter.Ext()))
	}
	if err := exportFile(s, dest, exporter); err != nil {
		return failure(stderr, err)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", dest)
	return exitOK
}

func exportFile(s *session.Session, path string, e report.Exporter) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return s.Export(f, e, now())
}

func runMeta(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("meta", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)

	path, ok := parse(fs, args)
	if !ok {
		return exitUsage
	}
	cfg, err := c.loadConfig(stderr)
	if err != nil {
		return failure(stderr, err)
	}
	defer c.finish(stderr)

	data, err := os.ReadFile(path)
	if err != nil {
		return failure(stderr, err)
	}
	if err := xtract.NewProcessor(cfg).MetadataJSON(ctx, data, stdout); err != nil {
		return failure(stderr, err)
	}
	return exitOK
}

func runView(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	num := fs.Int("page", 1, "page number, starting at 1")
	runs := fs.Bool("runs", false, "also print every text run with its position")

	path, ok := parse(fs, args)
	if !ok {
		return exitUsage
	}
	cfg, err := c.loadConfig(stderr)
	if err != nil {
		return failure(stderr, err)
	}
	defer c.finish(stderr)

	data, err := os.ReadFile(path)
	if err != nil {
		return failure(stderr, err)
	}
	page, err := xtract.NewProcessor(cfg).Page(ctx, data, *num)
	if errors.Is(err, xtract.ErrPageOutOfRange) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if err != nil {
		return failure(stderr, err)
	}

	fmt.Fprintf(stdout, "Page %d: %d run(s)\n\n%s\n", page.PageNumber, len(page.TextRuns), page.Text)
	if *runs {
		fmt.Fprintln(stdout)
		for _, r := range page.TextRuns {
			fmt.Fprintf(stdout, "%8.2f %8.2f %7.2f %5.1f %-12s %q\n", r.X, r.Y, r.Width, r.Height, r.Font, r.Text)
		}
	}
	return exitOK
}

func joinInts(ns []int) string {
	s := make([]string, len(ns))
	for i, n := range ns {
		s[i] = fmt.Sprint(n)
	}
	return strings.Join(s, ", ")
}
