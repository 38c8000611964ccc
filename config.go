// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sassoftware/pdf-xtract-search/logger"
	"gopkg.in/yaml.v3"
)

type ParsingMode string

const (
	Strict     ParsingMode = "strict"
	BestEffort ParsingMode = "best-effort"
)

// TextLayout selects how the runs of a page are assembled into ExtractedPage.Text.
type TextLayout string

const (
	// TextLayoutFlat joins every run with a single space.
	TextLayoutFlat TextLayout = "flat"
	// TextLayoutLines keeps line breaks and marks wide vertical gaps with a blank line.
	TextLayoutLines TextLayout = "lines"
)

type Config struct {
	MaxConcurrentPDFs  int            `yaml:"max_concurrent_pdfs" validate:"min=1,max=10"`
	MaxWorkersPerPDF   int            `yaml:"max_workers_per_pdf" validate:"min=1,max=10"`
	WorkerTimeout      time.Duration  `yaml:"worker_timeout" validate:"required"`
	ParsingMode        ParsingMode    `yaml:"parsing_mode" validate:"oneof=strict best-effort"`
	MaxRetries         int            `yaml:"max_retries" validate:"min=0,max=3"`
	TextLayout         TextLayout     `yaml:"text_layout" validate:"oneof=flat lines"`
	ParagraphGapFactor float64        `yaml:"paragraph_gap_factor" validate:"gt=0"`
	MaxFileSize        int64          `yaml:"max_file_size" validate:"min=0"`
	Password           string         `yaml:"password"`
	// DebugOn keeps the trace log (see package tracer). Off, nothing is retained.
	DebugOn            bool           `yaml:"debug"`
	Logger             logger.LogFunc `yaml:"-"`
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentPDFs:  1,
		MaxWorkersPerPDF:   1,
		WorkerTimeout:      30 * time.Second,
		ParsingMode:        Strict,
		MaxRetries:         0,
		TextLayout:         TextLayoutFlat,
		ParagraphGapFactor: 1.5,
		MaxFileSize:        0,
		DebugOn:            false,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}

// LoadConfig reads a YAML config file on top of NewDefaultConfig and validates the result.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	logger.Debug(fmt.Sprintf("Loading config: path=%s", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
