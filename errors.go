// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"errors"
	"fmt"
)

var (
	ErrNotPDF         = errors.New("not a PDF document")
	ErrEncrypted      = errors.New("encrypted PDF: missing or invalid password")
	ErrFileTooLarge   = errors.New("file exceeds maximum size")
	ErrPageOutOfRange = errors.New("page out of range")
)

// ParseError reports a document that could not be read.
// Page is the 1-based page that failed, or 0 when the document itself is unreadable.
type ParseError struct {
	Page int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("parse pdf: page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("parse pdf: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
