// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package search

import (
	"errors"
	"strings"
)

// DefaultSeparator splits a raw keyword string typed by a user.
const DefaultSeparator = ";"

// ErrNoKeywords signals that a raw keyword string held no usable keyword.
// It is informational: the search should not run.
var ErrNoKeywords = errors.New("no keywords to search for")

// ParseKeywords splits raw on sep, trims every piece and drops the empty ones.
// Order and duplicates are preserved.
func ParseKeywords(raw, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}
	keywords := []string{}
	for _, k := range strings.Split(raw, sep) {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}
