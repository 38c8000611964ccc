// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tracer

import (
	"fmt"
	"io"
	"sync"
)

var (
	mu            sync.Mutex
	enabled       bool
	traceMessages []string
)

// Enable turns the trace log on or off. It starts off. Turning it off drops
// anything not yet flushed.
func Enable(on bool) {
	mu.Lock()
	enabled = on
	if !on {
		traceMessages = nil
	}
	mu.Unlock()
}

// Enabled reports whether Log keeps messages.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log just adds a message to the trace log. It does nothing while tracing is off.
func Log(msg string) {
	mu.Lock()
	if enabled {
		traceMessages = append(traceMessages, msg)
	}
	mu.Unlock()
}

// Messages returns a copy of the accumulated trace log.
func Messages() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(traceMessages))
	copy(out, traceMessages)
	return out
}

// Flush writes the accumulated trace log to w and resets it.
func Flush(w io.Writer) {
	mu.Lock()
	msgs := traceMessages
	// reset so the next run starts fresh
	traceMessages = nil
	mu.Unlock()

	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}
}
