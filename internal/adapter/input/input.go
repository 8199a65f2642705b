// Package input provides adapters that feed banner requests from sources
// other than the session bus.
package input

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// Entry is a single banner request read from an input source.
type Entry struct {
	Title   string
	Message string
	Delay   time.Duration // zero means the configured default
	Source  string
	Silent  bool
}

// InputAdapter streams entries from a source until it is exhausted or ctx
// is cancelled.
type InputAdapter interface {
	// Name returns the adapter identifier (e.g., "stdin").
	Name() string

	// Stream calls handle for every entry read. It returns nil when the
	// source ends cleanly.
	Stream(ctx context.Context, handle func(Entry)) error
}

// NewAdapter creates an InputAdapter for the specified source.
func NewAdapter(source string) (InputAdapter, error) {
	switch source {
	case "stdin", "-":
		return NewStdinAdapter(), nil
	default:
		return nil, &AdapterError{
			Source:  source,
			Message: "unknown or unavailable adapter",
		}
	}
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// sanitizeString strips control characters other than newlines and tabs
// and trims surrounding whitespace.
func sanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
