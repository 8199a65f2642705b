package input

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

// StdinAdapter reads banner requests line by line from standard input.
// Each line is either a JSON object or plain text used as the title.
type StdinAdapter struct {
	reader io.Reader
}

// NewStdinAdapter creates a new StdinAdapter reading from os.Stdin.
func NewStdinAdapter() *StdinAdapter {
	return &StdinAdapter{reader: os.Stdin}
}

// NewStdinAdapterWithReader creates a new StdinAdapter with a custom reader.
func NewStdinAdapterWithReader(r io.Reader) *StdinAdapter {
	return &StdinAdapter{reader: r}
}

// Name returns the adapter identifier.
func (a *StdinAdapter) Name() string {
	return "stdin"
}

// Stream reads lines until EOF or cancellation. Blank lines are skipped.
// A JSON line without a title is skipped as well.
func (a *StdinAdapter) Stream(ctx context.Context, handle func(Entry)) error {
	scanner := bufio.NewScanner(a.reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		entry, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		handle(entry)
	}

	if err := scanner.Err(); err != nil {
		return &AdapterError{
			Source:  "stdin",
			Message: "failed to read stdin",
			Err:     err,
		}
	}
	return nil
}

// stdinEntry is the JSON form of a line.
type stdinEntry struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"` // notify-send style alias for title
	Message string `json:"message,omitempty"`
	Body    string `json:"body,omitempty"` // alias for message
	Delay   string `json:"delay,omitempty"`
	AppName string `json:"app_name,omitempty"`
	Silent  bool   `json:"silent,omitempty"`
}

// ParseLine converts one input line into an Entry. It reports false for
// lines that carry nothing to show.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	if !strings.HasPrefix(line, "{") {
		title := sanitizeString(line)
		return Entry{Title: title, Source: "stdin"}, title != ""
	}

	var raw stdinEntry
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		// Not JSON after all; show it verbatim.
		title := sanitizeString(line)
		return Entry{Title: title, Source: "stdin"}, title != ""
	}

	entry := Entry{
		Title:   sanitizeString(firstNonEmpty(raw.Title, raw.Summary)),
		Message: sanitizeString(firstNonEmpty(raw.Message, raw.Body)),
		Source:  sanitizeString(firstNonEmpty(raw.AppName, "stdin")),
		Silent:  raw.Silent,
	}
	if raw.Delay != "" {
		if d, err := time.ParseDuration(raw.Delay); err == nil && d > 0 {
			entry.Delay = d
		}
	}
	return entry, entry.Title != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
