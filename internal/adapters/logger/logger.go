// Package logger implements the logging adapter on top of log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/lockstep/internal/core/ports"
)

// zerrError is the subset of *zerr.Error the formatter relies on.
type zerrError interface {
	Message() string
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing pretty output to os.Stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

// SetOutput changes the destination, keeping the current format.
// A nil writer means os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(newHandler(l.output, enable))
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

type errorEntry struct {
	message  string
	metadata map[string]any
}

// collectErrorEntries walks the error chain. zerr layers contribute their own
// message and metadata; the first foreign error ends the walk with its full text.
// Layers without a message (zerr.With on a plain error) fold their metadata
// into the neighbouring entry.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	pending := map[string]any{}

	for current := err; current != nil; {
		z, ok := current.(zerrError)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error(), metadata: pending})
			pending = map[string]any{}
			break
		}

		meta := z.Metadata()
		if z.Message() == "" {
			target := pending
			if len(entries) > 0 {
				target = entries[len(entries)-1].metadata
			}
			for k, v := range meta {
				target[k] = v
			}
		} else {
			for k, v := range pending {
				meta[k] = v
			}
			pending = map[string]any{}
			entries = append(entries, errorEntry{message: z.Message(), metadata: meta})
		}

		current = errors.Unwrap(current)
	}

	if len(pending) > 0 && len(entries) > 0 {
		for k, v := range pending {
			entries[len(entries)-1].metadata[k] = v
		}
	}

	return entries
}

// formatErrorEntries renders entries as an "Error:" line followed by a
// "Caused by:" list. Metadata is printed below its message, keys sorted.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.message, "\n")

		prefix, indent := "    → ", "      "
		if i == 0 {
			prefix, indent = "Error: ", "       "
		} else if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}

		lines = append(lines, prefix+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		lines = append(lines, formatMetadata(entry.metadata, indent)...)
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(meta map[string]any, indent string) []string {
	if len(meta) == 0 {
		return nil
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		value := strings.TrimRight(fmt.Sprint(meta[k]), "\n")
		valueLines := strings.Split(value, "\n")
		lines = append(lines, indent+k+": "+valueLines[0])
		for _, line := range valueLines[1:] {
			lines = append(lines, indent+"  "+line)
		}
	}
	return lines
}
