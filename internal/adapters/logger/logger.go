// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/style"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error provides it.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured key-value context.
type metadataer interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger instance writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	if jsonMode {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return NewConsoleHandler(w, slog.LevelInfo)
}

// SetOutput updates the logger's output destination, preserving the JSON mode.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(newHandler(w, enable))
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

// Error logs an error together with its cause chain and metadata.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	entries, attrs := splitStepAttrs(collectErrorEntries(err))

	if l.jsonMode {
		l.logger.Error("operation failed", append([]any{slog.Any("error", err)}, attrs...)...)
		return
	}

	l.logger.Error(formatErrorEntries(entries), attrs...)
}

// splitStepAttrs lifts the step, args and exit_code metadata out of the
// entries so the handler can lay them out as record attributes. The outermost
// value of each key wins.
func splitStepAttrs(entries []errorEntry) ([]errorEntry, []any) {
	keys := []string{attrStep, attrArgs, attrExitCode}
	var attrs []any
	seen := make(map[string]bool, len(keys))
	out := make([]errorEntry, len(entries))

	for i, entry := range entries {
		out[i] = errorEntry{message: entry.message}
		for k, v := range entry.metadata {
			if !slices.Contains(keys, k) {
				if out[i].metadata == nil {
					out[i].metadata = make(map[string]any, len(entry.metadata))
				}
				out[i].metadata[k] = v
			}
		}
		for _, key := range keys {
			if value, ok := entry.metadata[key]; ok && !seen[key] {
				seen[key] = true
				attrs = append(attrs, slog.Any(key, value))
			}
		}
	}
	return out, attrs
}

type errorEntry struct {
	message  string
	metadata map[string]any
}

// collectErrorEntries walks the error chain. zerr errors contribute their own
// message and metadata, joined errors are followed into their last member and
// the first foreign error contributes its full text and ends the walk.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var pending map[string]any

	merge := func(dst, src map[string]any) map[string]any {
		for k, v := range src {
			if dst == nil {
				dst = make(map[string]any)
			}
			if _, exists := dst[k]; !exists {
				dst[k] = v
			}
		}
		return dst
	}

	for current := err; current != nil; {
		// errors.Join(sentinel, cause): the sentinel only classifies, the cause carries the detail.
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			errs := joined.Unwrap()
			if len(errs) == 0 {
				break
			}
			current = errs[len(errs)-1]
			continue
		}

		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error(), metadata: pending})
			break
		}

		var meta map[string]any
		if md, ok := current.(metadataer); ok {
			meta = md.Metadata()
		}

		// zerr.With on a foreign error inserts an unnamed layer; its metadata belongs to a neighbour.
		switch {
		case m.Message() == "" && len(entries) > 0:
			last := &entries[len(entries)-1]
			last.metadata = merge(last.metadata, meta)
		case m.Message() == "":
			pending = merge(pending, meta)
		default:
			entries = append(entries, errorEntry{message: m.Message(), metadata: merge(meta, pending)})
			pending = nil
		}

		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders the entries as:
//
//	Error: outer
//	       key: value
//
//	  Caused by:
//	    → inner
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.message, "\n")

		var head, indent string
		switch i {
		case 0:
			head, indent = "Error: ", "       "
		case 1:
			lines = append(lines, "", "  Caused by:")
			fallthrough
		default:
			head, indent = "    "+style.Arrow+" ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		lines = append(lines, formatMetadata(entry.metadata, indent)...)
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(meta map[string]any, indent string) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var lines []string
	for _, k := range keys {
		value := strings.TrimRight(fmt.Sprint(meta[k]), "\n")
		if !strings.Contains(value, "\n") {
			lines = append(lines, indent+k+": "+value)
			continue
		}
		lines = append(lines, indent+k+":")
		for _, line := range strings.Split(value, "\n") {
			lines = append(lines, indent+"  "+line)
		}
	}
	return lines
}
