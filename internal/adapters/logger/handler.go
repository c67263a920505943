package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

// Attribute keys the console handler lays out instead of printing inline.
// They match the metadata attached by domain.NewToolchainFailure.
const (
	attrStep     = "step"
	attrArgs     = "args"
	attrExitCode = "exit_code"
)

// detailIndent aligns detail lines with the text following "Error: ".
const detailIndent = "       "

// ConsoleHandler is a slog.Handler rendering records for a terminal.
// A record carrying a step is printed as
//
//	✗ [build] Error: step "build" failed (exit code 2)
//	       $ make MAKELEVEL=0 -j 4
//
// and any other attribute is appended to the first line as key=value.
type ConsoleHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewConsoleHandler creates a ConsoleHandler writing to w.
func NewConsoleHandler(w io.Writer, level slog.Leveler) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{out: output.New(w), level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// stepAttrs collects the toolchain attributes of a record.
type stepAttrs struct {
	step     string
	args     string
	exitCode string
	inline   []string
}

func (s *stepAttrs) add(group string, attr slog.Attr) {
	if group == "" {
		switch attr.Key {
		case attrStep:
			s.step = attr.Value.String()
			return
		case attrArgs:
			s.args = attr.Value.String()
			return
		case attrExitCode:
			s.exitCode = attr.Value.String()
			return
		}
	}
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	s.inline = append(s.inline, key+"="+attr.Value.String())
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sa stepAttrs
	for _, attr := range h.attrs {
		sa.add("", attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		sa.add(h.group, attr)
		return true
	})

	lines := strings.Split(r.Message, "\n")

	first := lines[0]
	if sa.step != "" {
		first = "[" + sa.step + "] " + first
	}
	switch r.Level {
	case slog.LevelWarn:
		first = style.Warning + " " + first
	case slog.LevelError:
		first = style.Cross + " " + first
	}
	if sa.exitCode != "" {
		first += " (exit code " + sa.exitCode + ")"
	}
	if len(sa.inline) > 0 {
		first += " " + strings.Join(sa.inline, " ")
	}

	rendered := []string{first}
	if sa.args != "" {
		rendered = append(rendered, detailIndent+"$ "+sa.args)
	}
	rendered = append(rendered, lines[1:]...)

	styled := h.out.String(strings.Join(rendered, "\n")).Foreground(levelColor(r.Level))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

func levelColor(level slog.Level) termenv.Color {
	switch level {
	case slog.LevelWarn:
		return termenv.RGBColor(string(style.Yellow))
	case slog.LevelError:
		return termenv.RGBColor(string(style.Red))
	default:
		return termenv.RGBColor(string(style.Slate))
	}
}

// WithAttrs returns a new Handler with the given attributes appended.
// Their keys are qualified with the current group.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, attr := range attrs {
		if h.group != "" {
			attr.Key = h.group + "." + attr.Key
		}
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

// WithGroup returns a new Handler qualifying later attribute keys with name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.group = name
	if h.group != "" {
		clone.group = h.group + "." + name
	}
	return &clone
}
