package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/lockstep/internal/ui/output"
	"go.trai.ch/lockstep/internal/ui/style"
)

// attrIndent lines attributes up under the message text, after the level glyph.
const attrIndent = "  "

// attrLabels renames attribute keys for display.
var attrLabels = map[string]string{
	"exit_code":   "exit code",
	"marker_size": "marker size",
}

// PrettyHandler is a slog.Handler for driver output on a terminal. Only the
// first line of a record carries the level glyph and color; continuation lines
// such as an error's cause chain and the record's attributes follow uncolored.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewPrettyHandler creates a PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	glyph, color := decoration(r.Level)

	lines := strings.Split(strings.TrimRight(r.Message, "\n"), "\n")
	headline := lines[0]
	if glyph != "" {
		headline = glyph + " " + headline
	}

	var b strings.Builder
	b.WriteString(h.out.String(headline).Foreground(color).String())
	b.WriteByte('\n')
	for _, line := range lines[1:] {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	write := func(key string, value slog.Value) {
		b.WriteString(attrIndent + key + ": " + formatValue(value.Resolve()))
		b.WriteByte('\n')
	}
	for _, attr := range h.attrs {
		write(attr.Key, attr.Value)
	}
	r.Attrs(func(attr slog.Attr) bool {
		write(displayKey(h.groups, attr.Key), attr.Value)
		return true
	})

	_, err := h.out.WriteString(b.String())
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
// Their keys are qualified by the groups open at this point.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)
	for _, attr := range attrs {
		attr.Key = displayKey(h.groups, attr.Key)
		qualified = append(qualified, attr)
	}

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  qualified,
		groups: h.groups,
	}
}

// WithGroup returns a new Handler nesting later attributes under name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		groups: groups,
	}
}

func decoration(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

// displayKey applies the display label and prefixes the open groups.
func displayKey(groups []string, key string) string {
	if label, ok := attrLabels[key]; ok {
		key = label
	}
	if len(groups) == 0 {
		return key
	}
	return strings.Join(groups, ".") + "." + key
}

// formatValue renders an attribute value. Paths with spaces are quoted so they
// can be pasted back into a shell; durations are rounded to milliseconds.
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, attr := range v.Group() {
			parts = append(parts, attr.Key+"="+formatValue(attr.Value.Resolve()))
		}
		return strings.Join(parts, " ")
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}

	s := v.String()
	if strings.ContainsAny(s, " \t") {
		return strconv.Quote(s)
	}
	return s
}
