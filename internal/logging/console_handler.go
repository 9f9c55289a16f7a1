package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// consoleHandler renders records as single-line human output:
//
//	15:04:05 INFO  [scheduler] batch submitted batch=2 total=3
//
// The component attribute, when present, becomes the bracketed prefix instead
// of a trailing field.
type consoleHandler struct {
	mu     sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
	color  bool
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar) slog.Handler {
	color := false
	if file, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
	return &consoleHandler{writer: w, level: level, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var component string
	fields := make([]slog.Attr, 0, record.NumAttrs()+len(h.attrs))
	appendField := func(attr slog.Attr) {
		if attr.Key == FieldComponent && component == "" {
			component = attr.Value.String()
			return
		}
		fields = append(fields, attr)
	}
	for _, attr := range h.attrs {
		appendField(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		appendField(attr)
		return true
	})

	var buf bytes.Buffer
	buf.WriteString(timestamp.Format("15:04:05"))
	buf.WriteByte(' ')
	buf.WriteString(h.levelLabel(record.Level))
	buf.WriteByte(' ')
	if component != "" {
		buf.WriteByte('[')
		buf.WriteString(component)
		buf.WriteString("] ")
	}
	buf.WriteString(record.Message)
	for _, attr := range fields {
		buf.WriteByte(' ')
		buf.WriteString(h.fieldKey(attr.Key))
		buf.WriteByte('=')
		buf.WriteString(formatValue(attr.Value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &consoleHandler{writer: h.writer, level: h.level, color: h.color}
	next.attrs = append(append([]slog.Attr{}, h.attrs...), prefixAttrs(h.groups, attrs)...)
	next.groups = h.groups
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := &consoleHandler{writer: h.writer, level: h.level, color: h.color, attrs: h.attrs}
	next.groups = append(append([]string{}, h.groups...), name)
	return next
}

func (h *consoleHandler) fieldKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[2m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

func (h *consoleHandler) levelLabel(level slog.Level) string {
	label := "INFO "
	color := ""
	switch {
	case level >= slog.LevelError:
		label, color = "ERROR", ansiRed
	case level >= slog.LevelWarn:
		label, color = "WARN ", ansiYellow
	case level < slog.LevelInfo:
		label, color = "DEBUG", ansiDim
	}
	if !h.color || color == "" {
		return label
	}
	return color + label + ansiReset
}

func prefixAttrs(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 {
		return attrs
	}
	prefix := strings.Join(groups, ".")
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, slog.Attr{Key: prefix + "." + attr.Key, Value: attr.Value})
	}
	return out
}

func formatValue(value slog.Value) string {
	value = value.Resolve()
	text := value.String()
	if value.Kind() == slog.KindString && strings.ContainsAny(text, " \t") {
		return fmt.Sprintf("%q", text)
	}
	return text
}
