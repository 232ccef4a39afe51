package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// consoleHandler writes "15:04:05 LEVEL message key=value" lines.
type consoleHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	styles map[string]lipgloss.Style
	attrs  []byte
	prefix string
}

func newConsoleHandler(w io.Writer, level slog.Leveler, colour bool) *consoleHandler {
	h := &consoleHandler{
		w:     w,
		mu:    &sync.Mutex{},
		level: level,
	}

	if colour {
		r := lipgloss.NewRenderer(w)
		h.styles = map[string]lipgloss.Style{
			"DEBUG":    r.NewStyle().Foreground(lipgloss.Color("2")),
			"WARNING":  r.NewStyle().Foreground(lipgloss.Color("3")),
			"ERROR":    r.NewStyle().Foreground(lipgloss.Color("1")),
			"CRITICAL": r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		}
	}

	return h
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(r.Time.Format("15:04:05"))
		buf.WriteByte(' ')
	}

	label := LevelName(r.Level)
	if style, ok := h.styles[label]; ok {
		label = style.Render(label)
	}
	buf.WriteString(label)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	buf.Write(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	buf := bytes.NewBuffer(append([]byte(nil), h.attrs...))
	for _, a := range attrs {
		appendAttr(buf, h.prefix, a)
	}
	clone.attrs = buf.Bytes()
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, groupPrefix, ga)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')

	value := a.Value.String()
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}
	buf.WriteString(value)
}
