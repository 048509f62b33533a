package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Handler is a plain-text slog handler: timestamp, level, message, then
// key=value attributes. Kept deliberately small; structured JSON output can
// be swapped in at SetupLogger without touching call sites.
type Handler struct {
	mu    sync.Mutex
	out   io.Writer
	attrs []slog.Attr
}

// NewHandler creates a new Handler. A nil writer defaults to stdout.
func NewHandler(out io.Writer) *Handler {
	if out == nil {
		out = os.Stdout
	}

	return &Handler{out: out}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.out, "%s %-5s %s", r.Time.Format(time.RFC3339), r.Level.String(), r.Message)
	for _, attr := range h.attrs {
		fmt.Fprintf(h.out, " %s=%v", attr.Key, attr.Value.Any())
	}
	r.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(h.out, " %s=%v", attr.Key, attr.Value.Any())
		return true
	})
	fmt.Fprintln(h.out)

	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		out:   h.out,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *Handler) WithGroup(_ string) slog.Handler {
	return h
}
