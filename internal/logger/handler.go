// Package logger provides the slog handler used by every folio command.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	techniqueKey contextKey = "technique"
)

// WithRunID stores the job run id in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID returns the run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithTechnique stores the technique name in ctx.
func WithTechnique(ctx context.Context, technique string) context.Context {
	return context.WithValue(ctx, techniqueKey, technique)
}

// ContextHandler adds run_id and technique from the context to every record.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RunID(ctx); id != "" {
		r.AddAttrs(slog.String("run_id", id))
	}
	if technique, ok := ctx.Value(techniqueKey).(string); ok && technique != "" {
		r.AddAttrs(slog.String("technique", technique))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// New builds a logger writing text or JSON records to w.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if strings.EqualFold(format, "json") {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}

	return slog.New(NewContextHandler(base))
}
