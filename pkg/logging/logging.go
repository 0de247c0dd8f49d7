// Package logging wires log/slog to a rotating file (or any io.Writer)
// and adds a small context-carried attribute bag so handlers deep in a
// call chain can attach request-scoped fields without threading a
// logger value through every signature.
package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ctxKey is unexported so AppendCtx's attrs can only be read back
// through this package's handler.
type ctxKey struct{}

// Logger builds the process-wide slog.Logger writing to w as given; it
// does no rotation itself (pass a RotatingWriter as w for that).
// asJSON selects slog.NewJSONHandler over slog.NewTextHandler.
func Logger(w io.Writer, asJSON bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if asJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(&ctxHandler{Handler: h})
}

// RotatingWriter returns a lumberjack writer for file-backed loggers
// that need size-based rotation, separate from Logger so callers that
// just want stdout/stderr never pull lumberjack into their path.
func RotatingWriter(path string, maxSizeMB, maxBackups, maxAgeDays int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
}

// AppendCtx returns a context carrying attrs in addition to any already
// attached, so nested AppendCtx calls accumulate rather than overwrite.
func AppendCtx(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	existing, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// ctxHandler injects AppendCtx's attributes into every record that
// flows through it, wrapping an arbitrary underlying slog.Handler.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{Handler: h.Handler.WithGroup(name)}
}
