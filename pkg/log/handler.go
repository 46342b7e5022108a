package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler decorates a slog handler so that records carrying an
// error attribute also emit the error's stacktrace, pulled from the
// cockroachdb/errors safe details.
type ErrFmtHandler struct {
	next slog.Handler
}

// WrapByErrFmtHandler wraps a slog handler with stacktrace extraction.
func WrapByErrFmtHandler(next slog.Handler) slog.Handler {
	return &ErrFmtHandler{next: next}
}

// Enabled defers to the wrapped handler.
func (h *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

// Handle appends a stacktrace attribute when the record carries an
// error with safe details, then forwards the record.
func (h *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var st string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			st = stacktraceOf(err)
		}
		return false
	})
	if st != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, st))
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs defers to the wrapped handler.
func (h *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup defers to the wrapped handler.
func (h *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{next: h.next.WithGroup(g)}
}

func stacktraceOf(err error) string {
	details := errors.GetSafeDetails(err).SafeDetails
	if len(details) == 0 {
		return ""
	}
	return details[0]
}
