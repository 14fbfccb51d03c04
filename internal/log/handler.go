package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// BaseHandler provides the level check shared by all handlers
type BaseHandler struct {
	level slog.Level
	mu    *sync.Mutex
}

// Enabled reports whether the handler handles records at the given level
func (h *BaseHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// CallbackHandler is a slog.Handler that forwards log records to a callback function
type CallbackHandler struct {
	BaseHandler
	callback CallbackFunc
	attrs    []slog.Attr
}

// NewCallbackHandler creates a new slog handler that forwards logs to a callback
func NewCallbackHandler(callback CallbackFunc, level slog.Level) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{level: level, mu: &sync.Mutex{}},
		callback:    callback,
	}
}

// Handle forwards the record to the callback
func (h *CallbackHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.callback == nil {
		return nil
	}

	if len(h.attrs) > 0 {
		record.AddAttrs(h.attrs...)
	}

	h.callback(record)
	return nil
}

// WithAttrs returns a new Handler whose attributes consist of both the receiver's attributes and the arguments
func (h *CallbackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &CallbackHandler{
		BaseHandler: h.BaseHandler,
		callback:    h.callback,
		attrs:       merged,
	}
}

// WithGroup returns the handler unchanged; groups are flattened
func (h *CallbackHandler) WithGroup(name string) slog.Handler {
	return h
}

// Handler is a slog.Handler for "[LEVEL] message key=value" output
type Handler struct {
	BaseHandler
	output io.Writer
	attrs  []slog.Attr
}

// NewHandler creates a new handler for formatted output
func NewHandler(output io.Writer, level slog.Level) *Handler {
	return &Handler{
		BaseHandler: BaseHandler{level: level, mu: &sync.Mutex{}},
		output:      output,
	}
}

// Handle processes the Record and outputs formatted log
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.output, "%s%s\n", LevelPrefix(r.Level), FormatRecord(r, h.attrs...))
	return nil
}

// WithAttrs returns a new Handler with the given attributes
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &Handler{
		BaseHandler: h.BaseHandler,
		output:      h.output,
		attrs:       merged,
	}
}

// WithGroup returns the handler unchanged; groups are flattened
func (h *Handler) WithGroup(name string) slog.Handler {
	return h
}

// LevelPrefix returns the bracketed level tag. INFO has none.
func LevelPrefix(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "[ERROR] "
	case level >= slog.LevelWarn:
		return "[WARN] "
	case level >= slog.LevelInfo:
		return ""
	case level >= slog.LevelDebug:
		return "[DEBUG] "
	default:
		return "[TRACE] "
	}
}

// FormatRecord renders the message followed by inline key=value attributes
func FormatRecord(r slog.Record, extra ...slog.Attr) string {
	msg := r.Message
	appendAttr := func(a slog.Attr) bool {
		if a.Key == slog.TimeKey {
			return true
		}
		msg += fmt.Sprintf(" %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range extra {
		appendAttr(a)
	}
	r.Attrs(appendAttr)
	return msg
}
