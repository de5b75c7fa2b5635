package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// conditionalSourceHandler adds source locations only for selected levels,
// keeping info/debug lines compact in production output. The wrapped
// handler must be created with AddSource: false.
type conditionalSourceHandler struct {
	handler     slog.Handler
	sourceLevel map[slog.Level]bool
}

// NewConditionalSourceHandler wraps handler so that source location is
// attached only to records at the given levels.
func NewConditionalSourceHandler(handler slog.Handler, levels ...slog.Level) slog.Handler {
	m := make(map[slog.Level]bool, len(levels))
	for _, l := range levels {
		m[l] = true
	}
	return &conditionalSourceHandler{handler: handler, sourceLevel: m}
}

func (h *conditionalSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.sourceLevel[r.Level] {
		// skip this frame plus the slog internal frame
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		fs := runtime.CallersFrames(pcs[:])
		f, _ := fs.Next()

		r.AddAttrs(slog.Attr{
			Key: slog.SourceKey,
			Value: slog.AnyValue(&slog.Source{
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
			}),
		})
	}
	return h.handler.Handle(ctx, r)
}

func (h *conditionalSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &conditionalSourceHandler{handler: h.handler.WithAttrs(attrs), sourceLevel: h.sourceLevel}
}

func (h *conditionalSourceHandler) WithGroup(name string) slog.Handler {
	return &conditionalSourceHandler{handler: h.handler.WithGroup(name), sourceLevel: h.sourceLevel}
}

func (h *conditionalSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
