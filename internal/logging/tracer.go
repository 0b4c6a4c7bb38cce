package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	slogmulti "github.com/samber/slog-multi"

	"github.com/idilsaglam/todomvc/internal/store"
)

// Tracer reports store commits and rollbacks through slog. It fans out to
// the console logger and, when configured, a JSON lines trace file.
type Tracer struct {
	logger *slog.Logger
	file   io.Closer
}

var _ store.Tracer = (*Tracer)(nil)

// NewTracer builds a tracer. console may be nil (the TUI owns the
// terminal); traceFile may be empty. With neither sink the tracer discards
// everything.
func NewTracer(console *log.Logger, traceFile string) (*Tracer, error) {
	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, console)
	}
	t := &Tracer{}
	if traceFile != "" {
		f, err := os.OpenFile(traceFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		t.file = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	t.logger = slog.New(slogmulti.Fanout(handlers...))
	return t, nil
}

// NewTracerWithHandler is used by tests to capture records.
func NewTracerWithHandler(h slog.Handler) *Tracer {
	return &Tracer{logger: slog.New(h)}
}

func (t *Tracer) Commit(action string, changes []store.Change) {
	attrs := make([]any, 0, len(changes))
	for _, c := range changes {
		attrs = append(attrs, slog.Group(c.Store, "from", c.From, "to", c.To))
	}
	t.logger.LogAttrs(context.Background(), slog.LevelInfo, "commit",
		slog.String("action", action),
		slog.Group("stores", attrs...),
	)
}

func (t *Tracer) Rollback(action string, err error) {
	t.logger.LogAttrs(context.Background(), slog.LevelWarn, "rollback",
		slog.String("action", action),
		slog.String("error", err.Error()),
	)
}

// Close closes the trace file, if any.
func (t *Tracer) Close() error {
	if t == nil || t.file == nil {
		return nil
	}
	return t.file.Close()
}
