// Package logging builds the command-line logger and carries it through
// context.Context so every command and the pipeline share one sink.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger that writes to w at level. Timestamps are formatted
// as "HH:MM:SS.ms" (e.g. "14:32:01.45").
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Level picks the log level for the --verbose and --quiet flags. Verbose wins
// when both are set.
func Level(verbose, quiet bool) log.Level {
	switch {
	case verbose:
		return log.DebugLevel
	case quiet:
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

// Progress tracks the start of an operation and logs its completion with the
// elapsed time. It is meant for sequential use by a single goroutine.
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// NewProgress starts timing an operation.
func NewProgress(l *log.Logger) *Progress {
	return &Progress{logger: l, start: time.Now()}
}

// Done logs msg at info level with an "elapsed" key rounded to the
// millisecond, followed by keyvals.
func (p *Progress) Done(msg string, keyvals ...interface{}) {
	p.logger.Info(msg, append([]interface{}{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)...)
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or log.Default() when
// there is none.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
