// Package cli implements the knotedit command-line interface.
//
// Documents live in the store selected by the configuration file (a
// directory of JSON files by default, or Redis or MongoDB). Commands take a
// document ID or a unique document name.
//
// # Commands
//
// The main commands are:
//   - new, import, export, ls, rm: Manage stored documents
//   - edit: Edit a document interactively, with undo history
//   - render: Draw a document or a document file as DOT, SVG, PDF or PNG
//   - serve: Serve the document store over a JSON HTTP API
//   - config: Show or create the configuration file
//   - cache: Clear or locate the rendered picture cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging; otherwise the
// level comes from the [log] section of the config. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered trefoil.svg (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
