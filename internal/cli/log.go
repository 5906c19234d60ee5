// Package cli implements the lineage command-line interface.
//
// The commands fetch people from a Wikibase query service, list and search
// them, draw family trees in several formats, serve them over HTTP, and
// browse them interactively. The CLI is built using cobra and logs with
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - fetch: Download all people into a snapshot file
//   - list: Print people as a table, optionally filtered
//   - tree: Draw the tree around one person (text, json, dot, svg, png, pdf)
//   - serve: Run the HTTP API
//   - browse: Interactive person list with live tree preview
//   - cache: Manage the local cache
//
// # Configuration
//
// Settings are read from ~/.config/lineage/config.toml, then LINEAGE_*
// environment variables, then flags. See [Config].
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
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

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Loaded people (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
