// package shared provides the cross-cutting pieces of the catalog: logging,
// identifier generation, configuration, database access and migrations.
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger builds the application [log.Logger] on the given [io.Writer] with
// timestamps and caller reporting enabled. A nil writer falls back to
// [os.Stderr], which is where the CLI logs.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger derives a child [log.Logger] carrying the given key-value pairs
// on every entry. The scan engine uses it to bind a library name and scan
// mode across one scan's log lines.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger]. Per-file scan
// skips log at debug, so raising the level quiets large scans.
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID returns a fresh v4 [uuid.UUID] string, the id form for every
// persisted catalog row.
func GenerateID() string {
	return uuid.New().String()
}
