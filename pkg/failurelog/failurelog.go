// Package failurelog appends collection failures to a plain-text log file.
package failurelog

import (
	"fmt"
	"os"
	"time"
)

// TimestampFormat is ISO-8601 local time with microseconds and no zone. The
// fraction is always printed, also when it is zero.
const TimestampFormat = "2006-01-02T15:04:05.000000"

// Log appends one line per failure to a file at a fixed path. The file is
// opened and closed for every entry and is never truncated.
type Log struct {
	path string
	now  func() time.Time
}

// New returns a Log writing to path.
func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Append writes "[<timestamp>] <message>" followed by a newline.
func (l *Log) Append(err error) error {
	f, openErr := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		return fmt.Errorf("failed to open failure log '%s': %w", l.path, openErr)
	}

	_, writeErr := fmt.Fprintf(f, "[%s] %v\n", l.now().Local().Format(TimestampFormat), err)
	closeErr := f.Close()

	if writeErr != nil {
		return fmt.Errorf("failed to write failure log '%s': %w", l.path, writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close failure log '%s': %w", l.path, closeErr)
	}

	return nil
}
