// Package compilelog appends titled, timestamped blocks of tool output to a
// single log file. The file is only ever appended to.
package compilelog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TimestampLayout is the layout used in entry headers.
const TimestampLayout = "2006-01-02 15:04:05"

// Log is an append-only compilation log.
type Log struct {
	path string
	now  func() time.Time
}

// New returns a Log writing to path. The file is not touched until the first Append.
func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// WithClock replaces the timestamp source.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Path returns the log file path.
func (l *Log) Path() string { return l.path }

// Append writes one entry. The file is opened and closed on every call.
func (l *Log) Append(title, content string) (err error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open compilation log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close compilation log: %w", cerr)
		}
	}()

	if _, err := f.WriteString(FormatEntry(title, content, l.now())); err != nil {
		return fmt.Errorf("write compilation log: %w", err)
	}
	return nil
}

// FormatEntry renders one entry:
//
//	\n=== <title> === <timestamp>\n<content>\n
//
// Invalid UTF-8 in content is replaced with U+FFFD.
func FormatEntry(title, content string, ts time.Time) string {
	var b strings.Builder
	b.WriteString("\n=== ")
	b.WriteString(title)
	b.WriteString(" === ")
	b.WriteString(ts.Format(TimestampLayout))
	b.WriteString("\n")
	b.WriteString(Sanitize(content))
	b.WriteString("\n")
	return b.String()
}

// Sanitize replaces undecodable bytes with the Unicode replacement character.
func Sanitize(s string) string {
	out, _, err := transform.String(unicode.UTF8.NewDecoder(), s)
	if err != nil {
		return strings.ToValidUTF8(s, "\uFFFD")
	}
	return out
}
