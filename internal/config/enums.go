package config

import (
	"fmt"
	"sort"
	"strings"
)

// enumNormalizer maps loosely written config strings onto typed values.
type enumNormalizer[T ~string] struct {
	name   string
	values map[string]T
	def    T
}

func newEnumNormalizer[T ~string](name string, def T, values ...T) *enumNormalizer[T] {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[string(v)] = v
	}
	return &enumNormalizer[T]{name: name, values: m, def: def}
}

func (n *enumNormalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return n.def
}

func (n *enumNormalizer[T]) Parse(raw string) (T, error) {
	if v, ok := n.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", n.name, raw, n.Valid())
}

func (n *enumNormalizer[T]) Valid() []string {
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = newEnumNormalizer("log level", LogLevelInfo,
	LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)

func NormalizeLogLevel(raw string) LogLevel { return logLevelNormalizer.Normalize(raw) }

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = newEnumNormalizer("log format", LogFormatText, LogFormatJSON, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat { return logFormatNormalizer.Normalize(raw) }

// OpenMode selects the artifact opener.
type OpenMode string

const (
	// OpenAuto uses the preferred viewer (or the default opener) on Windows and does nothing elsewhere.
	OpenAuto    OpenMode = "auto"
	OpenNone    OpenMode = "none"
	OpenViewer  OpenMode = "viewer"
	OpenDefault OpenMode = "default"
)

var openModeNormalizer = newEnumNormalizer("open mode", OpenAuto, OpenAuto, OpenNone, OpenViewer, OpenDefault)

// ParseOpenMode validates a user supplied open mode.
func ParseOpenMode(raw string) (OpenMode, error) { return openModeNormalizer.Parse(raw) }

// OpenModes lists the accepted open mode values.
func OpenModes() []string { return openModeNormalizer.Valid() }
