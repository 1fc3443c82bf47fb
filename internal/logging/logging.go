// Package logging provides the leveled, component-tagged logger shared by
// the clock, the sampler and the command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError

	levelOff // above every level; used by Discard
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// LookupLevel maps a case-insensitive level name to a Level. "warning" is
// accepted for LevelWarn.
func LookupLevel(name string) (Level, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "WARNING" {
		return LevelWarn, true
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// ParseLevel is LookupLevel with unknown names mapped to LevelInfo.
func ParseLevel(s string) Level {
	l, _ := LookupLevel(s)
	return l
}

// sink is the destination shared by a logger and all of its children.
type sink struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
	now   func() time.Time
}

// Logger writes printf-style lines stamped with UTC time. Children created
// with With share level and output with their parent.
type Logger struct {
	sink      *sink
	component string
}

// New creates a logger writing to stderr.
func New(level Level) *Logger {
	return &Logger{sink: &sink{level: level, out: os.Stderr, now: time.Now}}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return &Logger{sink: &sink{level: levelOff, out: io.Discard, now: time.Now}}
}

// With returns a child logger tagged with component. Nested tags are joined
// with dots: ctu.window.
func (l *Logger) With(component string) *Logger {
	if l.component != "" {
		component = l.component + "." + component
	}
	return &Logger{sink: l.sink, component: component}
}

// SetOutput redirects the logger and all of its children.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	l.sink.out = w
	l.sink.mu.Unlock()
}

// SetLevel sets the minimum level for the logger and all of its children.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return level >= l.sink.level
}

func (l *Logger) logf(level Level, format string, args []interface{}) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if level < s.level {
		return
	}

	var b strings.Builder
	b.WriteString(s.now().UTC().Format("15:04:05.000Z"))
	fmt.Fprintf(&b, " [%s] ", level)
	if l.component != "" {
		b.WriteString(l.component)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')
	_, _ = io.WriteString(s.out, b.String())
}

func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LevelDebug, format, args) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf(LevelInfo, format, args) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf(LevelWarn, format, args) }
func (l *Logger) Error(format string, args ...interface{}) { l.logf(LevelError, format, args) }
