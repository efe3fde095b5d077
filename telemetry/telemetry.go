// Package telemetry is a trimmed leveled logger for the narrow phase's
// defensive limits (the GJK iteration cap, a failed EPA refinement).
//
// Adapted from g3n-engine's util/logger package: same Debug/Warn level
// split and Default-package-logger-with-writer shape, cut down to what a
// pure collision query needs. Spec.md section 7 is explicit that hitting an
// iteration cap "is not a distinguished error, just a return" — this package
// exists only so an operator can see how often that happens; nothing in gjk
// or epa branches on whether logging is enabled.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level filters which messages reach the writer.
type Level int

const (
	Debug Level = iota
	Warn
)

var levelNames = [...]string{"DEBUG", "WARN"}

// Logger writes leveled messages to an io.Writer, guarded by a mutex since
// GJK/EPA queries for disjoint pairs may run concurrently (spec.md section 5).
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	prefix string
}

// New returns a Logger writing to out, at the given minimum level.
func New(prefix string, out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level, prefix: prefix}
}

// Default is the package-wide logger, matching g3n-engine's Default pattern.
// Collision queries that don't construct their own Logger log here.
var Default = New("narrowphase", os.Stderr, Warn)

func (l *Logger) log(level Level, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s:%s: %s\n", l.prefix, levelNames[level], fmt.Sprintf(format, v...))
}

// Debugf logs a DEBUG-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.log(Debug, format, v...) }

// Warnf logs a WARN-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.log(Warn, format, v...) }

// SetLevel changes the minimum level this logger emits.
func (l *Logger) SetLevel(level Level) { l.level = level }
