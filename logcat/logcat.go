// Package logcat provides leveled, tagged logging for the bridge in the
// shape Android developers expect: a short tag per component and the
// logcat priority ladder from VERBOSE up to SILENT.
//
// Records are structured key/value pairs emitted through zap. On
// Android the process stderr is redirected into the system log by the
// loader, so the default sink works both on-device and on a developer
// workstation.
package logcat

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logcat priority. The numeric values match the Android
// log priority constants.
type Level int8

const (
	LevelVerbose Level = 2
	LevelDebug   Level = 3
	LevelInfo    Level = 4
	LevelWarn    Level = 5
	LevelError   Level = 6
	LevelFatal   Level = 7
	LevelSilent  Level = 8
)

// String returns the lowercase priority name.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	case LevelSilent:
		return "silent"
	}
	return fmt.Sprintf("level(%d)", int8(l))
}

// ParseLevel parses a priority name. Both the full names ("verbose",
// "warn") and the single-letter logcat filter forms ("V", "W") are
// accepted, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "v":
		return LevelVerbose, nil
	case "debug", "d":
		return LevelDebug, nil
	case "info", "i":
		return LevelInfo, nil
	case "warn", "warning", "w":
		return LevelWarn, nil
	case "error", "e":
		return LevelError, nil
	case "fatal", "f":
		return LevelFatal, nil
	case "silent", "s":
		return LevelSilent, nil
	}
	return LevelSilent, fmt.Errorf("logcat: unknown level %q", s)
}

// Logger emits tagged records at or above a minimum priority. Methods
// are named after the logcat priority letters: V, D, I, W, E.
//
// There is deliberately no F method. A library must not take the host
// process down; log at E and return an error instead.
type Logger struct {
	tag  string
	min  Level
	base *zap.SugaredLogger // accumulated fields without the tag
	s    *zap.SugaredLogger // base plus the tag field
}

// New returns a Logger writing console-encoded records to stderr.
func New(tag string, min Level) *Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.DebugLevel)
	return NewWithCore(tag, min, core)
}

// NewWithCore returns a Logger emitting through the given core. The
// priority filter still applies before the core sees a record, which
// lets tests capture output with an observer core.
func NewWithCore(tag string, min Level, core zapcore.Core) *Logger {
	base := zap.New(core).Sugar()
	return &Logger{tag: tag, min: min, base: base, s: base.With("tag", tag)}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	base := zap.NewNop().Sugar()
	return &Logger{min: LevelSilent, base: base, s: base}
}

// Tag returns the logger's tag.
func (l *Logger) Tag() string { return l.tag }

// Named returns a Logger whose tag is the receiver's tag extended with
// a dot-separated suffix, the usual convention for subcomponents. The
// new logger keeps the fields attached with With but carries only the
// extended tag.
func (l *Logger) Named(sub string) *Logger {
	tag := sub
	if l.tag != "" {
		tag = l.tag + "." + sub
	}
	return &Logger{tag: tag, min: l.min, base: l.base, s: l.base.With("tag", tag)}
}

// With returns a Logger that attaches the given key/value pairs to
// every record.
func (l *Logger) With(kv ...any) *Logger {
	base := l.base.With(kv...)
	return &Logger{tag: l.tag, min: l.min, base: base, s: base.With("tag", l.tag)}
}

// Enabled reports whether records at the given priority are emitted.
func (l *Logger) Enabled(lv Level) bool { return lv >= l.min }

// V logs at VERBOSE priority.
func (l *Logger) V(msg string, kv ...any) {
	if l.Enabled(LevelVerbose) {
		l.s.Debugw(msg, kv...)
	}
}

// D logs at DEBUG priority.
func (l *Logger) D(msg string, kv ...any) {
	if l.Enabled(LevelDebug) {
		l.s.Debugw(msg, kv...)
	}
}

// I logs at INFO priority.
func (l *Logger) I(msg string, kv ...any) {
	if l.Enabled(LevelInfo) {
		l.s.Infow(msg, kv...)
	}
}

// W logs at WARN priority.
func (l *Logger) W(msg string, kv ...any) {
	if l.Enabled(LevelWarn) {
		l.s.Warnw(msg, kv...)
	}
}

// E logs at ERROR priority.
func (l *Logger) E(msg string, kv ...any) {
	if l.Enabled(LevelError) {
		l.s.Errorw(msg, kv...)
	}
}
