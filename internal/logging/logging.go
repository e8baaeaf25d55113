// Package logging is a printf-style leveled logger over zap with a
// swappable output, so the terminal UI can silence it after start-up.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levels = [...]struct {
	name string
	zap  zapcore.Level
}{
	LevelDebug: {"DEBUG", zapcore.DebugLevel},
	LevelInfo:  {"INFO", zapcore.InfoLevel},
	LevelWarn:  {"WARN", zapcore.WarnLevel},
	LevelError: {"ERROR", zapcore.ErrorLevel},
}

func (l Level) valid() bool { return l >= 0 && int(l) < len(levels) }

func (l Level) String() string {
	if !l.valid() {
		return "UNKNOWN"
	}
	return levels[l].name
}

func (l Level) zapLevel() zapcore.Level {
	if !l.valid() {
		return zapcore.InfoLevel
	}
	return levels[l].zap
}

// ParseLevel accepts a level name in any case, plus "warning". Anything
// else is LevelInfo.
func ParseLevel(s string) Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "WARNING" {
		return LevelWarn
	}
	for l, v := range levels {
		if v.name == s {
			return Level(l)
		}
	}
	return LevelInfo
}

// switchWriter is the core's sink; its target can change at any time.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.w.(zapcore.WriteSyncer); ok {
		return f.Sync()
	}
	return nil
}

// Logger writes one console line per message: time, level, message and
// any With context.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
	out   *switchWriter
}

var consoleEncoding = zapcore.EncoderConfig{
	TimeKey:          "time",
	LevelKey:         "level",
	MessageKey:       "msg",
	EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05.000"),
	EncodeLevel:      zapcore.CapitalLevelEncoder,
	ConsoleSeparator: " ",
}

// New returns a logger writing to stderr at level and above.
func New(level Level) *Logger {
	out := &switchWriter{w: os.Stderr}
	atom := zap.NewAtomicLevelAt(level.zapLevel())
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoding), out, atom)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), level: atom, out: out}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
		level:         zap.NewAtomicLevelAt(zapcore.FatalLevel),
		out:           &switchWriter{w: io.Discard},
	}
}

// SetOutput redirects this logger and every logger derived from it.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	l.out.w = w
	l.out.mu.Unlock()
}

func (l *Logger) SetLevel(level Level) { l.level.SetLevel(level.zapLevel()) }

func (l *Logger) Enabled(level Level) bool { return l.level.Enabled(level.zapLevel()) }

func (l *Logger) Debug(format string, args ...any) { l.Debugf(format, args...) }

func (l *Logger) Info(format string, args ...any) { l.Infof(format, args...) }

func (l *Logger) Warn(format string, args ...any) { l.Warnf(format, args...) }

func (l *Logger) Error(format string, args ...any) { l.Errorf(format, args...) }

// With returns a logger that adds key/value pairs to every line. It shares
// the level and output of l.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...), level: l.level, out: l.out}
}
