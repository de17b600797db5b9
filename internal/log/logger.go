// Package log adapts zerolog to the leveled, prefixed logging contract
// tmigo's components expect: debug, info, warning, error, and critical,
// each line prefixed with [TMI:<username-or-Anonymous>].
package log

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin, prefixed wrapper around a zerolog.Logger.
type Logger struct {
	z      zerolog.Logger
	prefix string
}

// New builds a Logger with the given level string (debug, info, warn,
// error) and a message prefix derived from who is logging.
func New(level string, who string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl := parseLevel(level)
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	return &Logger{
		z:      zerolog.New(output).Level(lvl).With().Timestamp().Logger(),
		prefix: Prefix(who),
	}
}

// Prefix formats the bracketed component tag used on every log line.
func Prefix(who string) string {
	if who == "" {
		who = "Anonymous"
	}
	return "[TMI:" + who + "]"
}

func (l *Logger) msg(e *zerolog.Event, msg string) {
	e.Msg(l.prefix + " " + msg)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string) { l.msg(l.z.Debug(), msg) }

// Debugf formats its arguments with fmt.Sprintf and logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.msg(l.z.Debug(), fmt.Sprintf(format, args...))
}

// Info logs at info level.
func (l *Logger) Info(msg string) { l.msg(l.z.Info(), msg) }

func (l *Logger) Infof(format string, args ...any) {
	l.msg(l.z.Info(), fmt.Sprintf(format, args...))
}

// Warn logs at warning level.
func (l *Logger) Warn(msg string) { l.msg(l.z.Warn(), msg) }

func (l *Logger) Warnf(format string, args ...any) {
	l.msg(l.z.Warn(), fmt.Sprintf(format, args...))
}

// Error logs at error level.
func (l *Logger) Error(msg string) { l.msg(l.z.Error(), msg) }

func (l *Logger) Errorf(format string, args ...any) {
	l.msg(l.z.Error(), fmt.Sprintf(format, args...))
}

// Critical logs at the highest severity tmigo distinguishes: bad-auth
// notices and other conditions an operator must act on. zerolog has no
// dedicated critical level, so this rides on Error with a marker field
// rather than inventing a parallel level hierarchy.
func (l *Logger) Critical(msg string) {
	l.msg(l.z.Error().Bool("critical", true), msg)
}

func (l *Logger) Criticalf(format string, args ...any) {
	l.msg(l.z.Error().Bool("critical", true), fmt.Sprintf(format, args...))
}

// Redact elides any oauth: bearer token from a line before it is logged.
func Redact(line string) string {
	if i := strings.Index(line, "oauth:"); i >= 0 {
		return line[:i] + "oauth:***"
	}
	return line
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "critical":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
