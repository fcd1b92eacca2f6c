package log

import (
	stdlog "log"
	"strings"
)

// stdWriter adapts a Logger to io.Writer for the standard library logger.
type stdWriter struct {
	logger Logger
	level  Level
}

func (w stdWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	switch w.level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel, FatalLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}

// ToStdLogger returns a *log.Logger that writes through logger at level.
func ToStdLogger(logger Logger, level Level) *stdlog.Logger {
	return stdlog.New(stdWriter{logger: logger.WithComponent("stdlog"), level: level}, "", 0)
}

// RedirectStdLog routes the standard library's default logger (used by
// Pebble and net/http) through logger at info level.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{logger: logger.WithComponent("stdlog"), level: InfoLevel})
}
