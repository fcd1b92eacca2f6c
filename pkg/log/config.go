package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config declares a logger: level, format (text|json), optional file and
// keys whose values must never be written.
type Config struct {
	Level  string   `json:"level" yaml:"level"`
	Format string   `json:"format" yaml:"format"`
	File   string   `json:"file" yaml:"file"`
	Redact []string `json:"redact" yaml:"redact"`
}

// ApplyConfig builds a Logger from cfg. Console output is always attached;
// a file output is added when cfg.File is set.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var f Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		f = &TextFormatter{}
	case "json":
		f = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	opts := []LoggerOption{WithLevel(lvl), WithFormatter(f), WithOutput(NewConsoleOutput())}
	if cfg.File != "" {
		fo, err := NewFileOutput(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		opts = append(opts, WithOutput(fo))
	}
	l := NewLogger(opts...).(*BaseLogger)
	if len(cfg.Redact) > 0 {
		l.slogLogger = slog.New(newBridgeHandler(l).withRedactions(cfg.Redact))
	}
	return l, nil
}
