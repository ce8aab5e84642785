package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lachiem1/pragati/internal/config"
	"github.com/rs/zerolog"
)

func main() {
	Execute()
}

// setupLogger configures the logger based on configuration
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// openLogOutput picks where log lines go. The TUI owns the terminal, so it
// always writes to a file; one-shot commands use stderr unless a file is set.
func openLogOutput(cfg config.LoggingConfig, interactive bool) (io.Writer, func() error, error) {
	path := cfg.File
	if path == "" && interactive {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve user config directory: %w", err)
		}
		path = filepath.Join(dir, "pragati", "pragati.log")
	}
	if path == "" {
		return os.Stderr, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}
