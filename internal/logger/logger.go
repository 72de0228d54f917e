package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // Enable pretty console output
	Dir    string // Also write info.log and error.log here when set
}

// New creates a console logger and sets the global level.
func New(cfg Config) zerolog.Logger {
	return build(cfg, console(cfg))
}

// Open is New plus the file sinks under cfg.Dir. info.log receives info and
// above, error.log receives error and above. The returned closer releases the
// files; it is a no-op without a Dir.
func Open(cfg Config) (zerolog.Logger, io.Closer, error) {
	if cfg.Dir == "" {
		return New(cfg), nopCloser{}, nil
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	info, err := openAppend(filepath.Join(cfg.Dir, "info.log"))
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	errs, err := openAppend(filepath.Join(cfg.Dir, "error.log"))
	if err != nil {
		_ = info.Close()
		return zerolog.Nop(), nil, err
	}

	out := zerolog.MultiLevelWriter(
		console(cfg),
		minLevel{min: zerolog.InfoLevel, w: info},
		minLevel{min: zerolog.ErrorLevel, w: errs},
	)
	return build(cfg, out), files{info, errs}, nil
}

// SetGlobalLogger sets the package-level logger
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}

func build(cfg Config, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	return zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Logger()
}

// ParseLevel maps a level name onto a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

func console(cfg Config) io.Writer {
	if cfg.Pretty {
		return zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}
	return os.Stdout
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// minLevel drops events below min.
type minLevel struct {
	min zerolog.Level
	w   io.Writer
}

func (m minLevel) Write(p []byte) (int, error) { return m.w.Write(p) }

func (m minLevel) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < m.min || l == zerolog.NoLevel {
		return len(p), nil
	}
	return m.w.Write(p)
}

type files []*os.File

func (fs files) Close() error {
	var errs []error
	for _, f := range fs {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
