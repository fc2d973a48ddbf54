package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger instance. It discards everything until Init is called.
	Logger = zerolog.Nop()

	rotator *lumberjack.Logger
)

// Options controls where and how log records are written
type Options struct {
	Dir        string
	FileName   string
	Level      string
	Format     string // text or json
	MaxSizeMB  int
	MaxBackups int
}

// Path returns the full path of the active log file
func (o Options) Path() string {
	return filepath.Join(o.Dir, o.FileName)
}

// ParseLevel accepts zerolog level names plus the WARNING and CRITICAL aliases
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "WARNING":
		return zerolog.WarnLevel
	case "CRITICAL":
		return zerolog.FatalLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Init initializes the global logger on top of a size-rotated file.
// Nothing is written to the terminal unless ENV=development.
func Init(opts Options) error {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 5
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 3
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	// lumberjack opens lazily; surface permission problems now.
	f, err := os.OpenFile(opts.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	f.Close()

	if rotator != nil {
		rotator.Close()
	}
	rotator = &lumberjack.Logger{
		Filename:   opts.Path(),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	logLevel := ParseLevel(opts.Level)
	zerolog.SetGlobalLevel(logLevel)

	output := newWriter(rotator, opts.Format)

	// Pretty console logging in development
	if os.Getenv("ENV") == "development" {
		output = zerolog.MultiLevelWriter(output, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	Logger = zerolog.New(output).
		With().
		Timestamp().
		Logger()

	Logger.Info().
		Str("level", logLevel.String()).
		Str("file", opts.Path()).
		Msg("logger initialized")
	return nil
}

// newWriter wraps w for the requested format. Text mirrors "time | LEVEL | message".
func newWriter(w io.Writer, format string) io.Writer {
	if strings.EqualFold(format, "json") {
		return w
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "2006-01-02 15:04:05",
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("| %-5s |", strings.ToUpper(fmt.Sprint(i)))
		},
	}
}

// Close flushes and closes the rotating file
func Close() error {
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

// WithComponent returns a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithRunID returns a copy of the global logger tagged with the run ID
func WithRunID(runID string) zerolog.Logger {
	return Logger.With().Str("run_id", runID).Logger()
}

// WithError returns a logger with an error field
func WithError(err error) zerolog.Logger {
	return Logger.With().Err(err).Logger()
}
