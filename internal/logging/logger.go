package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level   string
	LogFile string
	NoColor bool
	// Quiet limits the console to warnings and errors. The file still
	// receives everything at Level. Used by the shell hook.
	Quiet bool
}

// NewLogger creates a new zerolog logger with dual output (console + file)
func NewLogger(cfg Config) *zerolog.Logger {
	// Enable stack trace marshaling
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level := parseLevel(cfg.Level)

	noColor := cfg.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"

	// Console writer (colored output for TTY)
	var console io.Writer = zerolog.ConsoleWriter{
		Out:        newProgressSafeWriter(os.Stderr),
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}
	if cfg.Quiet {
		console = &minLevelWriter{w: console, min: zerolog.WarnLevel}
	}

	writers := []io.Writer{console}

	// File logger if path provided
	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)

	logger := zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &logger
}

// parseLevel converts string level to zerolog.Level
func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewTestLogger creates a logger for testing that writes to a buffer
func NewTestLogger(w io.Writer) *zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &logger
}

// minLevelWriter drops events below min.
type minLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (m *minLevelWriter) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m *minLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}

// progressSafeWriter clears the current terminal line before each log line
// so a progress bar redrawn with \r does not swallow it.
type progressSafeWriter struct {
	mu        sync.Mutex
	w         io.Writer
	lineStart bool
}

func newProgressSafeWriter(w io.Writer) *progressSafeWriter {
	return &progressSafeWriter{w: w, lineStart: true}
}

func (p *progressSafeWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(b) == 0 {
		return 0, nil
	}
	if p.lineStart {
		if _, err := io.WriteString(p.w, "\r\033[K"); err != nil {
			return 0, err
		}
	}
	n, err := p.w.Write(b)
	p.lineStart = b[len(b)-1] == '\n'
	return n, err
}
