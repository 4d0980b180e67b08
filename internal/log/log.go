// Package log provides the application's slog-based logger with a
// small configuration surface: level, text or JSON output, and an
// optional rotating file sink.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization. Values can come from config
// or from the environment:
//   - FLATLAY_LOG_LEVEL=debug|info|warn|error
//   - FLATLAY_LOG_FORMAT=text|json
//   - FLATLAY_LOG_FILE=<path> (enables rotating file logging)
type Options struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// L returns the default logger, initializing from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init configures the global logger and slog.Default.
func Init(opts Options) {
	var w io.Writer = os.Stderr
	if strings.TrimSpace(opts.File) != "" {
		w = io.MultiWriter(os.Stderr, &lj.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	ho := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		h = slog.NewJSONHandler(w, ho)
	} else {
		h = slog.NewTextHandler(w, ho)
	}

	l := slog.New(h).With(slog.String("app", "flatlay"))
	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:  getenv("FLATLAY_LOG_LEVEL", "info"),
		Format: getenv("FLATLAY_LOG_FORMAT", "text"),
		File:   os.Getenv("FLATLAY_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
