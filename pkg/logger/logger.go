package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level  string
	Format string // console or json
	File   FileConfig
}

// FileConfig enables rotated file output next to stdout.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	return SetupWithOutput(cfg, os.Stdout)
}

func SetupWithOutput(cfg Config, stdout io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var console io.Writer = stdout
	if strings.EqualFold(cfg.Format, "console") {
		console = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	if cfg.File.Path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		})
	}

	var out io.Writer = console
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
