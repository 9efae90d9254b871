// Package logging installs the zerolog backed slog handler used by plexus
// binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

// New returns a slog logger writing to w. Format "text" renders a console
// friendly layout, "json" one JSON object per record.
func New(level slog.Level, format string, w io.Writer) (*slog.Logger, error) {
	var log zerolog.Logger
	switch format {
	case "text":
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}
		log = zerolog.New(output).With().Timestamp().Logger()
	case "json":
		log = zerolog.New(w).With().Timestamp().Logger()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return slog.New(zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level})), nil
}

// Setup builds a logger with New and makes it the slog default.
func Setup(level slog.Level, format string, w io.Writer) (*slog.Logger, error) {
	logger, err := New(level, format, w)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}
