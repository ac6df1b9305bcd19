package main

import (
	"fmt"
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a text logger writing to stderr. When file is set,
// records are also written as JSON to a size-rotated log file. The
// returned func closes the file.
func newLogger(stderr io.Writer, level, file string) (*slog.Logger, func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	handler := slog.Handler(slog.NewTextHandler(stderr, opts))
	if file == "" {
		return slog.New(handler), func() error { return nil }, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	handler = slogmulti.Fanout(handler, slog.NewJSONHandler(rotator, opts))
	return slog.New(handler), rotator.Close, nil
}
