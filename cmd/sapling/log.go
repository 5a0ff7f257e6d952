package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 3
)

type logger struct {
	*slog.Logger
}

func newLogger(verbose bool, logFile string) logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if logFile != "" {
		var w io.Writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			Compress:   true,
		}
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return logger{slog.New(handler).With("app", "sapling")}
}

// Logf logs a progress message, only shown when verbose
func (l logger) Logf(format string, a ...interface{}) {
	if l.Logger == nil {
		return
	}
	l.Debug(fmt.Sprintf(format, a...))
}
