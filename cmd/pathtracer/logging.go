package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/gogpu/pathtracer"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// setupLogging selects the log level from the global -v and -vv flags and
// routes library logging to stderr. It runs as the app's Before hook.
func setupLogging(ctx *cli.Context) {
	level := slog.LevelWarn
	if ctx.Bool("v") {
		level = slog.LevelInfo
	}
	if ctx.Bool("vv") {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	pathtracer.SetLogger(logger)
}
