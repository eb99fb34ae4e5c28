package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/janezhang99/SEW-v5-sub002/internal/cli"
)

func main() {
	// Logs go to stderr so command output stays pipeable.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cli.Execute(context.Background(), cli.ConfigOpener(logger))
}
