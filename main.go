package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/hitoshi/taskdeck/internal/app"
)

func main() {
	// .envはローカル開発用。存在しなくてもよい。
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env file")
	}

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
