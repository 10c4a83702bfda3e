package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
)

func main() {
	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// .env i arbeidskatalogen, overstyrer ikke eksisterende miljø
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Kunne ikke lese .env", "error", err)
	}

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("Applikasjonen feilet", "error", err)
		cancel()
		os.Exit(1)
	}
}
