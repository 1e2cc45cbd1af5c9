package main

import (
	"context"
	"io"
	"log"
	"os/signal"
	"syscall"

	"github.com/smasonuk/planta/internal/config"
	"github.com/smasonuk/planta/internal/projectstore"
	"github.com/smasonuk/planta/internal/server"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := projectstore.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open project store: %v", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	if err := server.New(store).Listen(ctx, cfg); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
