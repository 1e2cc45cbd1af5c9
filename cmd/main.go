package main

import (
	"context"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/smasonuk/planta"
	"github.com/smasonuk/planta/internal/config"
	"github.com/smasonuk/planta/internal/projectstore"
)

func main() {
	cfg := config.Load()

	store, err := projectstore.Open(context.Background(), cfg.Store)
	if err != nil {
		log.Fatalf("Error opening project store: %v", err)
	}
	log.Printf("Project store: %s, key %s", store.Driver(), cfg.ProjectKey)
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	tasks := planta.NewTaskQueue(16)
	files := planta.NewStoreFiles(store, cfg.ProjectKey, tasks)
	game := planta.NewGame(cfg.WindowWidth, cfg.WindowHeight, files, tasks)

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("Planta")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
