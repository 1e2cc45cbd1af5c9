// Package server exposes stored projects over HTTP: raw project files, SVG
// previews, and create/replace/delete with validation.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/smasonuk/planta/internal/config"
	"github.com/smasonuk/planta/internal/projectstore"
)

// Server serves projects from a store.
type Server struct {
	store   projectstore.Store
	metrics *metrics
}

func New(store projectstore.Store) *Server {
	return &Server{store: store, metrics: newMetrics()}
}

// App builds the fiber application with every route registered.
func (s *Server) App(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Planta Project Service",
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health/live", LivenessProbe)
	app.Get("/metrics", s.metrics.handler())

	app.Get("/projects", s.ListProjects)
	app.Post("/projects", s.CreateProject)
	app.Get("/projects/:key", s.GetProject)
	app.Put("/projects/:key", s.PutProject)
	app.Delete("/projects/:key", s.DeleteProject)
	app.Get("/projects/:key/svg", s.ProjectSVG)

	return app
}

// Listen serves until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, cfg *config.Config) error {
	app := s.App(cfg)
	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Planta Project Service on %s (env: %s, store: %s)", addr, cfg.Environment, s.store.Driver())
	return app.Listen(addr)
}

func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}
