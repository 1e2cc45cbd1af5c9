package server

import (
	"bytes"
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/smasonuk/planta"
	"github.com/smasonuk/planta/internal/projectstore"
)

// storeTimeout bounds a single store call made on behalf of a request.
const storeTimeout = 15 * time.Second

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// storeError maps store failures onto HTTP statuses.
func storeError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, projectstore.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, projectstore.ErrInvalidKey):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	log.Printf("[STORE] %v", err)
	return errorJSON(c, fiber.StatusInternalServerError, "storage error")
}

// loadScene decodes and validates a project file into a scene of its own.
func loadScene(data []byte) (*planta.Scene, error) {
	scene := planta.NewScene(planta.NewMeshStore())
	if err := scene.LoadJSON(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return scene, nil
}

func (s *Server) ListProjects(c fiber.Ctx) error {
	ctx, cancel := storeContext()
	defer cancel()
	infos, err := s.store.List(ctx)
	if err != nil {
		return storeError(c, err)
	}
	if infos == nil {
		infos = []projectstore.Info{}
	}
	return c.JSON(fiber.Map{
		"projects": infos,
	})
}

func (s *Server) GetProject(c fiber.Ctx) error {
	ctx, cancel := storeContext()
	defer cancel()
	data, err := s.store.Get(ctx, c.Params("key"))
	if err != nil {
		return storeError(c, err)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

func (s *Server) ProjectSVG(c fiber.Ctx) error {
	key := c.Params("key")
	ctx, cancel := storeContext()
	defer cancel()
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return storeError(c, err)
	}
	scene, err := loadScene(data)
	if err != nil {
		log.Printf("[RENDER] %s: %v", key, err)
		s.metrics.renders.WithLabelValues("invalid").Inc()
		return errorJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	svg, err := scene.SVG()
	if err != nil {
		log.Printf("[RENDER] %s: %v", key, err)
		s.metrics.renders.WithLabelValues("error").Inc()
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	s.metrics.renders.WithLabelValues("ok").Inc()
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// save validates the body and stores its normalized form under key.
func (s *Server) save(c fiber.Ctx, key string, status int) error {
	body := c.Body()
	if len(body) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "body required")
	}
	scene, err := loadScene(body)
	if err != nil {
		log.Printf("[SAVE] rejected %s: %v", key, err)
		s.metrics.saves.WithLabelValues("rejected").Inc()
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	data, err := scene.MarshalProject()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	ctx, cancel := storeContext()
	defer cancel()
	info, err := s.store.Put(ctx, key, data)
	if err != nil {
		s.metrics.saves.WithLabelValues("error").Inc()
		return storeError(c, err)
	}
	s.metrics.saves.WithLabelValues("ok").Inc()
	s.metrics.objects.Observe(float64(scene.Len()))
	return c.Status(status).JSON(fiber.Map{
		"project": info,
		"objects": scene.Len(),
	})
}

func (s *Server) PutProject(c fiber.Ctx) error {
	return s.save(c, c.Params("key"), fiber.StatusOK)
}

func (s *Server) CreateProject(c fiber.Ctx) error {
	return s.save(c, uuid.NewString()+".json", fiber.StatusCreated)
}

func (s *Server) DeleteProject(c fiber.Ctx) error {
	ctx, cancel := storeContext()
	defer cancel()
	ok, err := s.store.Delete(ctx, c.Params("key"))
	if err != nil {
		return storeError(c, err)
	}
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "project not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
