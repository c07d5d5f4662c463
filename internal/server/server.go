// Package server exposes the grids of an annotation manager over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"gridmesh/internal/annotation"
	"gridmesh/internal/config"
)

// New builds the HTTP app. ctx carries the logger handed to every request
// context.
func New(ctx context.Context, cfg *config.Config, grids *annotation.Manager) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "gridmesh",
	})

	app.Use(recover.New())
	if cfg.Env != "test" {
		app.Use(requestLogger())
	}
	app.Use(requestContext(ctx))

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	h := NewGridHandler(cfg, grids)
	app.Get("/grids", h.List)
	app.Put("/grids", h.SetState)
	app.Post("/grids/exists", h.Exists)
	app.Get("/images/:id/grid", h.Get)
	app.Post("/images/:id/grid", h.Place)
	app.Patch("/images/:id/grid", h.Edit)
	app.Delete("/images/:id/grid", h.Remove)
	app.Get("/images/:id/grid/export/:format", h.Export)
	return app
}
