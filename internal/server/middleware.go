package server

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"gridmesh/internal/ctxlog"
)

// requestLogger logs one line per request.
func requestLogger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

// requestContext gives every request a context carrying the logger of base,
// tagged with the request method and path.
func requestContext(base context.Context) fiber.Handler {
	return func(c fiber.Ctx) error {
		l := ctxlog.FromContext(base).With("method", c.Method(), "path", c.Path())
		c.SetContext(ctxlog.WithLogger(c.Context(), l))
		return c.Next()
	}
}
