// Package server exposes the FIT processing service over HTTP.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/adrian9211/private-coach/internal/config"
)

type Server struct {
	App *fiber.App
	Cfg config.Config
}

func NewServer(cfg config.Config, svc *Service) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitBytes(),
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		// fiber rejects credentials combined with a wildcard origin
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	s := &Server{
		App: app,
		Cfg: cfg,
	}

	registerRoutes(s, svc)
	return s
}

func registerRoutes(s *Server, svc *Service) {
	s.App.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "FIT File Processor API",
			"version": "1.0.0",
		})
	})

	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	RegisterRoutes(s.App, svc)
}

// errorHandler renders every handler error as the service envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(response{Success: false, Message: err.Error()})
}
