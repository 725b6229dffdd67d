package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-renderer/internal/infrastructure/logger"
)

// ServerOptions are the fiber limits taken from configuration.
type ServerOptions struct {
	AppName      string
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber app with request ids, panic recovery and request
// logging in front of h's routes.
func NewApp(h *Handler, opts ServerOptions, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		BodyLimit:             opts.BodyLimit,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: true,
	})
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.FiberMiddleware(log))
	app.Use(recover.New())
	h.Register(app)
	return app
}
