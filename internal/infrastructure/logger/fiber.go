package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	requestIDLocal = "requestid"
	loggerLocal    = "logger"
)

// FiberMiddleware logs one line per request. Errors returned down the chain
// are passed to the app's error handler first so the logged status is final.
func FiberMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID, _ := c.Locals(requestIDLocal).(string)

		reqLogger := logger.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		c.Locals(loggerLocal, reqLogger)

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.IP()),
			zap.Int("body_size", len(c.Response().Body())),
		}
		if chainErr != nil {
			fields = append(fields, zap.Error(chainErr))
		}

		msg := "HTTP Request"
		switch {
		case status >= fiber.StatusInternalServerError:
			reqLogger.Error(msg, fields...)
		case status >= fiber.StatusBadRequest:
			reqLogger.Warn(msg, fields...)
		default:
			reqLogger.Info(msg, fields...)
		}
		return nil
	}
}

// FromFiber returns the request-scoped logger stored by FiberMiddleware.
func FromFiber(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(loggerLocal).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
