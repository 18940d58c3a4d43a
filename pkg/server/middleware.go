package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/storage"
)

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			status = ferr.Code
		}
		logger.Debug("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}

// handleError maps domain errors onto HTTP statuses with a JSON body.
func (s *Server) handleError(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &ferr):
		code = ferr.Code
	case errors.Is(err, storage.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, storage.ErrConflict), errors.Is(err, storage.ErrStale):
		code = fiber.StatusConflict
	case errors.Is(err, canvas.ErrInvalidElement):
		code = fiber.StatusUnprocessableEntity
	case errors.Is(err, canvas.ErrUnknownIntent),
		errors.Is(err, render.ErrThemeNotFound),
		errors.Is(err, render.ErrVariantNotFound):
		code = fiber.StatusBadRequest
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(format string, err error) error {
	if err == nil {
		return fiber.NewError(fiber.StatusBadRequest, format)
	}
	return fiber.NewError(fiber.StatusBadRequest, format+": "+err.Error())
}
