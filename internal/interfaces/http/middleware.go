package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// RequestLogger registra cada petición con zerolog.
func RequestLogger(log *logger.Logger) fiber.Handler {
	l := log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := l.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = l.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = l.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("session_id", GetSessionID(c)).
			Msg("request")
		return err
	}
}

// Counter contador con ventana de expiración (cache.Client lo implementa).
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit limita a max peticiones por IP y ventana. Si el contador no responde
// la petición pasa y se registra el fallo.
func RateLimit(counter Counter, scope string, max int, window time.Duration, log *logger.Logger) fiber.Handler {
	l := log.Named("rate_limit")
	return func(c *fiber.Ctx) error {
		key := "ratelimit:" + scope + ":" + c.IP()
		n, err := counter.Incr(c.Context(), key, window)
		if err != nil {
			l.Warn().Err(err).Str("key", key).Msg("contador no disponible")
			return c.Next()
		}
		remaining := int64(max) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(max))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if n > int64(max) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiados intentos, espere antes de reintentar",
			})
		}
		return c.Next()
	}
}
