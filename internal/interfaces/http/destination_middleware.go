package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/navigation"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// RequireDestination devuelve un middleware que aplica las reglas del router de pantallas
// a la ruta de la app que respalda el endpoint. Debe usarse DESPUÉS de AuthMiddleware.
//
// Si el rol aún no se resolvió espera hasta roleWait antes de decidir.
//
// Comportamiento:
//   - 401 Unauthorized → sin sesión (redirige a /login).
//   - 403 Forbidden    → rol empleado en una pantalla privilegiada.
//   - 409 Conflict     → el rol sigue pendiente; el cliente debe reintentar.
func RequireDestination(appPath string, sessions SessionTracker, roleWait time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := GetSessionID(c)
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "sesión requerida",
			})
		}

		ctx, cancel := context.WithTimeout(c.Context(), roleWait)
		sess, _ := sessions.AwaitRole(ctx, sessionID)
		cancel()

		d := navigation.Resolve(navigation.StateOf(sess), appPath)
		switch d.Kind {
		case navigation.KindRender:
			c.Locals(localRole, sess.Role)
			return c.Next()
		case navigation.KindForbidden:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "la pantalla requiere privilegios de administrador",
			})
		case navigation.KindPending:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "ROLE_PENDING",
				Message: "el rol de la sesión aún no se resuelve, intente de nuevo",
			})
		case navigation.KindRedirect:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "la sesión ya no está abierta",
			})
		default:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pantalla desconocida"})
		}
	}
}

const localRole = "role"

// GetRole rol resuelto de la sesión (después de RequireDestination).
func GetRole(c *fiber.Ctx) entity.Role {
	r, _ := c.Locals(localRole).(entity.Role)
	return r
}
