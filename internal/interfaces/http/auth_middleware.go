package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/pkg/jwt"
)

// Locals keys para la identidad del llamante en Fiber.
const (
	LocalUserID    = "user_id"
	LocalSessionID = "session_id"
	LocalClaims    = "claims"
)

// restoreWait tiempo máximo para que el Session Store publique una sesión restaurada.
const restoreWait = 2 * time.Second

// Authenticator valida tokens de sesión. Lo implementa *auth.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
	Restore(claims *jwt.Claims)
}

// SessionTracker lo que la capa HTTP consulta del Session Store.
type SessionTracker interface {
	Get(sessionID string) (entity.Session, bool)
	AwaitSession(ctx context.Context, sessionID string) (entity.Session, bool)
	AwaitRole(ctx context.Context, sessionID string) (entity.Session, error)
}

// AuthMiddleware valida el Bearer Token, comprueba que la sesión no esté revocada
// y deja UserID, SessionID y claims en c.Locals.
func AuthMiddleware(authn Authenticator, sessions SessionTracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, resp := bearerToken(c)
		if resp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(resp)
		}
		return authenticate(c, authn, sessions, token)
	}
}

// OptionalAuthMiddleware como AuthMiddleware, pero deja pasar las peticiones sin token
// (la sesión queda como no autenticada). Un token presente e inválido sí se rechaza.
func OptionalAuthMiddleware(authn Authenticator, sessions SessionTracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		token, resp := bearerToken(c)
		if resp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(resp)
		}
		return authenticate(c, authn, sessions, token)
	}
}

func bearerToken(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"}
	}
	return tokenString, nil
}

func authenticate(c *fiber.Ctx, authn Authenticator, sessions SessionTracker, token string) error {
	claims, err := authn.Authenticate(c.Context(), token)
	if err != nil {
		status, body := toErrorResponse(err)
		if status != fiber.StatusUnauthorized {
			status = fiber.StatusUnauthorized
		}
		if body.Code == "UNAUTHORIZED" {
			body = dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"}
		}
		return c.Status(status).JSON(body)
	}

	// Token válido de una sesión que el store no conoce (reinicio del proceso).
	if _, ok := sessions.Get(claims.SessionID()); !ok {
		authn.Restore(claims)
		ctx, cancel := context.WithTimeout(c.Context(), restoreWait)
		_, ok = sessions.AwaitSession(ctx, claims.SessionID())
		cancel()
		if !ok {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SESSION_UNAVAILABLE",
				Message: "no se pudo restaurar la sesión, intente de nuevo",
			})
		}
	}

	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalSessionID, claims.SessionID())
	c.Locals(LocalClaims, claims)
	return c.Next()
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetSessionID devuelve el ID de sesión (jti) del contexto.
func GetSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSessionID).(string)
	return s
}

// GetClaims devuelve las claims del token; nil sin autenticación.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}
