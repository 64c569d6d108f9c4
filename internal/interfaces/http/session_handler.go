package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/navigation"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// NavigationState estado de navegación por sesión (*navigation.Machine).
type NavigationState interface {
	Await(ctx context.Context, sessionID string) navigation.State
}

// SessionHandler expone la sesión del llamante, la decisión del router de pantallas y el perfil.
type SessionHandler struct {
	sessions SessionTracker
	nav      NavigationState
	users    *usecase.UserUseCase
	roleWait time.Duration
}

// NewSessionHandler construye el handler.
func NewSessionHandler(sessions SessionTracker, nav NavigationState, users *usecase.UserUseCase, roleWait time.Duration) *SessionHandler {
	return &SessionHandler{sessions: sessions, nav: nav, users: users, roleWait: roleWait}
}

// Session godoc
// @Summary      Sesión actual
// @Description  Sin token devuelve authenticated=false. role_pending indica que el rol aún se está resolviendo.
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/session [get]
func (h *SessionHandler) Session(c *fiber.Ctx) error {
	sid := GetSessionID(c)
	if sid == "" {
		return c.JSON(dto.SessionResponse{Role: entity.RoleUnknown.String()})
	}
	sess, err := h.awaitRole(c, sid)
	return c.JSON(toSessionResponse(sess, errors.Is(err, domain.ErrRolePending)))
}

// Navigation godoc
// @Summary      Resolver ruta de la app
// @Description  Devuelve la decisión del router (render, redirect, forbidden, pending, not_found) y las pestañas disponibles.
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Param        path  query  string  false  "Ruta de la app (p. ej. /inventario)"  default(/)
// @Success      200  {object}  dto.NavigationResponse
// @Router       /api/navigation [get]
func (h *SessionHandler) Navigation(c *fiber.Ctx) error {
	path := c.Query("path", navigation.PathRoot)
	ctx, cancel := context.WithTimeout(c.Context(), h.roleWait)
	state := h.nav.Await(ctx, GetSessionID(c))
	cancel()
	d := navigation.Resolve(state, path)

	out := dto.NavigationResponse{
		State: state.String(),
		Path:  path,
		Decision: dto.NavigationDecision{
			Kind:       string(d.Kind),
			Screen:     string(d.Screen),
			RedirectTo: d.RedirectTo,
		},
		Destinations: []dto.NavigationDestination{},
	}
	for _, dest := range navigation.Destinations(state) {
		out.Destinations = append(out.Destinations, dto.NavigationDestination{
			Screen: string(dest.Screen),
			Path:   dest.Path,
			Label:  dest.Label,
		})
	}
	return c.JSON(out)
}

// Profile godoc
// @Summary      Perfil del usuario autenticado
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *SessionHandler) Profile(c *fiber.Ctx) error {
	sess, ok := h.sessions.Get(GetSessionID(c))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada"})
	}
	out, err := h.users.Profile(c.Context(), sess)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *SessionHandler) awaitRole(c *fiber.Ctx, sid string) (entity.Session, error) {
	ctx, cancel := context.WithTimeout(c.Context(), h.roleWait)
	defer cancel()
	return h.sessions.AwaitRole(ctx, sid)
}

func toSessionResponse(s entity.Session, pending bool) dto.SessionResponse {
	out := dto.SessionResponse{
		SessionID:        s.ID,
		UserID:           s.UserID,
		Email:            s.Email,
		Authenticated:    s.Authenticated,
		Role:             s.Role.String(),
		RolePending:      pending || s.RolePending(),
		RoleLookupFailed: s.RoleLookupFailed,
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt
		out.ExpiresAt = &exp
	}
	return out
}
