package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
)

// errorMapping traducción de un error de dominio a respuesta HTTP.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string // vacío = err.Error()
}

// El orden importa: los errores envueltos se comparan de arriba hacia abajo.
var errorMappings = []errorMapping{
	{domain.ErrSessionRevoked, fiber.StatusUnauthorized, "SESSION_REVOKED", "la sesión fue cerrada"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "no autorizado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND", "usuario no encontrado"},
	{domain.ErrInvalidDocument, fiber.StatusUnprocessableEntity, "INVALID_DOCUMENT", ""},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", ""},
	{domain.ErrRolePending, fiber.StatusConflict, "ROLE_PENDING", "el rol de la sesión aún no se resuelve"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrTransitionCancelled, fiber.StatusConflict, "TRANSITION_CANCELLED", "cambio de estado cancelado"},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS", "estado inválido: pendiente, reparacion o entregado"},
	{domain.ErrInvalidBarcode, fiber.StatusBadRequest, "INVALID_BARCODE", ""},
	{domain.ErrScanCancelled, fiber.StatusBadRequest, "SCAN_CANCELLED", "no se leyó ningún código"},
	{domain.ErrScanPermission, fiber.StatusForbidden, "SCAN_PERMISSION", "permiso de cámara denegado"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrLifecycleUpdateFailed, fiber.StatusBadGateway, "LIFECYCLE_UPDATE_FAILED", "no se pudo completar el cambio de estado"},
	{domain.ErrRecordWrite, fiber.StatusServiceUnavailable, "RECORD_WRITE_FAILED", "no se pudo guardar, intente más tarde"},
	{domain.ErrRecordRead, fiber.StatusServiceUnavailable, "RECORD_READ_FAILED", "no se pudo leer, intente más tarde"},
}

// toErrorResponse devuelve el status y el cuerpo para err.
func toErrorResponse(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return m.status, dto.ErrorResponse{Code: m.code, Message: msg}
		}
	}
	// La causa queda en el log; el cliente solo recibe el código.
	log.Error().Err(err).Msg("error interno no clasificado")
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}

// writeError responde con el error de dominio traducido.
func writeError(c *fiber.Ctx, err error) error {
	status, body := toErrorResponse(err)
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
