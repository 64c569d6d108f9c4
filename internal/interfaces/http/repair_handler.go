package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/repair"
	"github.com/jhoicas/Taller-api/internal/domain"
)

// RepairHandler maneja las reparaciones de la pantalla de inicio.
type RepairHandler struct {
	uc *repair.UseCase
}

// NewRepairHandler construye el handler.
func NewRepairHandler(uc *repair.UseCase) *RepairHandler {
	return &RepairHandler{uc: uc}
}

// List godoc
// @Summary      Listar reparaciones
// @Description  Ordenadas por fecha de registro, la más reciente primero.
// @Tags         repairs
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pendiente | reparacion | entregado"
// @Success      200  {object}  dto.ListResponse[dto.RepairResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/repairs [get]
func (h *RepairHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// GetByID godoc
// @Summary      Obtener reparación
// @Tags         repairs
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la reparación"
// @Success      200  {object}  dto.RepairResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/repairs/{id} [get]
func (h *RepairHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la reparación
// @Description  Pasar a "entregado" exige confirm=true; sin confirmación responde 428 con el monto a liquidar
// @Description  y no escribe nada. Al entregar se registra la venta con el mismo ID de la reparación.
// @Tags         repairs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la reparación"
// @Param        body  body  dto.ChangeRepairStatusRequest  true  "status, confirm"
// @Success      200   {object}  dto.ChangeRepairStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      428   {object}  dto.ConfirmationRequiredResponse
// @Failure      502   {object}  dto.ChangeRepairStatusResponse
// @Router       /api/repairs/{id}/status [patch]
func (h *RepairHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeRepairStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status es requerido"})
	}

	var asked *repair.ConfirmationRequest
	confirmer := repair.ConfirmFunc(func(_ context.Context, req repair.ConfirmationRequest) (bool, error) {
		asked = &req
		return in.Confirm, nil
	})

	out, err := h.uc.ChangeStatus(c.Context(), c.Params("id"), in.Status, confirmer)
	switch {
	case err == nil:
		return c.JSON(out)
	case asked != nil && repair.IsConfirmationMissing(err):
		return c.Status(fiber.StatusPreconditionRequired).JSON(dto.ConfirmationRequiredResponse{
			Code:         "CONFIRMATION_REQUIRED",
			Message:      "confirme la entrega y el cobro del monto indicado",
			RepairID:     asked.RepairID,
			ProductLabel: asked.ProductLabel,
			Amount:       asked.Amount,
		})
	case out != nil && errors.Is(err, domain.ErrLifecycleUpdateFailed):
		// Reporta qué escrituras alcanzaron a confirmarse.
		status, body := toErrorResponse(err)
		out.Error = &body
		return c.Status(status).JSON(out)
	default:
		return writeError(c, err)
	}
}
