package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
)

// AdminHandler pantalla de administración: empleados, ventas y resumen.
type AdminHandler struct {
	users   *usecase.UserUseCase
	sales   *usecase.SaleUseCase
	summary *usecase.SummaryUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(users *usecase.UserUseCase, sales *usecase.SaleUseCase, summary *usecase.SummaryUseCase) *AdminHandler {
	return &AdminHandler{users: users, sales: sales, summary: summary}
}

// ListEmployees godoc
// @Summary      Listar empleados
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.UserResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/employees [get]
func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	list, err := h.users.ListEmployees(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// GetEmployee godoc
// @Summary      Obtener empleado
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/employees/{id} [get]
func (h *AdminHandler) GetEmployee(c *fiber.Ctx) error {
	out, err := h.users.GetEmployee(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateEmployee godoc
// @Summary      Registrar empleado
// @Description  Crea credenciales y perfil sin privilegios.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/employees [post]
func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.CreateEmployee(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateEmployee godoc
// @Summary      Actualizar empleado
// @Description  Cambia el email y/o la bandera privileged. Las sesiones abiertas conservan su rol hasta el siguiente inicio de sesión.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del usuario"
// @Param        body  body  dto.UpdateEmployeeRequest  true  "email, privileged"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/employees/{id} [patch]
func (h *AdminHandler) UpdateEmployee(c *fiber.Ctx) error {
	var in dto.UpdateEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.UpdateEmployee(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteEmployee godoc
// @Summary      Eliminar empleado
// @Tags         admin
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/employees/{id} [delete]
func (h *AdminHandler) DeleteEmployee(c *fiber.Ctx) error {
	if err := h.users.DeleteEmployee(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.SaleResponse]
// @Router       /api/admin/sales [get]
func (h *AdminHandler) ListSales(c *fiber.Ctx) error {
	list, err := h.sales.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// GetSale godoc
// @Summary      Obtener venta
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta (= ID de la reparación)"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/sales/{id} [get]
func (h *AdminHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.sales.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SaleReceipt godoc
// @Summary      Comprobante de venta en PDF
// @Tags         admin
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/sales/{id}/receipt [get]
func (h *AdminHandler) SaleReceipt(c *fiber.Ctx) error {
	name, data, err := h.sales.Receipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, name, data)
}

// Summary godoc
// @Summary      Resumen de administración
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/admin/summary [get]
func (h *AdminHandler) Summary(c *fiber.Ctx) error {
	out, err := h.summary.Summary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
