package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepairResponse salida de una reparación. Las fechas se devuelven también formateadas
// en la zona horaria del negocio (REPORT_TIMEZONE).
type RepairResponse struct {
	ID                   string           `json:"id"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	Brand                string           `json:"brand"`
	Model                string           `json:"model"`
	DeviceType           string           `json:"device_type"`
	RepairType           string           `json:"repair_type"`
	Status               string           `json:"status"`
	StatusLabel          string           `json:"status_label"`
	CustomerName         string           `json:"customer_name,omitempty"`
	ContactNumber        string           `json:"contact_number,omitempty"`
	Technician           string           `json:"technician,omitempty"`
	DeliveryDate         *time.Time       `json:"delivery_date,omitempty"`
	DeliveryDateText     string           `json:"delivery_date_text,omitempty"`
	RegistrationDate     *time.Time       `json:"registration_date,omitempty"`
	RegistrationDateText string           `json:"registration_date_text,omitempty"`
	FinalCost            *decimal.Decimal `json:"final_cost,omitempty"`
	Folio                string           `json:"folio,omitempty"`
	AdvancePaid          *decimal.Decimal `json:"advance_paid,omitempty"`
	TotalCost            *decimal.Decimal `json:"total_cost,omitempty"`
}

// ChangeRepairStatusRequest body para PATCH /api/repairs/:id/status.
// Confirm es obligatorio (true) para pasar a "entregado".
type ChangeRepairStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Confirm bool   `json:"confirm"`
}

// ChangeRepairStatusResponse resultado del cambio de estado: qué escrituras se confirmaron.
type ChangeRepairStatusResponse struct {
	RepairID       string        `json:"repair_id"`
	PreviousStatus string        `json:"previous_status"`
	Status         string        `json:"status"`
	StatusWritten  bool          `json:"status_written"`
	SaleWritten    bool          `json:"sale_written"`
	Sale           *SaleResponse `json:"sale,omitempty"`
	// Error presente cuando alguna escritura falló; los flags indican cuáles sí se hicieron.
	Error *ErrorResponse `json:"error,omitempty"`
}

// ConfirmationRequiredResponse se devuelve (428) cuando falta confirmar la entrega.
type ConfirmationRequiredResponse struct {
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	RepairID     string          `json:"repair_id"`
	ProductLabel string          `json:"product_label"`
	Amount       decimal.Decimal `json:"amount"`
}
