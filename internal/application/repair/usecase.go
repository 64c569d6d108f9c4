package repair

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// DateLayout formato de fechas mostrado en el mostrador (día/mes/año hora).
const DateLayout = "02/01/2006 15:04"

// UseCase consultas de reparaciones y cambio de estado expuestos a la API y al CLI.
type UseCase struct {
	repairs    repository.RepairRepository
	controller *Controller
	loc        *time.Location
}

// NewUseCase construye el caso de uso. loc es la zona del negocio para formatear fechas.
func NewUseCase(repairs repository.RepairRepository, controller *Controller, loc *time.Location) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{repairs: repairs, controller: controller, loc: loc}
}

// List devuelve las reparaciones, opcionalmente filtradas por estado, las más recientes primero.
func (uc *UseCase) List(ctx context.Context, status string) ([]dto.RepairResponse, error) {
	var filter entity.RepairStatus
	if strings.TrimSpace(status) != "" {
		s, err := entity.ParseRepairStatus(status)
		if err != nil {
			return nil, domain.ErrInvalidStatus
		}
		filter = s
	}

	reps, err := uc.repairs.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reps, func(i, j int) bool {
		return registeredAt(reps[i]).After(registeredAt(reps[j]))
	})

	out := make([]dto.RepairResponse, 0, len(reps))
	for _, r := range reps {
		if filter != "" && r.Status != filter {
			continue
		}
		out = append(out, uc.toResponse(r))
	}
	return out, nil
}

// Get obtiene una reparación por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.RepairResponse, error) {
	r, err := uc.repairs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := uc.toResponse(r)
	return &resp, nil
}

// ChangeStatus interpreta el estado pedido y ejecuta la transición.
func (uc *UseCase) ChangeStatus(ctx context.Context, id, status string, confirmer Confirmer) (*dto.ChangeRepairStatusResponse, error) {
	s, err := entity.ParseRepairStatus(status)
	if err != nil {
		return nil, domain.ErrInvalidStatus
	}
	res, err := uc.controller.Transition(ctx, id, s, confirmer)
	if res == nil {
		return nil, err
	}
	out := &dto.ChangeRepairStatusResponse{
		RepairID:       res.RepairID,
		PreviousStatus: string(res.Previous),
		Status:         string(res.Status),
		StatusWritten:  res.StatusWritten,
		SaleWritten:    res.SaleWritten,
	}
	if res.Sale != nil {
		sale := SaleToResponse(res.Sale, uc.loc)
		out.Sale = &sale
	}
	return out, err
}

// IsConfirmationMissing distingue la cancelación por falta de confirmación de otros errores.
func IsConfirmationMissing(err error) bool {
	return errors.Is(err, domain.ErrTransitionCancelled)
}

func registeredAt(r *entity.Repair) time.Time {
	if r.RegistrationDate != nil {
		return *r.RegistrationDate
	}
	return time.Time{}
}

func (uc *UseCase) toResponse(r *entity.Repair) dto.RepairResponse {
	return dto.RepairResponse{
		ID:                   r.ID,
		Title:                r.Title,
		Description:          r.Description,
		Brand:                r.Brand,
		Model:                r.Model,
		DeviceType:           r.DeviceType,
		RepairType:           r.RepairType,
		Status:               string(r.Status),
		StatusLabel:          r.Status.Label(),
		CustomerName:         r.CustomerName,
		ContactNumber:        r.ContactNumber,
		Technician:           r.Technician,
		DeliveryDate:         r.DeliveryDate,
		DeliveryDateText:     FormatDate(r.DeliveryDate, uc.loc),
		RegistrationDate:     r.RegistrationDate,
		RegistrationDateText: FormatDate(r.RegistrationDate, uc.loc),
		FinalCost:            nullable(r.FinalCost),
		Folio:                r.Folio,
		AdvancePaid:          nullable(r.AdvancePaid),
		TotalCost:            nullable(r.TotalCost),
	}
}

// SaleToResponse mapea una venta a su DTO con la fecha en la zona del negocio.
func SaleToResponse(s *entity.SaleRecord, loc *time.Location) dto.SaleResponse {
	ts := s.Timestamp
	return dto.SaleResponse{
		ID:            s.ID,
		Quantity:      s.Quantity,
		Code:          s.Code,
		UnitPrice:     s.UnitPrice,
		ProductLabel:  s.ProductLabel,
		Timestamp:     s.Timestamp,
		TimestampText: FormatDate(&ts, loc),
		Total:         s.Total,
	}
}

// FormatDate formatea en la zona indicada; cadena vacía si no hay fecha.
func FormatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
