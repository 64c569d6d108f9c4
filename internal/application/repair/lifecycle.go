// Package repair contiene el ciclo de vida de las reparaciones: consulta y cambio de estado,
// con el registro de la venta cuando el equipo se entrega.
package repair

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// ConfirmationRequest lo que se muestra al usuario antes de entregar: el monto a liquidar.
type ConfirmationRequest struct {
	RepairID     string
	Folio        string
	ProductLabel string
	From         entity.RepairStatus
	To           entity.RepairStatus
	Amount       decimal.Decimal
}

// Confirmer punto de decisión sí/no antes de un estado terminal (prompt de CLI, flag del request HTTP).
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmationRequest) (bool, error)
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(ctx context.Context, req ConfirmationRequest) (bool, error)

// Confirm implementa Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, req ConfirmationRequest) (bool, error) {
	return f(ctx, req)
}

// AlwaysConfirm confirma sin preguntar (el llamante ya obtuvo la confirmación).
var AlwaysConfirm = ConfirmFunc(func(context.Context, ConfirmationRequest) (bool, error) { return true, nil })

// TransitionResult informa qué escrituras confirmó el almacén.
// Con error, StatusWritten y SaleWritten indican hasta dónde se llegó: no hay rollback.
type TransitionResult struct {
	RepairID      string
	Previous      entity.RepairStatus
	Status        entity.RepairStatus
	StatusWritten bool
	SaleWritten   bool
	Sale          *entity.SaleRecord
}

// Controller ejecuta las transiciones de estado. Cualquier estado puede pasar a cualquier otro.
type Controller struct {
	repairs repository.RepairRepository
	sales   repository.SaleRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewController construye el controlador.
func NewController(repairs repository.RepairRepository, sales repository.SaleRepository, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{repairs: repairs, sales: sales, log: log.Named("repair_lifecycle"), now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// Transition cambia el estado de la reparación.
//
// Al pasar a entregado pide confirmación (negativa => domain.ErrTransitionCancelled, sin escrituras),
// escribe el estado con la fecha de entrega y, solo después de confirmada esa escritura,
// registra la venta con clave = ID de la reparación. Los fallos de escritura se devuelven
// envueltos en domain.ErrLifecycleUpdateFailed; no se reintenta.
func (c *Controller) Transition(ctx context.Context, repairID string, requested entity.RepairStatus, confirmer Confirmer) (*TransitionResult, error) {
	if !requested.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, requested)
	}

	rep, err := c.repairs.Get(ctx, repairID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrLifecycleUpdateFailed, err)
	}

	res := &TransitionResult{RepairID: repairID, Previous: rep.Status, Status: requested}

	if requested.Terminal() {
		if confirmer == nil {
			return nil, domain.ErrTransitionCancelled
		}
		ok, err := confirmer.Confirm(ctx, ConfirmationRequest{
			RepairID:     rep.ID,
			Folio:        rep.Folio,
			ProductLabel: rep.ProductLabel(),
			From:         rep.Status,
			To:           requested,
			Amount:       rep.AmountDue(),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrTransitionCancelled, err)
		}
		if !ok {
			return nil, domain.ErrTransitionCancelled
		}
	}

	now := c.now()
	var deliveredAt *time.Time
	if requested.Terminal() {
		deliveredAt = &now
	}
	if err := c.repairs.UpdateStatus(ctx, repairID, requested, deliveredAt); err != nil {
		c.log.Error().Err(err).Str("repair_id", repairID).Str("status", string(requested)).Msg("falló la escritura del estado")
		return res, fmt.Errorf("%w: %w", domain.ErrLifecycleUpdateFailed, err)
	}
	res.StatusWritten = true

	if !requested.Terminal() {
		c.log.Info().Str("repair_id", repairID).Str("from", string(res.Previous)).Str("to", string(requested)).Msg("estado actualizado")
		return res, nil
	}

	sale := entity.NewSaleFromRepair(rep, now)
	if err := c.sales.Put(ctx, sale); err != nil {
		// El estado ya quedó en entregado: inconsistencia aceptada, el usuario puede reintentar.
		c.log.Error().Err(err).Str("repair_id", repairID).Msg("estado entregado sin venta registrada")
		return res, fmt.Errorf("%w: %w", domain.ErrLifecycleUpdateFailed, err)
	}
	res.SaleWritten = true
	res.Sale = sale

	c.log.Info().
		Str("repair_id", repairID).
		Str("from", string(res.Previous)).
		Str("to", string(requested)).
		Str("sale_code", sale.Code).
		Str("total", sale.Total.String()).
		Msg("reparación entregada y venta registrada")
	return res, nil
}
