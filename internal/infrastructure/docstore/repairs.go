package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

var (
	_ repository.RepairRepository = (*RepairRepo)(nil)
	_ repository.SaleRepository   = (*SaleRepo)(nil)
)

// ── Reparaciones (repairs) ────────────────────────────────────────────────────

// RepairRepo implementación de RepairRepository sobre DocumentStore.
type RepairRepo struct {
	store repository.DocumentStore
	log   *logger.Logger
}

// NewRepairRepository construye el repositorio de reparaciones.
func NewRepairRepository(store repository.DocumentStore, log *logger.Logger) *RepairRepo {
	return &RepairRepo{store: store, log: orNop(log)}
}

func decodeRepair(id string, doc repository.Document) (*entity.Repair, error) {
	r := newReader(doc)
	rawStatus := r.requiredString("status")
	rep := &entity.Repair{
		ID:               id,
		Title:            r.optionalString("title"),
		Description:      r.optionalString("description"),
		Brand:            r.requiredString("brand"),
		Model:            r.requiredString("model"),
		DeviceType:       r.optionalString("deviceType"),
		RepairType:       r.optionalString("repairType"),
		CustomerName:     r.optionalString("customerName"),
		ContactNumber:    r.optionalString("contactNumber"),
		Technician:       r.optionalString("technician"),
		DeliveryDate:     r.optionalTime("deliveryDate"),
		RegistrationDate: r.optionalTime("registrationDate"),
		FinalCost:        r.optionalDecimal("finalCost"),
		Folio:            r.optionalString("folio"),
		AdvancePaid:      r.optionalDecimal("advancePaid"),
		TotalCost:        r.optionalDecimal("totalCost"),
	}
	if r.err != nil {
		return nil, r.err
	}
	status, err := entity.ParseRepairStatus(rawStatus)
	if err != nil {
		return nil, &fieldError{field: "status", reason: err.Error()}
	}
	rep.Status = status
	return rep, nil
}

// EncodeRepair serializa una reparación completa. Este servicio no crea reparaciones;
// lo usan las pruebas y la herramienta de carga inicial.
func EncodeRepair(rep *entity.Repair) repository.Document {
	return repository.Document{
		"title":            rep.Title,
		"description":      rep.Description,
		"brand":            rep.Brand,
		"model":            rep.Model,
		"deviceType":       rep.DeviceType,
		"repairType":       rep.RepairType,
		"status":           string(rep.Status),
		"customerName":     rep.CustomerName,
		"contactNumber":    rep.ContactNumber,
		"technician":       rep.Technician,
		"deliveryDate":     timeOrNil(rep.DeliveryDate),
		"registrationDate": timeOrNil(rep.RegistrationDate),
		"finalCost":        nullMoney(rep.FinalCost),
		"folio":            rep.Folio,
		"advancePaid":      nullMoney(rep.AdvancePaid),
		"totalCost":        nullMoney(rep.TotalCost),
	}
}

// Get obtiene una reparación por ID.
func (r *RepairRepo) Get(ctx context.Context, id string) (*entity.Repair, error) {
	doc, err := r.store.Get(ctx, repository.CollectionRepairs, id)
	if err != nil {
		return nil, err
	}
	return decodeOne(repository.CollectionRepairs, id, doc, decodeRepair)
}

// List devuelve las reparaciones válidas.
func (r *RepairRepo) List(ctx context.Context) ([]*entity.Repair, error) {
	recs, err := r.store.List(ctx, repository.CollectionRepairs)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.log, repository.CollectionRepairs, recs, decodeRepair), nil
}

// UpdateStatus escribe el estado (y la fecha de entrega si se indica) en una sola escritura.
func (r *RepairRepo) UpdateStatus(ctx context.Context, id string, status entity.RepairStatus, deliveredAt *time.Time) error {
	fields := repository.Document{"status": string(status)}
	if deliveredAt != nil {
		fields["deliveryDate"] = deliveredAt.UTC()
	}
	if err := r.store.Update(ctx, repository.CollectionRepairs, id, fields); err != nil {
		return fmt.Errorf("actualizar estado de %s: %w", id, err)
	}
	return nil
}

// ── Ventas (sales) ────────────────────────────────────────────────────────────

// SaleRepo implementación de SaleRepository sobre DocumentStore.
type SaleRepo struct {
	store repository.DocumentStore
	log   *logger.Logger
}

// NewSaleRepository construye el repositorio de ventas.
func NewSaleRepository(store repository.DocumentStore, log *logger.Logger) *SaleRepo {
	return &SaleRepo{store: store, log: orNop(log)}
}

func decodeSale(id string, doc repository.Document) (*entity.SaleRecord, error) {
	r := newReader(doc)
	s := &entity.SaleRecord{
		ID:           id,
		Quantity:     r.optionalInt("quantity"),
		Code:         r.requiredString("code"),
		UnitPrice:    r.decimalOrZero("unitPrice"),
		ProductLabel: r.requiredString("productLabel"),
		Timestamp:    r.timeOrZero("timestamp"),
		Total:        r.decimalOrZero("total"),
	}
	return s, r.err
}

// Get obtiene la venta de una reparación.
func (r *SaleRepo) Get(ctx context.Context, id string) (*entity.SaleRecord, error) {
	doc, err := r.store.Get(ctx, repository.CollectionSales, id)
	if err != nil {
		return nil, err
	}
	return decodeOne(repository.CollectionSales, id, doc, decodeSale)
}

// List devuelve las ventas válidas.
func (r *SaleRepo) List(ctx context.Context) ([]*entity.SaleRecord, error) {
	recs, err := r.store.List(ctx, repository.CollectionSales)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.log, repository.CollectionSales, recs, decodeSale), nil
}

// Put escribe la venta con clave = ID de la reparación (sobrescribe).
func (r *SaleRepo) Put(ctx context.Context, s *entity.SaleRecord) error {
	err := r.store.Put(ctx, repository.CollectionSales, s.ID, repository.Document{
		"quantity":     s.Quantity,
		"code":         s.Code,
		"unitPrice":    money(s.UnitPrice),
		"productLabel": s.ProductLabel,
		"timestamp":    s.Timestamp.UTC(),
		"total":        money(s.Total),
	})
	if err != nil {
		return fmt.Errorf("registrar venta %s: %w", s.ID, err)
	}
	return nil
}
