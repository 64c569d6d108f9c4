package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/pkg/textutil"
)

// RepairStatus estado del ciclo de vida de una reparación.
// No hay orden impuesto entre estados: se permite cualquier transición.
type RepairStatus string

const (
	RepairStatusPending   RepairStatus = "pendiente"
	RepairStatusInRepair  RepairStatus = "reparacion"
	RepairStatusDelivered RepairStatus = "entregado" // terminal: genera la venta
)

// RepairStatuses lista los estados válidos en el orden en que se muestran.
var RepairStatuses = []RepairStatus{RepairStatusPending, RepairStatusInRepair, RepairStatusDelivered}

// ParseRepairStatus acepta el valor almacenado, la etiqueta visible ("Reparación")
// o el nombre en inglés ("in_repair").
func ParseRepairStatus(s string) (RepairStatus, error) {
	switch textutil.Fold(s) {
	case "pendiente", "pending":
		return RepairStatusPending, nil
	case "reparacion", "en reparacion", "in_repair", "inrepair":
		return RepairStatusInRepair, nil
	case "entregado", "delivered":
		return RepairStatusDelivered, nil
	}
	return "", fmt.Errorf("estado de reparación desconocido %q", s)
}

// Valid indica si el estado pertenece al conjunto conocido.
func (s RepairStatus) Valid() bool {
	return s == RepairStatusPending || s == RepairStatusInRepair || s == RepairStatusDelivered
}

// Terminal indica si el estado dispara la venta y requiere confirmación.
func (s RepairStatus) Terminal() bool { return s == RepairStatusDelivered }

// Label etiqueta visible del estado.
func (s RepairStatus) Label() string {
	switch s {
	case RepairStatusPending:
		return "Pendiente"
	case RepairStatusInRepair:
		return "Reparación"
	case RepairStatusDelivered:
		return "Entregado"
	}
	return string(s)
}

// Repair ticket de reparación de un equipo. Se crea fuera de este servicio;
// aquí solo se consulta y se cambia su estado.
type Repair struct {
	ID               string
	Title            string
	Description      string
	Brand            string
	Model            string
	DeviceType       string
	RepairType       string
	Status           RepairStatus
	CustomerName     string
	ContactNumber    string
	Technician       string
	DeliveryDate     *time.Time
	RegistrationDate *time.Time
	FinalCost        decimal.NullDecimal // total restante a cobrar
	Folio            string
	AdvancePaid      decimal.NullDecimal // anticipo (importe)
	TotalCost        decimal.NullDecimal // precio total
}

// SaleCode código de la venta derivada: folio si existe, si no el ID.
func (r *Repair) SaleCode() string {
	if strings.TrimSpace(r.Folio) != "" {
		return r.Folio
	}
	return r.ID
}

// ProductLabel nombre del "producto" vendido al entregar la reparación.
func (r *Repair) ProductLabel() string {
	return strings.TrimSpace(fmt.Sprintf("Reparación: %s %s", r.Brand, r.Model))
}

// AmountDue monto a liquidar que se muestra al confirmar la entrega (precio total o 0).
func (r *Repair) AmountDue() decimal.Decimal {
	if r.TotalCost.Valid {
		return r.TotalCost.Decimal
	}
	return decimal.Zero
}
