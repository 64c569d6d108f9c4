package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord registro financiero derivado de una reparación entregada.
// Su clave es el ID de la reparación: volver a entregar sobrescribe, nunca duplica.
type SaleRecord struct {
	ID           string // = Repair.ID
	Quantity     int
	Code         string
	UnitPrice    decimal.Decimal
	ProductLabel string
	Timestamp    time.Time
	Total        decimal.Decimal
}

// NewSaleFromRepair construye la venta con los montos actuales de la reparación.
// Montos ausentes se registran en cero.
func NewSaleFromRepair(r *Repair, now time.Time) *SaleRecord {
	unit := decimal.Zero
	if r.FinalCost.Valid {
		unit = r.FinalCost.Decimal
	}
	total := decimal.Zero
	if r.TotalCost.Valid {
		total = r.TotalCost.Decimal
	}
	return &SaleRecord{
		ID:           r.ID,
		Quantity:     1,
		Code:         r.SaleCode(),
		UnitPrice:    unit,
		ProductLabel: r.ProductLabel(),
		Timestamp:    now,
		Total:        total,
	}
}
