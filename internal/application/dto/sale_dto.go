package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleResponse salida de una venta derivada de una reparación.
type SaleResponse struct {
	ID            string          `json:"id"`
	Quantity      int             `json:"quantity"`
	Code          string          `json:"code"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ProductLabel  string          `json:"product_label"`
	Timestamp     time.Time       `json:"timestamp"`
	TimestampText string          `json:"timestamp_text"`
	Total         decimal.Decimal `json:"total"`
}

// SummaryResponse resumen para la pantalla de administración.
type SummaryResponse struct {
	InventoryItems  int             `json:"inventory_items"`
	InventoryUnits  int             `json:"inventory_units"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	Users           int             `json:"users"`
	PrivilegedUsers int             `json:"privileged_users"`
	Repairs         map[string]int  `json:"repairs"`
	Sales           int             `json:"sales"`
	TotalSold       decimal.Decimal `json:"total_sold"`
}
