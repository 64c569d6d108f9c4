package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un artículo del inventario del taller (refacciones, accesorios).
// Code es el valor que imprime la etiqueta y que devuelve el escáner.
type InventoryItem struct {
	ID         string
	Name       string
	Code       string
	Quantity   int
	Price      decimal.Decimal // precio de venta unitario
	ImageURL   string
	BarcodeURL string // imagen de la etiqueta con el código de barras
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
