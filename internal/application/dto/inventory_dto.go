package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest entrada para crear un artículo.
type CreateInventoryItemRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Code       string          `json:"code"`
	Quantity   int             `json:"quantity" validate:"min=0"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url"`
	BarcodeURL string          `json:"barcode_url"`
}

// UpdateInventoryItemRequest entrada para actualizar un artículo (campos opcionales).
type UpdateInventoryItemRequest struct {
	Name       *string          `json:"name,omitempty"`
	Code       *string          `json:"code,omitempty"`
	Quantity   *int             `json:"quantity,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	ImageURL   *string          `json:"image_url,omitempty"`
	BarcodeURL *string          `json:"barcode_url,omitempty"`
}

// InventoryItemResponse salida de un artículo.
type InventoryItemResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Code       string          `json:"code"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url,omitempty"`
	BarcodeURL string          `json:"barcode_url,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ScanLookupRequest código leído por el escáner (o capturado a mano).
type ScanLookupRequest struct {
	Code    string   `json:"code" validate:"required"`
	Formats []string `json:"formats,omitempty"`
}

// ScanLookupResponse artículo encontrado para el código y formato reconocido.
type ScanLookupResponse struct {
	Code   string                `json:"code"`
	Format string                `json:"format"`
	Item   InventoryItemResponse `json:"item"`
}
