package ports

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ReportGenerator puerto de salida para los documentos PDF.
// Implementación: infrastructure/pdf (maroto).
type ReportGenerator interface {
	// InventoryReport genera el reporte de inventario (carta horizontal).
	InventoryReport(items []*entity.InventoryItem, generatedAt time.Time) ([]byte, error)
	// SaleReceipt genera el comprobante de la venta de una reparación entregada.
	SaleReceipt(sale *entity.SaleRecord, repair *entity.Repair) ([]byte, error)
}
