package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// RepairRepository define el puerto de persistencia para la colección repairs.
// Las reparaciones se crean fuera de este servicio: solo se leen y se cambia su estado.
type RepairRepository interface {
	Get(ctx context.Context, id string) (*entity.Repair, error)
	List(ctx context.Context) ([]*entity.Repair, error)
	// UpdateStatus escribe status y, si deliveredAt no es nil, deliveryDate.
	UpdateStatus(ctx context.Context, id string, status entity.RepairStatus, deliveredAt *time.Time) error
}

// SaleRepository define el puerto de persistencia para la colección sales (clave = ID de la reparación).
type SaleRepository interface {
	Get(ctx context.Context, id string) (*entity.SaleRecord, error)
	List(ctx context.Context) ([]*entity.SaleRecord, error)
	// Put sobrescribe: nunca hay dos ventas para la misma reparación.
	Put(ctx context.Context, sale *entity.SaleRecord) error
}
