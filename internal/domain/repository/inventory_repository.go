package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para la colección inventory (DIP).
type InventoryRepository interface {
	Get(ctx context.Context, id string) (*entity.InventoryItem, error)
	List(ctx context.Context) ([]*entity.InventoryItem, error)
	Put(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id string) error
}
