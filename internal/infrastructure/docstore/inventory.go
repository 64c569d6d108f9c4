package docstore

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre DocumentStore.
type InventoryRepo struct {
	store repository.DocumentStore
	log   *logger.Logger
}

// NewInventoryRepository construye el repositorio de inventario.
func NewInventoryRepository(store repository.DocumentStore, log *logger.Logger) *InventoryRepo {
	return &InventoryRepo{store: store, log: orNop(log)}
}

func decodeInventoryItem(id string, doc repository.Document) (*entity.InventoryItem, error) {
	r := newReader(doc)
	it := &entity.InventoryItem{
		ID:         id,
		Name:       r.requiredString("name"),
		Code:       r.optionalString("code"),
		Quantity:   r.optionalInt("quantity"),
		Price:      r.decimalOrZero("price"),
		ImageURL:   r.optionalString("imageUrl"),
		BarcodeURL: r.optionalString("barcodeUrl"),
		CreatedAt:  r.timeOrZero("createdAt"),
		UpdatedAt:  r.timeOrZero("updatedAt"),
	}
	return it, r.err
}

// Get obtiene un artículo por ID.
func (r *InventoryRepo) Get(ctx context.Context, id string) (*entity.InventoryItem, error) {
	doc, err := r.store.Get(ctx, repository.CollectionInventory, id)
	if err != nil {
		return nil, err
	}
	return decodeOne(repository.CollectionInventory, id, doc, decodeInventoryItem)
}

// List devuelve los artículos válidos.
func (r *InventoryRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	recs, err := r.store.List(ctx, repository.CollectionInventory)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.log, repository.CollectionInventory, recs, decodeInventoryItem), nil
}

// Put crea o reemplaza el artículo.
func (r *InventoryRepo) Put(ctx context.Context, it *entity.InventoryItem) error {
	now := time.Now()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	it.UpdatedAt = now
	return r.store.Put(ctx, repository.CollectionInventory, it.ID, repository.Document{
		"name":       it.Name,
		"code":       it.Code,
		"quantity":   it.Quantity,
		"price":      money(it.Price),
		"imageUrl":   it.ImageURL,
		"barcodeUrl": it.BarcodeURL,
		"createdAt":  it.CreatedAt.UTC(),
		"updatedAt":  it.UpdatedAt.UTC(),
	})
}

// Delete elimina el artículo.
func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, repository.CollectionInventory, id)
}
