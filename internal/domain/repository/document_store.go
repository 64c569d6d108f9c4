package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// Colecciones del almacén de documentos.
const (
	CollectionUsers       = "users"
	CollectionCredentials = "credentials"
	CollectionInventory   = "inventory"
	CollectionRepairs     = "repairs"
	CollectionSales       = "sales"
)

// Document es un registro plano: nombre de campo -> valor escalar o timestamp.
// Los backends serializados (postgres, sqlite) devuelven números como json.Number
// y timestamps como texto RFC 3339; la conversión a tipos de dominio vive en docstore.
type Document map[string]any

// Clone copia superficial del documento (los valores son escalares).
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// DocumentRecord par (id, documento) devuelto por List.
type DocumentRecord struct {
	ID   string
	Data Document
}

// DocumentStore define el puerto genérico hacia el almacén de documentos (DIP).
// Cada llamada es independiente: no hay transacciones entre documentos ni caché local.
// Errores: domain.ErrNotFound si el documento no existe (Get, Update),
// domain.ErrRecordRead / domain.ErrRecordWrite envolviendo la causa de E/S.
// Una escritura confirmada es visible en la siguiente lectura del mismo cliente.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string) ([]DocumentRecord, error)
	// Put crea o reemplaza el documento completo.
	Put(ctx context.Context, collection, id string, doc Document) error
	// Update fusiona fields sobre un documento existente.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Delete no falla si el documento no existe.
	Delete(ctx context.Context, collection, id string) error
}

// DocumentCreator lo implementan los backends capaces de insertar sin sobrescribir.
// Create devuelve domain.ErrDuplicate si ya existe un documento con ese id.
type DocumentCreator interface {
	Create(ctx context.Context, collection, id string, doc Document) error
}

// FieldSummer lo implementan los backends que suman un campo numérico en el servidor.
// Los documentos sin el campo no cuentan.
type FieldSummer interface {
	SumField(ctx context.Context, collection, field string) (decimal.Decimal, error)
}
