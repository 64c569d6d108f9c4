// Package memory implementa el almacén de documentos en memoria del proceso.
// Se usa en desarrollo (STORE_DRIVER=memory) y en las pruebas, donde los hooks
// permiten inyectar fallos y controlar el orden en que se confirman las escrituras.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var (
	_ repository.DocumentStore   = (*DocumentStore)(nil)
	_ repository.DocumentCreator = (*DocumentStore)(nil)
)

// OpKind tipo de operación sobre el almacén.
type OpKind string

const (
	OpGet    OpKind = "get"
	OpList   OpKind = "list"
	OpPut    OpKind = "put"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// IsWrite indica si la operación modifica datos.
func (k OpKind) IsWrite() bool {
	return k == OpPut || k == OpUpdate || k == OpDelete
}

// Op describe la operación en curso (ID vacío en List).
type Op struct {
	Kind       OpKind
	Collection string
	ID         string
}

// Hook se ejecuta antes de aplicar cada operación y fuera del lock:
// puede bloquear (para ordenar confirmaciones) o devolver un error que simula un fallo de E/S.
type Hook func(ctx context.Context, op Op) error

// DocumentStore almacén de documentos en memoria, seguro para uso concurrente.
type DocumentStore struct {
	mu   sync.RWMutex
	data map[string]map[string]repository.Document
	hook Hook
}

// NewDocumentStore crea un almacén vacío.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{data: map[string]map[string]repository.Document{}}
}

// SetHook instala (o quita, con nil) el hook de operaciones.
func (s *DocumentStore) SetHook(h Hook) {
	s.mu.Lock()
	s.hook = h
	s.mu.Unlock()
}

// Get devuelve una copia del documento.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	if err := s.before(ctx, Op{Kind: OpGet, Collection: collection, ID: id}); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc.Clone(), nil
}

// List devuelve todos los documentos de la colección ordenados por ID.
func (s *DocumentStore) List(ctx context.Context, collection string) ([]repository.DocumentRecord, error) {
	if err := s.before(ctx, Op{Kind: OpList, Collection: collection}); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	col := s.data[collection]
	out := make([]repository.DocumentRecord, 0, len(col))
	for id, doc := range col {
		out = append(out, repository.DocumentRecord{ID: id, Data: doc.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put crea o reemplaza el documento.
func (s *DocumentStore) Put(ctx context.Context, collection, id string, doc repository.Document) error {
	if err := s.before(ctx, Op{Kind: OpPut, Collection: collection, ID: id}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.data[collection]
	if !ok {
		col = map[string]repository.Document{}
		s.data[collection] = col
	}
	col[id] = doc.Clone()
	return nil
}

// Update fusiona fields sobre el documento existente.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	if err := s.before(ctx, Op{Kind: OpUpdate, Collection: collection, ID: id}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.data[collection][id]
	if !ok {
		return domain.ErrNotFound
	}
	merged := doc.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	s.data[collection][id] = merged
	return nil
}

// Delete elimina el documento si existe.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.before(ctx, Op{Kind: OpDelete, Collection: collection, ID: id}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], id)
	return nil
}

func (s *DocumentStore) before(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return s.wrap(op, err)
	}
	s.mu.RLock()
	h := s.hook
	s.mu.RUnlock()
	if h == nil {
		return nil
	}
	if err := h(ctx, op); err != nil {
		return s.wrap(op, err)
	}
	return nil
}

func (s *DocumentStore) wrap(op Op, err error) error {
	sentinel := domain.ErrRecordRead
	if op.Kind.IsWrite() {
		sentinel = domain.ErrRecordWrite
	}
	return fmt.Errorf("%w: %s %s/%s: %w", sentinel, op.Kind, op.Collection, op.ID, err)
}

// Create inserta el documento solo si no existe.
func (s *DocumentStore) Create(ctx context.Context, collection, id string, doc repository.Document) error {
	if err := s.before(ctx, Op{Kind: OpPut, Collection: collection, ID: id}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.data[collection]
	if !ok {
		col = map[string]repository.Document{}
		s.data[collection] = col
	}
	if _, exists := col[id]; exists {
		return domain.ErrDuplicate
	}
	col[id] = doc.Clone()
	return nil
}
