package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/docstore"
)

var (
	_ repository.DocumentStore   = (*DocumentStore)(nil)
	_ repository.DocumentCreator = (*DocumentStore)(nil)
	_ repository.FieldSummer     = (*DocumentStore)(nil)
)

// DocumentStore implementación del almacén de documentos sobre la tabla documents (JSONB).
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore construye el adaptador sobre el pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// Get obtiene un documento por colección e ID.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, readErr("get", collection, id, err)
	}
	doc, err := docstore.UnmarshalDocument(raw)
	if err != nil {
		return nil, readErr("get", collection, id, err)
	}
	return doc, nil
}

// List devuelve todos los documentos de la colección ordenados por ID.
func (s *DocumentStore) List(ctx context.Context, collection string) ([]repository.DocumentRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, readErr("list", collection, "", err)
	}
	defer rows.Close()

	var out []repository.DocumentRecord
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, readErr("list", collection, "", err)
		}
		doc, err := docstore.UnmarshalDocument(raw)
		if err != nil {
			return nil, readErr("list", collection, id, err)
		}
		out = append(out, repository.DocumentRecord{ID: id, Data: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, readErr("list", collection, "", err)
	}
	return out, nil
}

// Put crea o reemplaza el documento.
func (s *DocumentStore) Put(ctx context.Context, collection, id string, doc repository.Document) error {
	raw, err := docstore.MarshalDocument(doc)
	if err != nil {
		return writeErr("put", collection, id, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()`,
		collection, id, string(raw),
	)
	if err != nil {
		return writeErr("put", collection, id, err)
	}
	return nil
}

// Create inserta el documento; domain.ErrDuplicate si ya existe.
func (s *DocumentStore) Create(ctx context.Context, collection, id string, doc repository.Document) error {
	raw, err := docstore.MarshalDocument(doc)
	if err != nil {
		return writeErr("create", collection, id, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(raw),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return writeErr("create", collection, id, err)
	}
	return nil
}

// Update fusiona fields sobre el documento existente (operador || de JSONB).
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	raw, err := docstore.MarshalDocument(fields)
	if err != nil {
		return writeErr("update", collection, id, err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`,
		collection, id, string(raw),
	)
	if err != nil {
		return writeErr("update", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el documento si existe.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return writeErr("delete", collection, id, err)
	}
	return nil
}

// numericText valores de data->>campo que admite el cast a numeric.
const numericText = `^\s*-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?\s*$`

// SumField suma un campo numérico (número o texto decimal) de toda la colección.
// Los documentos con un valor no numérico en el campo se omiten.
func (s *DocumentStore) SumField(ctx context.Context, collection, field string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM((data->>$2)::numeric), 0)
		FROM documents
		WHERE collection = $1 AND data->>$2 ~ $3`,
		collection, field, numericText,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, readErr("sum", collection, field, err)
	}
	return total, nil
}
