// Package sqlite implementa el almacén de documentos sobre un archivo SQLite,
// pensado para instalaciones de un solo equipo en el mostrador.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/docstore"
)

var (
	_ repository.DocumentStore   = (*DocumentStore)(nil)
	_ repository.DocumentCreator = (*DocumentStore)(nil)
)

// Open abre (o crea) la base SQLite. Una sola conexión: SQLite serializa las escrituras
// y ":memory:" solo es compartida dentro de la misma conexión.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("crear directorio de %s: %w", path, err)
			}
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil && path != ":memory:" {
		_ = db.Close()
		return nil, fmt.Errorf("activar WAL: %w", err)
	}
	return db, nil
}

// DocumentStore implementación del almacén de documentos sobre la tabla documents (texto JSON).
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore construye el adaptador sobre una base ya migrada.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Get obtiene un documento por colección e ID.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, readErr("get", collection, id, err)
	}
	doc, err := docstore.UnmarshalDocument([]byte(raw))
	if err != nil {
		return nil, readErr("get", collection, id, err)
	}
	return doc, nil
}

// List devuelve todos los documentos de la colección ordenados por ID.
func (s *DocumentStore) List(ctx context.Context, collection string) ([]repository.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, readErr("list", collection, "", err)
	}
	defer rows.Close()

	var out []repository.DocumentRecord
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, readErr("list", collection, "", err)
		}
		doc, err := docstore.UnmarshalDocument([]byte(raw))
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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = excluded.data, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
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
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, string(raw),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return domain.ErrDuplicate
		}
		return writeErr("create", collection, id, err)
	}
	return nil
}

// Update fusiona fields con json_patch. Un campo con valor null queda eliminado del documento,
// lo que para el esquema equivale a ausente.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	raw, err := docstore.MarshalDocument(fields)
	if err != nil {
		return writeErr("update", collection, id, err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET data = json_patch(data, ?), updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE collection = ? AND id = ?`,
		string(raw), collection, id,
	)
	if err != nil {
		return writeErr("update", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return writeErr("update", collection, id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el documento si existe.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err != nil {
		return writeErr("delete", collection, id, err)
	}
	return nil
}

func readErr(op, collection, id string, err error) error {
	return fmt.Errorf("%w: %s %s/%s: %w", domain.ErrRecordRead, op, collection, id, err)
}

func writeErr(op, collection, id string, err error) error {
	return fmt.Errorf("%w: %s %s/%s: %w", domain.ErrRecordWrite, op, collection, id, err)
}
