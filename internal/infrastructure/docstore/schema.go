// Package docstore adapta el almacén de documentos genérico a repositorios tipados.
// Cada colección tiene su esquema: los documentos sin campos obligatorios se rechazan
// en Get (domain.ErrInvalidDocument) y se ponen en cuarentena en List (se omiten y se registran).
package docstore

import (
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// decodeOne convierte un documento en entidad o devuelve el error de esquema.
func decodeOne[T any](collection, id string, doc repository.Document, decode func(string, repository.Document) (*T, error)) (*T, error) {
	v, err := decode(id, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", domain.ErrInvalidDocument, collection, id, err)
	}
	return v, nil
}

// decodeAll decodifica la colección completa dejando en cuarentena los documentos inválidos.
func decodeAll[T any](log *logger.Logger, collection string, recs []repository.DocumentRecord, decode func(string, repository.Document) (*T, error)) []*T {
	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		v, err := decode(rec.ID, rec.Data)
		if err != nil {
			log.Warn().
				Str("collection", collection).
				Str("id", rec.ID).
				Err(err).
				Msg("documento en cuarentena: no cumple el esquema")
			continue
		}
		out = append(out, v)
	}
	return out
}

func orNop(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.Nop()
	}
	return log
}
