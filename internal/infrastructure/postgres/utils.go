package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

func readErr(op, collection, id string, err error) error {
	return fmt.Errorf("%w: %s %s/%s: %w", domain.ErrRecordRead, op, collection, id, err)
}

func writeErr(op, collection, id string, err error) error {
	return fmt.Errorf("%w: %s %s/%s: %w", domain.ErrRecordWrite, op, collection, id, err)
}
