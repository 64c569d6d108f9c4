// Package scanner implementa ports.Scanner para los lectores disponibles en el servidor:
// captura manual (código ya leído en el cliente) y lectores USB que escriben una línea por código.
package scanner

import (
	"context"
	"strings"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/pkg/barcode"
)

var (
	_ ports.Scanner = Manual("")
	_ ports.Scanner = (*Line)(nil)
)

// Manual devuelve un código ya capturado. No requiere permisos.
type Manual string

// RequestPermission implementa ports.Scanner.
func (Manual) RequestPermission(context.Context) (bool, error) { return true, nil }

// Scan valida el código contra los formatos pedidos.
func (m Manual) Scan(ctx context.Context, formats []barcode.Format) (string, barcode.Format, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	return match(strings.TrimSpace(string(m)), formats)
}

func match(code string, formats []barcode.Format) (string, barcode.Format, error) {
	if code == "" {
		return "", "", domain.ErrScanCancelled
	}
	f, err := barcode.Match(code, formats)
	if err != nil {
		return "", "", &InvalidCodeError{Code: code, Err: err}
	}
	return code, f, nil
}

// InvalidCodeError código leído que no corresponde a ninguno de los formatos pedidos.
type InvalidCodeError struct {
	Code string
	Err  error
}

func (e *InvalidCodeError) Error() string {
	return "código " + e.Code + " no válido: " + e.Err.Error()
}

// Is permite errors.Is(err, domain.ErrInvalidBarcode).
func (e *InvalidCodeError) Is(target error) bool { return target == domain.ErrInvalidBarcode }

func (e *InvalidCodeError) Unwrap() error { return e.Err }
