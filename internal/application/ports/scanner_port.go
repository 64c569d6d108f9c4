package ports

import (
	"context"

	"github.com/jhoicas/Taller-api/pkg/barcode"
)

// Scanner puerto del lector de códigos (cámara, lector USB o captura manual).
type Scanner interface {
	// RequestPermission solicita acceso al dispositivo; devuelve false si se niega.
	RequestPermission(ctx context.Context) (bool, error)
	// Scan devuelve el código leído y su formato, o domain.ErrScanCancelled si no hubo lectura.
	Scan(ctx context.Context, formats []barcode.Format) (code string, format barcode.Format, err error)
}
