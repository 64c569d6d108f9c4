package ports

import (
	"context"
	"time"
)

// AuthEvent cambio de estado de autenticación de una sesión.
// SignedIn=false indica cierre de sesión (o sesión expirada/revocada).
type AuthEvent struct {
	SessionID string
	UserID    string
	Email     string
	SignedIn  bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthProvider puerto del proveedor de autenticación que alimenta al Session Store.
// OnSessionChange registra fn para cada evento y devuelve la función para darse de baja.
type AuthProvider interface {
	OnSessionChange(fn func(AuthEvent)) (unsubscribe func())
}

// RevocationList puerto para sesiones cerradas (cache.RevocationList en infraestructura).
type RevocationList interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
