package cache

import (
	"context"
	"errors"
	"time"
)

const revokedPrefix = "session:revoked:"

// RevocationList registra los IDs de sesión cerrados hasta que su token expira.
type RevocationList struct {
	client Client
}

// NewRevocationList construye la lista sobre el cliente de caché.
func NewRevocationList(client Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke marca la sesión como cerrada durante ttl (vida restante del token).
func (r *RevocationList) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedPrefix+sessionID, "1", ttl)
}

// IsRevoked indica si la sesión fue cerrada.
func (r *RevocationList) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	_, err := r.client.Get(ctx, revokedPrefix+sessionID)
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
