package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// UserProfileRepository define el puerto de persistencia para la colección users (DIP).
type UserProfileRepository interface {
	// Get devuelve domain.ErrNotFound si el usuario no tiene documento.
	Get(ctx context.Context, id string) (*entity.UserProfile, error)
	List(ctx context.Context) ([]*entity.UserProfile, error)
	Put(ctx context.Context, profile *entity.UserProfile) error
	UpdateEmail(ctx context.Context, id, email string) error
	SetPrivileged(ctx context.Context, id string, privileged bool) error
	Delete(ctx context.Context, id string) error
}

// CredentialRepository define el puerto de persistencia para la colección credentials.
// La clave es el email normalizado.
type CredentialRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.Credential, error)
	// Create devuelve domain.ErrEmailAlreadyExists si ya hay credencial para el email.
	Create(ctx context.Context, cred *entity.Credential) error
	Delete(ctx context.Context, email string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Credential, error)
}
