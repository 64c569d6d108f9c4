package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/textutil"
)

var (
	_ repository.UserProfileRepository = (*UserProfileRepo)(nil)
	_ repository.CredentialRepository  = (*CredentialRepo)(nil)
)

// ── Perfiles (users) ──────────────────────────────────────────────────────────

// UserProfileRepo implementación de UserProfileRepository sobre DocumentStore.
type UserProfileRepo struct {
	store repository.DocumentStore
	log   *logger.Logger
}

// NewUserProfileRepository construye el repositorio de perfiles.
func NewUserProfileRepository(store repository.DocumentStore, log *logger.Logger) *UserProfileRepo {
	return &UserProfileRepo{store: store, log: orNop(log)}
}

func decodeUserProfile(id string, doc repository.Document) (*entity.UserProfile, error) {
	r := newReader(doc)
	u := &entity.UserProfile{
		ID:         id,
		Email:      r.requiredString("email"),
		Privileged: r.optionalBool("privileged"),
		CreatedAt:  r.timeOrZero("createdAt"),
	}
	return u, r.err
}

func encodeUserProfile(u *entity.UserProfile) repository.Document {
	doc := repository.Document{
		"email":     u.Email,
		"createdAt": u.CreatedAt.UTC(),
	}
	if u.Privileged != nil {
		doc["privileged"] = *u.Privileged
	}
	return doc
}

// Get obtiene el perfil; domain.ErrNotFound si el usuario no tiene documento.
func (r *UserProfileRepo) Get(ctx context.Context, id string) (*entity.UserProfile, error) {
	doc, err := r.store.Get(ctx, repository.CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	return decodeOne(repository.CollectionUsers, id, doc, decodeUserProfile)
}

// List devuelve los perfiles válidos.
func (r *UserProfileRepo) List(ctx context.Context) ([]*entity.UserProfile, error) {
	recs, err := r.store.List(ctx, repository.CollectionUsers)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.log, repository.CollectionUsers, recs, decodeUserProfile), nil
}

// Put crea o reemplaza el perfil.
func (r *UserProfileRepo) Put(ctx context.Context, u *entity.UserProfile) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return r.store.Put(ctx, repository.CollectionUsers, u.ID, encodeUserProfile(u))
}

// UpdateEmail cambia solo el email del perfil.
func (r *UserProfileRepo) UpdateEmail(ctx context.Context, id, email string) error {
	return r.store.Update(ctx, repository.CollectionUsers, id, repository.Document{"email": email})
}

// SetPrivileged fija la bandera de rol.
func (r *UserProfileRepo) SetPrivileged(ctx context.Context, id string, privileged bool) error {
	return r.store.Update(ctx, repository.CollectionUsers, id, repository.Document{"privileged": privileged})
}

// Delete elimina el perfil.
func (r *UserProfileRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, repository.CollectionUsers, id)
}

// ── Credenciales (credentials) ────────────────────────────────────────────────

// CredentialRepo implementación de CredentialRepository; la clave del documento es el email normalizado.
type CredentialRepo struct {
	store repository.DocumentStore
	log   *logger.Logger
}

// NewCredentialRepository construye el repositorio de credenciales.
func NewCredentialRepository(store repository.DocumentStore, log *logger.Logger) *CredentialRepo {
	return &CredentialRepo{store: store, log: orNop(log)}
}

func decodeCredential(_ string, doc repository.Document) (*entity.Credential, error) {
	r := newReader(doc)
	c := &entity.Credential{
		Email:        r.requiredString("email"),
		UserID:       r.requiredString("userId"),
		PasswordHash: r.requiredString("passwordHash"),
		CreatedAt:    r.timeOrZero("createdAt"),
	}
	return c, r.err
}

// GetByEmail busca la credencial; domain.ErrNotFound si no existe.
func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	key := textutil.NormalizeEmail(email)
	doc, err := r.store.Get(ctx, repository.CollectionCredentials, key)
	if err != nil {
		return nil, err
	}
	return decodeOne(repository.CollectionCredentials, key, doc, decodeCredential)
}

// Create registra la credencial si el email no está en uso.
// Con backends sin DocumentCreator la comprobación y la escritura no son atómicas.
func (r *CredentialRepo) Create(ctx context.Context, c *entity.Credential) error {
	key := textutil.NormalizeEmail(c.Email)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	doc := repository.Document{
		"email":        key,
		"userId":       c.UserID,
		"passwordHash": c.PasswordHash,
		"createdAt":    c.CreatedAt.UTC(),
	}
	if creator, ok := r.store.(repository.DocumentCreator); ok {
		err := creator.Create(ctx, repository.CollectionCredentials, key, doc)
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}
	_, err := r.store.Get(ctx, repository.CollectionCredentials, key)
	switch {
	case err == nil:
		return domain.ErrEmailAlreadyExists
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}
	return r.store.Put(ctx, repository.CollectionCredentials, key, doc)
}

// Delete elimina la credencial del email.
func (r *CredentialRepo) Delete(ctx context.Context, email string) error {
	return r.store.Delete(ctx, repository.CollectionCredentials, textutil.NormalizeEmail(email))
}

// ListByUser devuelve las credenciales asociadas a un usuario.
func (r *CredentialRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Credential, error) {
	recs, err := r.store.List(ctx, repository.CollectionCredentials)
	if err != nil {
		return nil, err
	}
	var out []*entity.Credential
	for _, c := range decodeAll(r.log, repository.CollectionCredentials, recs, decodeCredential) {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
