package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Taller-api/internal/infrastructure/migrations"
	"github.com/jhoicas/Taller-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

func setupStore(t *testing.T) *sqlite.DocumentStore {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db, migrations.DialectSQLite, nil))
	return sqlite.NewDocumentStore(db)
}

func TestDocumentStore_SQLite_CRUD(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	require.NoError(t, s.Put(ctx, "repairs", "r1", repository.Document{"status": "pendiente", "brand": "LG", "finalCost": 250}))
	require.NoError(t, s.Update(ctx, "repairs", "r1", repository.Document{"status": "entregado"}))

	doc, err := s.Get(ctx, "repairs", "r1")
	require.NoError(t, err)
	assert.Equal(t, "entregado", doc["status"])
	assert.Equal(t, "LG", doc["brand"])
	assert.Equal(t, json.Number("250"), doc["finalCost"])

	assert.ErrorIs(t, s.Update(ctx, "repairs", "nope", repository.Document{"status": "x"}), domain.ErrNotFound)
	assert.ErrorIs(t, s.Create(ctx, "repairs", "r1", repository.Document{}), domain.ErrDuplicate)

	require.NoError(t, s.Delete(ctx, "repairs", "r1"))
	_, err = s.Get(ctx, "repairs", "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SQLite_RepositoriosTipados(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	creds := docstore.NewCredentialRepository(s, logger.Nop())
	require.NoError(t, creds.Create(ctx, &entity.Credential{Email: "Ana@Taller.mx", UserID: "u1", PasswordHash: "h"}))
	assert.ErrorIs(t, creds.Create(ctx, &entity.Credential{Email: "ana@taller.mx", UserID: "u2", PasswordHash: "h"}), domain.ErrEmailAlreadyExists)

	c, err := creds.GetByEmail(ctx, "ANA@taller.mx")
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.False(t, c.CreatedAt.IsZero(), "la fecha sobrevive el viaje por JSON")

	users := docstore.NewUserProfileRepository(s, logger.Nop())
	require.NoError(t, users.Put(ctx, &entity.UserProfile{ID: "u1", Email: "ana@taller.mx"}))
	p, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEmployee, p.Role())
}
