package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/bootstrap"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/cache"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/pkg/config"
	pkgjwt "github.com/jhoicas/Taller-api/pkg/jwt"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "taller-test"
	testPassword  = "contraseña1"
)

type server struct {
	t     *testing.T
	app   *fiber.App
	c     *bootstrap.Container
	store *memory.DocumentStore
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: "test", Name: "taller-test"},
		Store:     config.StoreConfig{Driver: config.StoreDriverMemory},
		JWT:       config.JWTConfig{Secret: testJWTSecret, Expiration: 60, Issuer: testIssuer},
		RateLimit: config.RateLimitConfig{Max: 3, Window: time.Minute},
		Report:    config.ReportConfig{BusinessName: "Taller de pruebas", Timezone: "UTC"},
	}
}

// newServer arma la API completa sobre el almacén en memoria.
func newServer(t *testing.T, roleWait time.Duration) *server {
	t.Helper()
	store := memory.NewDocumentStore()
	cfg := testConfig()
	c := bootstrap.NewWithStore(cfg, store, cache.NewMemoryClient(), logger.Nop())
	t.Cleanup(c.Close)

	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      c.Auth,
		Sessions:    c.Sessions,
		Navigation:  c.Navigation,
		RepairUC:    c.RepairUC,
		InventoryUC: c.InventoryUC,
		UserUC:      c.UserUC,
		SaleUC:      c.SaleUC,
		SummaryUC:   c.SummaryUC,
		Counter:     c.Cache,
		RateLimit:   cfg.RateLimit,
		RoleWait:    roleWait,
	})
	return &server{t: t, app: app, c: c, store: store}
}

// signUp registra una cuenta; privileged=true la promueve a administrador.
func (s *server) signUp(email string, privileged bool) string {
	s.t.Helper()
	ctx := context.Background()
	user, err := s.c.Auth.SignUp(ctx, dto.RegisterRequest{Email: email, Password: testPassword})
	require.NoError(s.t, err)
	if privileged {
		require.NoError(s.t, s.c.Profiles.SetPrivileged(ctx, user.ID, true))
	}
	return user.ID
}

// login inicia sesión y devuelve el header Authorization.
func (s *server) login(email string) string {
	s.t.Helper()
	out, err := s.c.Auth.SignIn(context.Background(), dto.LoginRequest{Email: email, Password: testPassword})
	require.NoError(s.t, err)
	return "Bearer " + out.Token
}

func (s *server) do(method, path, authHeader string, body any) *http.Response {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp).Code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: sin header Authorization → 401 MISSING_TOKEN.
func TestAuthMiddleware_SinToken(t *testing.T) {
	s := newServer(t, time.Second)
	resp := s.do(http.MethodGet, "/api/repairs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

// Caso 2: formato distinto de "Bearer <token>" → 401 INVALID_TOKEN.
func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	s := newServer(t, time.Second)
	resp := s.do(http.MethodGet, "/api/repairs", "Token abc", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

// Caso 3: token firmado con otro secreto → 401 INVALID_TOKEN.
func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	s := newServer(t, time.Second)
	tok, _, err := pkgjwt.Generate("otro-secreto", "u1", "a@b.mx", "s1", testIssuer, 5)
	require.NoError(t, err)
	resp := s.do(http.MethodGet, "/api/repairs", "Bearer "+tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

// Caso 4: después del logout el mismo token se rechaza como sesión cerrada.
func TestAuthMiddleware_TokenRevocadoTrasLogout(t *testing.T) {
	s := newServer(t, time.Second)
	s.signUp("ana@taller.mx", false)
	auth := s.login("ana@taller.mx")

	resp := s.do(http.MethodGet, "/api/repairs", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/auth/logout", auth, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/repairs", auth, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_REVOKED", errorCode(t, resp))
}

// Caso 5: token válido cuya sesión no conoce el Session Store (reinicio) → se restaura.
func TestAuthMiddleware_RestauraSesionDesconocida(t *testing.T) {
	s := newServer(t, time.Second)
	userID := s.signUp("jefa@taller.mx", true)
	tok, _, err := pkgjwt.Generate(testJWTSecret, userID, "jefa@taller.mx", "sesion-previa", testIssuer, 30)
	require.NoError(t, err)

	resp := s.do(http.MethodGet, "/api/session", "Bearer "+tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess := decode[dto.SessionResponse](t, resp)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "sesion-previa", sess.SessionID)
	assert.Equal(t, "privileged", sess.Role)
	assert.False(t, sess.RolePending)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireDestination
// ──────────────────────────────────────────────────────────────────────────────

// Caso 6: un empleado no entra a inventario ni a administración → 403.
func TestRequireDestination_EmpleadoBloqueado(t *testing.T) {
	s := newServer(t, time.Second)
	s.signUp("ana@taller.mx", false)
	auth := s.login("ana@taller.mx")

	for _, path := range []string{"/api/inventory", "/api/admin/summary", "/api/admin/employees"} {
		resp := s.do(http.MethodGet, path, auth, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Equal(t, "FORBIDDEN", errorCode(t, resp), path)
	}
	resp := s.do(http.MethodGet, "/api/repairs", auth, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "inicio es accesible para cualquier rol")
}

// Caso 7: privilegiado accede a inventario y administración → 200.
func TestRequireDestination_PrivilegiadoAccede(t *testing.T) {
	s := newServer(t, time.Second)
	s.signUp("jefa@taller.mx", true)
	auth := s.login("jefa@taller.mx")

	for _, path := range []string{"/api/inventory", "/api/admin/summary", "/api/admin/employees", "/api/repairs"} {
		resp := s.do(http.MethodGet, path, auth, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

// Caso 8: si el rol no se resuelve a tiempo, las pantallas privilegiadas responden 409
// y las demás se sirven.
func TestRequireDestination_RolPendiente(t *testing.T) {
	s := newServer(t, 50*time.Millisecond)
	s.signUp("jefa@taller.mx", true)

	release := make(chan struct{})
	s.store.SetHook(func(ctx context.Context, op memory.Op) error {
		if op.Kind == memory.OpGet && op.Collection == repository.CollectionUsers {
			select {
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	auth := s.login("jefa@taller.mx")

	resp := s.do(http.MethodGet, "/api/inventory", auth, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, "ROLE_PENDING", errorCode(t, resp))

	resp = s.do(http.MethodGet, "/api/repairs", auth, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	close(release)
	assert.Eventually(t, func() bool {
		return s.do(http.MethodGet, "/api/inventory", auth, nil).StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}
