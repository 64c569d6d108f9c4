package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/cache"
	"github.com/jhoicas/Taller-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

type world struct {
	store       *memory.DocumentStore
	profiles    *docstore.UserProfileRepo
	credentials *docstore.CredentialRepo
	inventory   *docstore.InventoryRepo
	repairs     *docstore.RepairRepo
	sales       *docstore.SaleRepo
	auth        *auth.AuthUseCase
	users       *usecase.UserUseCase
}

func newWorld(t *testing.T) *world {
	t.Helper()
	store := memory.NewDocumentStore()
	w := &world{
		store:       store,
		profiles:    docstore.NewUserProfileRepository(store, nil),
		credentials: docstore.NewCredentialRepository(store, nil),
		inventory:   docstore.NewInventoryRepository(store, nil),
		repairs:     docstore.NewRepairRepository(store, nil),
		sales:       docstore.NewSaleRepository(store, nil),
	}
	w.auth = auth.NewAuthUseCase(w.credentials, w.profiles, cache.NewRevocationList(cache.NewMemoryClient()),
		auth.JWTConfig{Secret: "s", ExpMinutes: 5}, logger.Nop())
	w.users = usecase.NewUserUseCase(w.profiles, w.credentials, w.auth, logger.Nop())
	return w
}

func (w *world) employee(t *testing.T, email string) *dto.UserResponse {
	t.Helper()
	u, err := w.users.CreateEmployee(context.Background(), dto.RegisterRequest{Email: email, Password: "contraseña1"})
	require.NoError(t, err)
	return u
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func TestProfile_SinDocumentoEsEmpleado(t *testing.T) {
	w := newWorld(t)
	out, err := w.users.Profile(context.Background(), entity.Session{ID: "s1", UserID: "u-sin-doc", Email: "x@y.mx", Authenticated: true})
	require.NoError(t, err)
	assert.Equal(t, "employee", out.Role)
	assert.Equal(t, "x@y.mx", out.Email)

	_, err = w.users.Profile(context.Background(), entity.Unauthenticated("s2"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateEmployee_CambiaEmailYPrivilegios(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	admin := w.employee(t, "jefa@taller.mx")
	emp := w.employee(t, "ana@taller.mx")

	newEmail := "Ana.Lopez@Taller.mx"
	on := true
	out, err := w.users.UpdateEmployee(ctx, admin.ID, emp.ID, dto.UpdateEmployeeRequest{Email: &newEmail, Privileged: &on})
	require.NoError(t, err)
	assert.Equal(t, "ana.lopez@taller.mx", out.Email)
	assert.Equal(t, "privileged", out.Role)

	// La credencial se movió: el email viejo ya no inicia sesión.
	_, err = w.auth.SignIn(ctx, dto.LoginRequest{Email: "ana@taller.mx", Password: "contraseña1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = w.auth.SignIn(ctx, dto.LoginRequest{Email: "ana.lopez@taller.mx", Password: "contraseña1"})
	assert.NoError(t, err)

	taken := "jefa@taller.mx"
	_, err = w.users.UpdateEmployee(ctx, admin.ID, emp.ID, dto.UpdateEmployeeRequest{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = w.users.UpdateEmployee(ctx, admin.ID, "nadie", dto.UpdateEmployeeRequest{Privileged: &on})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateEmployee_NoSeQuitaSusPrivilegios(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	admin := w.employee(t, "jefa@taller.mx")
	off := false
	_, err := w.users.UpdateEmployee(ctx, admin.ID, admin.ID, dto.UpdateEmployeeRequest{Privileged: &off})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteEmployee(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	admin := w.employee(t, "jefa@taller.mx")
	emp := w.employee(t, "ana@taller.mx")

	assert.ErrorIs(t, w.users.DeleteEmployee(ctx, admin.ID, admin.ID), domain.ErrConflict)
	require.NoError(t, w.users.DeleteEmployee(ctx, admin.ID, emp.ID))
	assert.ErrorIs(t, w.users.DeleteEmployee(ctx, admin.ID, emp.ID), domain.ErrUserNotFound)

	_, err := w.credentials.GetByEmail(ctx, "ana@taller.mx")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := w.users.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, admin.ID, list[0].ID)

	// El email queda libre para una cuenta nueva.
	w.employee(t, "ana@taller.mx")
}

// ── Ventas y resumen ──────────────────────────────────────────────────────────

func seedSale(t *testing.T, w *world, id, code string, total int64, at time.Time) {
	t.Helper()
	require.NoError(t, w.sales.Put(context.Background(), &entity.SaleRecord{
		ID: id, Quantity: 1, Code: code, UnitPrice: decimal.NewFromInt(total),
		ProductLabel: "Reparación: Moto G8", Timestamp: at, Total: decimal.NewFromInt(total),
	}))
}

type mockReports struct{ mock.Mock }

func (m *mockReports) InventoryReport(items []*entity.InventoryItem, at time.Time) ([]byte, error) {
	args := m.Called(items, at)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockReports) SaleReceipt(s *entity.SaleRecord, r *entity.Repair) ([]byte, error) {
	args := m.Called(s, r)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func TestSaleUseCase_ListYRecibo(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedSale(t, w, "r1", "F001", 500, day)
	seedSale(t, w, "r2", "F/002", 300, day.Add(time.Hour))

	reports := new(mockReports)
	uc := usecase.NewSaleUseCase(w.sales, w.repairs, reports, time.UTC)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)
	assert.Equal(t, "01/05/2024 13:00", list[0].TimestampText)

	// r2 no tiene reparación: el comprobante se genera sin ella.
	reports.On("SaleReceipt", mock.MatchedBy(func(s *entity.SaleRecord) bool { return s.ID == "r2" }), (*entity.Repair)(nil)).
		Return([]byte("%PDF"), nil).Once()
	name, data, err := uc.Receipt(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, "venta-F_002.pdf", name)
	assert.Equal(t, []byte("%PDF"), data)
	reports.AssertExpectations(t)

	_, _, err = uc.Receipt(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type summerFunc func(ctx context.Context, collection, field string) (decimal.Decimal, error)

func (f summerFunc) SumField(ctx context.Context, collection, field string) (decimal.Decimal, error) {
	return f(ctx, collection, field)
}

func TestSummary_CuentaColecciones(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	admin := w.employee(t, "jefa@taller.mx")
	w.employee(t, "ana@taller.mx")
	require.NoError(t, w.profiles.SetPrivileged(ctx, admin.ID, true))
	require.NoError(t, w.inventory.Put(ctx, &entity.InventoryItem{ID: "i1", Name: "Mica", Quantity: 4, Price: decimal.RequireFromString("25.50")}))
	require.NoError(t, w.store.Put(ctx, repository.CollectionRepairs, "r1", docstore.EncodeRepair(&entity.Repair{
		ID: "r1", Brand: "Moto", Model: "G8", Status: entity.RepairStatusDelivered,
	})))
	seedSale(t, w, "r1", "F001", 500, time.Now())
	seedSale(t, w, "r2", "F002", 250, time.Now())

	out, err := usecase.NewSummaryUseCase(w.inventory, w.profiles, w.repairs, w.sales, nil).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out.InventoryItems)
	assert.Equal(t, 4, out.InventoryUnits)
	assert.True(t, out.InventoryValue.Equal(decimal.NewFromInt(102)))
	assert.Equal(t, 2, out.Users)
	assert.Equal(t, 1, out.PrivilegedUsers)
	assert.Equal(t, map[string]int{"pendiente": 0, "reparacion": 0, "entregado": 1}, out.Repairs)
	assert.Equal(t, 2, out.Sales)
	assert.True(t, out.TotalSold.Equal(decimal.NewFromInt(750)))

	var asked string
	summer := summerFunc(func(_ context.Context, collection, field string) (decimal.Decimal, error) {
		asked = collection + "." + field
		return decimal.NewFromInt(999), nil
	})
	out, err = usecase.NewSummaryUseCase(w.inventory, w.profiles, w.repairs, w.sales, summer).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sales.total", asked)
	assert.True(t, out.TotalSold.Equal(decimal.NewFromInt(999)))
}

func TestSummary_ErrorDeLecturaCancela(t *testing.T) {
	w := newWorld(t)
	w.store.SetHook(memory.FailOn(memory.OpList, repository.CollectionRepairs))

	_, err := usecase.NewSummaryUseCase(w.inventory, w.profiles, w.repairs, w.sales, nil).Summary(context.Background())
	assert.ErrorIs(t, err, domain.ErrRecordRead)
	assert.True(t, errors.Is(err, memory.ErrInjected))
}
