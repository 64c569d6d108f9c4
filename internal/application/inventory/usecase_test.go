package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/Taller-api/internal/infrastructure/scanner"
	"github.com/jhoicas/Taller-api/pkg/barcode"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

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

func newUseCase(t *testing.T, reports *mockReports) *inventory.UseCase {
	t.Helper()
	repo := docstore.NewInventoryRepository(memory.NewDocumentStore(), logger.Nop())
	return inventory.NewUseCase(repo, reports, time.UTC, logger.Nop())
}

func create(t *testing.T, uc *inventory.UseCase, name, code string) *dto.InventoryItemResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.CreateInventoryItemRequest{
		Name: name, Code: code, Quantity: 3, Price: decimal.RequireFromString("149.90"),
	})
	require.NoError(t, err)
	return out
}

func TestCreate_ValidaYPersiste(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, nil)

	item := create(t, uc, "  Pantalla A52 ", "PAN-A52")
	assert.Equal(t, "Pantalla A52", item.Name)

	got, err := uc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("149.9")))

	_, err = uc.Create(ctx, dto.CreateInventoryItemRequest{Name: "Otro", Code: "PAN-A52"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CreateInventoryItemRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateInventoryItemRequest{Name: "X", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateInventoryItemRequest{Name: "X", Price: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateInventoryItemRequest{Name: "X", Code: strings.Repeat("9", 3000)})
	assert.ErrorIs(t, err, domain.ErrInvalidBarcode)
}

func TestUpdate_CamposParciales(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, nil)
	item := create(t, uc, "Batería", "BAT-1")

	qty := 10
	out, err := uc.Update(ctx, item.ID, dto.UpdateInventoryItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Quantity)
	assert.Equal(t, "Batería", out.Name)
	assert.Equal(t, "BAT-1", out.Code)

	// Conservar su propio código no es duplicado.
	same := "BAT-1"
	_, err = uc.Update(ctx, item.ID, dto.UpdateInventoryItemRequest{Code: &same})
	require.NoError(t, err)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateInventoryItemRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, nil)
	item := create(t, uc, "Cable", "")

	require.NoError(t, uc.Delete(ctx, item.ID))
	_, err := uc.Get(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, item.ID), domain.ErrNotFound)
}

func TestSearch_NombreOPrefijoDeCodigo(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, nil)
	create(t, uc, "Batería iPhone", "BAT-IP")
	create(t, uc, "Cargador", "CAR-1")
	create(t, uc, "Pantalla", "PAN-BAT")

	res, err := uc.Search(ctx, "bateria")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Batería iPhone", res[0].Name)

	res, err = uc.Search(ctx, "car")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Cargador", res[0].Name)

	all, err := uc.Search(ctx, "  ")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Batería iPhone", all[0].Name, "orden alfabético")
}

func TestLookupCode_YScanManual(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, nil)
	item := create(t, uc, "Mica", "4006381333931")

	out, err := uc.LookupCode(ctx, "4006381333931", []barcode.Format{barcode.FormatEAN13})
	require.NoError(t, err)
	assert.Equal(t, item.ID, out.Item.ID)
	assert.Equal(t, "EAN_13", out.Format)

	_, err = uc.LookupCode(ctx, "4006381333932", []barcode.Format{barcode.FormatEAN13})
	assert.ErrorIs(t, err, domain.ErrInvalidBarcode)

	_, err = uc.LookupCode(ctx, "NO-EXISTE", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err = uc.Scan(ctx, scanner.Manual("4006381333931"), nil)
	require.NoError(t, err)
	assert.Equal(t, item.ID, out.Item.ID)

	_, err = uc.Scan(ctx, scanner.Manual(""), nil)
	assert.ErrorIs(t, err, domain.ErrScanCancelled)
}

type deniedScanner struct{ scanner.Manual }

func (deniedScanner) RequestPermission(context.Context) (bool, error) { return false, nil }

func TestScan_PermisoDenegado(t *testing.T) {
	uc := newUseCase(t, nil)
	_, err := uc.Scan(context.Background(), deniedScanner{}, nil)
	assert.ErrorIs(t, err, domain.ErrScanPermission)
}

func TestExportPDF_NombreConFecha(t *testing.T) {
	ctx := context.Background()
	reports := new(mockReports)
	uc := newUseCase(t, reports)
	at := time.Date(2024, 3, 7, 23, 30, 0, 0, time.UTC)
	uc.WithClock(func() time.Time { return at })
	create(t, uc, "Mica", "")

	reports.On("InventoryReport", mock.MatchedBy(func(items []*entity.InventoryItem) bool {
		return len(items) == 1 && items[0].Name == "Mica"
	}), mock.MatchedBy(func(got time.Time) bool { return got.Equal(at) })).Return([]byte("%PDF-1.4"), nil).Once()

	name, data, err := uc.ExportPDF(ctx)
	require.NoError(t, err)
	assert.Equal(t, "inventarioMLP07032024.pdf", name)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	reports.AssertExpectations(t)

	reports.On("InventoryReport", mock.Anything, mock.Anything).Return(nil, errors.New("sin fuente")).Once()
	_, _, err = uc.ExportPDF(ctx)
	assert.Error(t, err)
}

func TestReportFileName_ZonaDelNegocio(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	// 02:00 UTC del 8 de marzo es todavía 7 de marzo en CST.
	at := time.Date(2024, 3, 8, 2, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "inventarioMLP07032024.pdf", inventory.ReportFileName(at))
}
