// Package inventory contiene los casos de uso de la pantalla de inventario:
// alta, edición, búsqueda, consulta por código escaneado y reporte PDF.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/barcode"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/textutil"
)

// ReportFilePrefix prefijo del nombre del PDF exportado.
const ReportFilePrefix = "inventarioMLP"

// UseCase casos de uso de inventario.
type UseCase struct {
	repo    repository.InventoryRepository
	reports ports.ReportGenerator
	loc     *time.Location
	log     *logger.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso. loc es la zona del negocio (fecha del nombre del reporte).
func NewUseCase(repo repository.InventoryRepository, reports ports.ReportGenerator, loc *time.Location, log *logger.Logger) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, reports: reports, loc: loc, log: log.Named("inventory"), now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// List devuelve el inventario ordenado por nombre.
func (uc *UseCase) List(ctx context.Context) ([]dto.InventoryItemResponse, error) {
	items, err := uc.sorted(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// Get obtiene un artículo por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.InventoryItemResponse, error) {
	it, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(it)
	return &resp, nil
}

// Create da de alta un artículo. El código, si viene, debe ser único y legible por el escáner.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	now := uc.now().UTC()
	it := &entity.InventoryItem{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(in.Name),
		Code:       strings.TrimSpace(in.Code),
		Quantity:   in.Quantity,
		Price:      in.Price,
		ImageURL:   strings.TrimSpace(in.ImageURL),
		BarcodeURL: strings.TrimSpace(in.BarcodeURL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.validate(ctx, it); err != nil {
		return nil, err
	}
	if err := uc.repo.Put(ctx, it); err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", it.ID).Str("code", it.Code).Msg("artículo creado")
	resp := toResponse(it)
	return &resp, nil
}

// Update aplica los campos presentes en la solicitud.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	it, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Code != nil {
		it.Code = strings.TrimSpace(*in.Code)
	}
	if in.Quantity != nil {
		it.Quantity = *in.Quantity
	}
	if in.Price != nil {
		it.Price = *in.Price
	}
	if in.ImageURL != nil {
		it.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.BarcodeURL != nil {
		it.BarcodeURL = strings.TrimSpace(*in.BarcodeURL)
	}
	it.UpdatedAt = uc.now().UTC()
	if err := uc.validate(ctx, it); err != nil {
		return nil, err
	}
	if err := uc.repo.Put(ctx, it); err != nil {
		return nil, err
	}
	resp := toResponse(it)
	return &resp, nil
}

// Delete elimina un artículo; ErrNotFound si no existe.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.repo.Get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Search filtra por nombre (contiene) o por prefijo de código, sin distinguir mayúsculas ni acentos.
// Con q vacío devuelve todo.
func (uc *UseCase) Search(ctx context.Context, q string) ([]dto.InventoryItemResponse, error) {
	items, err := uc.sorted(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return toResponses(items), nil
	}
	out := make([]*entity.InventoryItem, 0, len(items))
	for _, it := range items {
		if textutil.ContainsFold(it.Name, q) || textutil.HasPrefixFold(it.Code, q) {
			out = append(out, it)
		}
	}
	return toResponses(out), nil
}

// LookupCode busca el artículo cuyo código coincide con el leído por el escáner.
func (uc *UseCase) LookupCode(ctx context.Context, code string, formats []barcode.Format) (*dto.ScanLookupResponse, error) {
	code = strings.TrimSpace(code)
	format, err := barcode.Match(code, formats)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidBarcode, err)
	}
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.Code == code {
			return &dto.ScanLookupResponse{Code: code, Format: string(format), Item: toResponse(it)}, nil
		}
	}
	return nil, fmt.Errorf("%w: código %q", domain.ErrNotFound, code)
}

// Scan pide permiso al escáner, lee un código y lo busca en el inventario.
func (uc *UseCase) Scan(ctx context.Context, scanner ports.Scanner, formats []barcode.Format) (*dto.ScanLookupResponse, error) {
	if len(formats) == 0 {
		formats = barcode.DefaultFormats
	}
	granted, err := scanner.RequestPermission(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrScanPermission, err)
	}
	if !granted {
		return nil, domain.ErrScanPermission
	}
	code, _, err := scanner.Scan(ctx, formats)
	if err != nil {
		if errors.Is(err, domain.ErrScanCancelled) || errors.Is(err, domain.ErrInvalidBarcode) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrScanCancelled, err)
	}
	return uc.LookupCode(ctx, code, formats)
}

// ExportPDF genera el reporte de inventario. Devuelve el nombre de archivo (inventarioMLPddmmyyyy.pdf).
func (uc *UseCase) ExportPDF(ctx context.Context) (string, []byte, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return "", nil, err
	}
	now := uc.now().In(uc.loc)
	data, err := uc.reports.InventoryReport(items, now)
	if err != nil {
		return "", nil, err
	}
	return ReportFileName(now), data, nil
}

// ReportFileName nombre del PDF para la fecha indicada.
func ReportFileName(t time.Time) string {
	return ReportFilePrefix + t.Format("02012006") + ".pdf"
}

func (uc *UseCase) sorted(ctx context.Context) ([]*entity.InventoryItem, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return textutil.Fold(items[i].Name) < textutil.Fold(items[j].Name)
	})
	return items, nil
}

func (uc *UseCase) validate(ctx context.Context, it *entity.InventoryItem) error {
	if it.Name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if it.Quantity < 0 {
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if it.Price.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if it.Code == "" {
		return nil
	}
	if _, err := barcode.Match(it.Code, barcode.DefaultFormats); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidBarcode, err)
	}
	items, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, other := range items {
		if other.ID != it.ID && other.Code == it.Code {
			return fmt.Errorf("%w: el código %q ya está asignado", domain.ErrDuplicate, it.Code)
		}
	}
	return nil
}

func toResponse(it *entity.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:         it.ID,
		Name:       it.Name,
		Code:       it.Code,
		Quantity:   it.Quantity,
		Price:      it.Price,
		ImageURL:   it.ImageURL,
		BarcodeURL: it.BarcodeURL,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
}

func toResponses(items []*entity.InventoryItem) []dto.InventoryItemResponse {
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toResponse(it))
	}
	return out
}
