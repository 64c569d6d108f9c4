package usecase

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/application/repair"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SaleUseCase consulta de ventas y comprobantes.
type SaleUseCase struct {
	sales   repository.SaleRepository
	repairs repository.RepairRepository
	reports ports.ReportGenerator
	loc     *time.Location
}

// NewSaleUseCase construye el caso de uso. loc es la zona del negocio.
func NewSaleUseCase(sales repository.SaleRepository, repairs repository.RepairRepository, reports ports.ReportGenerator, loc *time.Location) *SaleUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SaleUseCase{sales: sales, repairs: repairs, reports: reports, loc: loc}
}

// List devuelve las ventas, las más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context) ([]dto.SaleResponse, error) {
	sales, err := uc.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].Timestamp.After(sales[j].Timestamp) })
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, repair.SaleToResponse(s, uc.loc))
	}
	return out, nil
}

// Get obtiene la venta de una reparación (la clave es el ID de la reparación).
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.sales.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := repair.SaleToResponse(s, uc.loc)
	return &resp, nil
}

// Receipt genera el comprobante PDF. Si la reparación ya no existe el comprobante sale sin sus datos.
func (uc *SaleUseCase) Receipt(ctx context.Context, id string) (string, []byte, error) {
	s, err := uc.sales.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	var rep *entity.Repair
	if r, err := uc.repairs.Get(ctx, id); err == nil {
		rep = r
	} else if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInvalidDocument) {
		return "", nil, err
	}
	data, err := uc.reports.SaleReceipt(s, rep)
	if err != nil {
		return "", nil, err
	}
	return ReceiptFileName(s), data, nil
}

// ReceiptFileName nombre del comprobante: venta-<código>.pdf.
func ReceiptFileName(s *entity.SaleRecord) string {
	code := unsafeFileChars.ReplaceAllString(s.Code, "_")
	if code == "" {
		code = unsafeFileChars.ReplaceAllString(s.ID, "_")
	}
	return "venta-" + code + ".pdf"
}
