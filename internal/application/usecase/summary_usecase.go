package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// SummaryUseCase resumen de la pantalla de administración.
type SummaryUseCase struct {
	inventory repository.InventoryRepository
	profiles  repository.UserProfileRepository
	repairs   repository.RepairRepository
	sales     repository.SaleRepository
	summer    repository.FieldSummer // nil: el total se suma en memoria
}

// NewSummaryUseCase construye el caso de uso. summer es opcional.
func NewSummaryUseCase(
	inventory repository.InventoryRepository,
	profiles repository.UserProfileRepository,
	repairs repository.RepairRepository,
	sales repository.SaleRepository,
	summer repository.FieldSummer,
) *SummaryUseCase {
	return &SummaryUseCase{inventory: inventory, profiles: profiles, repairs: repairs, sales: sales, summer: summer}
}

// Summary consulta las colecciones en paralelo; el primer error cancela el resto.
func (uc *SummaryUseCase) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	var (
		items   []*entity.InventoryItem
		users   []*entity.UserProfile
		repairs []*entity.Repair
		sales   []*entity.SaleRecord
		total   *decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { items, err = uc.inventory.List(gctx); return })
	g.Go(func() (err error) { users, err = uc.profiles.List(gctx); return })
	g.Go(func() (err error) { repairs, err = uc.repairs.List(gctx); return })
	g.Go(func() (err error) { sales, err = uc.sales.List(gctx); return })
	if uc.summer != nil {
		g.Go(func() error {
			sum, err := uc.summer.SumField(gctx, repository.CollectionSales, "total")
			if err != nil {
				return err
			}
			total = &sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.SummaryResponse{
		InventoryItems: len(items),
		InventoryValue: decimal.Zero,
		Users:          len(users),
		Repairs:        map[string]int{},
		Sales:          len(sales),
	}
	for _, it := range items {
		out.InventoryUnits += it.Quantity
		out.InventoryValue = out.InventoryValue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	for _, u := range users {
		if u.Role().IsPrivileged() {
			out.PrivilegedUsers++
		}
	}
	for _, st := range entity.RepairStatuses {
		out.Repairs[string(st)] = 0
	}
	for _, r := range repairs {
		out.Repairs[string(r.Status)]++
	}
	if total != nil {
		out.TotalSold = *total
	} else {
		out.TotalSold = decimal.Zero
		for _, s := range sales {
			out.TotalSold = out.TotalSold.Add(s.Total)
		}
	}
	return out, nil
}
