package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func TestParseRepairStatus_AceptaEtiquetasYValores(t *testing.T) {
	cases := map[string]entity.RepairStatus{
		"pendiente":  entity.RepairStatusPending,
		"Pendiente":  entity.RepairStatusPending,
		"Reparación": entity.RepairStatusInRepair,
		"reparacion": entity.RepairStatusInRepair,
		"in_repair":  entity.RepairStatusInRepair,
		"ENTREGADO":  entity.RepairStatusDelivered,
		"delivered":  entity.RepairStatusDelivered,
	}
	for in, want := range cases {
		got, err := entity.ParseRepairStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := entity.ParseRepairStatus("cancelado")
	assert.Error(t, err)
}

func TestNewSaleFromRepair_UsaFolioYMontos(t *testing.T) {
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	r := &entity.Repair{
		ID:        "rep-1",
		Brand:     "Samsung",
		Model:     "A52",
		Folio:     "F001",
		FinalCost: decimal.NewNullDecimal(decimal.NewFromInt(250)),
		TotalCost: decimal.NewNullDecimal(decimal.NewFromInt(500)),
	}
	sale := entity.NewSaleFromRepair(r, now)

	assert.Equal(t, "rep-1", sale.ID)
	assert.Equal(t, 1, sale.Quantity)
	assert.Equal(t, "F001", sale.Code)
	assert.True(t, sale.UnitPrice.Equal(decimal.NewFromInt(250)))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Reparación: Samsung A52", sale.ProductLabel)
	assert.Equal(t, now, sale.Timestamp)
}

func TestNewSaleFromRepair_SinFolioNiMontos(t *testing.T) {
	r := &entity.Repair{ID: "rep-2", Brand: "Moto", Model: "G8"}
	sale := entity.NewSaleFromRepair(r, time.Now())

	assert.Equal(t, "rep-2", sale.Code)
	assert.True(t, sale.UnitPrice.IsZero())
	assert.True(t, sale.Total.IsZero())
}

func TestRoleFromFlag(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, entity.RolePrivileged, entity.RoleFromFlag(&yes))
	assert.Equal(t, entity.RoleEmployee, entity.RoleFromFlag(&no))
	assert.Equal(t, entity.RoleEmployee, entity.RoleFromFlag(nil))
	assert.False(t, entity.RoleUnknown.Known())

	var p *entity.UserProfile
	assert.Equal(t, entity.RoleEmployee, p.Role())
}
