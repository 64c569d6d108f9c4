package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0.00",
		"250":       "250.00",
		"1234.5":    "1,234.50",
		"1000000":   "1,000,000.00",
		"-4500.126": "-4,500.13",
		"999.999":   "1,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestInventoryReport_GeneraPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Multiservicios Los Peques", time.UTC)
	items := []*entity.InventoryItem{
		{ID: "i1", Name: "Pantalla A52", Code: "PAN-A52", Quantity: 2, Price: decimal.RequireFromString("1450")},
		{ID: "i2", Name: "Mica", Code: "4006381333931", Quantity: 10, Price: decimal.RequireFromString("25.5")},
	}
	out, err := g.InventoryReport(items, time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := g.InventoryReport(nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}

func TestSaleReceipt_ConYSinReparacion(t *testing.T) {
	g := NewMarotoPDFGenerator("Multiservicios Los Peques", nil)
	reg := time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC)
	rep := &entity.Repair{
		ID: "r1", Brand: "Samsung", Model: "A52", Folio: "F001",
		CustomerName: "Luis", RegistrationDate: &reg,
		AdvancePaid: decimal.NewNullDecimal(decimal.NewFromInt(100)),
		FinalCost:   decimal.NewNullDecimal(decimal.NewFromInt(250)),
		TotalCost:   decimal.NewNullDecimal(decimal.NewFromInt(500)),
	}
	sale := entity.NewSaleFromRepair(rep, time.Date(2024, 5, 2, 17, 0, 0, 0, time.UTC))

	out, err := g.SaleReceipt(sale, rep)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	// Folio con caracteres fuera de Code128: se imprime como QR.
	sale.Code = "Folio ñ-7"
	out, err = g.SaleReceipt(sale, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = g.SaleReceipt(nil, nil)
	assert.Error(t, err)
}
