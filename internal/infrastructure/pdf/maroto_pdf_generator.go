// Package pdf genera los documentos del taller con Maroto v2.
//
// Reporte de inventario (carta horizontal):
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                    Reporte de inventario                     │
//	│  Negocio                                   Fecha de emisión  │
//	│  ID | Nombre | Código | Cantidad | Precio   (cabecera verde) │
//	│  ... una fila por artículo ...                               │
//	│  Artículos / unidades / valor total                          │
//	└──────────────────────────────────────────────────────────────┘
//
// Comprobante de venta (carta vertical): negocio, folio, cliente, detalle,
// total y código de barras del folio para localizar la venta con el escáner.
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/pkg/barcode"
)

var _ ports.ReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorHeader = &props.Color{Red: 22, Green: 160, Blue: 133}
	colorBlack  = &props.Color{Red: 0, Green: 0, Blue: 0}
	colorGray   = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite  = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "02/01/2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	businessName string
	loc          *time.Location
}

// NewMarotoPDFGenerator construye el generador. loc es la zona con que se imprimen las fechas.
func NewMarotoPDFGenerator(businessName string, loc *time.Location) *MarotoPDFGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &MarotoPDFGenerator{businessName: businessName, loc: loc}
}

// InventoryReport genera el reporte de inventario y devuelve sus bytes.
func (g *MarotoPDFGenerator) InventoryReport(items []*entity.InventoryItem, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Reporte de inventario", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(titleRow("Reporte de inventario"))
	m.AddRows(subtitleRow(g.businessName, "Emitido: "+generatedAt.In(g.loc).Format(dateLayout)))
	m.AddRows(line.NewRow(4))
	m.AddRows(inventoryHeaderRow())
	m.AddRows(inventoryRows(items)...)
	m.AddRows(line.NewRow(4))
	m.AddRows(inventoryTotalsRow(items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de inventario: %w", err)
	}
	return doc.GetBytes(), nil
}

// SaleReceipt genera el comprobante de una venta. repair puede ser nil.
func (g *MarotoPDFGenerator) SaleReceipt(sale *entity.SaleRecord, repair *entity.Repair) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("pdf: venta nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Comprobante de venta "+sale.Code, true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(receiptHeaderRow(g.businessName, sale, g.loc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorHeader, Thickness: 0.5}))
	if repair != nil {
		m.AddRows(customerRow(repair, g.loc))
		m.AddRows(line.NewRow(1, props.Line{Color: colorHeader, Thickness: 0.3}))
	}
	m.AddRows(saleHeaderRow())
	m.AddRows(saleDetailRow(sale))
	m.AddRows(line.NewRow(3))
	m.AddRows(saleTotalsRow(sale, repair))
	m.AddRows(line.NewRow(6))
	m.AddRows(codeRow(sale.Code))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones: inventario ─────────────────────────────────────────────────────

func titleRow(title string) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 18, Align: align.Center, Top: 2}),
	))
}

func subtitleRow(left, right string) core.Row {
	return row.New(7).Add(
		col.New(8).Add(text.New(left, props.Text{Size: 9, Color: colorGray, Top: 1})),
		col.New(4).Add(text.New(right, props.Text{Size: 9, Color: colorGray, Align: align.Right, Top: 1})),
	)
}

var inventoryColumns = []struct {
	label string
	size  int
	align align.Type
}{
	{"ID", 3, align.Left},
	{"Nombre", 4, align.Left},
	{"Código", 2, align.Left},
	{"Cantidad", 1, align.Center},
	{"Precio", 2, align.Right},
}

var cellBorder = &props.Cell{BorderType: border.Full, BorderColor: colorBlack, BorderThickness: 0.5}

// inventoryHeaderRow: cabecera de la tabla con fondo verde y texto blanco.
func inventoryHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(inventoryColumns))
	for _, c := range inventoryColumns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: c.align, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{
		BackgroundColor: colorHeader, BorderType: border.Full, BorderColor: colorBlack, BorderThickness: 0.5,
	})
}

// inventoryRows: una fila por artículo.
func inventoryRows(items []*entity.InventoryItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		values := []string{
			it.ID,
			it.Name,
			it.Code,
			fmt.Sprintf("%d", it.Quantity),
			"$" + formatMoney(it.Price),
		}
		cols := make([]core.Col, 0, len(values))
		for i, v := range values {
			c := inventoryColumns[i]
			cols = append(cols, col.New(c.size).Add(text.New(v, props.Text{
				Size: 10, Align: c.align, Top: 1.5, Left: 1, Right: 1,
			})))
		}
		rows = append(rows, row.New(7).Add(cols...).WithStyle(cellBorder))
	}
	return rows
}

func inventoryTotalsRow(items []*entity.InventoryItem) core.Row {
	units := 0
	value := decimal.Zero
	for _, it := range items {
		units += it.Quantity
		value = value.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	summary := fmt.Sprintf("Artículos: %d   |   Unidades: %d   |   Valor del inventario: $%s",
		len(items), units, formatMoney(value))
	return row.New(8).Add(col.New(12).Add(
		text.New(summary, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	))
}

// ── Secciones: comprobante ────────────────────────────────────────────────────

func receiptHeaderRow(business string, sale *entity.SaleRecord, loc *time.Location) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(business, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorHeader, Top: 1}),
			text.New("Comprobante de venta", props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FOLIO", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorHeader, Top: 1}),
			text.New(sale.Code, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Fecha: "+sale.Timestamp.In(loc).Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(r *entity.Repair, loc *time.Location) core.Row {
	received := "—"
	if r.RegistrationDate != nil {
		received = r.RegistrationDate.In(loc).Format(dateLayout)
	}
	return row.New(16).Add(col.New(12).Add(
		text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorHeader, Top: 1}),
		text.New(nonEmpty(r.CustomerName, "Cliente de mostrador"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
		text.New(fmt.Sprintf("Tel: %s   |   Técnico: %s   |   Recibido: %s",
			nonEmpty(r.ContactNumber, "—"),
			nonEmpty(r.Technician, "—"),
			received,
		), props.Text{Size: 8, Top: 11, Color: colorGray}),
	))
}

func saleHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio unit.", 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func saleDetailRow(s *entity.SaleRecord) core.Row {
	return row.New(8).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", s.Quantity), props.Text{Size: 9, Align: align.Center, Top: 2})),
		col.New(6).Add(text.New(s.ProductLabel, props.Text{Size: 9, Top: 2, Left: 1})),
		col.New(2).Add(text.New("$"+formatMoney(s.UnitPrice), props.Text{Size: 9, Align: align.Right, Top: 2, Right: 1})),
		col.New(2).Add(text.New("$"+formatMoney(s.Total), props.Text{Size: 9, Align: align.Right, Top: 2, Right: 1})),
	).WithStyle(cellBorder)
}

// saleTotalsRow: total y, si la reparación tuvo anticipo, el saldo liquidado al entregar.
func saleTotalsRow(s *entity.SaleRecord, r *entity.Repair) core.Row {
	labels := []string{"TOTAL:"}
	values := []string{"$" + formatMoney(s.Total)}
	if r != nil && r.AdvancePaid.Valid && r.AdvancePaid.Decimal.IsPositive() {
		labels = append(labels, "Anticipo:", "Saldo al entregar:")
		values = append(values,
			"$"+formatMoney(r.AdvancePaid.Decimal),
			"$"+formatMoney(s.Total.Sub(r.AdvancePaid.Decimal)),
		)
	}
	labelCol := col.New(3)
	valueCol := col.New(3)
	for i := range labels {
		top := float64(i * 6)
		labelCol.Add(text.New(labels[i], props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: top}))
		valueCol.Add(text.New(values[i], props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: top}))
	}
	return row.New(float64(6*len(labels)+2)).Add(col.New(6), labelCol, valueCol)
}

// codeRow: Code128 cuando el folio es ASCII imprimible; si no, QR.
func codeRow(value string) core.Row {
	var c core.Component
	if barcode.Validate(barcode.FormatCode128, value) == nil {
		c = code.NewBar(value, props.Barcode{Percent: 80, Center: true})
	} else {
		c = code.NewQr(value, props.Rect{Percent: 90, Center: true})
	}
	return row.New(25).Add(
		col.New(3),
		col.New(6).Add(c),
		col.New(3),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con separador de miles y dos decimales: 1234.5 -> "1,234.50".
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+1)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(append(buf, frac...))
}
