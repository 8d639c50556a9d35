// Package pdf implementa la generación del reporte de stock bajo en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de tienda  │  Fecha de generación           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Variante | Stock | Umbral | Estado | Valor    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: valorización del stock listado                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/backoffice-api/internal/application/dto"
	appinventory "github.com/tu-usuario/backoffice-api/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appinventory.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateLowStockPDF genera el reporte y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLowStockPDF(
	_ context.Context,
	storeName string,
	items []dto.LowStockItemDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Stock Bajo", true).
		WithAuthor(storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(storeName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	total := decimal.Zero
	for _, it := range items {
		m.AddRows(tableDetailRow(it))
		total = total.Add(it.StockValue)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(len(items), total))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y fecha de generación (der).
func headerRow(storeName string) core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")
	return row.New(14).Add(
		col.New(8).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de stock bajo", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 9, Top: 2, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Align: align.Right}
	return row.New(7).Add(
		col.New(2).Add(text.New("SKU", header)),
		col.New(4).Add(text.New("Variante", header)),
		col.New(1).Add(text.New("Stock", headerRight)),
		col.New(1).Add(text.New("Umbral", headerRight)),
		col.New(2).Add(text.New("Estado", header)),
		col.New(2).Add(text.New("Valor", headerRight)),
	)
}

func tableDetailRow(it dto.LowStockItemDTO) core.Row {
	cell := props.Text{Size: 8}
	cellRight := props.Text{Size: 8, Align: align.Right}
	status := props.Text{Size: 8}
	if it.StockStatus == "OutOfStock" {
		status.Color = colorAlert
		status.Style = fontstyle.Bold
	}
	return row.New(6).Add(
		col.New(2).Add(text.New(it.SKU, cell)),
		col.New(4).Add(text.New(it.Name, cell)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", it.StockQuantity), cellRight)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", it.EffectiveThreshold), cellRight)),
		col.New(2).Add(text.New(it.StockStatus, status)),
		col.New(2).Add(text.New(it.StockValue.StringFixed(2), cellRight)),
	)
}

func totalsRow(count int, total decimal.Decimal) core.Row {
	return row.New(8).Add(
		col.New(8).Add(
			text.New(fmt.Sprintf("%d variantes por debajo del umbral", count), props.Text{
				Size: 9, Color: colorGray, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Valor total: "+total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1, Color: colorPrimary,
			}),
		),
	)
}
