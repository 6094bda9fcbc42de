// Package pdf genera el kardex de un producto en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + unidad   │  Contenedor + fecha emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Motivo | Entrada | Salida | Saldo | P.Unit   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Saldo final                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
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

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ inventory.KardexPDFGenerator = (*KardexPDFGenerator)(nil)

// KardexPDFGenerator implementa inventory.KardexPDFGenerator usando Maroto v2.
type KardexPDFGenerator struct {
	now func() time.Time
}

// NewKardexPDFGenerator construye el generador.
func NewKardexPDFGenerator() *KardexPDFGenerator {
	return &KardexPDFGenerator{now: time.Now}
}

// GenerateKardexPDF genera el PDF y devuelve sus bytes. container nil = todos los contenedores.
func (g *KardexPDFGenerator) GenerateKardexPDF(
	_ context.Context,
	product *entity.Product,
	container *entity.Container,
	entries []entity.KardexEntry,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+product.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, container, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(entries)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(entries))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(product *entity.Product, container *entity.Container, at time.Time) core.Row {
	where := "Todos los contenedores"
	if container != nil {
		where = "Contenedor: " + nonEmpty(container.Name, container.ID)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("KARDEX", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 5,
			}),
			text.New("Unidad: "+nonEmpty(product.UnitMeasure, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(where, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 5,
			}),
			text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Motivo", 3, align.Left),
		h("Entrada", 2, align.Right),
		h("Salida", 2, align.Right),
		h("Saldo", 2, align.Right),
		h("P. Unit.", 1, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(entries []entity.KardexEntry) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row.New(6).Add(
			cell(e.Date.Format("02/01/2006"), 2, align.Left),
			cell(e.Reason, 3, align.Left),
			cell(formatQty(e.Entry), 2, align.Right),
			cell(formatQty(e.Exit), 2, align.Right),
			cell(formatQty(e.Balance), 2, align.Right),
			cell("$"+formatMoney(e.UnitPrice.StringFixed(0)), 1, align.Right),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el periodo.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	return rows
}

func totalsRow(entries []entity.KardexEntry) core.Row {
	in, out, balance := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range entries {
		in = in.Add(e.Entry)
		out = out.Add(e.Exit)
		balance = e.Balance
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Total entradas:"),
			label("Total salidas:"),
			text.New("SALDO FINAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2,
			}),
		),
		col.New(3).Add(
			value(formatQty(in)),
			value(formatQty(out)),
			text.New(formatQty(balance), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

// formatQty cantidad con miles y hasta dos decimales separados por coma. Cero se muestra vacío.
func formatQty(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	s := d.Round(2).String()
	intPart, frac, _ := strings.Cut(s, ".")
	out := formatMoney(intPart)
	if frac != "" {
		out += "," + frac
	}
	return out
}
