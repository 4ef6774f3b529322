// Package pdf genera el estado de conciliación de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Beneficiario + ID   │  Estado + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total | Distribuido | Saldo | Avance               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR GUÍA: N° guía + fecha, tabla N° factura | Monto,        │
//	│            subtotal de la guía                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: fecha de emisión                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/reconciliation"
	"github.com/jhoicas/Pedidos-api/pkg/money"
)

// Verificar en tiempo de compilación que el generador cumple el puerto.
var _ ports.StatementGenerator = (*StatementGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDanger  = &props.Color{Red: 176, Green: 32, Blue: 32}
)

var statusLabels = map[entity.OrderStatus]string{
	entity.OrderStatusPending:    "PENDIENTE",
	entity.OrderStatusInProgress: "EN PROCESO",
	entity.OrderStatusCompleted:  "COMPLETADO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// StatementGenerator implementa ports.StatementGenerator usando Maroto v2.
type StatementGenerator struct {
	money *money.Formatter
	title string
	now   func() time.Time
}

// NewStatementGenerator construye el generador. title va como autor y encabezado del documento.
func NewStatementGenerator(formatter *money.Formatter, title string) *StatementGenerator {
	return &StatementGenerator{money: formatter, title: title, now: time.Now}
}

// OrderStatement genera el PDF y devuelve sus bytes.
func (g *StatementGenerator) OrderStatement(order reconciliation.OrderDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de conciliación "+order.ID, true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(order.Guides) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("El pedido no tiene guías registradas.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, gv := range order.Guides {
		m.AddRows(g.guideRows(gv)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Emitido el "+g.now().Format("02/01/2006 15:04"), props.Text{
			Size: 7, Color: colorGray, Top: 1,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: beneficiario + ID (izq) y estado + fecha (der).
func (g *StatementGenerator) headerRow(order reconciliation.OrderDetail) core.Row {
	status := statusLabels[order.Status]
	if status == "" {
		status = string(order.Status)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(order.Beneficiary, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido: "+order.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CONCILIACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+formatDate(order.Date), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRow: total, distribuido, saldo y avance en cuatro columnas.
func (g *StatementGenerator) summaryRow(order reconciliation.OrderDetail) core.Row {
	cell := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Color: color, Top: 6, Align: align.Center}),
		)
	}
	balanceColor := colorPrimary
	if order.Balance.IsNegative() {
		balanceColor = colorDanger
	}
	return row.New(14).Add(
		cell("MONTO TOTAL", g.money.Format(order.TotalAmount), colorPrimary),
		cell("DISTRIBUIDO", g.money.Format(order.Distributed), colorPrimary),
		cell("SALDO", g.money.Format(order.Balance), balanceColor),
		cell("AVANCE", fmt.Sprintf("%d%%", order.Progress), colorPrimary),
	)
}

// guideRows: cabecera de la guía, una fila por factura y el subtotal.
func (g *StatementGenerator) guideRows(gv reconciliation.GuideView) []core.Row {
	rows := []core.Row{
		row.New(8).Add(
			col.New(8).Add(text.New("Guía N° "+gv.Number, props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			})),
			col.New(4).Add(text.New(formatDate(gv.Date), props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 2,
			})),
		),
		tableHeaderRow(),
	}
	for _, inv := range gv.Invoices {
		rows = append(rows, row.New(6).Add(
			col.New(8).Add(text.New(inv.Number, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(g.money.Format(inv.Amount), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	rows = append(rows, row.New(7).Add(
		col.New(8).Add(text.New("Subtotal guía:", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 2,
		})),
		col.New(4).Add(text.New(g.money.Format(gv.Total), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	))
	return rows
}

// tableHeaderRow: cabecera de la tabla de facturas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("N° Factura", 8, align.Left),
		h("Monto", 4, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}
