package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/balance"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderSummary fila de la tabla de pedidos con sus agregados recalculados.
type OrderSummary struct {
	ID          string
	Beneficiary string
	TotalAmount decimal.Decimal
	Distributed decimal.Decimal
	Balance     decimal.Decimal
	Progress    int
	Date        time.Time
	Status      entity.OrderStatus
	GuideCount  int
}

// GuideView guía con su total.
type GuideView struct {
	ID       string
	Number   string
	Date     time.Time
	Total    decimal.Decimal
	Invoices []entity.Invoice
}

// OrderDetail pedido seleccionado con sus guías.
type OrderDetail struct {
	OrderSummary
	Guides []GuideView
}

// DraftView formulario de guía abierto (nueva o en edición).
type DraftView struct {
	OrderID        string
	EditingGuideID string
	Number         string
	Date           string
	Invoices       []entity.Invoice
	Total          decimal.Decimal
	Remaining      decimal.Decimal
}

// Snapshot estado completo tras una mutación; es lo que el cliente renderiza.
type Snapshot struct {
	Orders           []OrderSummary
	Selected         *OrderDetail
	Draft            *DraftView
	TotalAmount      decimal.Decimal
	TotalDistributed decimal.Decimal
}

func summarize(o *entity.Order) OrderSummary {
	distributed := balance.OrderDistributed(*o)
	return OrderSummary{
		ID:          o.ID,
		Beneficiary: o.Beneficiary,
		TotalAmount: o.TotalAmount,
		Distributed: distributed,
		Balance:     o.TotalAmount.Sub(distributed),
		Progress:    balance.ProgressPercent(distributed, o.TotalAmount),
		Date:        o.Date,
		Status:      o.Status,
		GuideCount:  len(o.Guides),
	}
}

func detail(o *entity.Order) *OrderDetail {
	out := &OrderDetail{OrderSummary: summarize(o), Guides: make([]GuideView, 0, len(o.Guides))}
	for _, g := range o.Guides {
		out.Guides = append(out.Guides, GuideView{
			ID:       g.ID,
			Number:   g.Number,
			Date:     g.Date,
			Total:    balance.GuideTotal(g),
			Invoices: append([]entity.Invoice(nil), g.Invoices...),
		})
	}
	return out
}
