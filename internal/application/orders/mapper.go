package orders

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/reconciliation"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

func toSnapshotResponse(s reconciliation.Snapshot, rules validation.Rules, busy bool) *dto.OrdersSnapshotResponse {
	out := &dto.OrdersSnapshotResponse{
		Orders:           make([]dto.OrderSummaryResponse, 0, len(s.Orders)),
		TotalAmount:      s.TotalAmount,
		TotalDistributed: s.TotalDistributed,
		Beneficiaries:    rules.Beneficiaries(),
		Busy:             busy,
		GeneratedAt:      time.Now().UTC(),
	}
	for _, o := range s.Orders {
		out.Orders = append(out.Orders, toSummary(o))
	}
	if s.Selected != nil {
		d := &dto.OrderDetailResponse{
			OrderSummaryResponse: toSummary(s.Selected.OrderSummary),
			Guides:               make([]dto.GuideResponse, 0, len(s.Selected.Guides)),
		}
		for _, g := range s.Selected.Guides {
			d.Guides = append(d.Guides, dto.GuideResponse{
				ID:       g.ID,
				Number:   g.Number,
				Date:     entity.DateKey(g.Date),
				Total:    g.Total,
				Invoices: toInvoices(g.Invoices),
			})
		}
		out.Selected = d
	}
	if s.Draft != nil {
		out.Draft = &dto.DraftResponse{
			OrderID:        s.Draft.OrderID,
			EditingGuideID: s.Draft.EditingGuideID,
			Number:         s.Draft.Number,
			Date:           s.Draft.Date,
			Invoices:       toInvoices(s.Draft.Invoices),
			Total:          s.Draft.Total,
			Remaining:      s.Draft.Remaining,
		}
	}
	return out
}

func toSummary(o reconciliation.OrderSummary) dto.OrderSummaryResponse {
	return dto.OrderSummaryResponse{
		ID:          o.ID,
		Beneficiary: o.Beneficiary,
		TotalAmount: o.TotalAmount,
		Distributed: o.Distributed,
		Balance:     o.Balance,
		Progress:    o.Progress,
		Date:        entity.DateKey(o.Date),
		Status:      string(o.Status),
		GuideCount:  o.GuideCount,
	}
}

func toInvoices(in []entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(in))
	for _, inv := range in {
		out = append(out, dto.InvoiceResponse{ID: inv.ID, Number: inv.Number, Amount: inv.Amount})
	}
	return out
}
