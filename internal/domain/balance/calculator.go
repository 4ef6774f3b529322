// Package balance deriva los totales de un pedido a partir del árbol pedido → guías → facturas.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// GuideTotal Σ monto de las facturas de la guía.
func GuideTotal(g entity.Guide) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range g.Invoices {
		total = total.Add(inv.Amount)
	}
	return total
}

// OrderDistributed Σ GuideTotal de las guías del pedido.
func OrderDistributed(o entity.Order) decimal.Decimal {
	total := decimal.Zero
	for _, g := range o.Guides {
		total = total.Add(GuideTotal(g))
	}
	return total
}

// OrderBalance monto total − distribuido. Puede ser negativo (sobreasignación); es un valor de reporte.
func OrderBalance(o entity.Order) decimal.Decimal {
	return o.TotalAmount.Sub(OrderDistributed(o))
}

// OrderProgressPercent round(distribuido / total × 100) acotado a [0, 100]; 0 si el total es cero.
func OrderProgressPercent(o entity.Order) int {
	return ProgressPercent(OrderDistributed(o), o.TotalAmount)
}

// ProgressPercent porcentaje de avance de distributed sobre total.
func ProgressPercent(distributed, total decimal.Decimal) int {
	if total.IsZero() {
		return 0
	}
	pct := distributed.Div(total).Mul(hundred).Round(0)
	switch {
	case pct.LessThan(decimal.Zero):
		return 0
	case pct.GreaterThan(hundred):
		return 100
	}
	return int(pct.IntPart())
}

// Remaining saldo disponible para facturas nuevas: total − (distribuido fuera del borrador + pendiente del borrador).
// excludeGuideID es la guía que el borrador reemplaza (su total comprometido no cuenta).
func Remaining(o entity.Order, excludeGuideID string, pending decimal.Decimal) decimal.Decimal {
	committed := decimal.Zero
	for _, g := range o.Guides {
		if excludeGuideID != "" && g.ID == excludeGuideID {
			continue
		}
		committed = committed.Add(GuideTotal(g))
	}
	return o.TotalAmount.Sub(committed).Sub(pending)
}

// CheckInvoiceOverage compuerta suave al crear facturas: rechaza amount > remaining.
// Las ediciones en sitio no pasan por aquí: el monto anterior ya salió del acumulado.
func CheckInvoiceOverage(amount, remaining decimal.Decimal) error {
	if amount.GreaterThan(remaining) {
		return &domain.OverageError{Remaining: remaining}
	}
	return nil
}
