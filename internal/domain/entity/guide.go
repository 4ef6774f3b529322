package entity

import "time"

// Guide guía de remisión: agrupa las facturas entregadas contra un pedido.
type Guide struct {
	ID       string
	Number   string
	Date     time.Time
	Invoices []Invoice
}

// Clone copia la guía con su propio slice de facturas.
func (g Guide) Clone() Guide {
	out := g
	out.Invoices = append([]Invoice(nil), g.Invoices...)
	return out
}
