package entity

import "github.com/shopspring/decimal"

// Invoice factura dentro de una guía.
type Invoice struct {
	ID     string
	Number string
	Amount decimal.Decimal
}
