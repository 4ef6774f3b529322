package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribution asignación de parte del monto de un pedido contra la que se emiten letras.
type Distribution struct {
	ID          string
	OrderID     string
	Beneficiary string
	Amount      decimal.Decimal
	Date        time.Time
	Assigned    bool
}
