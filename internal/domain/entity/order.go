package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "InProgress"
	OrderStatusCompleted  OrderStatus = "Completed"
)

// CanTransitionTo Pending ⇄ InProgress y Pending|InProgress → Completed. Completed es terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusInProgress || next == OrderStatusCompleted
	case OrderStatusInProgress:
		return next == OrderStatusPending || next == OrderStatusCompleted
	default:
		return false
	}
}

// Order representa un pedido con el monto total a distribuir en guías.
type Order struct {
	ID          string
	Beneficiary string
	TotalAmount decimal.Decimal
	Date        time.Time
	Status      OrderStatus
	Guides      []Guide
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone copia profunda (guías y facturas) para que los snapshots no compartan slices.
func (o Order) Clone() Order {
	out := o
	out.Guides = make([]Guide, len(o.Guides))
	for i, g := range o.Guides {
		out.Guides[i] = g.Clone()
	}
	return out
}
