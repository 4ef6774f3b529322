package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LetterStatus estado de una letra de pago.
type LetterStatus string

const (
	LetterStatusPending LetterStatus = "pending"
	LetterStatusPaid    LetterStatus = "paid"
	LetterStatusOverdue LetterStatus = "overdue"
)

// Letter letra programada en una fecha de pago contra una distribución.
type Letter struct {
	ID             string
	Amount         decimal.Decimal
	PaymentDate    time.Time
	DistributionID string
	CompanyID      string
	Status         LetterStatus
}

// EffectiveStatus una letra pendiente con fecha de pago anterior a today se reporta vencida.
func (l Letter) EffectiveStatus(today time.Time) LetterStatus {
	status := l.Status
	if status == "" {
		status = LetterStatusPending
	}
	if status == LetterStatusPending && DateOnly(l.PaymentDate).Before(DateOnly(today)) {
		return LetterStatusOverdue
	}
	return status
}

// LetterDraft letra aún no enviada al servidor (registro masivo).
type LetterDraft struct {
	Amount         decimal.Decimal
	PaymentDate    time.Time
	DistributionID string
	CompanyID      string
}
