package calendar

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

// Selection conjunto transitorio de fechas elegidas para el registro masivo de letras.
// No es seguro para uso concurrente; la sesión serializa el acceso.
type Selection struct {
	dates map[string]time.Time
}

// NewSelection conjunto vacío.
func NewSelection() *Selection {
	return &Selection{dates: make(map[string]time.Time)}
}

// Toggle agrega d si no está y la quita si está. Un día no programable se rechaza sin tocar el conjunto.
func (s *Selection) Toggle(e *Engine, d time.Time) (bool, error) {
	d = entity.DateOnly(d)
	if reason := e.NonSchedulableReason(d); reason != "" {
		return false, &domain.SchedulingConstraintError{Date: entity.DateKey(d), Reason: reason}
	}
	k := entity.DateKey(d)
	if _, ok := s.dates[k]; ok {
		delete(s.dates, k)
		return false, nil
	}
	s.dates[k] = d
	return true, nil
}

// Contains true si d está seleccionada.
func (s *Selection) Contains(d time.Time) bool {
	_, ok := s.dates[entity.DateKey(d)]
	return ok
}

// Len cantidad de fechas seleccionadas.
func (s *Selection) Len() int { return len(s.dates) }

// Dates fechas seleccionadas en orden ascendente.
func (s *Selection) Dates() []time.Time {
	out := make([]time.Time, 0, len(s.dates))
	for _, d := range s.dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Clear vacía el conjunto.
func (s *Selection) Clear() {
	s.dates = make(map[string]time.Time)
}

// BuildLetterDrafts una letra por fecha seleccionada, mismo monto; cada una se valida por separado.
func (e *Engine) BuildLetterDrafts(sel *Selection, distributionID, companyID string, amount decimal.Decimal) ([]entity.LetterDraft, error) {
	if sel == nil || sel.Len() == 0 {
		return nil, domain.NewValidationError(map[string]string{"dates": "Seleccione al menos una fecha"})
	}
	fields := map[string]string{}
	drafts := make([]entity.LetterDraft, 0, sel.Len())
	for _, d := range sel.Dates() {
		draft := entity.LetterDraft{
			Amount:         amount,
			PaymentDate:    d,
			DistributionID: distributionID,
			CompanyID:      companyID,
		}
		for field, msg := range validation.ValidateLetterDraft(draft, e.holidays) {
			if field == "payment_date" {
				field = "payment_date[" + entity.DateKey(d) + "]"
			}
			fields[field] = msg
		}
		drafts = append(drafts, draft)
	}
	if err := domain.NewValidationError(fields); err != nil {
		return nil, err
	}
	return drafts, nil
}
