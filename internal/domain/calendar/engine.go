// Package calendar decide qué días admiten letras y clasifica cada día según el total
// programado frente al tope diario configurado.
package calendar

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

// DayClass clasificación de un día del calendario.
type DayClass string

const (
	ClassHoliday  DayClass = "holiday"
	ClassOverCap  DayClass = "over_cap"
	ClassNearCap  DayClass = "near_cap"
	ClassUnderCap DayClass = "under_cap"
	ClassEmpty    DayClass = "empty"
	// ClassSelected solo aplica a la vista; no altera los totales.
	ClassSelected DayClass = "selected"
)

// DefaultNearCapRatio umbral de "cerca del tope" (70 %).
var DefaultNearCapRatio = decimal.RequireFromString("0.7")

// Config valores inyectados: tope diario, umbral y feriados (YYYY-MM-DD).
type Config struct {
	DailyCap     decimal.Decimal
	NearCapRatio decimal.Decimal
	Holidays     []string
}

// Engine motor de restricciones del calendario de letras.
type Engine struct {
	dailyCap     decimal.Decimal
	nearCapRatio decimal.Decimal
	holidays     map[string]struct{}
}

// NewEngine valida la configuración y construye el motor.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.DailyCap.IsNegative() {
		return nil, fmt.Errorf("calendario: tope diario negativo: %s", cfg.DailyCap)
	}
	ratio := cfg.NearCapRatio
	if ratio.IsZero() {
		ratio = DefaultNearCapRatio
	}
	if ratio.IsNegative() || ratio.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("calendario: umbral fuera de rango: %s", ratio)
	}
	holidays := make(map[string]struct{}, len(cfg.Holidays))
	for _, h := range cfg.Holidays {
		d, err := entity.ParseDate(h)
		if err != nil {
			return nil, fmt.Errorf("calendario: feriado: %w", err)
		}
		holidays[entity.DateKey(d)] = struct{}{}
	}
	return &Engine{dailyCap: cfg.DailyCap, nearCapRatio: ratio, holidays: holidays}, nil
}

// DailyCap tope diario configurado.
func (e *Engine) DailyCap() decimal.Decimal { return e.dailyCap }

// Holidays copia del conjunto de feriados.
func (e *Engine) Holidays() map[string]struct{} {
	out := make(map[string]struct{}, len(e.holidays))
	for k := range e.holidays {
		out[k] = struct{}{}
	}
	return out
}

// IsHoliday true si d está en el conjunto de feriados.
func (e *Engine) IsHoliday(d time.Time) bool {
	_, ok := e.holidays[entity.DateKey(d)]
	return ok
}

// IsNonSchedulableDay fin de semana o feriado.
func (e *Engine) IsNonSchedulableDay(d time.Time) bool {
	return e.NonSchedulableReason(d) != ""
}

// NonSchedulableReason mensaje para el usuario, "" si el día es hábil.
func (e *Engine) NonSchedulableReason(d time.Time) string {
	return validation.NonSchedulableReason(d, e.holidays)
}

// DailyTotal Σ monto de las letras cuyo día calendario es d (sin importar la hora).
func DailyTotal(d time.Time, letters []entity.Letter) decimal.Decimal {
	key := entity.DateKey(d)
	total := decimal.Zero
	for _, l := range letters {
		if entity.DateKey(l.PaymentDate) == key {
			total = total.Add(l.Amount)
		}
	}
	return total
}

// ClassifyDay función pura de (d, letters, tope).
func (e *Engine) ClassifyDay(d time.Time, letters []entity.Letter) DayClass {
	if e.IsNonSchedulableDay(d) {
		return ClassHoliday
	}
	return e.classifyTotal(DailyTotal(d, letters))
}

func (e *Engine) classifyTotal(total decimal.Decimal) DayClass {
	if !total.IsPositive() {
		return ClassEmpty
	}
	switch {
	case total.GreaterThan(e.dailyCap):
		return ClassOverCap
	case total.GreaterThanOrEqual(e.dailyCap.Mul(e.nearCapRatio)):
		return ClassNearCap
	default:
		return ClassUnderCap
	}
}

// DisplayClass la selección tiene precedencia visual sobre la clasificación.
func (e *Engine) DisplayClass(d time.Time, letters []entity.Letter, sel *Selection) DayClass {
	if sel != nil && sel.Contains(d) {
		return ClassSelected
	}
	return e.ClassifyDay(d, letters)
}

// DayView celda del calendario mensual.
type DayView struct {
	Date        time.Time
	Weekend     bool
	Holiday     bool
	Selected    bool
	Total       decimal.Decimal
	LetterCount int
	Class       DayClass
	Display     DayClass
}

// Month construye las celdas del mes con totales y clasificación.
func (e *Engine) Month(year int, month time.Month, letters []entity.Letter, sel *Selection) []DayView {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, l := range letters {
		k := entity.DateKey(l.PaymentDate)
		totals[k] = totals[k].Add(l.Amount)
		counts[k]++
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]DayView, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		k := entity.DateKey(d)
		view := DayView{
			Date:        d,
			Weekend:     d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
			Holiday:     e.IsHoliday(d),
			Total:       totals[k],
			LetterCount: counts[k],
		}
		if e.IsNonSchedulableDay(d) {
			view.Class = ClassHoliday
		} else {
			view.Class = e.classifyTotal(view.Total)
		}
		view.Display = view.Class
		if sel != nil && sel.Contains(d) {
			view.Selected = true
			view.Display = ClassSelected
		}
		days = append(days, view)
	}
	return days
}
