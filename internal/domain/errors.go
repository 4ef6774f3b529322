package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrOrderClosed    = errors.New("el pedido está completado")
	ErrBusy           = errors.New("hay una operación en curso")
	ErrNoSelection    = errors.New("no hay pedido seleccionado")
	ErrOverage        = errors.New("el monto excede el saldo restante")
	ErrNonSchedulable = errors.New("día no programable")
	ErrRemote         = errors.New("error del servicio remoto")
)

// ValidationError errores locales por campo. Bloquea la mutación y se muestra junto al campo.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError devuelve nil si no hay errores de campo.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// OverageError una factura nueva supera el saldo no distribuido del pedido.
type OverageError struct {
	Remaining decimal.Decimal
}

func (e *OverageError) Error() string {
	return fmt.Sprintf("El monto excede el saldo restante de %s", e.Remaining.StringFixed(2))
}

// Unwrap permite errors.Is(err, ErrOverage) y errors.As(err, *ValidationError).
func (e *OverageError) Unwrap() []error {
	return []error{ErrOverage, e.AsValidation()}
}

// AsValidation expone la sobreasignación como error del campo amount.
func (e *OverageError) AsValidation() *ValidationError {
	return &ValidationError{Fields: map[string]string{"amount": e.Error()}}
}

// SchedulingConstraintError se intentó seleccionar un fin de semana o feriado.
type SchedulingConstraintError struct {
	Date   string
	Reason string
}

func (e *SchedulingConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Date, e.Reason)
}

func (e *SchedulingConstraintError) Unwrap() error { return ErrNonSchedulable }

// RemoteError falla del colaborador remoto (HTTP no-2xx, red o payload inesperado).
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("remoto %s: HTTP %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("remoto %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemote}
	}
	return []error{ErrRemote, e.Err}
}
