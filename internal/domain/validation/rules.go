// Package validation reúne los predicados puros que deciden si un pedido, guía, factura
// o fecha de letra está bien formado. Cada función devuelve un mapa campo → mensaje;
// un mapa vacío significa válido.
package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Mensajes mostrados junto al campo.
const (
	MsgBeneficiaryRequired = "El beneficiario es obligatorio"
	MsgBeneficiaryInvalid  = "El beneficiario no es válido"
	MsgAmountRequired      = "El monto es obligatorio"
	MsgAmountNotNumber     = "El monto debe ser un número"
	MsgAmountNotPositive   = "El monto debe ser mayor a 0"
	MsgDateRequired        = "La fecha es obligatoria"
	MsgDateInvalid         = "La fecha no es válida"
	MsgInvoiceNumber       = "El número de factura es obligatorio"
	MsgGuideNumber         = "El número de guía es obligatorio"
	MsgGuideNoInvoices     = "Agregue al menos una factura"
	MsgDistribution        = "La distribución es obligatoria"
	MsgWeekend             = "No se pueden programar letras en fin de semana"
	MsgHoliday             = "No se pueden programar letras en un día feriado"
)

// Errors mapa campo → mensaje legible.
type Errors map[string]string

// Valid true si no hay errores.
func (e Errors) Valid() bool { return len(e) == 0 }

// Err convierte el mapa en *domain.ValidationError (nil si es válido).
func (e Errors) Err() error { return domain.NewValidationError(e) }

// OrderInput formulario de pedido tal como llega del cliente.
type OrderInput struct {
	Beneficiary string
	TotalAmount string
	Date        string
}

// InvoiceInput formulario de factura.
type InvoiceInput struct {
	Number string
	Amount string
}

// GuideInput cabecera de guía más la cantidad de facturas que posee.
type GuideInput struct {
	Number       string
	Date         string
	InvoiceCount int
}

// Rules valida pedidos contra el conjunto de beneficiarios configurado.
type Rules struct {
	beneficiaries []string
	allowed       map[string]struct{}
}

// NewRules construye las reglas. Con lista vacía se acepta cualquier beneficiario no vacío.
func NewRules(beneficiaries []string) Rules {
	r := Rules{allowed: make(map[string]struct{}, len(beneficiaries))}
	for _, b := range beneficiaries {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, dup := r.allowed[b]; dup {
			continue
		}
		r.allowed[b] = struct{}{}
		r.beneficiaries = append(r.beneficiaries, b)
	}
	return r
}

// Beneficiaries lista configurada, en orden.
func (r Rules) Beneficiaries() []string {
	return append([]string(nil), r.beneficiaries...)
}

// ValidateOrder beneficiario del conjunto, monto total > 0 y fecha.
func (r Rules) ValidateOrder(in OrderInput) Errors {
	errs := Errors{}
	b := strings.TrimSpace(in.Beneficiary)
	switch {
	case b == "":
		errs["beneficiary"] = MsgBeneficiaryRequired
	case len(r.allowed) > 0:
		if _, ok := r.allowed[b]; !ok {
			errs["beneficiary"] = MsgBeneficiaryInvalid
		}
	}
	if msg := checkAmount(in.TotalAmount); msg != "" {
		errs["total_amount"] = msg
	}
	if msg := checkDate(in.Date); msg != "" {
		errs["date"] = msg
	}
	return errs
}

// ValidateInvoice número no vacío y monto > 0.
func ValidateInvoice(in InvoiceInput) Errors {
	errs := Errors{}
	if strings.TrimSpace(in.Number) == "" {
		errs["number"] = MsgInvoiceNumber
	}
	if msg := checkAmount(in.Amount); msg != "" {
		errs["amount"] = msg
	}
	return errs
}

// ValidateGuide número, fecha y al menos una factura.
func ValidateGuide(in GuideInput) Errors {
	errs := Errors{}
	if strings.TrimSpace(in.Number) == "" {
		errs["guide_number"] = MsgGuideNumber
	}
	if msg := checkDate(in.Date); msg != "" {
		errs["date"] = msg
	}
	if in.InvoiceCount <= 0 {
		errs["invoices"] = MsgGuideNoInvoices
	}
	return errs
}

// NonSchedulableReason motivo por el que d no admite letras ("" si es día hábil).
func NonSchedulableReason(d time.Time, holidays map[string]struct{}) string {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return MsgWeekend
	}
	if _, ok := holidays[entity.DateKey(d)]; ok {
		return MsgHoliday
	}
	return ""
}

// ValidateLetterDate rechaza sábados, domingos y feriados.
func ValidateLetterDate(d time.Time, holidays map[string]struct{}) Errors {
	errs := Errors{}
	if reason := NonSchedulableReason(d, holidays); reason != "" {
		errs["payment_date"] = reason
	}
	return errs
}

// ValidateLetterDraft valida cada letra del registro masivo antes de enviarla.
func ValidateLetterDraft(d entity.LetterDraft, holidays map[string]struct{}) Errors {
	errs := ValidateLetterDate(d.PaymentDate, holidays)
	if !d.Amount.GreaterThan(decimal.Zero) {
		errs["amount"] = MsgAmountNotPositive
	}
	if strings.TrimSpace(d.DistributionID) == "" {
		errs["distribution_id"] = MsgDistribution
	}
	return errs
}

// ValidateAmount monto suelto (formulario de letras).
func ValidateAmount(s string) Errors {
	errs := Errors{}
	if msg := checkAmount(s); msg != "" {
		errs["amount"] = msg
	}
	return errs
}

// ParseAmount interpreta un monto del formulario. Solo llamar tras validar.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

func checkAmount(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return MsgAmountRequired
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return MsgAmountNotNumber
	}
	if !v.GreaterThan(decimal.Zero) {
		return MsgAmountNotPositive
	}
	return ""
}

func checkDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return MsgDateRequired
	}
	if _, err := entity.ParseDate(s); err != nil {
		return MsgDateInvalid
	}
	return ""
}
