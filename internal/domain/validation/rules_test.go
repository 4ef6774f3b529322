package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

var testBeneficiaries = []string{"BCP", "BBVA", "INTERBANK"}

func TestValidateOrder_Valido(t *testing.T) {
	rules := validation.NewRules(testBeneficiaries)
	errs := rules.ValidateOrder(validation.OrderInput{Beneficiary: "BCP", TotalAmount: "1000", Date: "2025-06-02"})
	assert.True(t, errs.Valid(), "un pedido completo no debe tener errores: %v", errs)
	assert.NoError(t, errs.Err())
}

func TestValidateOrder_Campos(t *testing.T) {
	rules := validation.NewRules(testBeneficiaries)

	tests := []struct {
		name  string
		in    validation.OrderInput
		field string
		msg   string
	}{
		{"sin beneficiario", validation.OrderInput{TotalAmount: "10", Date: "2025-06-02"}, "beneficiary", validation.MsgBeneficiaryRequired},
		{"beneficiario fuera del conjunto", validation.OrderInput{Beneficiary: "OTRO", TotalAmount: "10", Date: "2025-06-02"}, "beneficiary", validation.MsgBeneficiaryInvalid},
		{"sin monto", validation.OrderInput{Beneficiary: "BCP", Date: "2025-06-02"}, "total_amount", validation.MsgAmountRequired},
		{"monto no numérico", validation.OrderInput{Beneficiary: "BCP", TotalAmount: "mil", Date: "2025-06-02"}, "total_amount", validation.MsgAmountNotNumber},
		{"monto cero", validation.OrderInput{Beneficiary: "BCP", TotalAmount: "0", Date: "2025-06-02"}, "total_amount", validation.MsgAmountNotPositive},
		{"monto negativo", validation.OrderInput{Beneficiary: "BCP", TotalAmount: "-5", Date: "2025-06-02"}, "total_amount", validation.MsgAmountNotPositive},
		{"sin fecha", validation.OrderInput{Beneficiary: "BCP", TotalAmount: "10"}, "date", validation.MsgDateRequired},
		{"fecha inválida", validation.OrderInput{Beneficiary: "BCP", TotalAmount: "10", Date: "02/06/2025"}, "date", validation.MsgDateInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := rules.ValidateOrder(tt.in)
			require.Len(t, errs, 1, "solo debe fallar el campo %s: %v", tt.field, errs)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

func TestValidateOrder_SinConjuntoAceptaCualquierBeneficiario(t *testing.T) {
	rules := validation.NewRules(nil)
	errs := rules.ValidateOrder(validation.OrderInput{Beneficiary: "Cualquiera", TotalAmount: "1", Date: "2025-06-02"})
	assert.True(t, errs.Valid())
}

func TestValidateInvoice(t *testing.T) {
	assert.True(t, validation.ValidateInvoice(validation.InvoiceInput{Number: "F001-1", Amount: "300"}).Valid())

	errs := validation.ValidateInvoice(validation.InvoiceInput{Number: "   ", Amount: "abc"})
	assert.Equal(t, validation.MsgInvoiceNumber, errs["number"], "el número se valida tras recortar espacios")
	assert.Equal(t, validation.MsgAmountNotNumber, errs["amount"])
}

func TestValidateGuide_SinFacturasEsError(t *testing.T) {
	errs := validation.ValidateGuide(validation.GuideInput{Number: "G-1", Date: "2025-06-02", InvoiceCount: 0})
	require.Len(t, errs, 1)
	assert.Equal(t, validation.MsgGuideNoInvoices, errs["invoices"])

	err := errs.Err()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateLetterDate(t *testing.T) {
	holidays := map[string]struct{}{"2025-01-01": {}}

	// 2025-01-01 es miércoles feriado, 2025-06-07 sábado, 2025-06-08 domingo, 2025-06-02 lunes.
	assert.Equal(t, validation.MsgHoliday, validation.ValidateLetterDate(date("2025-01-01"), holidays)["payment_date"])
	assert.Equal(t, validation.MsgWeekend, validation.ValidateLetterDate(date("2025-06-07"), holidays)["payment_date"])
	assert.Equal(t, validation.MsgWeekend, validation.ValidateLetterDate(date("2025-06-08"), holidays)["payment_date"])
	assert.True(t, validation.ValidateLetterDate(date("2025-06-02"), holidays).Valid())
}

func TestValidateLetterDraft(t *testing.T) {
	errs := validation.ValidateLetterDraft(entity.LetterDraft{
		Amount:      decimal.Zero,
		PaymentDate: date("2025-06-02"),
	}, nil)
	assert.Equal(t, validation.MsgAmountNotPositive, errs["amount"])
	assert.Equal(t, validation.MsgDistribution, errs["distribution_id"])
	assert.NotContains(t, errs, "payment_date")
}

func date(s string) time.Time {
	d, err := entity.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
