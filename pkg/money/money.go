// Package money formatea montos según el locale configurado (separadores de miles y decimales).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter imprime montos con dos decimales en el locale indicado.
type Formatter struct {
	p      *message.Printer
	symbol string
}

// NewFormatter construye un formatter. Un tag inválido cae a español.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &Formatter{p: message.NewPrinter(tag), symbol: symbol}
}

// Format monto con símbolo, separador de miles y dos decimales.
func (f *Formatter) Format(d decimal.Decimal) string {
	s := f.p.Sprintf("%.2f", d.Round(2).InexactFloat64())
	if f.symbol == "" {
		return s
	}
	return f.symbol + " " + s
}
