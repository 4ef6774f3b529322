package dto

import "github.com/shopspring/decimal"

// LetterResponse letra con su estado efectivo.
type LetterResponse struct {
	ID             string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    string          `json:"payment_date"`
	DistributionID string          `json:"distribution_id"`
	CompanyID      string          `json:"company_id"`
	Status         string          `json:"status"`
}

// LetterListResponse listado de letras.
type LetterListResponse struct {
	Items []LetterResponse `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

// CalendarDayResponse celda del calendario.
type CalendarDayResponse struct {
	Date        string          `json:"date"`
	Weekend     bool            `json:"weekend"`
	Holiday     bool            `json:"holiday"`
	Selected    bool            `json:"selected"`
	Total       decimal.Decimal `json:"total"`
	LetterCount int             `json:"letter_count"`
	Class       string          `json:"class"`
	Display     string          `json:"display"`
}

// LetterFormResponse formulario de creación masiva pendiente.
type LetterFormResponse struct {
	DistributionID string `json:"distribution_id"`
	CompanyID      string `json:"company_id"`
	Amount         string `json:"amount"`
}

// CalendarResponse mes del calendario con la selección actual.
type CalendarResponse struct {
	Year          int                   `json:"year"`
	Month         int                   `json:"month"`
	DailyCap      decimal.Decimal       `json:"daily_cap"`
	Days          []CalendarDayResponse `json:"days"`
	SelectedDates []string              `json:"selected_dates"`
	Form          LetterFormResponse    `json:"form"`
	Busy          bool                  `json:"busy"`
}

// BulkLettersRequest creación de una letra por cada fecha seleccionada.
type BulkLettersRequest struct {
	DistributionID string `json:"distribution_id"`
	CompanyID      string `json:"company_id"`
	Amount         string `json:"amount"`
}

// BulkLettersResponse letras creadas y calendario actualizado.
type BulkLettersResponse struct {
	Created  []LetterResponse `json:"created"`
	Calendar CalendarResponse `json:"calendar"`
}

// DistributionResponse distribución de un pedido.
type DistributionResponse struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	Beneficiary string          `json:"beneficiary"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Assigned    bool            `json:"assigned"`
}
