package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest formulario de pedido. Los montos llegan como texto y se validan en el dominio.
type OrderRequest struct {
	Beneficiary string `json:"beneficiary"`
	TotalAmount string `json:"total_amount"`
	Date        string `json:"date"`
}

// DraftHeaderRequest número y fecha de la guía en composición.
type DraftHeaderRequest struct {
	Number string `json:"number"`
	Date   string `json:"date"`
}

// InvoiceRequest fila de factura del formulario de guía.
type InvoiceRequest struct {
	Number string `json:"number"`
	Amount string `json:"amount"`
}

// InvoiceResponse factura.
type InvoiceResponse struct {
	ID     string          `json:"id"`
	Number string          `json:"number"`
	Amount decimal.Decimal `json:"amount"`
}

// GuideResponse guía con su total.
type GuideResponse struct {
	ID       string            `json:"id"`
	Number   string            `json:"number"`
	Date     string            `json:"date"`
	Total    decimal.Decimal   `json:"total"`
	Invoices []InvoiceResponse `json:"invoices"`
}

// OrderSummaryResponse fila de la tabla de pedidos.
type OrderSummaryResponse struct {
	ID          string          `json:"id"`
	Beneficiary string          `json:"beneficiary"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Distributed decimal.Decimal `json:"distributed"`
	Balance     decimal.Decimal `json:"balance"`
	Progress    int             `json:"progress"`
	Date        string          `json:"date"`
	Status      string          `json:"status"`
	GuideCount  int             `json:"guide_count"`
}

// OrderDetailResponse pedido seleccionado con sus guías.
type OrderDetailResponse struct {
	OrderSummaryResponse
	Guides []GuideResponse `json:"guides"`
}

// DraftResponse formulario de guía abierto.
type DraftResponse struct {
	OrderID        string            `json:"order_id"`
	EditingGuideID string            `json:"editing_guide_id,omitempty"`
	Number         string            `json:"number"`
	Date           string            `json:"date"`
	Invoices       []InvoiceResponse `json:"invoices"`
	Total          decimal.Decimal   `json:"total"`
	Remaining      decimal.Decimal   `json:"remaining"`
}

// OrdersSnapshotResponse estado completo de la pantalla de pedidos tras cada operación.
type OrdersSnapshotResponse struct {
	Orders           []OrderSummaryResponse `json:"orders"`
	Selected         *OrderDetailResponse   `json:"selected"`
	Draft            *DraftResponse         `json:"draft"`
	TotalAmount      decimal.Decimal        `json:"total_amount"`
	TotalDistributed decimal.Decimal        `json:"total_distributed"`
	Beneficiaries    []string               `json:"beneficiaries"`
	Busy             bool                   `json:"busy"`
	GeneratedAt      time.Time              `json:"generated_at"`
}
