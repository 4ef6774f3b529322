package remote

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Normalización en el borde: el backend usa nombres de campo en español e inglés según el
// endpoint. Cada registro se traduce una sola vez a la entidad canónica.

func str(m record, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case map[string]any:
			// relación anidada: {"id": ..., "name"/"username": ...}
			if s := str(v, "username", "name", "nombre", "id"); s != "" {
				return s
			}
		}
	}
	return ""
}

func amount(m record, keys ...string) decimal.Decimal {
	s := str(m, keys...)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func date(m record, keys ...string) time.Time {
	d, err := entity.ParseDate(str(m, keys...))
	if err != nil {
		return time.Time{}
	}
	return d
}

func timestamp(m record, keys ...string) time.Time {
	s := str(m, keys...)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", entity.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolean(m record, keys ...string) bool {
	for _, k := range keys {
		switch v := m[k].(type) {
		case bool:
			return v
		case string:
			b, _ := strconv.ParseBool(v)
			return b
		}
	}
	return false
}

func records(m record, keys ...string) []record {
	for _, k := range keys {
		if arr, ok := m[k].([]any); ok {
			out := make([]record, 0, len(arr))
			for _, it := range arr {
				if r, ok := it.(map[string]any); ok {
					out = append(out, r)
				}
			}
			return out
		}
	}
	return nil
}

func orderStatus(s string) entity.OrderStatus {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	switch strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)) {
	case "inprogress", "enprogreso", "enproceso", "encurso":
		return entity.OrderStatusInProgress
	case "completed", "completado", "cerrado", "closed", "finalizado":
		return entity.OrderStatusCompleted
	default:
		return entity.OrderStatusPending
	}
}

func letterStatus(s string) entity.LetterStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "pagada", "pagado", "cancelada":
		return entity.LetterStatusPaid
	case "overdue", "vencida", "vencido":
		return entity.LetterStatusOverdue
	default:
		return entity.LetterStatusPending
	}
}

func logLevel(s string) string {
	switch l := strings.ToLower(strings.TrimSpace(s)); l {
	case "warning", "advertencia":
		return "warn"
	case "err", "critical", "fatal":
		return "error"
	case "":
		return "info"
	default:
		return l
	}
}

func toInvoice(m record) entity.Invoice {
	return entity.Invoice{
		ID:     str(m, "id", "uuid"),
		Number: str(m, "number", "numero", "invoice_number", "numero_factura"),
		Amount: amount(m, "amount", "monto", "total"),
	}
}

func toGuide(m record) entity.Guide {
	g := entity.Guide{
		ID:     str(m, "id", "uuid"),
		Number: str(m, "number", "numero", "guide_number", "numero_guia"),
		Date:   date(m, "date", "fecha"),
	}
	for _, inv := range records(m, "invoices", "facturas") {
		g.Invoices = append(g.Invoices, toInvoice(inv))
	}
	return g
}

func toOrder(m record) entity.Order {
	o := entity.Order{
		ID:          str(m, "id", "uuid"),
		Beneficiary: str(m, "beneficiary", "beneficiario", "bank", "banco"),
		TotalAmount: amount(m, "total_amount", "monto_total", "amount", "monto", "total"),
		Date:        date(m, "date", "fecha"),
		Status:      orderStatus(str(m, "status", "estado")),
		CreatedAt:   timestamp(m, "created_at", "fecha_creacion"),
		UpdatedAt:   timestamp(m, "updated_at", "fecha_actualizacion"),
	}
	for _, g := range records(m, "guides", "guias") {
		o.Guides = append(o.Guides, toGuide(g))
	}
	return o
}

func toLetter(m record) entity.Letter {
	return entity.Letter{
		ID:             str(m, "id", "uuid"),
		Amount:         amount(m, "amount", "monto"),
		PaymentDate:    date(m, "payment_date", "fecha_pago", "date", "fecha"),
		DistributionID: str(m, "distribution_id", "distribucion_id", "distribution"),
		CompanyID:      str(m, "company_id", "empresa_id", "company"),
		Status:         letterStatus(str(m, "status", "estado")),
	}
}

func toDistribution(m record) entity.Distribution {
	return entity.Distribution{
		ID:          str(m, "id", "uuid"),
		OrderID:     str(m, "order_id", "pedido_id", "order", "pedido"),
		Beneficiary: str(m, "beneficiary", "beneficiario"),
		Amount:      amount(m, "amount", "monto"),
		Date:        date(m, "date", "fecha"),
		Assigned:    boolean(m, "assigned", "asignada"),
	}
}

func toLogEntry(m record) entity.LogEntry {
	return entity.LogEntry{
		Timestamp: timestamp(m, "timestamp", "created_at", "fecha"),
		Level:     logLevel(str(m, "level", "nivel")),
		User:      str(m, "username", "user", "usuario"),
		Action:    str(m, "action", "accion"),
		Message:   str(m, "message", "mensaje", "detail", "detalle"),
	}
}

func toBackup(m record) entity.Backup {
	size, _ := strconv.ParseInt(str(m, "size_bytes", "size", "tamano"), 10, 64)
	return entity.Backup{
		Name:      str(m, "name", "nombre", "filename", "archivo"),
		SizeBytes: size,
		CreatedAt: timestamp(m, "created_at", "fecha", "timestamp"),
		Status:    strings.ToLower(str(m, "status", "estado")),
	}
}

// ── payloads de salida ──────────────────────────────────────────────────────

type invoicePayload struct {
	ID     string          `json:"id,omitempty"`
	Number string          `json:"number"`
	Amount decimal.Decimal `json:"amount"`
}

type guidePayload struct {
	ID       string           `json:"id,omitempty"`
	Number   string           `json:"number"`
	Date     string           `json:"date"`
	Invoices []invoicePayload `json:"invoices"`
}

type orderPayload struct {
	ID          string          `json:"id"`
	Beneficiary string          `json:"beneficiary"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Date        string          `json:"date"`
	Status      string          `json:"status"`
}

type letterPayload struct {
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    string          `json:"payment_date"`
	DistributionID string          `json:"distribution_id"`
	CompanyID      string          `json:"company_id"`
}

func fromOrder(o entity.Order) orderPayload {
	return orderPayload{
		ID:          o.ID,
		Beneficiary: o.Beneficiary,
		TotalAmount: o.TotalAmount,
		Date:        entity.DateKey(o.Date),
		Status:      string(o.Status),
	}
}

func fromGuide(g entity.Guide, withIDs bool) guidePayload {
	p := guidePayload{Number: g.Number, Date: entity.DateKey(g.Date), Invoices: make([]invoicePayload, 0, len(g.Invoices))}
	if withIDs {
		p.ID = g.ID
	}
	for _, inv := range g.Invoices {
		ip := invoicePayload{Number: inv.Number, Amount: inv.Amount}
		if withIDs {
			ip.ID = inv.ID
		}
		p.Invoices = append(p.Invoices, ip)
	}
	return p
}

func fromDraft(d entity.LetterDraft) letterPayload {
	return letterPayload{
		Amount:         d.Amount,
		PaymentDate:    entity.DateKey(d.PaymentDate),
		DistributionID: d.DistributionID,
		CompanyID:      d.CompanyID,
	}
}

func pathID(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = escape(id)
	}
	return fmt.Sprintf(format, args...)
}
