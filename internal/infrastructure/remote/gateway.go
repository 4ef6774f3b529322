package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func escape(id string) string { return url.PathEscape(id) }

// ── Pedidos ──────────────────────────────────────────────────────────────────

// ListOrders GET /orders/.
func (c *Client) ListOrders(ctx context.Context) ([]entity.Order, error) {
	items, err := c.list(ctx, "list_orders", "/orders/")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Order, 0, len(items))
	for _, m := range items {
		out = append(out, toOrder(m))
	}
	return out, nil
}

// CreateOrder POST /orders/.
func (c *Client) CreateOrder(ctx context.Context, o entity.Order) (entity.Order, error) {
	var resp record
	if err := c.do(ctx, "create_order", http.MethodPost, "/orders/", fromOrder(o), &resp); err != nil {
		return entity.Order{}, err
	}
	return toOrder(resp), nil
}

// UpdateOrder PUT /orders/{id}/.
func (c *Client) UpdateOrder(ctx context.Context, o entity.Order) (entity.Order, error) {
	var resp record
	if err := c.do(ctx, "update_order", http.MethodPut, pathID("/orders/%s/", o.ID), fromOrder(o), &resp); err != nil {
		return entity.Order{}, err
	}
	return toOrder(resp), nil
}

// DeleteOrder DELETE /orders/{id}/.
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, "delete_order", http.MethodDelete, pathID("/orders/%s/", id), nil, nil)
}

// ── Guías y facturas ─────────────────────────────────────────────────────────

// CreateDocuments POST /orders/{id}/documents/ con {"guides": [{..., "invoices": [...]}]}.
func (c *Client) CreateDocuments(ctx context.Context, orderID string, guides []entity.Guide) ([]entity.Guide, error) {
	body := struct {
		Guides []guidePayload `json:"guides"`
	}{Guides: make([]guidePayload, 0, len(guides))}
	for _, g := range guides {
		body.Guides = append(body.Guides, fromGuide(g, false))
	}

	var resp any
	if err := c.do(ctx, "create_documents", http.MethodPost, pathID("/orders/%s/documents/", orderID), body, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	// {"guides": [...]}, {"results": [...]} o un arreglo.
	if m, ok := resp.(map[string]any); ok {
		if gs := records(m, "guides", "guias"); gs != nil {
			resp = map[string]any{"results": toAny(gs)}
		}
	}
	items, ok := asList(resp)
	if !ok {
		c.log.Warn().Str("op", "create_documents").Msg("respuesta sin guías reconocibles; se conservan las locales")
		return nil, nil
	}
	out := make([]entity.Guide, 0, len(items))
	for _, m := range items {
		out = append(out, toGuide(m))
	}
	return out, nil
}

// UpdateGuide PUT /orders/{id}/guides/{guideId}/.
func (c *Client) UpdateGuide(ctx context.Context, orderID string, g entity.Guide) (entity.Guide, error) {
	var resp record
	err := c.do(ctx, "update_guide", http.MethodPut, pathID("/orders/%s/guides/%s/", orderID, g.ID), fromGuide(g, true), &resp)
	if err != nil {
		return entity.Guide{}, err
	}
	return toGuide(resp), nil
}

// DeleteGuide DELETE /orders/{id}/guides/{guideId}/.
func (c *Client) DeleteGuide(ctx context.Context, orderID, guideID string) error {
	return c.do(ctx, "delete_guide", http.MethodDelete, pathID("/orders/%s/guides/%s/", orderID, guideID), nil, nil)
}

// DeleteInvoice DELETE /orders/{id}/guides/{guideId}/invoices/{invoiceId}/.
func (c *Client) DeleteInvoice(ctx context.Context, orderID, guideID, invoiceID string) error {
	return c.do(ctx, "delete_invoice", http.MethodDelete,
		pathID("/orders/%s/guides/%s/invoices/%s/", orderID, guideID, invoiceID), nil, nil)
}

// ── Letras y distribuciones ──────────────────────────────────────────────────

// ListLetters GET /letters/.
func (c *Client) ListLetters(ctx context.Context) ([]entity.Letter, error) {
	items, err := c.list(ctx, "list_letters", "/letters/")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Letter, 0, len(items))
	for _, m := range items {
		out = append(out, toLetter(m))
	}
	return out, nil
}

// BulkCreateLetters POST /letters/bulk/ con [{amount, payment_date, distribution_id, company_id}].
func (c *Client) BulkCreateLetters(ctx context.Context, drafts []entity.LetterDraft) ([]entity.Letter, error) {
	body := make([]letterPayload, 0, len(drafts))
	for _, d := range drafts {
		body = append(body, fromDraft(d))
	}
	var resp any
	if err := c.do(ctx, "bulk_letters", http.MethodPost, "/letters/bulk/", body, &resp); err != nil {
		return nil, err
	}
	items, ok := asList(resp)
	if !ok {
		return nil, nil
	}
	out := make([]entity.Letter, 0, len(items))
	for _, m := range items {
		out = append(out, toLetter(m))
	}
	return out, nil
}

// ListUnassignedDistributions GET /distributions/unassigned/.
func (c *Client) ListUnassignedDistributions(ctx context.Context) ([]entity.Distribution, error) {
	items, err := c.list(ctx, "list_distributions", "/distributions/unassigned/")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Distribution, 0, len(items))
	for _, m := range items {
		out = append(out, toDistribution(m))
	}
	return out, nil
}

// ── Sistema ──────────────────────────────────────────────────────────────────

// ListLogs GET /logs/.
func (c *Client) ListLogs(ctx context.Context) ([]entity.LogEntry, error) {
	items, err := c.list(ctx, "list_logs", "/logs/")
	if err != nil {
		return nil, err
	}
	out := make([]entity.LogEntry, 0, len(items))
	for _, m := range items {
		out = append(out, toLogEntry(m))
	}
	return out, nil
}

// ListBackups GET /backups/.
func (c *Client) ListBackups(ctx context.Context) ([]entity.Backup, error) {
	items, err := c.list(ctx, "list_backups", "/backups/")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Backup, 0, len(items))
	for _, m := range items {
		out = append(out, toBackup(m))
	}
	return out, nil
}

func toAny(rs []record) []any {
	out := make([]any, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}
