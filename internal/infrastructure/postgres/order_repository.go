package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderRepo pedidos, guías y facturas sobre las tablas orders, guides e invoices.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el repositorio sobre un pool o una transacción.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// List pedidos con sus guías y facturas, en orden de creación.
func (r *OrderRepo) List(ctx context.Context) ([]entity.Order, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, beneficiary, total_amount, date, status, created_at, updated_at
		FROM orders ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	index := make(map[string]int)
	for rows.Next() {
		var o entity.Order
		var status string
		if err := rows.Scan(&o.ID, &o.Beneficiary, &o.TotalAmount, &o.Date, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatus(status)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	guides, err := r.guides(ctx, "")
	if err != nil {
		return nil, err
	}
	for orderID, gs := range guides {
		if i, ok := index[orderID]; ok {
			orders[i].Guides = gs
		}
	}
	return orders, nil
}

// guides guías con facturas agrupadas por pedido. orderID vacío = todas.
func (r *OrderRepo) guides(ctx context.Context, orderID string) (map[string][]entity.Guide, error) {
	rows, err := r.q.Query(ctx, `
		SELECT g.id, g.order_id, g.number, g.date, i.id, i.number, i.amount
		FROM guides g
		LEFT JOIN invoices i ON i.guide_id = g.id
		WHERE $1 = '' OR g.order_id::text = $1
		ORDER BY g.order_id, g.position, g.id, i.position, i.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.Guide)
	for rows.Next() {
		var (
			gID, oID, number string
			date             time.Time
			invID, invNumber *string
			invAmount        decimal.NullDecimal
		)
		if err := rows.Scan(&gID, &oID, &number, &date, &invID, &invNumber, &invAmount); err != nil {
			return nil, fmt.Errorf("scan guide: %w", err)
		}
		gs := out[oID]
		if len(gs) == 0 || gs[len(gs)-1].ID != gID {
			gs = append(gs, entity.Guide{ID: gID, Number: number, Date: date})
		}
		if invID != nil {
			last := &gs[len(gs)-1]
			inv := entity.Invoice{ID: *invID, Amount: invAmount.Decimal}
			if invNumber != nil {
				inv.Number = *invNumber
			}
			last.Invoices = append(last.Invoices, inv)
		}
		out[oID] = gs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	return out, nil
}

// Create persiste un pedido nuevo.
func (r *OrderRepo) Create(ctx context.Context, o entity.Order) (entity.Order, error) {
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, beneficiary, total_amount, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.Beneficiary, o.TotalAmount, o.Date, string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return entity.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

// Update actualiza la cabecera del pedido.
func (r *OrderRepo) Update(ctx context.Context, o entity.Order) (entity.Order, error) {
	o.UpdatedAt = time.Now().UTC()
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET beneficiary = $2, total_amount = $3, date = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		o.ID, o.Beneficiary, o.TotalAmount, o.Date, string(o.Status), o.UpdatedAt)
	if err != nil {
		return entity.Order{}, fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return entity.Order{}, domain.ErrNotFound
	}
	return o, nil
}

// Delete elimina el pedido; guías y facturas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertGuide inserta la guía con sus facturas. Asigna IDs nuevos y la posición al final del pedido.
func (r *OrderRepo) InsertGuide(ctx context.Context, orderID string, g entity.Guide) (entity.Guide, error) {
	out := g.Clone()
	out.ID = uuid.NewString()
	_, err := r.q.Exec(ctx, `
		INSERT INTO guides (id, order_id, number, date, position)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(position), 0) + 1 FROM guides WHERE order_id = $2))`,
		out.ID, orderID, out.Number, out.Date)
	if err != nil {
		return entity.Guide{}, fmt.Errorf("insert guide: %w", err)
	}
	if err := r.insertInvoices(ctx, &out); err != nil {
		return entity.Guide{}, err
	}
	return out, nil
}

// ReplaceGuide actualiza la cabecera y reemplaza todas las facturas de la guía.
func (r *OrderRepo) ReplaceGuide(ctx context.Context, orderID string, g entity.Guide) (entity.Guide, error) {
	out := g.Clone()
	cmd, err := r.q.Exec(ctx, `UPDATE guides SET number = $3, date = $4 WHERE id = $1 AND order_id = $2`,
		out.ID, orderID, out.Number, out.Date)
	if err != nil {
		return entity.Guide{}, fmt.Errorf("update guide: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return entity.Guide{}, domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE guide_id = $1`, out.ID); err != nil {
		return entity.Guide{}, fmt.Errorf("delete invoices: %w", err)
	}
	if err := r.insertInvoices(ctx, &out); err != nil {
		return entity.Guide{}, err
	}
	return out, nil
}

func (r *OrderRepo) insertInvoices(ctx context.Context, g *entity.Guide) error {
	for i := range g.Invoices {
		if g.Invoices[i].ID == "" {
			g.Invoices[i].ID = uuid.NewString()
		}
		inv := g.Invoices[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoices (id, guide_id, number, amount, position) VALUES ($1, $2, $3, $4, $5)`,
			inv.ID, g.ID, inv.Number, inv.Amount, i+1)
		if err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
	}
	return nil
}

// DeleteGuide elimina la guía del pedido y sus facturas.
func (r *OrderRepo) DeleteGuide(ctx context.Context, orderID, guideID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM guides WHERE id = $1 AND order_id = $2`, guideID, orderID)
	if err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteInvoice elimina una factura si pertenece a la guía y pedido indicados.
func (r *OrderRepo) DeleteInvoice(ctx context.Context, orderID, guideID, invoiceID string) error {
	cmd, err := r.q.Exec(ctx, `
		DELETE FROM invoices i USING guides g
		WHERE i.id = $1 AND i.guide_id = g.id AND g.id = $2 AND g.order_id = $3`,
		invoiceID, guideID, orderID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
