package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que Gateway implementa RemoteGateway.
var _ ports.RemoteGateway = (*Gateway)(nil)

// Gateway colaborador remoto leyendo y escribiendo directamente la base del back-office.
// Las operaciones de varias filas (documentos, letras masivas, reemplazo de facturas) corren en
// una transacción.
type Gateway struct {
	pool   *pgxpool.Pool
	tx     *TxRunner
	orders *OrderRepo
	letter *LetterRepo
	system *SystemRepo
}

// NewGateway construye el adaptador sobre el pool.
func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{
		pool:   pool,
		tx:     NewTxRunner(pool),
		orders: NewOrderRepository(pool),
		letter: NewLetterRepository(pool),
		system: NewSystemRepository(pool),
	}
}

func (g *Gateway) ListOrders(ctx context.Context) ([]entity.Order, error) {
	out, err := g.orders.List(ctx)
	return out, remoteErr("list_orders", err)
}

func (g *Gateway) CreateOrder(ctx context.Context, o entity.Order) (entity.Order, error) {
	out, err := g.orders.Create(ctx, o)
	return out, remoteErr("create_order", err)
}

func (g *Gateway) UpdateOrder(ctx context.Context, o entity.Order) (entity.Order, error) {
	out, err := g.orders.Update(ctx, o)
	return out, remoteErr("update_order", err)
}

func (g *Gateway) DeleteOrder(ctx context.Context, id string) error {
	return remoteErr("delete_order", g.orders.Delete(ctx, id))
}

func (g *Gateway) CreateDocuments(ctx context.Context, orderID string, guides []entity.Guide) ([]entity.Guide, error) {
	var out []entity.Guide
	err := g.tx.Run(ctx, func(q Querier) error {
		repo := NewOrderRepository(q)
		for _, gd := range guides {
			saved, err := repo.InsertGuide(ctx, orderID, gd)
			if err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, remoteErr("create_documents", err)
	}
	return out, nil
}

func (g *Gateway) UpdateGuide(ctx context.Context, orderID string, gd entity.Guide) (entity.Guide, error) {
	var out entity.Guide
	err := g.tx.Run(ctx, func(q Querier) error {
		var err error
		out, err = NewOrderRepository(q).ReplaceGuide(ctx, orderID, gd)
		return err
	})
	return out, remoteErr("update_guide", err)
}

func (g *Gateway) DeleteGuide(ctx context.Context, orderID, guideID string) error {
	return remoteErr("delete_guide", g.orders.DeleteGuide(ctx, orderID, guideID))
}

func (g *Gateway) DeleteInvoice(ctx context.Context, orderID, guideID, invoiceID string) error {
	return remoteErr("delete_invoice", g.orders.DeleteInvoice(ctx, orderID, guideID, invoiceID))
}

func (g *Gateway) ListLetters(ctx context.Context) ([]entity.Letter, error) {
	out, err := g.letter.List(ctx)
	return out, remoteErr("list_letters", err)
}

func (g *Gateway) BulkCreateLetters(ctx context.Context, drafts []entity.LetterDraft) ([]entity.Letter, error) {
	var out []entity.Letter
	err := g.tx.Run(ctx, func(q Querier) error {
		repo := NewLetterRepository(q)
		assigned := make(map[string]bool)
		for _, d := range drafts {
			l, err := repo.Insert(ctx, d)
			if err != nil {
				return err
			}
			out = append(out, l)
			if !assigned[d.DistributionID] {
				if err := repo.MarkAssigned(ctx, d.DistributionID); err != nil {
					return err
				}
				assigned[d.DistributionID] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, remoteErr("bulk_letters", err)
	}
	return out, nil
}

func (g *Gateway) ListUnassignedDistributions(ctx context.Context) ([]entity.Distribution, error) {
	out, err := g.letter.Unassigned(ctx)
	return out, remoteErr("list_distributions", err)
}

func (g *Gateway) ListLogs(ctx context.Context) ([]entity.LogEntry, error) {
	out, err := g.system.Logs(ctx)
	return out, remoteErr("list_logs", err)
}

func (g *Gateway) ListBackups(ctx context.Context) ([]entity.Backup, error) {
	out, err := g.system.Backups(ctx)
	return out, remoteErr("list_backups", err)
}

// Close libera el pool.
func (g *Gateway) Close() {
	g.pool.Close()
}
