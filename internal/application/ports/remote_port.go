package ports

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// RemoteGateway define el puerto de salida hacia el colaborador remoto que persiste pedidos, guías,
// facturas y letras. La aplicación solo conoce este contrato; el adaptador REST y el de PostgreSQL
// lo implementan.
//
// Toda falla (HTTP no-2xx, red, payload indecodificable) se devuelve como *domain.RemoteError.
// Los listados ya vienen normalizados a las entidades canónicas.
type RemoteGateway interface {
	ListOrders(ctx context.Context) ([]entity.Order, error)
	CreateOrder(ctx context.Context, o entity.Order) (entity.Order, error)
	UpdateOrder(ctx context.Context, o entity.Order) (entity.Order, error)
	DeleteOrder(ctx context.Context, id string) error

	// CreateDocuments registra en un solo envío guías nuevas con sus facturas anidadas.
	CreateDocuments(ctx context.Context, orderID string, guides []entity.Guide) ([]entity.Guide, error)
	UpdateGuide(ctx context.Context, orderID string, g entity.Guide) (entity.Guide, error)
	DeleteGuide(ctx context.Context, orderID, guideID string) error
	DeleteInvoice(ctx context.Context, orderID, guideID, invoiceID string) error

	ListLetters(ctx context.Context) ([]entity.Letter, error)
	// BulkCreateLetters envía [{amount, payment_date, distribution_id, company_id}].
	BulkCreateLetters(ctx context.Context, drafts []entity.LetterDraft) ([]entity.Letter, error)
	ListUnassignedDistributions(ctx context.Context) ([]entity.Distribution, error)

	ListLogs(ctx context.Context) ([]entity.LogEntry, error)
	ListBackups(ctx context.Context) ([]entity.Backup, error)
}
