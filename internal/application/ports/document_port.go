package ports

import (
	"github.com/jhoicas/Pedidos-api/internal/domain/calendar"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/reconciliation"
)

// StatementGenerator genera el estado de conciliación de un pedido (guías, facturas, saldo) en PDF.
type StatementGenerator interface {
	OrderStatement(order reconciliation.OrderDetail) ([]byte, error)
}

// LetterExporter exporta el cronograma de letras (y el mes del calendario) a una hoja de cálculo.
type LetterExporter interface {
	Letters(letters []entity.Letter, month []calendar.DayView) ([]byte, error)
}
