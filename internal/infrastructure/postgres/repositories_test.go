package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func fecha(s string) time.Time {
	d, _ := entity.ParseDate(s)
	return d
}

func strPtr(s string) *string { return &s }

func nullDec(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

func TestOrderRepo_ListAgrupaGuiasYFacturas(t *testing.T) {
	mock := newMock(t)
	creado := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM orders ORDER BY created_at`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "beneficiary", "total_amount", "date", "status", "created_at", "updated_at"}).
			AddRow("ord-1", "BCP", decimal.NewFromInt(1000), fecha("2025-03-10"), "InProgress", creado, creado).
			AddRow("ord-2", "BBVA", decimal.NewFromInt(500), fecha("2025-03-11"), "Pending", creado, creado))

	mock.ExpectQuery(`FROM guides g\s+LEFT JOIN invoices i`).
		WithArgs("").
		WillReturnRows(pgxmock.NewRows([]string{"g.id", "g.order_id", "g.number", "g.date", "i.id", "i.number", "i.amount"}).
			AddRow("g-1", "ord-1", "G-001", fecha("2025-03-12"), strPtr("i-1"), strPtr("F-1"), nullDec(300)).
			AddRow("g-1", "ord-1", "G-001", fecha("2025-03-12"), strPtr("i-2"), (*string)(nil), nullDec(200)).
			AddRow("g-2", "ord-1", "G-002", fecha("2025-03-13"), (*string)(nil), (*string)(nil), decimal.NullDecimal{}).
			AddRow("g-3", "huérfano", "G-003", fecha("2025-03-14"), strPtr("i-3"), strPtr("F-3"), nullDec(50)))

	orders, err := postgres.NewOrderRepository(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	o := orders[0]
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, entity.OrderStatusInProgress, o.Status)
	require.Len(t, o.Guides, 2)
	assert.Equal(t, "G-001", o.Guides[0].Number)
	require.Len(t, o.Guides[0].Invoices, 2)
	assert.Equal(t, "F-1", o.Guides[0].Invoices[0].Number)
	assert.Empty(t, o.Guides[0].Invoices[1].Number, "número nulo queda vacío")
	assert.True(t, decimal.NewFromInt(200).Equal(o.Guides[0].Invoices[1].Amount))
	assert.Empty(t, o.Guides[1].Invoices, "guía sin facturas por LEFT JOIN")

	assert.Empty(t, orders[1].Guides, "las guías de un pedido desconocido se descartan")
}

func TestOrderRepo_InsertGuideAsignaIDsYPosiciones(t *testing.T) {
	mock := newMock(t)
	montoA, montoB := decimal.NewFromInt(300), decimal.NewFromInt(200)

	mock.ExpectExec(`INSERT INTO guides`).
		WithArgs(pgxmock.AnyArg(), "ord-1", "G-001", fecha("2025-03-12")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "F-1", montoA, 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs("inv-local", pgxmock.AnyArg(), "F-2", montoB, 2).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	in := entity.Guide{
		ID:     "borrador",
		Number: "G-001",
		Date:   fecha("2025-03-12"),
		Invoices: []entity.Invoice{
			{Number: "F-1", Amount: montoA},
			{ID: "inv-local", Number: "F-2", Amount: montoB},
		},
	}
	out, err := postgres.NewOrderRepository(mock).InsertGuide(context.Background(), "ord-1", in)
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.NotEqual(t, "borrador", out.ID, "la guía recibe un ID nuevo")
	require.Len(t, out.Invoices, 2)
	assert.NotEmpty(t, out.Invoices[0].ID)
	assert.Equal(t, "inv-local", out.Invoices[1].ID)
	assert.Empty(t, in.Invoices[0].ID, "la guía de entrada no se modifica")
}

func TestOrderRepo_ReplaceGuideReemplazaFacturas(t *testing.T) {
	mock := newMock(t)
	monto := decimal.NewFromInt(150)

	mock.ExpectExec(`UPDATE guides SET number`).
		WithArgs("g-1", "ord-1", "G-010", fecha("2025-04-01")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM invoices WHERE guide_id`).
		WithArgs("g-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs("i-9", "g-1", "F-9", monto, 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	g := entity.Guide{ID: "g-1", Number: "G-010", Date: fecha("2025-04-01"),
		Invoices: []entity.Invoice{{ID: "i-9", Number: "F-9", Amount: monto}}}
	out, err := postgres.NewOrderRepository(mock).ReplaceGuide(context.Background(), "ord-1", g)
	require.NoError(t, err)
	assert.Equal(t, "g-1", out.ID)
	require.Len(t, out.Invoices, 1)
}

func TestOrderRepo_ReplaceGuideInexistenteNoTocaFacturas(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE guides SET number`).
		WithArgs("g-x", "ord-1", "G", fecha("2025-04-01")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := postgres.NewOrderRepository(mock).ReplaceGuide(context.Background(), "ord-1",
		entity.Guide{ID: "g-x", Number: "G", Date: fecha("2025-04-01")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepo_SinFilasAfectadasEsNoEncontrado(t *testing.T) {
	cases := []struct {
		name string
		sql  string
		args []any
		run  func(r *postgres.OrderRepo) error
	}{
		{"delete pedido", `DELETE FROM orders WHERE id`, []any{"ord-x"},
			func(r *postgres.OrderRepo) error { return r.Delete(context.Background(), "ord-x") }},
		{"delete guía", `DELETE FROM guides WHERE id`, []any{"g-x", "ord-1"},
			func(r *postgres.OrderRepo) error { return r.DeleteGuide(context.Background(), "ord-1", "g-x") }},
		{"delete factura", regexp.QuoteMeta(`DELETE FROM invoices i USING guides g`), []any{"i-x", "g-1", "ord-1"},
			func(r *postgres.OrderRepo) error {
				return r.DeleteInvoice(context.Background(), "ord-1", "g-1", "i-x")
			}},
		{"update pedido", `UPDATE orders SET`, []any{"ord-x", "BCP", pgxmock.AnyArg(), pgxmock.AnyArg(), "Pending", pgxmock.AnyArg()},
			func(r *postgres.OrderRepo) error {
				_, err := r.Update(context.Background(), entity.Order{ID: "ord-x", Beneficiary: "BCP", Status: entity.OrderStatusPending})
				return err
			}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(tc.sql).WithArgs(tc.args...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

			err := tc.run(postgres.NewOrderRepository(mock))
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

// ── Letras y distribuciones ───────────────────────────────────────────────────

func TestLetterRepo_InsertCreaLetraPendiente(t *testing.T) {
	mock := newMock(t)
	monto := decimal.NewFromInt(250)

	mock.ExpectExec(`INSERT INTO letters`).
		WithArgs(pgxmock.AnyArg(), monto, fecha("2025-06-10"), "dist-1", "", "pending").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	l, err := postgres.NewLetterRepository(mock).Insert(context.Background(), entity.LetterDraft{
		Amount: monto, PaymentDate: fecha("2025-06-10"), DistributionID: "dist-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, entity.LetterStatusPending, l.Status)
	assert.Equal(t, "dist-1", l.DistributionID)
}

func TestLetterRepo_MarkAssigned(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE distributions SET assigned = TRUE`).
		WithArgs("dist-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, postgres.NewLetterRepository(mock).MarkAssigned(context.Background(), "dist-1"))
}

func TestLetterRepo_ListYUnassigned(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM letters ORDER BY payment_date`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "amount", "payment_date", "distribution_id", "company_id", "status"}).
			AddRow("l-1", decimal.NewFromInt(80), fecha("2025-06-10"), "dist-1", "", "paid"))
	mock.ExpectQuery(`FROM distributions WHERE NOT assigned`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "beneficiary", "amount", "date", "assigned"}).
			AddRow("dist-2", "", "BCP", decimal.NewFromInt(400), fecha("2025-06-01"), false))

	repo := postgres.NewLetterRepository(mock)
	letters, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, entity.LetterStatusPaid, letters[0].Status)
	assert.Equal(t, fecha("2025-06-10"), letters[0].PaymentDate)

	dists, err := repo.Unassigned(context.Background())
	require.NoError(t, err)
	require.Len(t, dists, 1)
	assert.Equal(t, "dist-2", dists[0].ID)
	assert.Empty(t, dists[0].OrderID)
	assert.False(t, dists[0].Assigned)
}

// ── Sistema ───────────────────────────────────────────────────────────────────

func TestSystemRepo_LogsNormalizaNivel(t *testing.T) {
	mock := newMock(t)
	ts := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM audit_logs ORDER BY created_at DESC`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "level", "username", "action", "message"}).
			AddRow(ts, "WARN", "ana", "login", "intento fallido"))

	logs, err := postgres.NewSystemRepository(mock).Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "warn", logs[0].Level)
	assert.Equal(t, ts, logs[0].Timestamp)
}
