package reconciliation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/reconciliation"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func newStore() *reconciliation.Store {
	return reconciliation.NewStore(validation.NewRules([]string{"BCP", "BBVA"}))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// storeWithOrder crea un pedido de 1000 y lo selecciona.
func storeWithOrder(t *testing.T) (*reconciliation.Store, string) {
	t.Helper()
	s := newStore()
	o, err := s.BuildOrder(validation.OrderInput{Beneficiary: "BCP", TotalAmount: "1000", Date: "2025-06-02"})
	require.NoError(t, err)
	s.AddOrder(o)
	_, err = s.Select(o.ID)
	require.NoError(t, err)
	return s, o.ID
}

// commitGuide compone y confirma una guía con las facturas indicadas.
func commitGuide(t *testing.T, s *reconciliation.Store, number string, amounts ...string) entity.Guide {
	t.Helper()
	_, err := s.OpenGuideDraft()
	require.NoError(t, err)
	s.SetDraftHeader(number, "2025-06-03")
	for i, a := range amounts {
		_, err := s.AddDraftInvoice(validation.InvoiceInput{Number: number + "-F" + string(rune('1'+i)), Amount: a})
		require.NoError(t, err)
	}
	commit, ok, err := s.PrepareGuide()
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.CommitGuide(commit.OrderID, commit.Guide)
	require.NoError(t, err)
	return commit.Guide
}

// ── pedidos ───────────────────────────────────────────────────────────────────

func TestBuildOrder_ValidaYAsignaID(t *testing.T) {
	s := newStore()
	_, err := s.BuildOrder(validation.OrderInput{Beneficiary: "X", TotalAmount: "0"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "beneficiary")
	assert.Contains(t, ve.Fields, "total_amount")
	assert.Contains(t, ve.Fields, "date")
	assert.Empty(t, s.Snapshot().Orders, "un pedido inválido no modifica el estado")

	o, err := s.BuildOrder(validation.OrderInput{Beneficiary: " BCP ", TotalAmount: "1500.50", Date: "2025-06-02"})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "BCP", o.Beneficiary)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.True(t, dec("1500.50").Equal(o.TotalAmount))
}

// Ejemplo 1 recalculado a través del store.
func TestStore_Ejemplo1Agregados(t *testing.T) {
	s, id := storeWithOrder(t)
	commitGuide(t, s, "G1", "300", "200")

	snap := s.Snapshot()
	require.Len(t, snap.Orders, 1)
	sum := snap.Orders[0]
	assert.Equal(t, id, sum.ID)
	assert.True(t, dec("500").Equal(sum.Distributed))
	assert.True(t, dec("500").Equal(sum.Balance))
	assert.Equal(t, 50, sum.Progress)
	assert.Equal(t, 1, sum.GuideCount)

	require.NotNil(t, snap.Selected)
	require.Len(t, snap.Selected.Guides, 1)
	assert.True(t, dec("500").Equal(snap.Selected.Guides[0].Total))
	assert.Nil(t, snap.Draft, "el borrador se descarta tras confirmar")
}

// Ejemplo 3: factura de 600 con saldo 500 → rechazo que nombra el saldo.
func TestStore_Ejemplo3Sobreasignacion(t *testing.T) {
	s, _ := storeWithOrder(t)
	commitGuide(t, s, "G1", "300", "200")

	_, err := s.OpenGuideDraft()
	require.NoError(t, err)
	snap, err := s.AddDraftInvoice(validation.InvoiceInput{Number: "F9", Amount: "600"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverage)
	assert.Contains(t, err.Error(), "500.00")
	require.NotNil(t, snap.Draft)
	assert.Empty(t, snap.Draft.Invoices, "la factura rechazada no entra al borrador")

	snap, err = s.AddDraftInvoice(validation.InvoiceInput{Number: "F9", Amount: "450"})
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(snap.Draft.Remaining))

	_, err = s.AddDraftInvoice(validation.InvoiceInput{Number: "F10", Amount: "60"})
	assert.ErrorIs(t, err, domain.ErrOverage, "el saldo considera las facturas pendientes del borrador")
}

func TestStore_EdicionEnSitioExentaDeSaldo(t *testing.T) {
	s, _ := storeWithOrder(t)
	_, err := s.OpenGuideDraft()
	require.NoError(t, err)
	_, err = s.AddDraftInvoice(validation.InvoiceInput{Number: "F1", Amount: "900"})
	require.NoError(t, err)

	snap, err := s.UpdateDraftInvoice(0, validation.InvoiceInput{Number: "F1", Amount: "1200"})
	require.NoError(t, err, "la edición en sitio no pasa por el control de saldo")
	assert.True(t, dec("1200").Equal(snap.Draft.Total))
	assert.True(t, dec("-200").Equal(snap.Draft.Remaining))

	_, err = s.UpdateDraftInvoice(3, validation.InvoiceInput{Number: "F1", Amount: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_EditarGuiaExistenteNoCuentaSuTotal(t *testing.T) {
	s, id := storeWithOrder(t)
	g := commitGuide(t, s, "G1", "800")

	snap, err := s.EditGuide(g.ID)
	require.NoError(t, err)
	require.NotNil(t, snap.Draft)
	assert.Equal(t, g.ID, snap.Draft.EditingGuideID)
	assert.True(t, dec("200").Equal(snap.Draft.Remaining))

	_, err = s.AddDraftInvoice(validation.InvoiceInput{Number: "F2", Amount: "200"})
	require.NoError(t, err)
	commit, ok, err := s.PrepareGuide()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, commit.Editing)

	snap, err = s.CommitGuide(id, commit.Guide)
	require.NoError(t, err)
	require.Len(t, snap.Selected.Guides, 1, "editar reemplaza, no duplica")
	assert.Equal(t, 100, snap.Orders[0].Progress)
}

func TestStore_GuiaSinFacturasEsError(t *testing.T) {
	s, _ := storeWithOrder(t)
	_, err := s.OpenGuideDraft()
	require.NoError(t, err)
	s.SetDraftHeader("G1", "2025-06-03")

	_, ok, err := s.PrepareGuide()
	assert.False(t, ok)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, validation.MsgGuideNoInvoices, ve.Fields["invoices"])
}

// Ejemplo 5: eliminar el pedido seleccionado limpia selección y borrador.
func TestStore_Ejemplo5EliminarSeleccionado(t *testing.T) {
	s, id := storeWithOrder(t)
	_, err := s.OpenGuideDraft()
	require.NoError(t, err)
	_, err = s.AddDraftInvoice(validation.InvoiceInput{Number: "F1", Amount: "10"})
	require.NoError(t, err)

	snap, err := s.RemoveOrder(id)
	require.NoError(t, err)
	assert.Empty(t, snap.Orders)
	assert.Nil(t, snap.Selected)
	assert.Nil(t, snap.Draft)
	assert.Empty(t, s.SelectedID())
}

func TestStore_CambiarSeleccionDescartaBorrador(t *testing.T) {
	s, first := storeWithOrder(t)
	o2, err := s.BuildOrder(validation.OrderInput{Beneficiary: "BBVA", TotalAmount: "50", Date: "2025-06-04"})
	require.NoError(t, err)
	s.AddOrder(o2)

	_, err = s.OpenGuideDraft()
	require.NoError(t, err)
	s.SetDraftHeader("G1", "2025-06-03")

	snap, err := s.Select(first)
	require.NoError(t, err)
	assert.NotNil(t, snap.Draft, "reseleccionar el mismo pedido conserva el borrador")

	snap, err = s.Select(o2.ID)
	require.NoError(t, err)
	assert.Nil(t, snap.Draft)

	_, err = s.Select("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, o2.ID, s.SelectedID())
}

func TestStore_SinSeleccionEsNoOp(t *testing.T) {
	s := newStore()
	before := s.Snapshot()

	snap, err := s.AddDraftInvoice(validation.InvoiceInput{Number: "F1", Amount: "10"})
	assert.NoError(t, err)
	assert.Equal(t, before, snap)

	snap, err = s.OpenGuideDraft()
	assert.NoError(t, err)
	assert.Nil(t, snap.Draft)

	_, ok, err := s.PrepareGuide()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PedidoCerradoNoAdmiteGuias(t *testing.T) {
	s, id := storeWithOrder(t)
	closed, err := s.PrepareClose(id)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, closed.Status)

	_, err = s.MarkCompleted(id)
	require.NoError(t, err)

	_, err = s.OpenGuideDraft()
	assert.ErrorIs(t, err, domain.ErrOrderClosed)
	_, err = s.PrepareClose(id)
	assert.ErrorIs(t, err, domain.ErrOrderClosed, "Completed es terminal")
	_, err = s.PrepareOrderUpdate(id, validation.OrderInput{Beneficiary: "BCP", TotalAmount: "5", Date: "2025-06-02"})
	assert.ErrorIs(t, err, domain.ErrOrderClosed)
}

func TestStore_EliminarFacturaYGuia(t *testing.T) {
	s, id := storeWithOrder(t)
	g := commitGuide(t, s, "G1", "100", "50")

	err := s.CheckInvoiceRemoval(id, g.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	snap, err := s.RemoveInvoice(id, g.ID, g.Invoices[0].ID)
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(snap.Orders[0].Distributed))

	_, err = s.RemoveInvoice(id, g.ID, g.Invoices[1].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la guía no puede quedar sin facturas")

	snap, err = s.RemoveGuide(id, g.ID)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(snap.Orders[0].Distributed))
	assert.Equal(t, 0, snap.Orders[0].Progress)
}

func TestStore_ReplaceConservaSeleccionExistente(t *testing.T) {
	s, id := storeWithOrder(t)
	o, ok := s.Order(id)
	require.True(t, ok)

	snap := s.Replace([]entity.Order{o})
	require.NotNil(t, snap.Selected)

	snap = s.Replace(nil)
	assert.Nil(t, snap.Selected)
	assert.Empty(t, s.SelectedID())
}

func TestStore_ApplyOrderUpdateConservaGuias(t *testing.T) {
	s, id := storeWithOrder(t)
	commitGuide(t, s, "G1", "250")

	upd, err := s.PrepareOrderUpdate(id, validation.OrderInput{Beneficiary: "BBVA", TotalAmount: "500", Date: "2025-06-05"})
	require.NoError(t, err)
	upd.Guides = nil

	snap, err := s.ApplyOrderUpdate(upd)
	require.NoError(t, err)
	assert.Equal(t, "BBVA", snap.Orders[0].Beneficiary)
	assert.Equal(t, 1, snap.Orders[0].GuideCount)
	assert.Equal(t, 50, snap.Orders[0].Progress)
}
