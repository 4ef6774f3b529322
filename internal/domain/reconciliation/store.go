// Package reconciliation mantiene en memoria la colección pedido → guías → facturas de una
// sesión, junto con la selección actual y el borrador de guía. Cada mutación devuelve un
// Snapshot con los agregados recalculados.
package reconciliation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/balance"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

// guideDraft guía en composición. Solo existe mientras el formulario está abierto.
type guideDraft struct {
	orderID        string
	editingGuideID string
	number         string
	date           string
	invoices       []entity.Invoice
}

func (d *guideDraft) total() decimal.Decimal {
	t := decimal.Zero
	for _, inv := range d.invoices {
		t = t.Add(inv.Amount)
	}
	return t
}

// Store colección en memoria de una sesión. No es segura para uso concurrente.
type Store struct {
	rules      validation.Rules
	orders     []*entity.Order
	selectedID string
	draft      *guideDraft
	now        func() time.Time
}

// NewStore construye un store vacío con las reglas de validación inyectadas.
func NewStore(rules validation.Rules) *Store {
	return &Store{rules: rules, now: time.Now}
}

// Rules reglas con las que valida el store.
func (s *Store) Rules() validation.Rules { return s.rules }

// ── Pedidos ──────────────────────────────────────────────────────────────────

// Replace reemplaza la colección (carga inicial). Conserva la selección si el pedido sigue existiendo.
func (s *Store) Replace(orders []entity.Order) Snapshot {
	s.orders = make([]*entity.Order, 0, len(orders))
	for _, o := range orders {
		c := o.Clone()
		s.orders = append(s.orders, &c)
	}
	if s.selectedID != "" && s.find(s.selectedID) == nil {
		s.clearSelection()
	}
	return s.Snapshot()
}

// BuildOrder valida el formulario y arma un pedido nuevo en estado Pending con ID UUIDv7.
func (s *Store) BuildOrder(in validation.OrderInput) (entity.Order, error) {
	if err := s.rules.ValidateOrder(in).Err(); err != nil {
		return entity.Order{}, err
	}
	amount, _ := validation.ParseAmount(in.TotalAmount)
	date, _ := entity.ParseDate(in.Date)
	now := s.now()
	return entity.Order{
		ID:          newOrderID(),
		Beneficiary: strings.TrimSpace(in.Beneficiary),
		TotalAmount: amount,
		Date:        date,
		Status:      entity.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddOrder inserta un pedido ya confirmado por el servidor.
func (s *Store) AddOrder(o entity.Order) Snapshot {
	c := o.Clone()
	if i := s.index(o.ID); i >= 0 {
		s.orders[i] = &c
	} else {
		s.orders = append(s.orders, &c)
	}
	return s.Snapshot()
}

// PrepareOrderUpdate valida el formulario y devuelve la copia editada (reemplaza el estado del formulario).
func (s *Store) PrepareOrderUpdate(id string, in validation.OrderInput) (entity.Order, error) {
	o := s.find(id)
	if o == nil {
		return entity.Order{}, domain.ErrNotFound
	}
	if o.Status == entity.OrderStatusCompleted {
		return entity.Order{}, domain.ErrOrderClosed
	}
	if err := s.rules.ValidateOrder(in).Err(); err != nil {
		return entity.Order{}, err
	}
	out := o.Clone()
	out.Beneficiary = strings.TrimSpace(in.Beneficiary)
	out.TotalAmount, _ = validation.ParseAmount(in.TotalAmount)
	out.Date, _ = entity.ParseDate(in.Date)
	out.UpdatedAt = s.now()
	return out, nil
}

// ApplyOrderUpdate aplica la cabecera confirmada por el servidor; las guías locales se conservan.
func (s *Store) ApplyOrderUpdate(o entity.Order) (Snapshot, error) {
	cur := s.find(o.ID)
	if cur == nil {
		return s.Snapshot(), domain.ErrNotFound
	}
	cur.Beneficiary = o.Beneficiary
	cur.TotalAmount = o.TotalAmount
	cur.Date = o.Date
	if o.Status != "" {
		cur.Status = o.Status
	}
	cur.UpdatedAt = o.UpdatedAt
	return s.Snapshot(), nil
}

// PrepareClose verifica que el pedido pueda pasar a Completed y devuelve la copia cerrada.
func (s *Store) PrepareClose(id string) (entity.Order, error) {
	o := s.find(id)
	if o == nil {
		return entity.Order{}, domain.ErrNotFound
	}
	if !o.Status.CanTransitionTo(entity.OrderStatusCompleted) {
		return entity.Order{}, domain.ErrOrderClosed
	}
	out := o.Clone()
	out.Status = entity.OrderStatusCompleted
	out.UpdatedAt = s.now()
	return out, nil
}

// MarkCompleted cierre irreversible del pedido.
func (s *Store) MarkCompleted(id string) (Snapshot, error) {
	o := s.find(id)
	if o == nil {
		return s.Snapshot(), domain.ErrNotFound
	}
	if o.Status != entity.OrderStatusCompleted {
		o.Status = entity.OrderStatusCompleted
		o.UpdatedAt = s.now()
	}
	if s.draft != nil && s.draft.orderID == id {
		s.draft = nil
	}
	return s.Snapshot(), nil
}

// RemoveOrder elimina el pedido con sus guías. Si estaba seleccionado se limpian selección y borrador.
func (s *Store) RemoveOrder(id string) (Snapshot, error) {
	i := s.index(id)
	if i < 0 {
		return s.Snapshot(), domain.ErrNotFound
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	if s.selectedID == id {
		s.clearSelection()
	}
	return s.Snapshot(), nil
}

// HasOrder true si el pedido existe en la sesión.
func (s *Store) HasOrder(id string) bool { return s.find(id) != nil }

// Order copia del pedido.
func (s *Store) Order(id string) (entity.Order, bool) {
	o := s.find(id)
	if o == nil {
		return entity.Order{}, false
	}
	return o.Clone(), true
}

// Detail pedido con sus guías y totales, esté o no seleccionado.
func (s *Store) Detail(id string) (OrderDetail, bool) {
	o := s.find(id)
	if o == nil {
		return OrderDetail{}, false
	}
	return *detail(o), true
}

// ── Selección ────────────────────────────────────────────────────────────────

// Select cambia el pedido seleccionado; cambiar de pedido descarta el borrador.
func (s *Store) Select(id string) (Snapshot, error) {
	if s.find(id) == nil {
		return s.Snapshot(), domain.ErrNotFound
	}
	if s.selectedID != id {
		s.draft = nil
	}
	s.selectedID = id
	return s.Snapshot(), nil
}

// ClearSelection deselecciona y descarta el borrador.
func (s *Store) ClearSelection() Snapshot {
	s.clearSelection()
	return s.Snapshot()
}

// SelectedID pedido seleccionado ("" si ninguno).
func (s *Store) SelectedID() string { return s.selectedID }

func (s *Store) clearSelection() {
	s.selectedID = ""
	s.draft = nil
}

// ── Borrador de guía ─────────────────────────────────────────────────────────

// OpenGuideDraft abre el formulario de guía nueva. Sin pedido seleccionado no hace nada.
func (s *Store) OpenGuideDraft() (Snapshot, error) {
	o := s.selected()
	if o == nil {
		return s.Snapshot(), nil
	}
	if o.Status == entity.OrderStatusCompleted {
		return s.Snapshot(), domain.ErrOrderClosed
	}
	s.draft = &guideDraft{orderID: o.ID}
	return s.Snapshot(), nil
}

// EditGuide abre el formulario con una guía existente del pedido seleccionado.
func (s *Store) EditGuide(guideID string) (Snapshot, error) {
	o := s.selected()
	if o == nil {
		return s.Snapshot(), nil
	}
	if o.Status == entity.OrderStatusCompleted {
		return s.Snapshot(), domain.ErrOrderClosed
	}
	g := findGuide(o, guideID)
	if g == nil {
		return s.Snapshot(), domain.ErrNotFound
	}
	s.draft = &guideDraft{
		orderID:        o.ID,
		editingGuideID: g.ID,
		number:         g.Number,
		date:           entity.DateKey(g.Date),
		invoices:       append([]entity.Invoice(nil), g.Invoices...),
	}
	return s.Snapshot(), nil
}

// SetDraftHeader número y fecha de la guía en composición.
func (s *Store) SetDraftHeader(number, date string) Snapshot {
	if s.draft == nil {
		return s.Snapshot()
	}
	s.draft.number = number
	s.draft.date = date
	return s.Snapshot()
}

// AddDraftInvoice agrega una factura al borrador. Rechaza montos que superen el saldo restante del pedido.
// Sin pedido seleccionado es un no-op.
func (s *Store) AddDraftInvoice(in validation.InvoiceInput) (Snapshot, error) {
	o := s.selected()
	if o == nil {
		return s.Snapshot(), nil
	}
	if o.Status == entity.OrderStatusCompleted {
		return s.Snapshot(), domain.ErrOrderClosed
	}
	if s.draft == nil {
		s.draft = &guideDraft{orderID: o.ID}
	}
	if err := validation.ValidateInvoice(in).Err(); err != nil {
		return s.Snapshot(), err
	}
	amount, _ := validation.ParseAmount(in.Amount)
	remaining := balance.Remaining(*o, s.draft.editingGuideID, s.draft.total())
	if err := balance.CheckInvoiceOverage(amount, remaining); err != nil {
		return s.Snapshot(), err
	}
	s.draft.invoices = append(s.draft.invoices, entity.Invoice{
		ID:     uuid.NewString(),
		Number: strings.TrimSpace(in.Number),
		Amount: amount,
	})
	return s.Snapshot(), nil
}

// UpdateDraftInvoice edición en sitio: exenta del control de saldo.
func (s *Store) UpdateDraftInvoice(index int, in validation.InvoiceInput) (Snapshot, error) {
	if s.selected() == nil || s.draft == nil {
		return s.Snapshot(), nil
	}
	if index < 0 || index >= len(s.draft.invoices) {
		return s.Snapshot(), domain.ErrNotFound
	}
	if err := validation.ValidateInvoice(in).Err(); err != nil {
		return s.Snapshot(), err
	}
	amount, _ := validation.ParseAmount(in.Amount)
	s.draft.invoices[index].Number = strings.TrimSpace(in.Number)
	s.draft.invoices[index].Amount = amount
	return s.Snapshot(), nil
}

// RemoveDraftInvoice quita una factura del borrador.
func (s *Store) RemoveDraftInvoice(index int) (Snapshot, error) {
	if s.selected() == nil || s.draft == nil {
		return s.Snapshot(), nil
	}
	if index < 0 || index >= len(s.draft.invoices) {
		return s.Snapshot(), domain.ErrNotFound
	}
	s.draft.invoices = append(s.draft.invoices[:index], s.draft.invoices[index+1:]...)
	return s.Snapshot(), nil
}

// CancelDraft descarta el borrador.
func (s *Store) CancelDraft() Snapshot {
	s.draft = nil
	return s.Snapshot()
}

// GuideCommit guía validada lista para enviarse al servidor.
type GuideCommit struct {
	OrderID string
	Guide   entity.Guide
	Editing bool
}

// PrepareGuide valida el borrador. ok=false si no hay borrador ni pedido seleccionado (no-op).
func (s *Store) PrepareGuide() (GuideCommit, bool, error) {
	o := s.selected()
	if o == nil || s.draft == nil {
		return GuideCommit{}, false, nil
	}
	if o.Status == entity.OrderStatusCompleted {
		return GuideCommit{}, false, domain.ErrOrderClosed
	}
	errs := validation.ValidateGuide(validation.GuideInput{
		Number:       s.draft.number,
		Date:         s.draft.date,
		InvoiceCount: len(s.draft.invoices),
	})
	if err := errs.Err(); err != nil {
		return GuideCommit{}, false, err
	}
	date, _ := entity.ParseDate(s.draft.date)
	id := s.draft.editingGuideID
	if id == "" {
		id = uuid.NewString()
	}
	return GuideCommit{
		OrderID: o.ID,
		Guide: entity.Guide{
			ID:       id,
			Number:   strings.TrimSpace(s.draft.number),
			Date:     date,
			Invoices: append([]entity.Invoice(nil), s.draft.invoices...),
		},
		Editing: s.draft.editingGuideID != "",
	}, true, nil
}

// CommitGuide incorpora la guía confirmada al pedido (reemplaza si ya existe) y cierra el borrador.
func (s *Store) CommitGuide(orderID string, g entity.Guide) (Snapshot, error) {
	o := s.find(orderID)
	if o == nil {
		return s.Snapshot(), domain.ErrNotFound
	}
	c := g.Clone()
	replaced := false
	for i := range o.Guides {
		if o.Guides[i].ID == c.ID {
			o.Guides[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		o.Guides = append(o.Guides, c)
	}
	o.UpdatedAt = s.now()
	if s.draft != nil && s.draft.orderID == orderID {
		s.draft = nil
	}
	return s.Snapshot(), nil
}

// ── Guías y facturas confirmadas ─────────────────────────────────────────────

// CheckGuideMutation verifica que la guía exista y que el pedido no esté cerrado.
func (s *Store) CheckGuideMutation(orderID, guideID string) error {
	o := s.find(orderID)
	if o == nil {
		return domain.ErrNotFound
	}
	if o.Status == entity.OrderStatusCompleted {
		return domain.ErrOrderClosed
	}
	if findGuide(o, guideID) == nil {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveGuide quita la guía. Si el borrador la estaba editando se descarta.
func (s *Store) RemoveGuide(orderID, guideID string) (Snapshot, error) {
	o := s.find(orderID)
	if o == nil {
		return s.Snapshot(), domain.ErrNotFound
	}
	for i := range o.Guides {
		if o.Guides[i].ID == guideID {
			o.Guides = append(o.Guides[:i], o.Guides[i+1:]...)
			o.UpdatedAt = s.now()
			if s.draft != nil && s.draft.editingGuideID == guideID {
				s.draft = nil
			}
			return s.Snapshot(), nil
		}
	}
	return s.Snapshot(), domain.ErrNotFound
}

// CheckInvoiceRemoval una guía no puede quedar sin facturas.
func (s *Store) CheckInvoiceRemoval(orderID, guideID, invoiceID string) error {
	if err := s.CheckGuideMutation(orderID, guideID); err != nil {
		return err
	}
	g := findGuide(s.find(orderID), guideID)
	if findInvoice(g, invoiceID) < 0 {
		return domain.ErrNotFound
	}
	if len(g.Invoices) == 1 {
		return domain.NewValidationError(map[string]string{"invoices": validation.MsgGuideNoInvoices})
	}
	return nil
}

// RemoveInvoice quita una factura de una guía confirmada.
func (s *Store) RemoveInvoice(orderID, guideID, invoiceID string) (Snapshot, error) {
	if err := s.CheckInvoiceRemoval(orderID, guideID, invoiceID); err != nil {
		return s.Snapshot(), err
	}
	o := s.find(orderID)
	g := findGuide(o, guideID)
	i := findInvoice(g, invoiceID)
	g.Invoices = append(g.Invoices[:i], g.Invoices[i+1:]...)
	o.UpdatedAt = s.now()
	return s.Snapshot(), nil
}

// ── Snapshot ─────────────────────────────────────────────────────────────────

// Snapshot recalcula todos los agregados.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Orders:           make([]OrderSummary, 0, len(s.orders)),
		TotalAmount:      decimal.Zero,
		TotalDistributed: decimal.Zero,
	}
	for _, o := range s.orders {
		sum := summarize(o)
		snap.Orders = append(snap.Orders, sum)
		snap.TotalAmount = snap.TotalAmount.Add(sum.TotalAmount)
		snap.TotalDistributed = snap.TotalDistributed.Add(sum.Distributed)
	}
	if o := s.selected(); o != nil {
		snap.Selected = detail(o)
		if s.draft != nil && s.draft.orderID == o.ID {
			total := s.draft.total()
			snap.Draft = &DraftView{
				OrderID:        o.ID,
				EditingGuideID: s.draft.editingGuideID,
				Number:         s.draft.number,
				Date:           s.draft.date,
				Invoices:       append([]entity.Invoice(nil), s.draft.invoices...),
				Total:          total,
				Remaining:      balance.Remaining(*o, s.draft.editingGuideID, total),
			}
		}
	}
	return snap
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *Store) index(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) find(id string) *entity.Order {
	if i := s.index(id); i >= 0 {
		return s.orders[i]
	}
	return nil
}

func (s *Store) selected() *entity.Order {
	if s.selectedID == "" {
		return nil
	}
	return s.find(s.selectedID)
}

func findGuide(o *entity.Order, guideID string) *entity.Guide {
	for i := range o.Guides {
		if o.Guides[i].ID == guideID {
			return &o.Guides[i]
		}
	}
	return nil
}

func findInvoice(g *entity.Guide, invoiceID string) int {
	for i, inv := range g.Invoices {
		if inv.ID == invoiceID {
			return i
		}
	}
	return -1
}

func newOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
