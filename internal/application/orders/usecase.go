// Package orders contiene los flujos de pedidos, guías y facturas: validación local, llamada al
// colaborador remoto y confirmación en el store de la sesión solo si el remoto respondió bien.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/application/session"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/reconciliation"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
	"github.com/jhoicas/Pedidos-api/pkg/retry"
)

// errNoop la operación no aplica al estado actual (p. ej. sin pedido seleccionado).
var errNoop = errors.New("noop")

// OrderUseCase orquesta pedidos y guías de una sesión.
type OrderUseCase struct {
	gw         ports.RemoteGateway
	statements ports.StatementGenerator
	load       retry.Policy
	log        *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(gw ports.RemoteGateway, statements ports.StatementGenerator, load retry.Policy, log *logger.Logger) *OrderUseCase {
	return &OrderUseCase{gw: gw, statements: statements, load: load, log: log.Component("orders")}
}

// ── Lectura ──────────────────────────────────────────────────────────────────

// Load carga (o recarga) los pedidos desde el remoto con reintentos acotados.
func (uc *OrderUseCase) Load(ctx context.Context, sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
	var list []entity.Order
	err := uc.load.Do(ctx, func(ctx context.Context) error {
		var err error
		list, err = uc.gw.ListOrders(ctx)
		return err
	}, func(attempt int, err error) {
		uc.log.Warn().Err(err).Int("attempt", attempt).Str("session", sess.ID).Msg("reintentando carga de pedidos")
	})
	if err != nil {
		return nil, fmt.Errorf("orders: carga inicial: %w", err)
	}
	var out *dto.OrdersSnapshotResponse
	_ = sess.Do(func(st *session.State) error {
		snap := st.Orders.Replace(list)
		st.OrdersLoaded = true
		out = toSnapshotResponse(snap, st.Orders.Rules(), sess.Busy())
		return nil
	})
	return out, nil
}

// Snapshot estado actual; la primera lectura de la sesión dispara la carga inicial.
func (uc *OrderUseCase) Snapshot(ctx context.Context, sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
	var loaded bool
	_ = sess.Do(func(st *session.State) error {
		loaded = st.OrdersLoaded
		return nil
	})
	if !loaded {
		return uc.Load(ctx, sess)
	}
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) {
		return st.Orders.Snapshot(), nil
	})
}

// Statement PDF con el estado de conciliación del pedido.
func (uc *OrderUseCase) Statement(sess *session.Session, orderID string) ([]byte, error) {
	var detail reconciliation.OrderDetail
	err := sess.Do(func(st *session.State) error {
		d, ok := st.Orders.Detail(orderID)
		if !ok {
			return domain.ErrNotFound
		}
		detail = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	pdf, err := uc.statements.OrderStatement(detail)
	if err != nil {
		return nil, fmt.Errorf("orders: estado de cuenta: %w", err)
	}
	return pdf, nil
}

// ── Pedidos ──────────────────────────────────────────────────────────────────

// Create valida el formulario, registra el pedido en el remoto y lo agrega a la sesión.
func (uc *OrderUseCase) Create(ctx context.Context, sess *session.Session, in dto.OrderRequest) (*dto.OrdersSnapshotResponse, error) {
	var order, created entity.Order
	return uc.remote(ctx, sess, "create_order",
		func(st *session.State) error {
			var err error
			order, err = st.Orders.BuildOrder(toOrderInput(in))
			return err
		},
		func(ctx context.Context) error {
			var err error
			created, err = uc.gw.CreateOrder(ctx, order)
			return err
		},
		func(st *session.State) error {
			st.Orders.AddOrder(mergeOrder(order, created))
			return nil
		})
}

// Update edita la cabecera del pedido (beneficiario, monto total, fecha).
func (uc *OrderUseCase) Update(ctx context.Context, sess *session.Session, id string, in dto.OrderRequest) (*dto.OrdersSnapshotResponse, error) {
	var order, updated entity.Order
	return uc.remote(ctx, sess, "update_order",
		func(st *session.State) error {
			var err error
			order, err = st.Orders.PrepareOrderUpdate(id, toOrderInput(in))
			return err
		},
		func(ctx context.Context) error {
			var err error
			updated, err = uc.gw.UpdateOrder(ctx, order)
			return err
		},
		func(st *session.State) error {
			_, err := st.Orders.ApplyOrderUpdate(mergeOrder(order, updated))
			return err
		})
}

// Delete elimina el pedido con sus guías.
func (uc *OrderUseCase) Delete(ctx context.Context, sess *session.Session, id string) (*dto.OrdersSnapshotResponse, error) {
	return uc.remote(ctx, sess, "delete_order",
		func(st *session.State) error {
			if !st.Orders.HasOrder(id) {
				return domain.ErrNotFound
			}
			return nil
		},
		func(ctx context.Context) error { return uc.gw.DeleteOrder(ctx, id) },
		func(st *session.State) error {
			_, err := st.Orders.RemoveOrder(id)
			return err
		})
}

// Close cierre irreversible: el pedido pasa a Completed.
func (uc *OrderUseCase) Close(ctx context.Context, sess *session.Session, id string) (*dto.OrdersSnapshotResponse, error) {
	var closed entity.Order
	return uc.remote(ctx, sess, "close_order",
		func(st *session.State) error {
			var err error
			closed, err = st.Orders.PrepareClose(id)
			return err
		},
		func(ctx context.Context) error {
			_, err := uc.gw.UpdateOrder(ctx, closed)
			return err
		},
		func(st *session.State) error {
			_, err := st.Orders.MarkCompleted(id)
			return err
		})
}

// ── Selección y borrador (solo local) ────────────────────────────────────────

// Select selecciona un pedido; cambiar de pedido descarta el borrador.
func (uc *OrderUseCase) Select(sess *session.Session, id string) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) { return st.Orders.Select(id) })
}

// ClearSelection deselecciona.
func (uc *OrderUseCase) ClearSelection(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) { return st.Orders.ClearSelection(), nil })
}

// OpenDraft abre el formulario de guía nueva para el pedido seleccionado.
func (uc *OrderUseCase) OpenDraft(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) { return st.Orders.OpenGuideDraft() })
}

// EditGuide abre el formulario con una guía existente.
func (uc *OrderUseCase) EditGuide(sess *session.Session, guideID string) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) { return st.Orders.EditGuide(guideID) })
}

// SetDraftHeader actualiza número y fecha de la guía en composición.
func (uc *OrderUseCase) SetDraftHeader(sess *session.Session, in dto.DraftHeaderRequest) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) {
		return st.Orders.SetDraftHeader(in.Number, in.Date), nil
	})
}

// AddDraftInvoice agrega una factura al borrador (con control de saldo).
func (uc *OrderUseCase) AddDraftInvoice(sess *session.Session, in dto.InvoiceRequest) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) {
		return st.Orders.AddDraftInvoice(validation.InvoiceInput{Number: in.Number, Amount: in.Amount})
	})
}

// UpdateDraftInvoice edita en sitio una factura del borrador.
func (uc *OrderUseCase) UpdateDraftInvoice(sess *session.Session, index int, in dto.InvoiceRequest) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) {
		return st.Orders.UpdateDraftInvoice(index, validation.InvoiceInput{Number: in.Number, Amount: in.Amount})
	})
}

// RemoveDraftInvoice quita una factura del borrador.
func (uc *OrderUseCase) RemoveDraftInvoice(sess *session.Session, index int) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) { return st.Orders.RemoveDraftInvoice(index) })
}

// CancelDraft descarta el borrador.
func (uc *OrderUseCase) CancelDraft(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
	return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) { return st.Orders.CancelDraft(), nil })
}

// ── Guías y facturas confirmadas ─────────────────────────────────────────────

// CommitGuide envía el borrador: guía nueva → endpoint combinado de documentos; guía existente → actualización.
// Sin borrador o sin selección no hace nada.
func (uc *OrderUseCase) CommitGuide(ctx context.Context, sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
	var commit reconciliation.GuideCommit
	var saved entity.Guide
	return uc.remote(ctx, sess, "commit_guide",
		func(st *session.State) error {
			c, ok, err := st.Orders.PrepareGuide()
			if err != nil {
				return err
			}
			if !ok {
				return errNoop
			}
			commit = c
			return nil
		},
		func(ctx context.Context) error {
			if commit.Editing {
				g, err := uc.gw.UpdateGuide(ctx, commit.OrderID, commit.Guide)
				if err != nil {
					return err
				}
				saved = mergeGuide(commit.Guide, g)
				return nil
			}
			gs, err := uc.gw.CreateDocuments(ctx, commit.OrderID, []entity.Guide{commit.Guide})
			if err != nil {
				return err
			}
			saved = commit.Guide
			if len(gs) > 0 {
				saved = mergeGuide(commit.Guide, gs[0])
			}
			return nil
		},
		func(st *session.State) error {
			_, err := st.Orders.CommitGuide(commit.OrderID, saved)
			return err
		})
}

// DeleteGuide elimina una guía confirmada.
func (uc *OrderUseCase) DeleteGuide(ctx context.Context, sess *session.Session, orderID, guideID string) (*dto.OrdersSnapshotResponse, error) {
	return uc.remote(ctx, sess, "delete_guide",
		func(st *session.State) error { return st.Orders.CheckGuideMutation(orderID, guideID) },
		func(ctx context.Context) error { return uc.gw.DeleteGuide(ctx, orderID, guideID) },
		func(st *session.State) error {
			_, err := st.Orders.RemoveGuide(orderID, guideID)
			return err
		})
}

// DeleteInvoice elimina una factura de una guía confirmada; la guía no puede quedar vacía.
func (uc *OrderUseCase) DeleteInvoice(ctx context.Context, sess *session.Session, orderID, guideID, invoiceID string) (*dto.OrdersSnapshotResponse, error) {
	return uc.remote(ctx, sess, "delete_invoice",
		func(st *session.State) error { return st.Orders.CheckInvoiceRemoval(orderID, guideID, invoiceID) },
		func(ctx context.Context) error { return uc.gw.DeleteInvoice(ctx, orderID, guideID, invoiceID) },
		func(st *session.State) error {
			_, err := st.Orders.RemoveInvoice(orderID, guideID, invoiceID)
			return err
		})
}

// ── helpers ──────────────────────────────────────────────────────────────────

// local mutación sin colaborador remoto. Con error no hay snapshot: el cliente conserva el que tenía.
func (uc *OrderUseCase) local(sess *session.Session, fn func(st *session.State) (reconciliation.Snapshot, error)) (*dto.OrdersSnapshotResponse, error) {
	var out *dto.OrdersSnapshotResponse
	err := sess.Do(func(st *session.State) error {
		snap, err := fn(st)
		if err != nil {
			return err
		}
		out = toSnapshotResponse(snap, st.Orders.Rules(), sess.Busy())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// remote secuencia validar → remoto → confirmar. La llamada remota se hace fuera del lock de la
// sesión, no se reintenta y no se cancela si el cliente se desconecta.
func (uc *OrderUseCase) remote(
	ctx context.Context,
	sess *session.Session,
	op string,
	prepare func(st *session.State) error,
	call func(ctx context.Context) error,
	apply func(st *session.State) error,
) (*dto.OrdersSnapshotResponse, error) {
	end, err := sess.BeginRemote()
	if err != nil {
		return nil, err
	}
	defer end()

	if err := sess.Do(prepare); err != nil {
		if errors.Is(err, errNoop) {
			return uc.local(sess, func(st *session.State) (reconciliation.Snapshot, error) { return st.Orders.Snapshot(), nil })
		}
		return nil, err
	}

	if err := call(context.WithoutCancel(ctx)); err != nil {
		uc.log.Error().Err(err).Str("op", op).Str("session", sess.ID).Msg("operación remota fallida; estado local intacto")
		return nil, err
	}

	var out *dto.OrdersSnapshotResponse
	err = sess.Do(func(st *session.State) error {
		if err := apply(st); err != nil {
			return err
		}
		out = toSnapshotResponse(st.Orders.Snapshot(), st.Orders.Rules(), false)
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("op", op).Str("session", sess.ID).Msg("el estado local cambió durante la operación remota")
		return nil, err
	}
	uc.log.Info().Str("op", op).Str("session", sess.ID).Msg("operación confirmada")
	return out, nil
}

func toOrderInput(in dto.OrderRequest) validation.OrderInput {
	return validation.OrderInput{Beneficiary: in.Beneficiary, TotalAmount: in.TotalAmount, Date: in.Date}
}

// mergeOrder toma lo que devolvió el remoto y completa con el valor local lo que vino vacío.
func mergeOrder(local, remote entity.Order) entity.Order {
	out := local
	if remote.ID != "" {
		out.ID = remote.ID
	}
	if remote.Beneficiary != "" {
		out.Beneficiary = remote.Beneficiary
	}
	if remote.TotalAmount.IsPositive() {
		out.TotalAmount = remote.TotalAmount
	}
	if !remote.Date.IsZero() {
		out.Date = remote.Date
	}
	if remote.Status != "" {
		out.Status = remote.Status
	}
	if len(remote.Guides) > 0 {
		out.Guides = remote.Guides
	}
	if !remote.UpdatedAt.IsZero() {
		out.UpdatedAt = remote.UpdatedAt
	}
	return out
}

// mergeGuide idem para guías; las facturas del remoto reemplazan a las locales solo si vienen completas.
func mergeGuide(local, remote entity.Guide) entity.Guide {
	out := local.Clone()
	if remote.ID != "" {
		out.ID = remote.ID
	}
	if remote.Number != "" {
		out.Number = remote.Number
	}
	if !remote.Date.IsZero() {
		out.Date = remote.Date
	}
	if len(remote.Invoices) == len(local.Invoices) && len(remote.Invoices) > 0 {
		out.Invoices = append([]entity.Invoice(nil), remote.Invoices...)
	}
	return out
}
