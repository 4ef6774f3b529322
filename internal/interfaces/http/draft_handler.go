package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/session"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// DraftHandler formulario de guía del pedido seleccionado. Todo es local salvo Commit.
type DraftHandler struct {
	uc  *orders.OrderUseCase
	log *logger.Logger
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *orders.OrderUseCase, log *logger.Logger) *DraftHandler {
	return &DraftHandler{uc: uc, log: log}
}

type snapshotFn func(sess *session.Session) (*dto.OrdersSnapshotResponse, error)

func (h *DraftHandler) run(c *fiber.Ctx, fn snapshotFn) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := fn(sess)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Open godoc
// @Summary      Abrir borrador de guía nueva
// @Tags         draft
// @Produce      json
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/draft [post]
func (h *DraftHandler) Open(c *fiber.Ctx) error {
	return h.run(c, h.uc.OpenDraft)
}

// EditGuide godoc
// @Summary      Abrir una guía existente para edición
// @Tags         draft
// @Produce      json
// @Param        guideId  path  string  true  "ID de la guía"
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/draft/guides/{guideId} [post]
func (h *DraftHandler) EditGuide(c *fiber.Ctx) error {
	guideID := c.Params("guideId")
	return h.run(c, func(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
		return h.uc.EditGuide(sess, guideID)
	})
}

// SetHeader godoc
// @Summary      Actualizar número y fecha de la guía
// @Tags         draft
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DraftHeaderRequest  true  "Cabecera"
// @Success      200   {object}  dto.OrdersSnapshotResponse
// @Router       /api/draft [put]
func (h *DraftHandler) SetHeader(c *fiber.Ctx) error {
	var in dto.DraftHeaderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.run(c, func(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
		return h.uc.SetDraftHeader(sess, in)
	})
}

// Cancel godoc
// @Summary      Descartar el borrador
// @Tags         draft
// @Produce      json
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Router       /api/draft [delete]
func (h *DraftHandler) Cancel(c *fiber.Ctx) error {
	return h.run(c, h.uc.CancelDraft)
}

// AddInvoice godoc
// @Summary      Agregar factura al borrador
// @Tags         draft
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "Factura"
// @Success      200   {object}  dto.OrdersSnapshotResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/draft/invoices [post]
func (h *DraftHandler) AddInvoice(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.run(c, func(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
		return h.uc.AddDraftInvoice(sess, in)
	})
}

// UpdateInvoice godoc
// @Summary      Editar una factura del borrador
// @Tags         draft
// @Accept       json
// @Produce      json
// @Param        index  path  int                 true  "Posición de la factura"
// @Param        body   body  dto.InvoiceRequest  true  "Factura"
// @Success      200    {object}  dto.OrdersSnapshotResponse
// @Failure      422    {object}  dto.ErrorResponse
// @Router       /api/draft/invoices/{index} [put]
func (h *DraftHandler) UpdateInvoice(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "index debe ser numérico"})
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.run(c, func(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
		return h.uc.UpdateDraftInvoice(sess, index, in)
	})
}

// RemoveInvoice godoc
// @Summary      Quitar una factura del borrador
// @Tags         draft
// @Produce      json
// @Param        index  path  int  true  "Posición de la factura"
// @Success      200    {object}  dto.OrdersSnapshotResponse
// @Router       /api/draft/invoices/{index} [delete]
func (h *DraftHandler) RemoveInvoice(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "index debe ser numérico"})
	}
	return h.run(c, func(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
		return h.uc.RemoveDraftInvoice(sess, index)
	})
}

// Commit godoc
// @Summary      Confirmar la guía en el servicio remoto
// @Tags         draft
// @Produce      json
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/draft/commit [post]
func (h *DraftHandler) Commit(c *fiber.Ctx) error {
	return h.run(c, func(sess *session.Session) (*dto.OrdersSnapshotResponse, error) {
		return h.uc.CommitGuide(c.UserContext(), sess)
	})
}
