package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// OrderHandler pedidos, selección y estado de conciliación.
type OrderHandler struct {
	uc  *orders.OrderUseCase
	log *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase, log *logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// Snapshot godoc
// @Summary      Estado de pedidos de la sesión
// @Description  La primera lectura de la sesión carga los pedidos del servicio remoto.
// @Tags         orders
// @Produce      json
// @Param        X-Session-ID  header  string  false  "ID de sesión"
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) Snapshot(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.Snapshot(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reload godoc
// @Summary      Recargar pedidos desde el servicio remoto
// @Tags         orders
// @Produce      json
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/reload [post]
func (h *OrderHandler) Reload(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.Load(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear pedido
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderRequest  true  "Datos del pedido"
// @Success      201   {object}  dto.OrdersSnapshotResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	var in dto.OrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), sess, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar pedido
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del pedido"
// @Param        body  body  dto.OrderRequest  true  "Datos del pedido"
// @Success      200   {object}  dto.OrdersSnapshotResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	var in dto.OrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), sess, c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pedido
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.Delete(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Completar pedido
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/close [post]
func (h *OrderHandler) Close(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.Close(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Select godoc
// @Summary      Seleccionar pedido
// @Description  Cambiar de pedido descarta el borrador de guía abierto.
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/select [post]
func (h *OrderHandler) Select(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	if _, err := h.uc.Snapshot(c.UserContext(), sess); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Select(sess, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ClearSelection godoc
// @Summary      Quitar selección de pedido
// @Tags         orders
// @Produce      json
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Router       /api/orders/selection [delete]
func (h *OrderHandler) ClearSelection(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.ClearSelection(sess)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Estado de conciliación en PDF
// @Tags         orders
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/statement [get]
func (h *OrderHandler) Statement(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	if _, err := h.uc.Snapshot(c.UserContext(), sess); err != nil {
		return respondError(c, h.log, err)
	}
	id := c.Params("id")
	pdf, err := h.uc.Statement(sess, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="pedido-`+id+`.pdf"`)
	return c.Send(pdf)
}

// DeleteGuide godoc
// @Summary      Eliminar guía
// @Tags         orders
// @Produce      json
// @Param        id       path  string  true  "ID del pedido"
// @Param        guideId  path  string  true  "ID de la guía"
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/guides/{guideId} [delete]
func (h *OrderHandler) DeleteGuide(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.DeleteGuide(c.UserContext(), sess, c.Params("id"), c.Params("guideId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteInvoice godoc
// @Summary      Eliminar factura de una guía
// @Tags         orders
// @Produce      json
// @Param        id         path  string  true  "ID del pedido"
// @Param        guideId    path  string  true  "ID de la guía"
// @Param        invoiceId  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.OrdersSnapshotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/guides/{guideId}/invoices/{invoiceId} [delete]
func (h *OrderHandler) DeleteInvoice(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.DeleteInvoice(c.UserContext(), sess, c.Params("id"), c.Params("guideId"), c.Params("invoiceId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
