package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/letters"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// LetterHandler letras, calendario y creación masiva.
type LetterHandler struct {
	uc  *letters.LetterUseCase
	log *logger.Logger
}

// NewLetterHandler construye el handler.
func NewLetterHandler(uc *letters.LetterUseCase, log *logger.Logger) *LetterHandler {
	return &LetterHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar letras
// @Tags         letters
// @Produce      json
// @Success      200  {object}  dto.LetterListResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/letters [get]
func (h *LetterHandler) List(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reload godoc
// @Summary      Recargar letras y distribuciones
// @Tags         letters
// @Produce      json
// @Success      200  {object}  dto.LetterListResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/letters/reload [post]
func (h *LetterHandler) Reload(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	if err := h.uc.Load(c.UserContext(), sess); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Calendar godoc
// @Summary      Calendario mensual de letras
// @Tags         letters
// @Produce      json
// @Param        year   query  int  false  "Año (por defecto el actual)"
// @Param        month  query  int  false  "Mes 1-12 (por defecto el actual)"
// @Success      200    {object}  dto.CalendarResponse
// @Failure      422    {object}  dto.ErrorResponse
// @Router       /api/letters/calendar [get]
func (h *LetterHandler) Calendar(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.Calendar(c.UserContext(), sess, c.QueryInt("year"), c.QueryInt("month"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ToggleDate godoc
// @Summary      Marcar o desmarcar una fecha de pago
// @Tags         letters
// @Produce      json
// @Param        date  path  string  true  "Fecha YYYY-MM-DD"
// @Success      200   {object}  dto.CalendarResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/letters/selection/{date} [post]
func (h *LetterHandler) ToggleDate(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.ToggleDate(c.UserContext(), sess, c.Params("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ClearSelection godoc
// @Summary      Limpiar fechas seleccionadas
// @Tags         letters
// @Produce      json
// @Param        year   query  int  false  "Año"
// @Param        month  query  int  false  "Mes 1-12"
// @Success      200    {object}  dto.CalendarResponse
// @Router       /api/letters/selection [delete]
func (h *LetterHandler) ClearSelection(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.ClearSelection(c.UserContext(), sess, c.QueryInt("year"), c.QueryInt("month"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// BulkCreate godoc
// @Summary      Crear una letra por cada fecha seleccionada
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkLettersRequest  true  "Distribución, empresa y monto"
// @Success      201   {object}  dto.BulkLettersResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/letters/bulk [post]
func (h *LetterHandler) BulkCreate(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	var in dto.BulkLettersRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.BulkCreate(c.UserContext(), sess, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Export godoc
// @Summary      Exportar letras y calendario a Excel
// @Tags         letters
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        year   query  int  false  "Año"
// @Param        month  query  int  false  "Mes 1-12"
// @Success      200    {file}    binary
// @Router       /api/letters/export [get]
func (h *LetterHandler) Export(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	b, err := h.uc.Export(c.UserContext(), sess, c.QueryInt("year"), c.QueryInt("month"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="letras.xlsx"`)
	return c.Send(b)
}

// Distributions godoc
// @Summary      Distribuciones sin letras asignadas
// @Tags         letters
// @Produce      json
// @Success      200  {array}   dto.DistributionResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/distributions/unassigned [get]
func (h *LetterHandler) Distributions(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if sess == nil {
		return err
	}
	out, err := h.uc.Distributions(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
