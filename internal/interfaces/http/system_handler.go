package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/session"
	"github.com/jhoicas/Pedidos-api/internal/application/system"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// SystemHandler visor de logs, respaldos y salud del servicio.
type SystemHandler struct {
	uc       *system.SystemUseCase
	sessions *session.Manager
	log      *logger.Logger
}

// NewSystemHandler construye el handler.
func NewSystemHandler(uc *system.SystemUseCase, sessions *session.Manager, log *logger.Logger) *SystemHandler {
	return &SystemHandler{uc: uc, sessions: sessions, log: log}
}

// Logs godoc
// @Summary      Logs del sistema
// @Tags         system
// @Produce      json
// @Param        level   query  string  false  "Nivel (info, warn, error, ...)"
// @Param        user    query  string  false  "Usuario (contiene)"
// @Param        q       query  string  false  "Texto en mensaje o acción"
// @Param        from    query  string  false  "Desde YYYY-MM-DD"
// @Param        to      query  string  false  "Hasta YYYY-MM-DD"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.LogListResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Failure      502     {object}  dto.ErrorResponse
// @Router       /api/logs [get]
func (h *SystemHandler) Logs(c *fiber.Ctx) error {
	var f dto.LogFilter
	if err := c.QueryParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Logs(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Backups godoc
// @Summary      Respaldos registrados
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.BackupListResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/backups [get]
func (h *SystemHandler) Backups(c *fiber.Ctx) error {
	out, err := h.uc.Backups(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", Sessions: h.sessions.Len()})
}
