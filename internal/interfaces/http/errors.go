package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// respondError traduce errores de dominio a dto.ErrorResponse. El orden importa: un OverageError
// también es un ValidationError y un RemoteError puede envolver ErrNotFound.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		overage  *domain.OverageError
		invalid  *domain.ValidationError
		schedule *domain.SchedulingConstraintError
		remote   *domain.RemoteError
	)
	switch {
	case errors.As(err, &overage):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "OVERAGE", Message: overage.Error(), Fields: overage.AsValidation().Fields,
		})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos", Fields: invalid.Fields,
		})
	case errors.As(err, &schedule):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "NON_SCHEDULABLE_DAY", Message: schedule.Error(),
		})
	case errors.As(err, &remote):
		log.Error().Err(err).Str("op", remote.Op).Int("status", remote.Status).Msg("fallo del servicio remoto")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "REMOTE_ERROR", Message: remote.Error(),
		})
	case errors.Is(err, domain.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BUSY", Message: err.Error()})
	case errors.Is(err, domain.ErrOrderClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ORDER_CLOSED", Message: err.Error()})
	case errors.Is(err, domain.ErrNoSelection):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_SELECTION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
