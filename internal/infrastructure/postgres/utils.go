package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila referenciada no existe.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// remoteErr envuelve un error de base de datos como falla del colaborador, conservando el
// sentinel de dominio que corresponda.
func remoteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		return err
	}
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, domain.ErrNotFound):
		return &domain.RemoteError{Op: op, Status: 404, Err: domain.ErrNotFound}
	case isUniqueViolation(err):
		return &domain.RemoteError{Op: op, Status: 409, Err: domain.ErrConflict}
	case isForeignKeyViolation(err):
		return &domain.RemoteError{Op: op, Status: 422, Err: err}
	default:
		return &domain.RemoteError{Op: op, Err: err}
	}
}
