package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

func TestRemoteErr_Mapeo(t *testing.T) {
	assert.NoError(t, remoteErr("op", nil))

	cases := []struct {
		name     string
		in       error
		status   int
		sentinel error
	}{
		{"sin filas", pgx.ErrNoRows, 404, domain.ErrNotFound},
		{"no encontrado de dominio", domain.ErrNotFound, 404, domain.ErrNotFound},
		{"único", &pgconn.PgError{Code: "23505"}, 409, domain.ErrConflict},
		{"clave foránea", &pgconn.PgError{Code: "23503"}, 422, domain.ErrRemote},
		{"otro", errors.New("conexión cerrada"), 0, domain.ErrRemote},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := remoteErr("list_orders", tc.in)

			var re *domain.RemoteError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "list_orders", re.Op)
			assert.Equal(t, tc.status, re.Status)
			assert.ErrorIs(t, err, domain.ErrRemote)
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}
}

func TestRemoteErr_NoEnvuelveDosVeces(t *testing.T) {
	inner := &domain.RemoteError{Op: "create_documents", Status: 409, Err: domain.ErrConflict}

	err := remoteErr("otra", inner)

	assert.Same(t, inner, err)
}
