package remote_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/remote"
	pkgjwt "github.com/jhoicas/Pedidos-api/pkg/jwt"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

const testSecret = "test-secret-key-for-unit-tests"

// ── helpers ───────────────────────────────────────────────────────────────────

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(url string, log *logger.Logger) *remote.Client {
	return remote.NewClient(remote.Config{BaseURL: url + "/", Timeout: 2 * time.Second}, log)
}

func day(s string) time.Time {
	d, _ := entity.ParseDate(s)
	return d
}

// ── listados ──────────────────────────────────────────────────────────────────

func TestListOrders_ArregloYNormalizacion(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"id": 7, "beneficiario": "BCP", "monto_total": "1000.00", "fecha": "2025-06-02T00:00:00Z", "estado": "En Proceso",
			 "guias": [{"id": "g1", "numero": "G1", "fecha": "2025-06-03",
			            "facturas": [{"id": "i1", "numero": "F1", "monto": 300}, {"id": "i2", "number": "F2", "amount": "200.50"}]}]}
		]`)
	})

	orders, err := newClient(srv.URL, logger.Nop()).ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, "7", o.ID)
	assert.Equal(t, "BCP", o.Beneficiary)
	assert.True(t, decimal.NewFromInt(1000).Equal(o.TotalAmount))
	assert.Equal(t, day("2025-06-02"), o.Date)
	assert.Equal(t, entity.OrderStatusInProgress, o.Status)
	require.Len(t, o.Guides, 1)
	require.Len(t, o.Guides[0].Invoices, 2)
	assert.True(t, decimal.RequireFromString("200.50").Equal(o.Guides[0].Invoices[1].Amount))
}

func TestList_ObjetoConResults(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count": 1, "results": [{"id": "l1", "monto": "50", "fecha_pago": "2025-06-10", "estado": "Pagada"}]}`)
	})

	letters, err := newClient(srv.URL, logger.Nop()).ListLetters(context.Background())
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, entity.LetterStatusPaid, letters[0].Status)
	assert.Equal(t, day("2025-06-10"), letters[0].PaymentDate)
}

func TestList_FormaInesperadaDevuelveVacioYAdvierte(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data": "nada"}`)
	})
	var buf bytes.Buffer
	log := logger.FromZerolog(zerolog.New(&buf))

	items, err := newClient(srv.URL, log).ListUnassignedDistributions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "list_distributions")
}

func TestList_NullDevuelveVacioYAdvierte(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})
	var buf bytes.Buffer
	log := logger.FromZerolog(zerolog.New(&buf))

	items, err := newClient(srv.URL, log).ListLetters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "list_letters")
}

func TestListLogs_CamposHeterogeneos(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"timestamp": "2025-06-01T10:00:00Z", "level": "WARNING", "username": "ana", "action": "x", "message": "m1"},
			{"created_at": "2025-06-02 11:00:00", "nivel": "info", "user": {"id": 3, "username": "luis"}, "accion": "y", "mensaje": "m2"},
			{"fecha": "2025-06-03", "usuario": "eva", "detalle": "m3"}
		]`)
	})

	logs, err := newClient(srv.URL, logger.Nop()).ListLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "warn", logs[0].Level)
	assert.Equal(t, "ana", logs[0].User)
	assert.Equal(t, "luis", logs[1].User)
	assert.Equal(t, time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC), logs[1].Timestamp)
	assert.Equal(t, "eva", logs[2].User)
	assert.Equal(t, "info", logs[2].Level)
	assert.Equal(t, "m3", logs[2].Message)
}

// ── errores ───────────────────────────────────────────────────────────────────

func TestErrores_HTTPNo2xx(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail": "monto inválido"}`)
	})

	err := newClient(srv.URL, logger.Nop()).DeleteOrder(context.Background(), "o1")
	var re *domain.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "delete_order", re.Op)
	assert.Contains(t, re.Error(), "monto inválido")
	assert.ErrorIs(t, err, domain.ErrRemote)
}

func TestErrores_PayloadIndecodificable(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	})
	_, err := newClient(srv.URL, logger.Nop()).ListBackups(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemote)
}

func TestErrores_Red(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(url, logger.Nop()).ListOrders(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemote)
}

// ── mutaciones ────────────────────────────────────────────────────────────────

func TestCreateDocuments_PayloadAnidado(t *testing.T) {
	var got map[string]any
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/o1/documents/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"guides": [{"id": "srv-g", "number": "G9", "date": "2025-06-04",
			"invoices": [{"id": "srv-i", "number": "F1", "amount": "10"}]}]}`)
	})

	guides, err := newClient(srv.URL, logger.Nop()).CreateDocuments(context.Background(), "o1", []entity.Guide{{
		ID: "local", Number: "G9", Date: day("2025-06-04"),
		Invoices: []entity.Invoice{{ID: "li", Number: "F1", Amount: decimal.NewFromInt(10)}},
	}})
	require.NoError(t, err)
	require.Len(t, guides, 1)
	assert.Equal(t, "srv-g", guides[0].ID)
	assert.Equal(t, "srv-i", guides[0].Invoices[0].ID)

	sent := got["guides"].([]any)[0].(map[string]any)
	assert.NotContains(t, sent, "id", "las guías nuevas no envían id local")
	assert.Equal(t, "2025-06-04", sent["date"])
	inv := sent["invoices"].([]any)[0].(map[string]any)
	assert.Equal(t, "10", inv["amount"])
}

func TestBulkCreateLetters_FormatoDelPayload(t *testing.T) {
	var got []map[string]any
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/letters/bulk/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	created, err := newClient(srv.URL, logger.Nop()).BulkCreateLetters(context.Background(), []entity.LetterDraft{
		{Amount: decimal.NewFromInt(500), PaymentDate: day("2025-06-11"), DistributionID: "d1", CompanyID: "c1"},
	})
	require.NoError(t, err)
	assert.Empty(t, created)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{
		"amount": "500", "payment_date": "2025-06-11", "distribution_id": "d1", "company_id": "c1",
	}, got[0])
}

func TestUpdateOrder_RespuestaVaciaNoInventaEstado(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/a%2Fb/", r.URL.RawPath)
		w.WriteHeader(http.StatusOK)
	})
	o, err := newClient(srv.URL, logger.Nop()).UpdateOrder(context.Background(), entity.Order{ID: "a/b"})
	require.NoError(t, err)
	assert.Empty(t, o.Status)
	assert.Empty(t, o.ID)
}

func TestTokenDeServicio(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		require.True(t, strings.HasPrefix(auth, "Bearer "))
		claims, err := pkgjwt.Parse(testSecret, strings.TrimPrefix(auth, "Bearer "))
		require.NoError(t, err)
		assert.Equal(t, "pedidos-api", claims.Service)
		_, _ = io.WriteString(w, `[]`)
	})

	c := remote.NewClient(remote.Config{
		BaseURL: srv.URL, TokenSecret: testSecret, TokenIssuer: "test", TokenExpiration: 5, Service: "pedidos-api",
	}, logger.Nop())
	_, err := c.ListBackups(context.Background())
	require.NoError(t, err)
}
