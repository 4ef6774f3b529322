package letters_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/letters"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/application/session"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/calendar"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
	"github.com/jhoicas/Pedidos-api/pkg/retry"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	ports.RemoteGateway

	mu            sync.Mutex
	letters       []entity.Letter
	distributions []entity.Distribution
	bulkErr       error
	bulkGot       []entity.LetterDraft
	distErrs      int
}

func (f *fakeGateway) ListLetters(ctx context.Context) ([]entity.Letter, error) {
	return f.letters, nil
}

func (f *fakeGateway) ListUnassignedDistributions(ctx context.Context) ([]entity.Distribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.distErrs > 0 {
		f.distErrs--
		return nil, &domain.RemoteError{Op: "list_distributions", Status: 502}
	}
	return f.distributions, nil
}

func (f *fakeGateway) BulkCreateLetters(ctx context.Context, drafts []entity.LetterDraft) ([]entity.Letter, error) {
	f.bulkGot = drafts
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	return nil, nil
}

type fakeExporter struct {
	letters []entity.Letter
	days    []calendar.DayView
}

func (f *fakeExporter) Letters(l []entity.Letter, days []calendar.DayView) ([]byte, error) {
	f.letters, f.days = l, days
	return []byte("xlsx"), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func day(s string) time.Time {
	d, _ := entity.ParseDate(s)
	return d
}

func setup(t *testing.T, gw *fakeGateway) (*letters.LetterUseCase, *session.Session, *fakeExporter) {
	t.Helper()
	engine, err := calendar.NewEngine(calendar.Config{
		DailyCap: decimal.NewFromInt(10000),
		Holidays: []string{"2025-06-09"},
	})
	require.NoError(t, err)
	exp := &fakeExporter{}
	uc := letters.NewLetterUseCase(gw, engine, exp, retry.Policy{Attempts: 3, Delay: time.Millisecond}, logger.Nop()).
		WithClock(func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) })
	m := session.NewManager(validation.NewRules(nil), time.Hour, time.Hour)
	sess, _ := m.GetOrCreate("s1")
	return uc, sess, exp
}

func findDay(t *testing.T, cal *dto.CalendarResponse, date string) dto.CalendarDayResponse {
	t.Helper()
	for _, d := range cal.Days {
		if d.Date == date {
			return d
		}
	}
	t.Fatalf("día %s no encontrado", date)
	return dto.CalendarDayResponse{}
}

// ── tests ─────────────────────────────────────────────────────────────────────

// Ejemplo 2 a través del caso de uso: 8000 en un día con tope 10000 → near_cap.
func TestCalendar_ClasificaYReintentaCarga(t *testing.T) {
	gw := &fakeGateway{
		letters: []entity.Letter{
			{ID: "l1", Amount: decimal.NewFromInt(5000), PaymentDate: day("2025-06-10")},
			{ID: "l2", Amount: decimal.NewFromInt(3000), PaymentDate: day("2025-06-10")},
		},
		distErrs: 1,
	}
	uc, sess, _ := setup(t, gw)

	cal, err := uc.Calendar(context.Background(), sess, 2025, 6)
	require.NoError(t, err)
	assert.Len(t, cal.Days, 30)

	d := findDay(t, cal, "2025-06-10")
	assert.Equal(t, string(calendar.ClassNearCap), d.Class)
	assert.Equal(t, 2, d.LetterCount)
	assert.Equal(t, string(calendar.ClassHoliday), findDay(t, cal, "2025-06-09").Class)
	assert.Equal(t, string(calendar.ClassHoliday), findDay(t, cal, "2025-06-14").Class, "sábado no programable")
}

func TestToggleDate_RechazaNoProgramables(t *testing.T) {
	uc, sess, _ := setup(t, &fakeGateway{})

	_, err := uc.ToggleDate(context.Background(), sess, "2025-06-14")
	var sce *domain.SchedulingConstraintError
	require.True(t, errors.As(err, &sce))
	assert.Equal(t, validation.MsgWeekend, sce.Reason)

	_, err = uc.ToggleDate(context.Background(), sess, "2025-06-09")
	assert.ErrorIs(t, err, domain.ErrNonSchedulable)

	_, err = uc.ToggleDate(context.Background(), sess, "no-es-fecha")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cal, err := uc.ToggleDate(context.Background(), sess, "2025-06-11")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-11"}, cal.SelectedDates)
	assert.Equal(t, string(calendar.ClassSelected), findDay(t, cal, "2025-06-11").Display)

	cal, err = uc.ToggleDate(context.Background(), sess, "2025-06-11")
	require.NoError(t, err)
	assert.Empty(t, cal.SelectedDates, "alternar dos veces deja la selección como estaba")
}

func TestBulkCreate_ExitoLimpiaSeleccionYFormulario(t *testing.T) {
	gw := &fakeGateway{distributions: []entity.Distribution{{ID: "d1"}, {ID: "d2"}}}
	uc, sess, _ := setup(t, gw)

	for _, d := range []string{"2025-06-12", "2025-06-11"} {
		_, err := uc.ToggleDate(context.Background(), sess, d)
		require.NoError(t, err)
	}

	out, err := uc.BulkCreate(context.Background(), sess, dto.BulkLettersRequest{DistributionID: "d1", CompanyID: "c1", Amount: "1500"})
	require.NoError(t, err)
	require.Len(t, gw.bulkGot, 2)
	assert.Equal(t, day("2025-06-11"), gw.bulkGot[0].PaymentDate, "ordenadas por fecha")
	assert.Len(t, out.Created, 2)
	assert.Empty(t, out.Calendar.SelectedDates)
	assert.Empty(t, out.Calendar.Form.Amount)
	assert.True(t, decimal.NewFromInt(1500).Equal(findDay(t, &out.Calendar, "2025-06-11").Total))

	dists, err := uc.Distributions(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, dists, 1)
	assert.Equal(t, "d2", dists[0].ID)
}

func TestBulkCreate_FalloRemotoConservaSeleccion(t *testing.T) {
	gw := &fakeGateway{bulkErr: &domain.RemoteError{Op: "bulk_letters", Status: 500}}
	uc, sess, _ := setup(t, gw)

	_, err := uc.ToggleDate(context.Background(), sess, "2025-06-11")
	require.NoError(t, err)

	_, err = uc.BulkCreate(context.Background(), sess, dto.BulkLettersRequest{DistributionID: "d1", Amount: "200"})
	assert.ErrorIs(t, err, domain.ErrRemote)

	cal, err := uc.Calendar(context.Background(), sess, 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-11"}, cal.SelectedDates)
	assert.Equal(t, "200", cal.Form.Amount)
	assert.True(t, decimal.Zero.Equal(findDay(t, cal, "2025-06-11").Total))
}

func TestBulkCreate_Validacion(t *testing.T) {
	gw := &fakeGateway{}
	uc, sess, _ := setup(t, gw)

	_, err := uc.BulkCreate(context.Background(), sess, dto.BulkLettersRequest{Amount: "abc"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, validation.MsgAmountNotNumber, ve.Fields["amount"])
	assert.Contains(t, ve.Fields, "distribution_id")
	assert.Contains(t, ve.Fields, "dates")
	assert.Nil(t, gw.bulkGot)
}

func TestList_EstadoVencido(t *testing.T) {
	gw := &fakeGateway{letters: []entity.Letter{
		{ID: "b", Amount: decimal.NewFromInt(10), PaymentDate: day("2025-06-20"), Status: entity.LetterStatusPending},
		{ID: "a", Amount: decimal.NewFromInt(5), PaymentDate: day("2025-06-01"), Status: entity.LetterStatusPending},
		{ID: "c", Amount: decimal.NewFromInt(1), PaymentDate: day("2025-05-01"), Status: entity.LetterStatusPaid},
	}}
	uc, sess, _ := setup(t, gw)

	out, err := uc.List(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "c", out.Items[0].ID)
	assert.Equal(t, "paid", out.Items[0].Status)
	assert.Equal(t, "overdue", out.Items[1].Status)
	assert.Equal(t, "pending", out.Items[2].Status)
	assert.True(t, decimal.NewFromInt(16).Equal(out.Total))
}

func TestExport(t *testing.T) {
	gw := &fakeGateway{letters: []entity.Letter{{ID: "a", Amount: decimal.NewFromInt(5), PaymentDate: day("2025-06-01")}}}
	uc, sess, exp := setup(t, gw)

	b, err := uc.Export(context.Background(), sess, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), b)
	require.Len(t, exp.letters, 1)
	assert.Equal(t, entity.LetterStatusOverdue, exp.letters[0].Status)
	assert.Len(t, exp.days, 30, "mes actual según el reloj inyectado")

	_, err = uc.Export(context.Background(), sess, 2025, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
