// Package letters contiene los flujos del calendario de letras: carga de letras y distribuciones,
// selección de fechas y registro masivo.
package letters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/application/session"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/calendar"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
	"github.com/jhoicas/Pedidos-api/pkg/retry"
)

// LetterUseCase orquesta el calendario de letras de una sesión.
type LetterUseCase struct {
	gw       ports.RemoteGateway
	engine   *calendar.Engine
	exporter ports.LetterExporter
	load     retry.Policy
	log      *logger.Logger
	now      func() time.Time
}

// NewLetterUseCase construye el caso de uso.
func NewLetterUseCase(gw ports.RemoteGateway, engine *calendar.Engine, exporter ports.LetterExporter, load retry.Policy, log *logger.Logger) *LetterUseCase {
	return &LetterUseCase{gw: gw, engine: engine, exporter: exporter, load: load, log: log.Component("letters"), now: time.Now}
}

// WithClock reemplaza el reloj (tests y estados vencidos).
func (uc *LetterUseCase) WithClock(now func() time.Time) *LetterUseCase {
	uc.now = now
	return uc
}

// ── Carga ────────────────────────────────────────────────────────────────────

// Load trae letras y distribuciones sin asignar en paralelo, cada una con reintentos acotados.
func (uc *LetterUseCase) Load(ctx context.Context, sess *session.Session) error {
	type lettersResult struct {
		items []entity.Letter
		err   error
	}
	type distributionsResult struct {
		items []entity.Distribution
		err   error
	}

	lettersCh := make(chan lettersResult, 1)
	distCh := make(chan distributionsResult, 1)

	go func() {
		var r lettersResult
		r.err = uc.load.Do(ctx, func(ctx context.Context) error {
			var err error
			r.items, err = uc.gw.ListLetters(ctx)
			return err
		}, uc.onRetry(sess, "letters"))
		lettersCh <- r
	}()
	go func() {
		var r distributionsResult
		r.err = uc.load.Do(ctx, func(ctx context.Context) error {
			var err error
			r.items, err = uc.gw.ListUnassignedDistributions(ctx)
			return err
		}, uc.onRetry(sess, "distributions"))
		distCh <- r
	}()

	letters := <-lettersCh
	dists := <-distCh

	if letters.err != nil {
		return fmt.Errorf("letters: carga de letras: %w", letters.err)
	}
	if dists.err != nil {
		return fmt.Errorf("letters: carga de distribuciones: %w", dists.err)
	}

	return sess.Do(func(st *session.State) error {
		st.Letters = letters.items
		st.Distributions = dists.items
		st.LettersLoaded = true
		return nil
	})
}

func (uc *LetterUseCase) onRetry(sess *session.Session, what string) func(int, error) {
	return func(attempt int, err error) {
		uc.log.Warn().Err(err).Int("attempt", attempt).Str("list", what).Str("session", sess.ID).Msg("reintentando carga")
	}
}

func (uc *LetterUseCase) ensureLoaded(ctx context.Context, sess *session.Session) error {
	var loaded bool
	_ = sess.Do(func(st *session.State) error {
		loaded = st.LettersLoaded
		return nil
	})
	if loaded {
		return nil
	}
	return uc.Load(ctx, sess)
}

// ── Lectura ──────────────────────────────────────────────────────────────────

// List letras ordenadas por fecha de pago con su estado efectivo.
func (uc *LetterUseCase) List(ctx context.Context, sess *session.Session) (*dto.LetterListResponse, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}
	out := &dto.LetterListResponse{Total: decimal.Zero}
	_ = sess.Do(func(st *session.State) error {
		out.Items = uc.toLetters(sortedLetters(st.Letters))
		for _, l := range st.Letters {
			out.Total = out.Total.Add(l.Amount)
		}
		return nil
	})
	return out, nil
}

// Distributions distribuciones sin asignar disponibles para el formulario de letras.
func (uc *LetterUseCase) Distributions(ctx context.Context, sess *session.Session) ([]dto.DistributionResponse, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}
	var out []dto.DistributionResponse
	_ = sess.Do(func(st *session.State) error {
		out = toDistributions(st.Distributions)
		return nil
	})
	return out, nil
}

// Calendar mes del calendario. year/month en cero toman el mes actual.
func (uc *LetterUseCase) Calendar(ctx context.Context, sess *session.Session, year, month int) (*dto.CalendarResponse, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}
	y, m, err := uc.resolveMonth(year, month)
	if err != nil {
		return nil, err
	}
	var out *dto.CalendarResponse
	_ = sess.Do(func(st *session.State) error {
		out = uc.calendarView(st, y, m, sess.Busy())
		return nil
	})
	return out, nil
}

// ── Selección ────────────────────────────────────────────────────────────────

// ToggleDate agrega o quita una fecha de la selección. Fines de semana y feriados se rechazan
// con *domain.SchedulingConstraintError sin cambiar el estado. Devuelve el mes de la fecha.
func (uc *LetterUseCase) ToggleDate(ctx context.Context, sess *session.Session, date string) (*dto.CalendarResponse, error) {
	d, err := entity.ParseDate(date)
	if err != nil {
		return nil, domain.NewValidationError(map[string]string{"date": validation.MsgDateInvalid})
	}
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}
	var out *dto.CalendarResponse
	err = sess.Do(func(st *session.State) error {
		if _, err := st.Selection.Toggle(uc.engine, d); err != nil {
			return err
		}
		out = uc.calendarView(st, d.Year(), d.Month(), sess.Busy())
		return nil
	})
	return out, err
}

// ClearSelection vacía la selección y devuelve el mes indicado.
func (uc *LetterUseCase) ClearSelection(ctx context.Context, sess *session.Session, year, month int) (*dto.CalendarResponse, error) {
	_ = sess.Do(func(st *session.State) error {
		st.Selection.Clear()
		return nil
	})
	return uc.Calendar(ctx, sess, year, month)
}

// ── Registro masivo ──────────────────────────────────────────────────────────

// BulkCreate crea una letra por cada fecha seleccionada con el mismo monto y distribución.
// La selección y el formulario solo se limpian si el remoto confirma; ante un fallo quedan
// intactos para reintentar.
func (uc *LetterUseCase) BulkCreate(ctx context.Context, sess *session.Session, in dto.BulkLettersRequest) (*dto.BulkLettersResponse, error) {
	end, err := sess.BeginRemote()
	if err != nil {
		return nil, err
	}
	defer end()

	var drafts []entity.LetterDraft
	err = sess.Do(func(st *session.State) error {
		st.LetterForm = session.LetterForm{
			DistributionID: strings.TrimSpace(in.DistributionID),
			CompanyID:      strings.TrimSpace(in.CompanyID),
			Amount:         strings.TrimSpace(in.Amount),
		}
		errs := validation.ValidateAmount(in.Amount)
		if strings.TrimSpace(in.DistributionID) == "" {
			errs["distribution_id"] = validation.MsgDistribution
		}
		if st.Selection.Len() == 0 {
			errs["dates"] = "Seleccione al menos una fecha"
		}
		if err := errs.Err(); err != nil {
			return err
		}
		amount, _ := validation.ParseAmount(in.Amount)
		var err error
		drafts, err = uc.engine.BuildLetterDrafts(st.Selection, st.LetterForm.DistributionID, st.LetterForm.CompanyID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	created, err := uc.gw.BulkCreateLetters(context.WithoutCancel(ctx), drafts)
	if err != nil {
		uc.log.Error().Err(err).Int("letters", len(drafts)).Str("session", sess.ID).Msg("registro masivo fallido; selección intacta")
		return nil, err
	}
	if len(created) == 0 {
		created = lettersFromDrafts(drafts)
	}

	out := &dto.BulkLettersResponse{Created: uc.toLetters(created)}
	_ = sess.Do(func(st *session.State) error {
		st.Letters = append(st.Letters, created...)
		st.Distributions = markAssigned(st.Distributions, drafts[0].DistributionID)
		first := drafts[0].PaymentDate
		st.Selection.Clear()
		st.LetterForm = session.LetterForm{}
		out.Calendar = *uc.calendarView(st, first.Year(), first.Month(), false)
		return nil
	})
	uc.log.Info().Int("letters", len(created)).Str("session", sess.ID).Msg("letras registradas")
	return out, nil
}

// ── Exportación ──────────────────────────────────────────────────────────────

// Export hoja de cálculo con las letras y el mes indicado del calendario.
func (uc *LetterUseCase) Export(ctx context.Context, sess *session.Session, year, month int) ([]byte, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}
	y, m, err := uc.resolveMonth(year, month)
	if err != nil {
		return nil, err
	}
	var (
		letters []entity.Letter
		days    []calendar.DayView
	)
	_ = sess.Do(func(st *session.State) error {
		today := uc.now()
		letters = sortedLetters(st.Letters)
		for i := range letters {
			letters[i].Status = letters[i].EffectiveStatus(today)
		}
		days = uc.engine.Month(y, m, st.Letters, st.Selection)
		return nil
	})
	b, err := uc.exporter.Letters(letters, days)
	if err != nil {
		return nil, fmt.Errorf("letters: exportación: %w", err)
	}
	return b, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (uc *LetterUseCase) resolveMonth(year, month int) (int, time.Month, error) {
	now := uc.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 || year < 1900 || year > 9999 {
		return 0, 0, domain.NewValidationError(map[string]string{"month": "Mes inválido"})
	}
	return year, time.Month(month), nil
}

func (uc *LetterUseCase) calendarView(st *session.State, year int, month time.Month, busy bool) *dto.CalendarResponse {
	days := uc.engine.Month(year, month, st.Letters, st.Selection)
	out := &dto.CalendarResponse{
		Year:     year,
		Month:    int(month),
		DailyCap: uc.engine.DailyCap(),
		Days:     make([]dto.CalendarDayResponse, 0, len(days)),
		Form: dto.LetterFormResponse{
			DistributionID: st.LetterForm.DistributionID,
			CompanyID:      st.LetterForm.CompanyID,
			Amount:         st.LetterForm.Amount,
		},
		Busy: busy,
	}
	for _, d := range days {
		out.Days = append(out.Days, dto.CalendarDayResponse{
			Date:        entity.DateKey(d.Date),
			Weekend:     d.Weekend,
			Holiday:     d.Holiday,
			Selected:    d.Selected,
			Total:       d.Total,
			LetterCount: d.LetterCount,
			Class:       string(d.Class),
			Display:     string(d.Display),
		})
	}
	for _, d := range st.Selection.Dates() {
		out.SelectedDates = append(out.SelectedDates, entity.DateKey(d))
	}
	return out
}
