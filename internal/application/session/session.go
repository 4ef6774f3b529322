// Package session mantiene el estado en memoria de cada sesión de navegador: pedidos, selección del
// calendario, letras en caché y el formulario de letras pendiente.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/calendar"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/reconciliation"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

// LetterForm formulario de creación masiva de letras. Se limpia solo tras un envío exitoso.
type LetterForm struct {
	DistributionID string
	CompanyID      string
	Amount         string
}

// State estado mutable de una sesión. Solo se toca dentro de Session.Do.
type State struct {
	Orders        *reconciliation.Store
	Selection     *calendar.Selection
	Letters       []entity.Letter
	Distributions []entity.Distribution
	LetterForm    LetterForm

	OrdersLoaded  bool
	LettersLoaded bool
}

// Session estado por navegador. Las mutaciones locales se serializan con mu; busy marca que hay
// una mutación remota en curso.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	state      *State
	lastActive time.Time

	busyMu sync.Mutex
	busy   bool
}

func newSession(id string, rules validation.Rules) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		state: &State{
			Orders:    reconciliation.NewStore(rules),
			Selection: calendar.NewSelection(),
		},
		lastActive: now,
	}
}

// Do ejecuta fn con acceso exclusivo al estado (run-to-completion). fn no debe bloquearse en E/S.
func (s *Session) Do(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	return fn(s.state)
}

// BeginRemote marca la sesión como ocupada para una mutación remota. Devuelve ErrBusy si ya hay
// una en curso; end libera la marca.
func (s *Session) BeginRemote() (end func(), err error) {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	if s.busy {
		return nil, domain.ErrBusy
	}
	s.busy = true
	var once sync.Once
	return func() {
		once.Do(func() {
			s.busyMu.Lock()
			s.busy = false
			s.busyMu.Unlock()
		})
	}, nil
}

// Busy true mientras hay una mutación remota en curso.
func (s *Session) Busy() bool {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	return s.busy
}

// IsExpired true si la sesión superó la edad máxima.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return maxAge > 0 && time.Since(s.CreatedAt) > maxAge
}

// IsIdle true si la sesión lleva inactiva más que el timeout. Una sesión ocupada nunca está inactiva.
func (s *Session) IsIdle(timeout time.Duration) bool {
	if timeout <= 0 || s.Busy() {
		return false
	}
	s.mu.Lock()
	last := s.lastActive
	s.mu.Unlock()
	return time.Since(last) > timeout
}
