package session

import (
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
)

// MaxIDLength largo máximo aceptado para un identificador de sesión enviado por el cliente.
const MaxIDLength = 64

// Manager registro de sesiones: creación, búsqueda y limpieza.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	rules       validation.Rules
	maxAge      time.Duration
	idleTimeout time.Duration
}

// NewManager crea el registro. Cada sesión nueva arranca con un store vacío validado con rules.
func NewManager(rules validation.Rules, maxAge, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		rules:       rules,
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
	}
}

// Get devuelve la sesión si existe y está vigente; nil en caso contrario.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
		m.Remove(id)
		return nil
	}
	return s
}

// GetOrCreate devuelve la sesión id o crea una nueva. Un id vacío o demasiado largo genera uno nuevo.
// created indica si la sesión es nueva. El id se clona antes de usarse como clave del registro.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" && len(id) <= MaxIDLength {
		if s := m.Get(id); s != nil {
			return s, false
		}
	} else {
		id = ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s, false
		}
	}
	s = newSession(strings.Clone(id), m.rules)
	m.sessions[s.ID] = s
	return s, true
}

// Remove elimina una sesión.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len cantidad de sesiones registradas.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup elimina las sesiones expiradas o inactivas y devuelve cuántas quitó. Se llama periódicamente.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
