package navigation

import (
	"context"
	"sync"

	"github.com/jhoicas/Taller-api/internal/application/session"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// SessionSource lo que la máquina necesita del Session Store.
type SessionSource interface {
	Subscribe(h session.Handler) *session.Subscription
}

// Machine sigue el estado de navegación de cada sesión a partir de los eventos del Session Store.
// Solo guarda sesiones abiertas: al cerrar sesión la entrada se elimina.
type Machine struct {
	mu      sync.RWMutex
	states  map[string]State
	changed chan struct{} // se cierra y reemplaza en cada Apply
	sub     *session.Subscription
}

// NewMachine crea la máquina y la suscribe a los eventos de sesión.
func NewMachine(src SessionSource) *Machine {
	m := &Machine{states: map[string]State{}, changed: make(chan struct{})}
	m.sub = src.Subscribe(m.Apply)
	return m
}

// Apply transición por un evento de sesión.
func (m *Machine) Apply(s entity.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Authenticated {
		m.states[s.ID] = StateOf(s)
	} else {
		delete(m.states, s.ID)
	}
	close(m.changed)
	m.changed = make(chan struct{})
}

// State estado actual de la sesión. Un ID sin eventos está en Loading;
// sessionID vacío (petición sin token) es Unauthenticated.
func (m *Machine) State(sessionID string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stateLocked(sessionID)
}

func (m *Machine) stateLocked(sessionID string) State {
	if sessionID == "" {
		return StateUnauthenticated
	}
	st, ok := m.states[sessionID]
	if !ok {
		return StateLoading
	}
	return st
}

// Await espera a que la sesión tenga un estado definitivo (sin rol pendiente).
// Si ctx vence antes devuelve el estado que tenga en ese momento.
func (m *Machine) Await(ctx context.Context, sessionID string) State {
	for {
		m.mu.RLock()
		st := m.stateLocked(sessionID)
		changed := m.changed
		m.mu.RUnlock()
		if st != StateLoading && st != StateRolePending {
			return st
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return st
		}
	}
}

// Resolve decide la ruta para la sesión con su estado actual.
func (m *Machine) Resolve(sessionID, path string) Decision {
	return Resolve(m.State(sessionID), path)
}

// Close da de baja la suscripción.
func (m *Machine) Close() {
	if m.sub != nil {
		m.sub.Unsubscribe()
	}
}
