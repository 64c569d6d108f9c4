// Package session mantiene la sesión autenticada de cada cliente y su rol resuelto.
//
// Un único bucle de despacho procesa los eventos del proveedor de autenticación y los
// resultados de las consultas de rol, en orden de llegada, y notifica a los suscriptores
// desde esa misma goroutine: los handlers nunca se ejecutan en paralelo entre sí.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// RoleSource consulta el documento users del usuario autenticado.
type RoleSource interface {
	Get(ctx context.Context, userID string) (*entity.UserProfile, error)
}

// Handler recibe cada cambio de sesión (o el centinela no autenticado).
type Handler func(entity.Session)

// Options parámetros opcionales del Store.
type Options struct {
	LookupTimeout time.Duration // por defecto 5s
}

// Store Session Store: una suscripción al proveedor durante toda la vida del proceso.
type Store struct {
	roles RoleSource
	log   *logger.Logger
	opts  Options

	ctx    context.Context
	cancel context.CancelFunc

	qmu   sync.Mutex
	queue []message
	wake  chan struct{}
	done  chan struct{}

	mu       sync.RWMutex
	sessions map[string]entity.Session
	gens     map[string]uint64 // generación del último inicio de sesión; se borra al cerrar
	seq      uint64

	smu    sync.Mutex
	subs   []*Subscription
	nextID uint64

	unsubscribeProvider func()
	closeOnce           sync.Once
}

// message entrada del bucle de despacho.
type message struct {
	auth *ports.AuthEvent
	role *roleResult
}

type roleResult struct {
	sessionID string
	gen       uint64
	role      entity.Role
	failed    bool
}

// NewStore crea el store, se suscribe al proveedor y arranca el bucle de despacho.
func NewStore(provider ports.AuthProvider, roles RoleSource, log *logger.Logger, opts Options) *Store {
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		roles:    roles,
		log:      log.Named("session"),
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		sessions: map[string]entity.Session{},
		gens:     map[string]uint64{},
	}
	go s.loop()
	s.unsubscribeProvider = provider.OnSessionChange(func(ev ports.AuthEvent) {
		s.post(message{auth: &ev})
	})
	return s
}

// Close cancela la suscripción al proveedor y detiene el bucle. Idempotente.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribeProvider != nil {
			s.unsubscribeProvider()
		}
		s.cancel()
		<-s.done
	})
}

// Get devuelve la sesión actual; ok=false si el ID no corresponde a una sesión abierta.
func (s *Store) Get(sessionID string) (entity.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	return sess, ok
}

// Subscribe registra h. Los handlers se invocan en orden de suscripción.
func (s *Store) Subscribe(h Handler) *Subscription {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.nextID++
	sub := &Subscription{id: s.nextID, handler: h, store: s}
	s.subs = append(s.subs, sub)
	return sub
}

// AwaitRole espera a que la sesión tenga rol resuelto (o deje de existir).
// Si ctx vence antes, devuelve el estado actual y domain.ErrRolePending.
func (s *Store) AwaitRole(ctx context.Context, sessionID string) (entity.Session, error) {
	ch := make(chan entity.Session, 1)
	sub := s.Subscribe(func(sess entity.Session) {
		if sess.ID != sessionID || sess.RolePending() {
			return
		}
		select {
		case ch <- sess:
		default:
		}
	})
	defer sub.Unsubscribe()

	// Comprobar después de suscribirse para no perder el evento.
	cur, ok := s.Get(sessionID)
	if !ok {
		return entity.Unauthenticated(sessionID), nil
	}
	if !cur.RolePending() {
		return cur, nil
	}
	select {
	case sess := <-ch:
		return sess, nil
	case <-ctx.Done():
		cur, ok = s.Get(sessionID)
		if !ok {
			return entity.Unauthenticated(sessionID), nil
		}
		if !cur.RolePending() {
			return cur, nil
		}
		return cur, domain.ErrRolePending
	}
}

// AwaitSession espera a que el store publique la sesión (los eventos del proveedor se
// procesan de forma asíncrona). ok=false si la sesión no existe cuando ctx vence.
func (s *Store) AwaitSession(ctx context.Context, sessionID string) (entity.Session, bool) {
	ch := make(chan entity.Session, 1)
	sub := s.Subscribe(func(sess entity.Session) {
		if sess.ID != sessionID {
			return
		}
		select {
		case ch <- sess:
		default:
		}
	})
	defer sub.Unsubscribe()

	if cur, ok := s.Get(sessionID); ok {
		return cur, true
	}
	select {
	case sess := <-ch:
		return sess, sess.Authenticated
	case <-ctx.Done():
		return s.Get(sessionID)
	}
}

// ── Bucle de despacho ─────────────────────────────────────────────────────────

func (s *Store) post(m message) {
	s.qmu.Lock()
	s.queue = append(s.queue, m)
	s.qmu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.wake:
		}
		for {
			s.qmu.Lock()
			if len(s.queue) == 0 {
				s.qmu.Unlock()
				break
			}
			m := s.queue[0]
			s.queue = s.queue[1:]
			s.qmu.Unlock()

			if s.ctx.Err() != nil {
				return
			}
			switch {
			case m.auth != nil:
				s.handleAuth(*m.auth)
			case m.role != nil:
				s.handleRole(*m.role)
			}
		}
	}
}

func (s *Store) handleAuth(ev ports.AuthEvent) {
	s.mu.Lock()
	if !ev.SignedIn {
		delete(s.sessions, ev.SessionID)
		delete(s.gens, ev.SessionID)
		s.mu.Unlock()
		s.publish(entity.Unauthenticated(ev.SessionID))
		return
	}
	// Contador global: reabrir el mismo ID no reutiliza una generación anterior.
	s.seq++
	gen := s.seq
	s.gens[ev.SessionID] = gen
	sess := entity.Session{
		ID:            ev.SessionID,
		UserID:        ev.UserID,
		Email:         ev.Email,
		Authenticated: true,
		Role:          entity.RoleUnknown,
		IssuedAt:      ev.IssuedAt,
		ExpiresAt:     ev.ExpiresAt,
	}
	s.sessions[ev.SessionID] = sess
	s.mu.Unlock()

	s.publish(sess)
	go s.lookup(sess.ID, sess.UserID, gen)
}

// lookup corre fuera del bucle y publica el resultado como un mensaje más. Sin reintentos.
func (s *Store) lookup(sessionID, userID string, gen uint64) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.LookupTimeout)
	defer cancel()

	res := &roleResult{sessionID: sessionID, gen: gen}
	profile, err := s.roles.Get(ctx, userID)
	switch {
	case err == nil:
		res.role = profile.Role()
	case errors.Is(err, domain.ErrNotFound):
		res.role = entity.RoleEmployee
	default:
		// Política explícita: sin rol verificable no se concede acceso privilegiado.
		res.role = entity.RoleEmployee
		res.failed = true
		s.log.Warn().Err(err).Str("session_id", sessionID).Str("user_id", userID).
			Msg("no se pudo resolver el rol; la sesión queda como empleado")
	}
	s.post(message{role: res})
}

func (s *Store) handleRole(r roleResult) {
	s.mu.Lock()
	sess, ok := s.sessions[r.sessionID]
	if !ok || s.gens[r.sessionID] != r.gen {
		s.mu.Unlock()
		s.log.Debug().Str("session_id", r.sessionID).Msg("resultado de rol descartado: la sesión ya cambió")
		return
	}
	sess.Role = r.role
	sess.RoleLookupFailed = r.failed
	s.sessions[r.sessionID] = sess
	s.mu.Unlock()

	s.publish(sess)
}

func (s *Store) publish(sess entity.Session) {
	s.smu.Lock()
	subs := make([]*Subscription, len(s.subs))
	copy(subs, s.subs)
	s.smu.Unlock()

	for _, sub := range subs {
		if sub.active() {
			sub.handler(sess)
		}
	}
}

func (s *Store) remove(sub *Subscription) {
	s.smu.Lock()
	defer s.smu.Unlock()
	for i, it := range s.subs {
		if it.id == sub.id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
