package session_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/application/session"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// ── Dobles ────────────────────────────────────────────────────────────────────

type fakeProvider struct {
	mu   sync.Mutex
	fns  map[int]func(ports.AuthEvent)
	next int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{fns: map[int]func(ports.AuthEvent){}}
}

func (p *fakeProvider) OnSessionChange(fn func(ports.AuthEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.fns[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.fns, id)
		p.mu.Unlock()
	}
}

func (p *fakeProvider) emit(ev ports.AuthEvent) {
	p.mu.Lock()
	fns := make([]func(ports.AuthEvent), 0, len(p.fns))
	for _, fn := range p.fns {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (p *fakeProvider) listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.fns)
}

func signIn(sid, uid string) ports.AuthEvent {
	return ports.AuthEvent{SessionID: sid, UserID: uid, SignedIn: true, IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
}

func signOut(sid string) ports.AuthEvent {
	return ports.AuthEvent{SessionID: sid}
}

// roleSourceFunc adapta una función a session.RoleSource.
type roleSourceFunc func(ctx context.Context, userID string) (*entity.UserProfile, error)

func (f roleSourceFunc) Get(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return f(ctx, userID)
}

func profiles(m map[string]*bool) roleSourceFunc {
	return func(_ context.Context, userID string) (*entity.UserProfile, error) {
		flag, ok := m[userID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return &entity.UserProfile{ID: userID, Privileged: flag}, nil
	}
}

func boolPtr(b bool) *bool { return &b }

func collect(s *session.Store) (<-chan entity.Session, *session.Subscription) {
	ch := make(chan entity.Session, 128)
	sub := s.Subscribe(func(sess entity.Session) { ch <- sess })
	return ch, sub
}

func next(t *testing.T, ch <-chan entity.Session) entity.Session {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento de sesión")
		return entity.Session{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan entity.Session) {
	t.Helper()
	select {
	case s := <-ch:
		t.Fatalf("evento inesperado: %+v", s)
	case <-time.After(100 * time.Millisecond):
	}
}

func newStore(t *testing.T, p *fakeProvider, roles session.RoleSource) *session.Store {
	t.Helper()
	s := session.NewStore(p, roles, logger.Nop(), session.Options{})
	t.Cleanup(s.Close)
	return s
}

// ── Casos ─────────────────────────────────────────────────────────────────────

func TestStore_PublicaPendienteYLuegoRol(t *testing.T) {
	p := newFakeProvider()
	s := newStore(t, p, profiles(map[string]*bool{"admin": boolPtr(true)}))
	ch, _ := collect(s)

	p.emit(signIn("s1", "admin"))

	first := next(t, ch)
	assert.True(t, first.Authenticated)
	assert.Equal(t, entity.RoleUnknown, first.Role)
	assert.True(t, first.RolePending())

	second := next(t, ch)
	assert.Equal(t, entity.RolePrivileged, second.Role)
	assert.False(t, second.RoleLookupFailed)

	got, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, entity.RolePrivileged, got.Role)
}

func TestStore_SinDocumentoOBanderaNulaEsEmpleado(t *testing.T) {
	p := newFakeProvider()
	s := newStore(t, p, profiles(map[string]*bool{"sin-bandera": nil, "falso": boolPtr(false)}))
	ch, _ := collect(s)

	for i, uid := range []string{"sin-documento", "sin-bandera", "falso"} {
		sid := fmt.Sprintf("s%d", i)
		p.emit(signIn(sid, uid))
		assert.True(t, next(t, ch).RolePending(), uid)
		resolved := next(t, ch)
		assert.Equal(t, entity.RoleEmployee, resolved.Role, uid)
		assert.False(t, resolved.RoleLookupFailed, uid)
	}
}

func TestStore_FalloDeConsultaNoConcedePrivilegios(t *testing.T) {
	p := newFakeProvider()
	s := newStore(t, p, roleSourceFunc(func(context.Context, string) (*entity.UserProfile, error) {
		return nil, fmt.Errorf("%w: timeout", domain.ErrRecordRead)
	}))
	ch, _ := collect(s)

	p.emit(signIn("s1", "u1"))
	next(t, ch)
	resolved := next(t, ch)

	assert.Equal(t, entity.RoleEmployee, resolved.Role)
	assert.True(t, resolved.RoleLookupFailed)
	assert.False(t, resolved.Role.IsPrivileged())
}

func TestStore_DescartaRolQueLlegaTrasCerrarSesion(t *testing.T) {
	release := make(chan struct{})
	p := newFakeProvider()
	s := newStore(t, p, roleSourceFunc(func(context.Context, string) (*entity.UserProfile, error) {
		<-release
		return &entity.UserProfile{Privileged: boolPtr(true)}, nil
	}))
	ch, _ := collect(s)

	p.emit(signIn("s1", "u1"))
	assert.True(t, next(t, ch).RolePending())

	p.emit(signOut("s1"))
	out := next(t, ch)
	assert.False(t, out.Authenticated)
	assert.Equal(t, "s1", out.ID)

	close(release)
	assertNoEvent(t, ch)
	_, ok := s.Get("s1")
	assert.False(t, ok)
}

func TestStore_ReautenticacionDescartaConsultaAnterior(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	firstRelease := make(chan struct{})
	p := newFakeProvider()
	s := newStore(t, p, roleSourceFunc(func(context.Context, string) (*entity.UserProfile, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-firstRelease
			return &entity.UserProfile{Privileged: boolPtr(true)}, nil
		}
		return &entity.UserProfile{Privileged: boolPtr(false)}, nil
	}))
	ch, _ := collect(s)

	p.emit(signIn("s1", "u1"))
	next(t, ch)
	<-entered
	p.emit(signIn("s1", "u1"))
	next(t, ch)
	assert.Equal(t, entity.RoleEmployee, next(t, ch).Role)

	close(firstRelease)
	assertNoEvent(t, ch)
	got, _ := s.Get("s1")
	assert.Equal(t, entity.RoleEmployee, got.Role)
}

func TestStore_HandlersEnOrdenYSinConcurrencia(t *testing.T) {
	p := newFakeProvider()
	s := newStore(t, p, profiles(map[string]*bool{}))

	var inside atomic.Int32
	var overlap atomic.Bool
	var mu sync.Mutex
	perSession := map[string][]entity.Role{}
	done := make(chan struct{}, 64)

	s.Subscribe(func(sess entity.Session) {
		if inside.Add(1) > 1 {
			overlap.Store(true)
		}
		time.Sleep(time.Millisecond)
		mu.Lock()
		perSession[sess.ID] = append(perSession[sess.ID], sess.Role)
		mu.Unlock()
		inside.Add(-1)
		if !sess.RolePending() {
			done <- struct{}{}
		}
	})

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.emit(signIn(fmt.Sprintf("s%d", i), fmt.Sprintf("u%d", i)))
		}(i)
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("faltan resoluciones de rol")
		}
	}

	assert.False(t, overlap.Load(), "dos handlers se ejecutaron a la vez")
	mu.Lock()
	defer mu.Unlock()
	for sid, roles := range perSession {
		require.Len(t, roles, 2, sid)
		assert.Equal(t, entity.RoleUnknown, roles[0], sid)
		assert.Equal(t, entity.RoleEmployee, roles[1], sid)
	}
}

func TestSubscription_UnsubscribeIdempotente(t *testing.T) {
	p := newFakeProvider()
	s := newStore(t, p, profiles(map[string]*bool{}))
	ch, sub := collect(s)
	other, _ := collect(s)

	sub.Unsubscribe()
	sub.Unsubscribe()

	p.emit(signIn("s1", "u1"))
	next(t, other)
	assertNoEvent(t, ch)
}

func TestStore_AwaitRole(t *testing.T) {
	release := make(chan struct{})
	p := newFakeProvider()
	s := newStore(t, p, roleSourceFunc(func(context.Context, string) (*entity.UserProfile, error) {
		<-release
		return &entity.UserProfile{Privileged: boolPtr(true)}, nil
	}))
	ch, _ := collect(s)
	p.emit(signIn("s1", "u1"))
	next(t, ch)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	pending, err := s.AwaitRole(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrRolePending)
	assert.True(t, pending.RolePending())

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	resolved, err := s.AwaitRole(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.RolePrivileged, resolved.Role)

	unknown, err := s.AwaitRole(context.Background(), "otra")
	require.NoError(t, err)
	assert.False(t, unknown.Authenticated)
}

func TestStore_CloseSeDaDeBajaDelProveedor(t *testing.T) {
	p := newFakeProvider()
	s := session.NewStore(p, profiles(nil), logger.Nop(), session.Options{})
	assert.Equal(t, 1, p.listeners())

	s.Close()
	s.Close()
	assert.Equal(t, 0, p.listeners())
}

func TestAuditHandler_NoFalla(t *testing.T) {
	h := session.AuditHandler(logger.Nop())
	assert.NotPanics(t, func() {
		h(entity.Unauthenticated("s1"))
		h(entity.Session{ID: "s2", Authenticated: true, Role: entity.RoleEmployee, RoleLookupFailed: true})
	})
}

func TestStore_AwaitSession(t *testing.T) {
	p := newFakeProvider()
	s := newStore(t, p, profiles(nil))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, ok := s.AwaitSession(ctx, "s1")
	assert.False(t, ok, "sin evento la sesión no aparece")

	go func() {
		time.Sleep(10 * time.Millisecond)
		p.emit(signIn("s1", "u1"))
	}()
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	sess, ok := s.AwaitSession(ctx2, "s1")
	require.True(t, ok)
	assert.Equal(t, "u1", sess.UserID)

	// Ya conocida: responde sin esperar.
	sess, ok = s.AwaitSession(context.Background(), "s1")
	assert.True(t, ok)
	assert.True(t, sess.Authenticated)
}

func TestStore_CerrarSesionLiberaSuRegistro(t *testing.T) {
	p := newFakeProvider()
	s := newStore(t, p, profiles(map[string]*bool{"u1": boolPtr(true)}))
	ch, _ := collect(s)

	for i := 0; i < 50; i++ {
		sid := fmt.Sprintf("s%d", i)
		p.emit(signIn(sid, "u1"))
		next(t, ch)
		next(t, ch)
		p.emit(signOut(sid))
		assert.False(t, next(t, ch).Authenticated)
	}

	sessions, gens := s.Tracked()
	assert.Zero(t, sessions)
	assert.Zero(t, gens)
}

func TestStore_ReabrirMismoIDDescartaConsultaDeLaSesionCerrada(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	firstRelease := make(chan struct{})
	p := newFakeProvider()
	s := newStore(t, p, roleSourceFunc(func(context.Context, string) (*entity.UserProfile, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-firstRelease
			return &entity.UserProfile{Privileged: boolPtr(true)}, nil
		}
		return &entity.UserProfile{Privileged: boolPtr(false)}, nil
	}))
	ch, _ := collect(s)

	p.emit(signIn("s1", "u1"))
	next(t, ch)
	<-entered
	p.emit(signOut("s1"))
	next(t, ch)
	p.emit(signIn("s1", "u1"))
	next(t, ch)
	assert.Equal(t, entity.RoleEmployee, next(t, ch).Role)

	close(firstRelease)
	assertNoEvent(t, ch)
	got, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, entity.RoleEmployee, got.Role)
}
