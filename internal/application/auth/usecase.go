// Package auth es el proveedor de autenticación: registro, inicio y cierre de sesión.
// Cada inicio o cierre emite un ports.AuthEvent que consume el Session Store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/jwt"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/textutil"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

var _ ports.AuthProvider = (*AuthUseCase)(nil)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	credentials repository.CredentialRepository
	profiles    repository.UserProfileRepository
	revoked     ports.RevocationList
	jwtCfg      JWTConfig
	log         *logger.Logger
	now         func() time.Time

	mu        sync.Mutex
	listeners map[int]func(ports.AuthEvent)
	nextID    int
	active    map[string]time.Time // sesiones emitidas -> expiración
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	credentials repository.CredentialRepository,
	profiles repository.UserProfileRepository,
	revoked ports.RevocationList,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		credentials: credentials,
		profiles:    profiles,
		revoked:     revoked,
		jwtCfg:      jwtCfg,
		log:         log.Named("auth"),
		now:         time.Now,
		listeners:   map[int]func(ports.AuthEvent){},
		active:      map[string]time.Time{},
	}
}

// OnSessionChange implementa ports.AuthProvider.
func (uc *AuthUseCase) OnSessionChange(fn func(ports.AuthEvent)) func() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	id := uc.nextID
	uc.nextID++
	uc.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			uc.mu.Lock()
			delete(uc.listeners, id)
			uc.mu.Unlock()
		})
	}
}

// SignUp crea credenciales y perfil (privileged=false). ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email, err := ValidateCredentials(in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	userID := uuid.New().String()

	cred := &entity.Credential{Email: email, UserID: userID, PasswordHash: string(hash), CreatedAt: now}
	if err := uc.credentials.Create(ctx, cred); err != nil {
		return nil, err
	}
	off := false
	profile := &entity.UserProfile{ID: userID, Email: email, Privileged: &off, CreatedAt: now}
	if err := uc.profiles.Put(ctx, profile); err != nil {
		// Sin perfil la cuenta quedaría a medias: se intenta liberar el email.
		if delErr := uc.credentials.Delete(ctx, email); delErr != nil {
			uc.log.Error().Err(delErr).Str("email", email).Msg("no se pudo deshacer la credencial")
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Msg("cuenta registrada")
	return toUserResponse(profile), nil
}

// SignIn verifica email/password, genera el JWT de una sesión nueva y emite el evento de inicio.
func (uc *AuthUseCase) SignIn(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	cred, err := uc.credentials.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	sessionID := uuid.New().String()
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, cred.UserID, cred.Email, sessionID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.emit(ports.AuthEvent{
		SessionID: sessionID,
		UserID:    cred.UserID,
		Email:     cred.Email,
		SignedIn:  true,
		IssuedAt:  uc.now(),
		ExpiresAt: exp,
	})
	return &dto.LoginResponse{
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: exp,
		User: dto.UserResponse{
			ID:        cred.UserID,
			Email:     cred.Email,
			CreatedAt: cred.CreatedAt,
		},
	}, nil
}

// SignOut revoca la sesión durante la vida restante del token y emite el evento de cierre.
func (uc *AuthUseCase) SignOut(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return domain.ErrUnauthorized
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if rest := claims.ExpiresAt.Time.Sub(uc.now()); rest > 0 {
			ttl = rest
		}
	}
	if err := uc.revoked.Revoke(ctx, claims.SessionID(), ttl); err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	uc.emit(ports.AuthEvent{SessionID: claims.SessionID(), UserID: claims.UserID})
	return nil
}

// Authenticate valida el token y comprueba que la sesión no se haya cerrado.
// Si la lista de revocación no responde se rechaza el token.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	revoked, err := uc.revoked.IsRevoked(ctx, claims.SessionID())
	if err != nil {
		uc.log.Error().Err(err).Str("session_id", claims.SessionID()).Msg("no se pudo consultar la lista de revocación")
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if revoked {
		return nil, domain.ErrSessionRevoked
	}
	return claims, nil
}

// Restore vuelve a emitir el inicio de una sesión con token válido que el Session Store
// no conoce (p. ej. tras reiniciar el proceso).
func (uc *AuthUseCase) Restore(claims *jwt.Claims) {
	if claims == nil {
		return
	}
	ev := ports.AuthEvent{
		SessionID: claims.SessionID(),
		UserID:    claims.UserID,
		Email:     claims.Email,
		SignedIn:  true,
	}
	if claims.IssuedAt != nil {
		ev.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		ev.ExpiresAt = claims.ExpiresAt.Time
	}
	uc.emit(ev)
}

// ExpireSessions emite el cierre de cada sesión cuyo token ya venció. Devuelve cuántas cerró.
func (uc *AuthUseCase) ExpireSessions() int {
	now := uc.now()
	uc.mu.Lock()
	var expired []string
	for sid, exp := range uc.active {
		if !exp.IsZero() && !now.Before(exp) {
			expired = append(expired, sid)
		}
	}
	uc.mu.Unlock()

	for _, sid := range expired {
		uc.emit(ports.AuthEvent{SessionID: sid})
	}
	return len(expired)
}

// RunExpiry llama a ExpireSessions cada interval hasta que ctx termine.
func (uc *AuthUseCase) RunExpiry(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := uc.ExpireSessions(); n > 0 {
				uc.log.Debug().Int("count", n).Msg("sesiones expiradas")
			}
		}
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

func (uc *AuthUseCase) emit(ev ports.AuthEvent) {
	uc.mu.Lock()
	if ev.SignedIn {
		uc.active[ev.SessionID] = ev.ExpiresAt
	} else {
		delete(uc.active, ev.SessionID)
	}
	fns := make([]func(ports.AuthEvent), 0, len(uc.listeners))
	for id := 0; id < uc.nextID; id++ {
		if fn, ok := uc.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	uc.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// ValidateCredentials normaliza el email y aplica las reglas mínimas de una cuenta nueva.
func ValidateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	return textutil.NormalizeEmail(email), nil
}

func toUserResponse(u *entity.UserProfile) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role().String(),
		Privileged: u.Role().IsPrivileged(),
		CreatedAt:  u.CreatedAt,
	}
}
