package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/textutil"
)

// Registrar alta de cuentas (auth.AuthUseCase).
type Registrar interface {
	SignUp(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error)
}

// UserUseCase aplica reglas de negocio para usuarios: perfil propio y administración de empleados.
type UserUseCase struct {
	profiles    repository.UserProfileRepository
	credentials repository.CredentialRepository
	registrar   Registrar
	log         *logger.Logger
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(
	profiles repository.UserProfileRepository,
	credentials repository.CredentialRepository,
	registrar Registrar,
	log *logger.Logger,
) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{profiles: profiles, credentials: credentials, registrar: registrar, log: log.Named("users")}
}

// Profile datos de la sesión del llamante. Sin documento users el usuario se muestra como empleado.
func (uc *UserUseCase) Profile(ctx context.Context, sess entity.Session) (*dto.UserResponse, error) {
	if !sess.Authenticated {
		return nil, domain.ErrUnauthorized
	}
	p, err := uc.profiles.Get(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return &dto.UserResponse{ID: sess.UserID, Email: sess.Email, Role: entity.RoleEmployee.String()}, nil
	}
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(p), nil
}

// ListEmployees devuelve los usuarios ordenados por email.
func (uc *UserUseCase) ListEmployees(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// GetEmployee obtiene un usuario por ID.
func (uc *UserUseCase) GetEmployee(ctx context.Context, id string) (*dto.UserResponse, error) {
	p, err := uc.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return entityToUserResponse(p), nil
}

// CreateEmployee registra un empleado (credenciales y perfil sin privilegios).
func (uc *UserUseCase) CreateEmployee(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	return uc.registrar.SignUp(ctx, in)
}

// UpdateEmployee cambia el email (moviendo la credencial) y/o la bandera privileged.
// El rol de las sesiones abiertas del empleado no cambia hasta que vuelva a iniciar sesión.
func (uc *UserUseCase) UpdateEmployee(ctx context.Context, actorID, id string, in dto.UpdateEmployeeRequest) (*dto.UserResponse, error) {
	p, err := uc.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if in.Privileged != nil && !*in.Privileged && actorID == id {
		return nil, fmt.Errorf("%w: no puede quitarse sus propios privilegios", domain.ErrConflict)
	}

	if in.Email != nil {
		email := textutil.NormalizeEmail(*in.Email)
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
		}
		if email != textutil.NormalizeEmail(p.Email) {
			if err := uc.moveCredential(ctx, id, email); err != nil {
				return nil, err
			}
			if err := uc.profiles.UpdateEmail(ctx, id, email); err != nil {
				return nil, err
			}
			p.Email = email
		}
	}
	if in.Privileged != nil {
		if err := uc.profiles.SetPrivileged(ctx, id, *in.Privileged); err != nil {
			return nil, err
		}
		v := *in.Privileged
		p.Privileged = &v
		uc.log.Info().Str("actor_id", actorID).Str("user_id", id).Bool("privileged", v).Msg("privilegios actualizados")
	}
	return entityToUserResponse(p), nil
}

// DeleteEmployee elimina credenciales y perfil. Un usuario no puede eliminarse a sí mismo.
func (uc *UserUseCase) DeleteEmployee(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrConflict)
	}
	if _, err := uc.profiles.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	creds, err := uc.credentials.ListByUser(ctx, id)
	if err != nil {
		return err
	}
	for _, c := range creds {
		if err := uc.credentials.Delete(ctx, c.Email); err != nil {
			return err
		}
	}
	if err := uc.profiles.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("actor_id", actorID).Str("user_id", id).Msg("empleado eliminado")
	return nil
}

// moveCredential crea la credencial con el email nuevo y después borra la anterior.
func (uc *UserUseCase) moveCredential(ctx context.Context, userID, email string) error {
	creds, err := uc.credentials.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(creds) == 0 {
		return fmt.Errorf("%w: el usuario no tiene credenciales", domain.ErrNotFound)
	}
	old := creds[0]
	moved := *old
	moved.Email = email
	if err := uc.credentials.Create(ctx, &moved); err != nil {
		return err
	}
	return uc.credentials.Delete(ctx, old.Email)
}

func entityToUserResponse(u *entity.UserProfile) *dto.UserResponse {
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
