// Package navigation decide qué pantalla ve cada sesión según su estado de autenticación y rol.
package navigation

import "github.com/jhoicas/Taller-api/internal/domain/entity"

// State estado de navegación derivado exclusivamente de los eventos del Session Store.
type State int

const (
	StateLoading State = iota // antes del primer evento: no se decide ninguna ruta
	StateUnauthenticated
	StateRolePending
	StateEmployee
	StatePrivileged
)

// StateOf deriva el estado de una sesión publicada.
func StateOf(s entity.Session) State {
	switch {
	case !s.Authenticated:
		return StateUnauthenticated
	case s.Role == entity.RolePrivileged:
		return StatePrivileged
	case s.Role == entity.RoleEmployee:
		return StateEmployee
	default:
		return StateRolePending
	}
}

// Authenticated indica si el estado corresponde a una sesión abierta.
func (s State) Authenticated() bool {
	return s == StateRolePending || s == StateEmployee || s == StatePrivileged
}

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateRolePending:
		return "authenticated_role_pending"
	case StateEmployee:
		return "authenticated_employee"
	case StatePrivileged:
		return "authenticated_privileged"
	}
	return "unknown"
}

// MarshalText serializa el estado como texto en JSON.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
