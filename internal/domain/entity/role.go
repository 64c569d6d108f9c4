package entity

import "fmt"

// Role nivel de acceso de la sesión. Unknown es el valor cero: el rol aún no se ha resuelto.
type Role int

const (
	RoleUnknown Role = iota
	RoleEmployee
	RolePrivileged
)

// RoleFromFlag traduce la bandera privileged del documento users.
// Ausente o null => Employee (mínimo privilegio).
func RoleFromFlag(flag *bool) Role {
	if flag != nil && *flag {
		return RolePrivileged
	}
	return RoleEmployee
}

// Known indica si el rol ya fue resuelto.
func (r Role) Known() bool { return r == RoleEmployee || r == RolePrivileged }

// IsPrivileged solo es verdadero para un rol resuelto como Privileged.
func (r Role) IsPrivileged() bool { return r == RolePrivileged }

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RolePrivileged:
		return "privileged"
	default:
		return "unknown"
	}
}

// MarshalText serializa el rol como texto en JSON.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText acepta los nombres producidos por String.
func (r *Role) UnmarshalText(b []byte) error {
	switch string(b) {
	case "employee":
		*r = RoleEmployee
	case "privileged":
		*r = RolePrivileged
	case "unknown", "":
		*r = RoleUnknown
	default:
		return fmt.Errorf("rol desconocido %q", string(b))
	}
	return nil
}
