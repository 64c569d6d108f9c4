package entity

import "time"

// Session identidad autenticada y rol resuelto de una instancia de la aplicación.
// Un Session con Authenticated=false es el centinela "no autenticado".
type Session struct {
	ID               string // jti del token
	UserID           string
	Email            string
	Authenticated    bool
	Role             Role
	RoleLookupFailed bool // la consulta de rol falló; Role quedó en Employee
	IssuedAt         time.Time
	ExpiresAt        time.Time
}

// Unauthenticated devuelve el centinela para la sesión indicada.
func Unauthenticated(sessionID string) Session {
	return Session{ID: sessionID}
}

// RolePending indica sesión autenticada cuyo rol aún no se conoce.
func (s Session) RolePending() bool {
	return s.Authenticated && !s.Role.Known()
}
