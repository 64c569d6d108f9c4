package entity

import "time"

// UserProfile es el documento de la colección users (clave = ID del usuario autenticado).
// Privileged es anulable: nil significa que el campo no existe o es null en el documento.
type UserProfile struct {
	ID         string
	Email      string
	Privileged *bool
	CreatedAt  time.Time
}

// Role resuelve el rol del perfil; sin bandera el usuario es Employee.
func (u *UserProfile) Role() Role {
	if u == nil {
		return RoleEmployee
	}
	return RoleFromFlag(u.Privileged)
}

// Credential es el registro de autenticación (colección credentials, clave = email normalizado).
type Credential struct {
	Email        string
	UserID       string
	PasswordHash string // bcrypt hash, nunca plano
	CreatedAt    time.Time
}
