package dto

import "time"

// RegisterRequest entrada para el alta de cuenta (pantalla /register) o de empleado (admin).
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de sesión y datos básicos del usuario.
// El rol no viaja en la respuesta: se consulta en GET /api/session una vez resuelto.
type LoginResponse struct {
	Token     string       `json:"token"`
	SessionID string       `json:"session_id"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse salida de un usuario (sin credenciales).
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role,omitempty"`
	Privileged bool      `json:"privileged"`
	CreatedAt  time.Time `json:"created_at"`
}

// UpdateEmployeeRequest cambios sobre un empleado (campos opcionales).
type UpdateEmployeeRequest struct {
	Email      *string `json:"email,omitempty"`
	Privileged *bool   `json:"privileged,omitempty"`
}
