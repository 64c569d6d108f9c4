package dto

import "time"

// SessionResponse sesión del llamante.
type SessionResponse struct {
	SessionID        string     `json:"session_id,omitempty"`
	UserID           string     `json:"user_id,omitempty"`
	Email            string     `json:"email,omitempty"`
	Authenticated    bool       `json:"authenticated"`
	Role             string     `json:"role"`
	RolePending      bool       `json:"role_pending"`
	RoleLookupFailed bool       `json:"role_lookup_failed"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// NavigationResponse decisión del router para la ruta pedida y pestañas disponibles.
type NavigationResponse struct {
	State        string                  `json:"state"`
	Path         string                  `json:"path"`
	Decision     NavigationDecision      `json:"decision"`
	Destinations []NavigationDestination `json:"destinations"`
}

// NavigationDecision decisión serializada.
type NavigationDecision struct {
	Kind       string `json:"kind"`
	Screen     string `json:"screen,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// NavigationDestination pestaña navegable.
type NavigationDestination struct {
	Screen string `json:"screen"`
	Path   string `json:"path"`
	Label  string `json:"label"`
}
