package navigation

import (
	"path"
	"strings"
)

// Rutas de la aplicación.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathHome      = "/inicio"
	PathInventory = "/inventario"
	PathAdmin     = "/admin"
	PathProfile   = "/perfil"
	PathMore      = "/mas"
)

// Screen pantalla que se muestra.
type Screen string

const (
	ScreenNone      Screen = ""
	ScreenLogin     Screen = "login"
	ScreenRegister  Screen = "register"
	ScreenHome      Screen = "home"
	ScreenInventory Screen = "inventory"
	ScreenAdmin     Screen = "admin"
	ScreenProfile   Screen = "profile"
	ScreenNotFound  Screen = "not_found"
)

// Kind tipo de decisión del router.
type Kind string

const (
	KindRender    Kind = "render"
	KindRedirect  Kind = "redirect"
	KindForbidden Kind = "forbidden" // se niega y se redirige a RedirectTo
	KindPending   Kind = "pending"   // aún no se puede decidir; no se muestra nada
	KindNotFound  Kind = "not_found"
)

// Decision resultado de Resolve.
type Decision struct {
	Kind       Kind   `json:"kind"`
	Screen     Screen `json:"screen,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Destination pestaña navegable.
type Destination struct {
	Screen     Screen `json:"screen"`
	Path       string `json:"path"`
	Label      string `json:"label"`
	Privileged bool   `json:"privileged"`
}

// Pestañas en el orden en que se muestran.
var (
	DestHome      = Destination{Screen: ScreenHome, Path: PathHome, Label: "Inicio"}
	DestInventory = Destination{Screen: ScreenInventory, Path: PathInventory, Label: "Inventario", Privileged: true}
	DestAdmin     = Destination{Screen: ScreenAdmin, Path: PathAdmin, Label: "Admin", Privileged: true}
	DestProfile   = Destination{Screen: ScreenProfile, Path: PathMore, Label: "Más"}

	allDestinations = []Destination{DestHome, DestInventory, DestAdmin, DestProfile}
)

// protected pantallas que requieren sesión, por ruta.
var protected = map[string]Screen{
	PathHome:      ScreenHome,
	PathInventory: ScreenInventory,
	PathAdmin:     ScreenAdmin,
	PathProfile:   ScreenProfile,
	PathMore:      ScreenProfile,
}

func privilegedScreen(s Screen) bool {
	return s == ScreenInventory || s == ScreenAdmin
}

// Resolve decide la pantalla para la ruta pedida. Las reglas se evalúan en orden:
// sesión ausente, /login con sesión, rol empleado, rol privilegiado y rutas desconocidas.
func Resolve(state State, rawPath string) Decision {
	if state == StateLoading {
		return Decision{Kind: KindPending}
	}

	p, ok := normalize(rawPath)
	if !ok {
		return Decision{Kind: KindNotFound, Screen: ScreenNotFound}
	}
	if p == PathRegister {
		return Decision{Kind: KindRender, Screen: ScreenRegister}
	}

	screen, isProtected := protected[p]
	authenticated := state.Authenticated()

	switch {
	case !authenticated && p == PathLogin:
		return Decision{Kind: KindRender, Screen: ScreenLogin}
	case !authenticated:
		// Ruta protegida, raíz o desconocida: al login.
		return Decision{Kind: KindRedirect, RedirectTo: PathLogin}
	case p == PathLogin, p == PathRoot, !isProtected:
		return Decision{Kind: KindRedirect, RedirectTo: PathHome}
	}

	if privilegedScreen(screen) {
		switch state {
		case StateRolePending:
			return Decision{Kind: KindPending}
		case StateEmployee:
			return Decision{Kind: KindForbidden, RedirectTo: PathHome}
		}
	}
	return Decision{Kind: KindRender, Screen: screen}
}

// Destinations pestañas navegables para el estado. Mientras el rol está pendiente
// solo se ofrecen las no privilegiadas.
func Destinations(state State) []Destination {
	if !state.Authenticated() {
		return nil
	}
	out := make([]Destination, 0, len(allDestinations))
	for _, d := range allDestinations {
		if d.Privileged && state != StatePrivileged {
			continue
		}
		out = append(out, d)
	}
	return out
}

// normalize valida la ruta pedida. Rechaza vacías, relativas, con "..",
// y las que parecen archivos estáticos (/logo.png).
func normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "", false
	}
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	for _, seg := range strings.Split(raw, "/") {
		if seg == ".." || seg == "." {
			return "", false
		}
	}
	p := path.Clean(raw)
	if path.Ext(p) != "" {
		return "", false
	}
	if p != "/" {
		p = strings.ToLower(p)
	}
	return p, true
}
