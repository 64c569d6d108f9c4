package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/application/navigation"
)

var allStates = []navigation.State{
	navigation.StateLoading,
	navigation.StateUnauthenticated,
	navigation.StateRolePending,
	navigation.StateEmployee,
	navigation.StatePrivileged,
}

var knownPaths = []string{"/", "/login", "/register", "/inicio", "/inventario", "/admin", "/perfil", "/mas", "/no-existe", "/x/y"}

func TestResolve_SinSesionSoloLoginRegisterONotFound(t *testing.T) {
	paths := append(knownPaths, "", "inicio", "/../admin", "/logo.png")
	for _, p := range paths {
		d := navigation.Resolve(navigation.StateUnauthenticated, p)
		switch d.Kind {
		case navigation.KindRender:
			assert.Contains(t, []navigation.Screen{navigation.ScreenLogin, navigation.ScreenRegister}, d.Screen, p)
		case navigation.KindRedirect:
			assert.Equal(t, navigation.PathLogin, d.RedirectTo, p)
		case navigation.KindNotFound:
		default:
			t.Errorf("%q: decisión %s no permitida sin sesión", p, d.Kind)
		}
	}
}

func TestResolve_RutasProtegidasSinSesionVanALogin(t *testing.T) {
	for _, p := range []string{"/inicio", "/inventario", "/admin", "/perfil", "/mas", "/"} {
		d := navigation.Resolve(navigation.StateUnauthenticated, p)
		assert.Equal(t, navigation.Decision{Kind: navigation.KindRedirect, RedirectTo: "/login"}, d, p)
	}
}

func TestResolve_LoginConSesionVaAInicio(t *testing.T) {
	for _, st := range []navigation.State{navigation.StateRolePending, navigation.StateEmployee, navigation.StatePrivileged} {
		d := navigation.Resolve(st, "/login")
		assert.Equal(t, navigation.KindRedirect, d.Kind, st.String())
		assert.Equal(t, "/inicio", d.RedirectTo, st.String())
	}
}

func TestResolve_EmpleadoNoVeInventarioNiAdmin(t *testing.T) {
	for _, p := range []string{"/inventario", "/admin"} {
		d := navigation.Resolve(navigation.StateEmployee, p)
		assert.Equal(t, navigation.KindForbidden, d.Kind, p)
		assert.Equal(t, "/inicio", d.RedirectTo, p)
	}
	assert.Equal(t, navigation.ScreenHome, navigation.Resolve(navigation.StateEmployee, "/inicio").Screen)
	assert.Equal(t, navigation.ScreenProfile, navigation.Resolve(navigation.StateEmployee, "/perfil").Screen)
	assert.Equal(t, navigation.ScreenProfile, navigation.Resolve(navigation.StateEmployee, "/mas").Screen)
}

func TestResolve_PrivilegiadoVeTodo(t *testing.T) {
	want := map[string]navigation.Screen{
		"/inicio":     navigation.ScreenHome,
		"/inventario": navigation.ScreenInventory,
		"/admin":      navigation.ScreenAdmin,
		"/perfil":     navigation.ScreenProfile,
		"/MAS":        navigation.ScreenProfile,
	}
	for p, screen := range want {
		d := navigation.Resolve(navigation.StatePrivileged, p)
		assert.Equal(t, navigation.KindRender, d.Kind, p)
		assert.Equal(t, screen, d.Screen, p)
	}
}

func TestResolve_RolPendienteNoMuestraContenidoPrivilegiado(t *testing.T) {
	for _, p := range []string{"/inventario", "/admin", "/admin/"} {
		d := navigation.Resolve(navigation.StateRolePending, p)
		assert.Equal(t, navigation.KindPending, d.Kind, p)
		assert.Empty(t, d.Screen, p)
	}
	// Pendiente se distingue de "resuelto sin privilegios".
	assert.NotEqual(t,
		navigation.Resolve(navigation.StateRolePending, "/admin"),
		navigation.Resolve(navigation.StateEmployee, "/admin"))
	assert.Equal(t, navigation.ScreenHome, navigation.Resolve(navigation.StateRolePending, "/inicio").Screen)
}

func TestResolve_CargandoNoDecide(t *testing.T) {
	for _, p := range append(knownPaths, "") {
		assert.Equal(t, navigation.KindPending, navigation.Resolve(navigation.StateLoading, p).Kind, p)
	}
}

func TestResolve_RegisterSiempreSeMuestra(t *testing.T) {
	for _, st := range allStates[1:] {
		d := navigation.Resolve(st, "/register")
		assert.Equal(t, navigation.Decision{Kind: navigation.KindRender, Screen: navigation.ScreenRegister}, d, st.String())
	}
}

func TestResolve_RutasDesconocidasYMalFormadas(t *testing.T) {
	d := navigation.Resolve(navigation.StateEmployee, "/reportes")
	assert.Equal(t, navigation.Decision{Kind: navigation.KindRedirect, RedirectTo: "/inicio"}, d)
	d = navigation.Resolve(navigation.StateEmployee, "/")
	assert.Equal(t, "/inicio", d.RedirectTo)

	for _, p := range []string{"", "   ", "inicio", "/../etc", "/inicio/../admin", "/favicon.ico", "//evil.com"} {
		for _, st := range allStates[1:] {
			assert.Equal(t, navigation.KindNotFound, navigation.Resolve(st, p).Kind, "%q %s", p, st)
		}
	}
}

func TestResolve_IgnoraQueryYBarraFinal(t *testing.T) {
	d := navigation.Resolve(navigation.StatePrivileged, "/inventario/?q=pantalla")
	assert.Equal(t, navigation.ScreenInventory, d.Screen)
}

func TestDestinations(t *testing.T) {
	screens := func(ds []navigation.Destination) []navigation.Screen {
		var out []navigation.Screen
		for _, d := range ds {
			out = append(out, d.Screen)
		}
		return out
	}

	assert.Empty(t, navigation.Destinations(navigation.StateLoading))
	assert.Empty(t, navigation.Destinations(navigation.StateUnauthenticated))
	assert.Equal(t, []navigation.Screen{navigation.ScreenHome, navigation.ScreenProfile},
		screens(navigation.Destinations(navigation.StateEmployee)))
	assert.Equal(t, []navigation.Screen{navigation.ScreenHome, navigation.ScreenProfile},
		screens(navigation.Destinations(navigation.StateRolePending)))
	assert.Equal(t, []navigation.Screen{navigation.ScreenHome, navigation.ScreenInventory, navigation.ScreenAdmin, navigation.ScreenProfile},
		screens(navigation.Destinations(navigation.StatePrivileged)))
}
