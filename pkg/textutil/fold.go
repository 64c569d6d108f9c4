// Package textutil normaliza texto capturado en el mostrador (estados, correos, búsquedas)
// para compararlo sin importar mayúsculas ni acentos.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold quita acentos y aplica case folding Unicode: "Reparación" -> "reparacion".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	// cases.Caser tiene estado; se crea uno por llamada.
	return cases.Fold().String(out)
}

// NormalizeEmail produce la clave canónica de un correo (sin espacios, case folding).
// No quita acentos: son parte válida de un correo internacionalizado.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// HasPrefixFold compara prefijos con Fold aplicado a ambos lados.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}

// ContainsFold busca sub dentro de s con Fold aplicado a ambos lados.
func ContainsFold(s, sub string) bool {
	return strings.Contains(Fold(s), Fold(sub))
}
