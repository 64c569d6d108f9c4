package docstore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// fieldError campo obligatorio ausente o con tipo incompatible.
type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("campo %q: %s", e.field, e.reason)
}

// reader decodifica campos de un documento acumulando el primer error.
// Tolera las representaciones de cada backend: valores Go nativos (memoria),
// json.Number y texto RFC 3339 (postgres, sqlite) y números float64.
type reader struct {
	doc repository.Document
	err error
}

func newReader(doc repository.Document) *reader { return &reader{doc: doc} }

func (r *reader) fail(field, reason string) {
	if r.err == nil {
		r.err = &fieldError{field: field, reason: reason}
	}
}

func (r *reader) present(field string) (any, bool) {
	v, ok := r.doc[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// requiredString exige texto no vacío.
func (r *reader) requiredString(field string) string {
	s := r.optionalString(field)
	if strings.TrimSpace(s) == "" {
		r.fail(field, "obligatorio")
	}
	return s
}

func (r *reader) optionalString(field string) string {
	v, ok := r.present(field)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int, int64:
		return fmt.Sprint(t)
	}
	r.fail(field, fmt.Sprintf("tipo %T no es texto", v))
	return ""
}

// optionalBool devuelve nil si el campo no existe o es null.
func (r *reader) optionalBool(field string) *bool {
	v, ok := r.present(field)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			r.fail(field, "no es booleano")
			return nil
		}
		return &b
	}
	r.fail(field, fmt.Sprintf("tipo %T no es booleano", v))
	return nil
}

func (r *reader) optionalInt(field string) int {
	v, ok := r.present(field)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		if t != math.Trunc(t) {
			r.fail(field, "no es entero")
			return 0
		}
		return int(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			r.fail(field, "no es entero")
			return 0
		}
		return int(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			r.fail(field, "no es entero")
			return 0
		}
		return n
	}
	r.fail(field, fmt.Sprintf("tipo %T no es entero", v))
	return 0
}

// optionalDecimal acepta número o texto; texto vacío equivale a ausente.
func (r *reader) optionalDecimal(field string) decimal.NullDecimal {
	v, ok := r.present(field)
	if !ok {
		return decimal.NullDecimal{}
	}
	var (
		d   decimal.Decimal
		err error
	)
	switch t := v.(type) {
	case decimal.Decimal:
		d = t
	case json.Number:
		d, err = decimal.NewFromString(t.String())
	case float64:
		d = decimal.NewFromFloat(t)
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case string:
		if strings.TrimSpace(t) == "" {
			return decimal.NullDecimal{}
		}
		d, err = decimal.NewFromString(strings.TrimSpace(t))
	default:
		err = fmt.Errorf("tipo %T", v)
	}
	if err != nil {
		r.fail(field, "no es un monto")
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func (r *reader) decimalOrZero(field string) decimal.Decimal {
	d := r.optionalDecimal(field)
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// optionalTime acepta time.Time, RFC 3339 o fecha simple (2006-01-02).
func (r *reader) optionalTime(field string) *time.Time {
	v, ok := r.present(field)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case time.Time:
		return &t
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed
			}
		}
	}
	r.fail(field, "no es una fecha")
	return nil
}

func (r *reader) timeOrZero(field string) time.Time {
	if t := r.optionalTime(field); t != nil {
		return *t
	}
	return time.Time{}
}

// money serializa montos como texto decimal para no perder precisión en JSON.
func money(d decimal.Decimal) string { return d.String() }

func nullMoney(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
