// Package barcode valida los códigos leídos por el escáner (cámara o lector USB)
// antes de usarlos como clave de búsqueda en el inventario.
package barcode

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Format simbología soportada por el escáner.
type Format string

const (
	FormatQRCode  Format = "QR_CODE"
	FormatCode128 Format = "CODE_128"
	FormatEAN13   Format = "EAN_13"
)

// DefaultFormats son las simbologías que la app solicita al escanear.
var DefaultFormats = []Format{FormatQRCode, FormatCode128, FormatEAN13}

// maxQRBytes capacidad de un QR versión 40 en modo byte con corrección L.
const maxQRBytes = 2953

var (
	ErrEmptyCode         = errors.New("barcode: código vacío")
	ErrUnsupportedFormat = errors.New("barcode: formato no soportado")
	ErrInvalidCode       = errors.New("barcode: código inválido para el formato")
)

// ParseFormat interpreta el nombre de un formato ("ean13", "EAN_13", "code128", "qr").
func ParseFormat(s string) (Format, error) {
	n := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	switch n {
	case "QR", "QRCODE":
		return FormatQRCode, nil
	case "CODE128":
		return FormatCode128, nil
	case "EAN13":
		return FormatEAN13, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Validate comprueba que code sea un valor posible para el formato indicado.
func Validate(format Format, code string) error {
	if code == "" {
		return ErrEmptyCode
	}
	switch format {
	case FormatEAN13:
		return validateEAN13(code)
	case FormatCode128:
		if len(code) > 80 {
			return fmt.Errorf("%w: Code128 admite hasta 80 caracteres", ErrInvalidCode)
		}
		for _, r := range code {
			if r < 32 || r > 126 {
				return fmt.Errorf("%w: Code128 solo admite ASCII imprimible", ErrInvalidCode)
			}
		}
		return nil
	case FormatQRCode:
		if len(code) > maxQRBytes {
			return fmt.Errorf("%w: QR excede %d bytes", ErrInvalidCode, maxQRBytes)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Match devuelve el primer formato de formats que acepta code.
// Se prueban en el orden recibido; EAN-13 es el más estricto, conviene ponerlo primero.
func Match(code string, formats []Format) (Format, error) {
	if code == "" {
		return "", ErrEmptyCode
	}
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	var lastErr error
	for _, f := range formats {
		err := Validate(f, code)
		if err == nil {
			return f, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// ComputeEAN13CheckDigit calcula el dígito de control para los 12 primeros dígitos.
// Pesos 1 y 3 alternados de izquierda a derecha, módulo 10.
func ComputeEAN13CheckDigit(first12 string) (byte, error) {
	if len(first12) != 12 || !allDigits(first12) {
		return 0, fmt.Errorf("%w: se requieren 12 dígitos, se recibió %q", ErrInvalidCode, first12)
	}
	var sum int
	for i := 0; i < 12; i++ {
		d := int(first12[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10), nil
}

func validateEAN13(code string) error {
	if len(code) != 13 || !allDigits(code) {
		return fmt.Errorf("%w: EAN-13 requiere 13 dígitos", ErrInvalidCode)
	}
	expected, err := ComputeEAN13CheckDigit(code[:12])
	if err != nil {
		return err
	}
	if code[12] != expected {
		return fmt.Errorf("%w: dígito de control esperado %c, recibido %c", ErrInvalidCode, expected, code[12])
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
