package scanner

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/jhoicas/Taller-api/pkg/barcode"
)

// Line lee códigos de un lector USB en modo teclado: cada lectura termina en salto de línea.
type Line struct {
	scanner *bufio.Scanner
	lines   chan lineResult
	once    sync.Once
}

type lineResult struct {
	text string
	err  error
}

// NewLine crea el lector sobre r (normalmente os.Stdin).
func NewLine(r io.Reader) *Line {
	return &Line{scanner: bufio.NewScanner(r), lines: make(chan lineResult)}
}

// RequestPermission implementa ports.Scanner; la entrada estándar siempre está disponible.
func (l *Line) RequestPermission(context.Context) (bool, error) { return true, nil }

// Scan espera la siguiente línea o la cancelación de ctx.
// Una línea vacía o el fin de la entrada equivalen a cancelar el escaneo.
func (l *Line) Scan(ctx context.Context, formats []barcode.Format) (string, barcode.Format, error) {
	l.once.Do(func() { go l.read() })
	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return match("", formats)
		}
		if res.err != nil {
			return "", "", res.err
		}
		return match(strings.TrimSpace(res.text), formats)
	}
}

func (l *Line) read() {
	defer close(l.lines)
	for l.scanner.Scan() {
		l.lines <- lineResult{text: l.scanner.Text()}
	}
	if err := l.scanner.Err(); err != nil {
		l.lines <- lineResult{err: err}
	}
}
