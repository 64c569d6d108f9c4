package memory

import (
	"context"
	"errors"
)

// ErrInjected error de E/S simulado por FailOn.
var ErrInjected = errors.New("memory: fallo inyectado")

// FailOn devuelve un hook que falla las operaciones del tipo y colección indicados.
func FailOn(kind OpKind, collection string) Hook {
	return func(_ context.Context, op Op) error {
		if op.Kind == kind && op.Collection == collection {
			return ErrInjected
		}
		return nil
	}
}

// Held operación retenida por un Gate.
type Held struct {
	Op      Op
	release chan struct{}
}

// Release deja que el almacén aplique (confirme) la operación.
func (h *Held) Release() { close(h.release) }

// Gate retiene las operaciones que cumplen match hasta que se liberan una a una.
// Sirve para decidir en qué orden el almacén confirma escrituras concurrentes.
type Gate struct {
	match   func(Op) bool
	arrived chan *Held
}

// NewGate crea una compuerta para las operaciones que cumplen match.
func NewGate(match func(Op) bool) *Gate {
	return &Gate{match: match, arrived: make(chan *Held, 16)}
}

// Hook para instalar con SetHook.
func (g *Gate) Hook(ctx context.Context, op Op) error {
	if !g.match(op) {
		return nil
	}
	h := &Held{Op: op, release: make(chan struct{})}
	g.arrived <- h
	select {
	case <-h.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Arrived recibe cada operación retenida en cuanto llega a la compuerta.
func (g *Gate) Arrived() <-chan *Held { return g.arrived }
