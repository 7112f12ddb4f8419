// Package printing contiene las reglas de la cola de impresión: transiciones de estado
// y calendario de reintentos.
package printing

import (
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

var transitions = map[string][]string{
	entity.PrintJobPending:  {entity.PrintJobPrinting, entity.PrintJobCancelled},
	entity.PrintJobPrinting: {entity.PrintJobCompleted, entity.PrintJobError, entity.PrintJobPending},
	entity.PrintJobError:    {entity.PrintJobPending},
}

// ValidateStatusChange verifica que la transición esté permitida.
// printing -> pending ocurre cuando un intento falla y queda un reintento programado;
// error -> pending es el reintento manual.
func ValidateStatusChange(from, to string) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
}

// IsValidStatus verifica la pertenencia al enum de estados.
func IsValidStatus(s string) bool {
	switch s {
	case entity.PrintJobPending, entity.PrintJobPrinting, entity.PrintJobCompleted,
		entity.PrintJobError, entity.PrintJobCancelled:
		return true
	}
	return false
}

// Backoff calendario exponencial de reintentos: base, 2*base, 4*base... acotado por Max.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay devuelve la espera antes del intento número attempt+1 (attempt >= 1 es el que falló).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := b.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}
