package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockResultante devuelve el stock tras aplicar un movimiento del tipo dado.
// La salida nunca deja stock negativo (ErrInsufficientStock).
func StockResultante(tipo string, actual, cantidad decimal.Decimal) (decimal.Decimal, error) {
	switch tipo {
	case entity.MovimientoEntrada:
		if !cantidad.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return actual.Add(cantidad), nil
	case entity.MovimientoSalida:
		if !cantidad.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		if actual.LessThan(cantidad) {
			return decimal.Zero, domain.ErrInsufficientStock
		}
		return actual.Sub(cantidad), nil
	case entity.MovimientoAjuste:
		if cantidad.LessThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return cantidad, nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// CantidadSugerida pedido sugerido para reponer: lleva el stock al doble del mínimo.
func CantidadSugerida(actual, minimo decimal.Decimal) decimal.Decimal {
	q := minimo.Mul(decimal.NewFromInt(2)).Sub(actual)
	if q.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return q
}
