package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
	MovimientoAjuste  = "ajuste" // fija el stock al valor indicado (conteo físico)
)

// IsValidTipoMovimiento verifica la pertenencia al enum de tipos.
func IsValidTipoMovimiento(tipo string) bool {
	switch tipo {
	case MovimientoEntrada, MovimientoSalida, MovimientoAjuste:
		return true
	}
	return false
}

// Movimiento es un registro inmutable del kardex de un material.
type Movimiento struct {
	ID             string
	MateriaPrimaID string
	Tipo           string
	Cantidad       decimal.Decimal // siempre positiva; en ajuste es el stock contado
	StockAnterior  decimal.Decimal
	StockNuevo     decimal.Decimal
	CostoUnitario  decimal.Decimal
	Referencia     string // factura, orden de producción, folio de aprobación...
	Motivo         string
	UsuarioID      string
	AprobacionID   string // vacío si se registró directo
	CreatedAt      time.Time
}
