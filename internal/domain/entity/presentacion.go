package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presentacion describe el empaque en que se recibe un material (ej. "Saco 25 kg").
type Presentacion struct {
	ID           string
	Nombre       string // único
	Descripcion  string
	Cantidad     decimal.Decimal // contenido por unidad de presentación
	UnidadMedida string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
