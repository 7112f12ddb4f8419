package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MateriaPrima representa un insumo del almacén.
// StockActual solo cambia vía movimientos; CostoUnitario es promedio ponderado de las entradas.
type MateriaPrima struct {
	ID             string
	CodigoBarras   string // único; se imprime en la etiqueta
	Nombre         string
	Marca          string
	Modelo         string
	Descripcion    string
	PresentacionID string // vacío si no aplica
	CategoriaID    string
	ProveedorID    string
	UnidadMedida   string // kg, l, pza, ...
	StockActual    decimal.Decimal
	StockMinimo    decimal.Decimal
	CostoUnitario  decimal.Decimal
	FechaCaducidad *time.Time
	ImagenURL      string
	Activo         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BajoStock indica si el material está en o por debajo de su stock mínimo.
func (m *MateriaPrima) BajoStock() bool {
	return m.StockMinimo.GreaterThan(decimal.Zero) && m.StockActual.LessThanOrEqual(m.StockMinimo)
}

// MateriaPrimaFilter filtros de listado. Los campos vacíos no filtran.
type MateriaPrimaFilter struct {
	Search           string // nombre, código de barras o marca (ILIKE)
	CategoriaID      string
	ProveedorID      string
	SoloBajoStock    bool
	IncluirInactivos bool
	Limit            int
	Offset           int
}
