package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMateriaPrimaRequest entrada para crear un material. StockInicial genera un movimiento de entrada.
type CreateMateriaPrimaRequest struct {
	CodigoBarras   string          `json:"codigo_barras" validate:"required,max=64"`
	Nombre         string          `json:"nombre" validate:"required,min=1,max=200"`
	Marca          string          `json:"marca"`
	Modelo         string          `json:"modelo"`
	Descripcion    string          `json:"descripcion"`
	PresentacionID string          `json:"presentacion_id"`
	CategoriaID    string          `json:"categoria_id"`
	ProveedorID    string          `json:"proveedor_id"`
	UnidadMedida   string          `json:"unidad_medida"`
	StockInicial   decimal.Decimal `json:"stock_inicial"`
	StockMinimo    decimal.Decimal `json:"stock_minimo"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	FechaCaducidad *time.Time      `json:"fecha_caducidad,omitempty"`
	ImagenURL      string          `json:"imagen_url"`
}

// UpdateMateriaPrimaRequest entrada para actualizar un material (sin stock ni costo: van por movimientos).
type UpdateMateriaPrimaRequest struct {
	CodigoBarras   *string          `json:"codigo_barras"`
	Nombre         *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Marca          *string          `json:"marca"`
	Modelo         *string          `json:"modelo"`
	Descripcion    *string          `json:"descripcion"`
	PresentacionID *string          `json:"presentacion_id"`
	CategoriaID    *string          `json:"categoria_id"`
	ProveedorID    *string          `json:"proveedor_id"`
	UnidadMedida   *string          `json:"unidad_medida"`
	StockMinimo    *decimal.Decimal `json:"stock_minimo"`
	FechaCaducidad *time.Time       `json:"fecha_caducidad"`
	ImagenURL      *string          `json:"imagen_url"`
	Activo         *bool            `json:"activo"`
}

// MateriaPrimaFilterRequest query de listado.
type MateriaPrimaFilterRequest struct {
	Search           string `query:"search"`
	CategoriaID      string `query:"categoria_id"`
	ProveedorID      string `query:"proveedor_id"`
	BajoStock        bool   `query:"bajo_stock"`
	IncluirInactivos bool   `query:"incluir_inactivos"`
	PageRequest
}

// MateriaPrimaResponse salida de un material.
type MateriaPrimaResponse struct {
	ID             string          `json:"id"`
	CodigoBarras   string          `json:"codigo_barras"`
	Nombre         string          `json:"nombre"`
	Marca          string          `json:"marca"`
	Modelo         string          `json:"modelo"`
	Descripcion    string          `json:"descripcion"`
	PresentacionID string          `json:"presentacion_id,omitempty"`
	CategoriaID    string          `json:"categoria_id,omitempty"`
	ProveedorID    string          `json:"proveedor_id,omitempty"`
	UnidadMedida   string          `json:"unidad_medida"`
	StockActual    decimal.Decimal `json:"stock_actual"`
	StockMinimo    decimal.Decimal `json:"stock_minimo"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	BajoStock      bool            `json:"bajo_stock"`
	FechaCaducidad *time.Time      `json:"fecha_caducidad,omitempty"`
	ImagenURL      string          `json:"imagen_url,omitempty"`
	Activo         bool            `json:"activo"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MateriaPrimaListResponse lista paginada de materiales.
type MateriaPrimaListResponse struct {
	Items []MateriaPrimaResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// BajoStockItemDTO material en o por debajo de su mínimo con el pedido sugerido.
type BajoStockItemDTO struct {
	MateriaPrimaID   string          `json:"materia_prima_id"`
	CodigoBarras     string          `json:"codigo_barras"`
	Nombre           string          `json:"nombre"`
	ProveedorID      string          `json:"proveedor_id,omitempty"`
	StockActual      decimal.Decimal `json:"stock_actual"`
	StockMinimo      decimal.Decimal `json:"stock_minimo"`
	Deficit          decimal.Decimal `json:"deficit"`           // StockMinimo - StockActual
	CantidadSugerida decimal.Decimal `json:"cantidad_sugerida"` // 2*StockMinimo - StockActual
	CostoEstimado    decimal.Decimal `json:"costo_estimado"`    // CantidadSugerida * CostoUnitario
}
