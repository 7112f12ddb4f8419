package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovimientoRequest body para POST /api/stock/movimientos y POST /api/aprobaciones.
type RegisterMovimientoRequest struct {
	MateriaPrimaID string           `json:"materia_prima_id"`
	Tipo           string           `json:"tipo"` // entrada, salida, ajuste
	Cantidad       decimal.Decimal  `json:"cantidad"`
	CostoUnitario  *decimal.Decimal `json:"costo_unitario,omitempty"` // obligatorio en entrada
	Referencia     string           `json:"referencia"`
	Motivo         string           `json:"motivo"`
}

// MovimientoResponse salida de un movimiento del kardex.
type MovimientoResponse struct {
	ID             string          `json:"id"`
	MateriaPrimaID string          `json:"materia_prima_id"`
	Tipo           string          `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	StockAnterior  decimal.Decimal `json:"stock_anterior"`
	StockNuevo     decimal.Decimal `json:"stock_nuevo"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	Referencia     string          `json:"referencia,omitempty"`
	Motivo         string          `json:"motivo,omitempty"`
	UsuarioID      string          `json:"usuario_id"`
	AprobacionID   string          `json:"aprobacion_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovimientoListResponse kardex paginado.
type MovimientoListResponse struct {
	Items []MovimientoResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ResolveAprobacionRequest body de aprobar/rechazar.
type ResolveAprobacionRequest struct {
	Comentario string `json:"comentario"`
}

// AprobacionResponse salida de una solicitud de movimiento.
type AprobacionResponse struct {
	ID             string           `json:"id"`
	MateriaPrimaID string           `json:"materia_prima_id"`
	Tipo           string           `json:"tipo"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	CostoUnitario  *decimal.Decimal `json:"costo_unitario,omitempty"`
	Referencia     string           `json:"referencia,omitempty"`
	Motivo         string           `json:"motivo,omitempty"`
	Estado         string           `json:"estado"`
	SolicitadoPor  string           `json:"solicitado_por"`
	ResueltoPor    string           `json:"resuelto_por,omitempty"`
	Comentario     string           `json:"comentario,omitempty"`
	MovimientoID   string           `json:"movimiento_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	ResueltoAt     *time.Time       `json:"resuelto_at,omitempty"`
}
