package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una aprobación.
const (
	AprobacionPendiente = "pendiente"
	AprobacionAprobada  = "aprobada"
	AprobacionRechazada = "rechazada"
)

// Aprobacion es una solicitud de movimiento que requiere visto bueno de un administrador
// antes de afectar el stock.
type Aprobacion struct {
	ID             string
	MateriaPrimaID string
	Tipo           string
	Cantidad       decimal.Decimal
	CostoUnitario  *decimal.Decimal
	Referencia     string
	Motivo         string
	Estado         string
	SolicitadoPor  string
	ResueltoPor    string
	Comentario     string
	MovimientoID   string // se llena al aprobar
	CreatedAt      time.Time
	ResueltoAt     *time.Time
}

// Pendiente indica si la solicitud aún puede resolverse.
func (a *Aprobacion) Pendiente() bool { return a.Estado == AprobacionPendiente }
