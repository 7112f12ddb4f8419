package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovimientoRepository define el puerto de persistencia del kardex.
type MovimientoRepository interface {
	Create(ctx context.Context, m *entity.Movimiento) error
	GetByID(ctx context.Context, id string) (*entity.Movimiento, error)
	ListByMateriaPrima(ctx context.Context, materiaPrimaID string, from, to *time.Time, limit, offset int) ([]*entity.Movimiento, error)
}

// AprobacionRepository define el puerto de persistencia de solicitudes de movimiento.
type AprobacionRepository interface {
	Create(ctx context.Context, a *entity.Aprobacion) error
	GetByID(ctx context.Context, id string) (*entity.Aprobacion, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Aprobacion, error)
	Resolve(ctx context.Context, a *entity.Aprobacion) error
	List(ctx context.Context, estado string, limit, offset int) ([]*entity.Aprobacion, error)
}
