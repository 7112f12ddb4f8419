package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MateriaPrimaRepository define el puerto de persistencia para MateriaPrima (DIP).
// GetByID/GetByCodigoBarras devuelven (nil, nil) si no existe.
type MateriaPrimaRepository interface {
	Create(ctx context.Context, m *entity.MateriaPrima) error
	GetByID(ctx context.Context, id string) (*entity.MateriaPrima, error)
	GetByCodigoBarras(ctx context.Context, codigo string) (*entity.MateriaPrima, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.MateriaPrima, error)
	Update(ctx context.Context, m *entity.MateriaPrima) error
	UpdateStock(ctx context.Context, id string, stock, costoUnitario decimal.Decimal) error
	SetActivo(ctx context.Context, id string, activo bool) error
	List(ctx context.Context, f entity.MateriaPrimaFilter) ([]*entity.MateriaPrima, int, error)
	ListBajoStock(ctx context.Context) ([]*entity.MateriaPrima, error)
	CountByCategoria(ctx context.Context, categoriaID string) (int, error)
	CountByPresentacion(ctx context.Context, presentacionID string) (int, error)
}
