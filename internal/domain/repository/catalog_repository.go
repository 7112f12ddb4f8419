package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CategoriaRepository define el puerto de persistencia para Categoria (DIP).
type CategoriaRepository interface {
	Create(ctx context.Context, c *entity.Categoria) error
	GetByID(ctx context.Context, id string) (*entity.Categoria, error)
	Update(ctx context.Context, c *entity.Categoria) error
	List(ctx context.Context, limit, offset int) ([]*entity.Categoria, error)
	Delete(ctx context.Context, id string) error
}

// PresentacionRepository define el puerto de persistencia para Presentacion (DIP).
type PresentacionRepository interface {
	Create(ctx context.Context, p *entity.Presentacion) error
	GetByID(ctx context.Context, id string) (*entity.Presentacion, error)
	Update(ctx context.Context, p *entity.Presentacion) error
	List(ctx context.Context, limit, offset int) ([]*entity.Presentacion, error)
	Delete(ctx context.Context, id string) error
}

// ProveedorRepository define el puerto de persistencia para Proveedor (DIP).
type ProveedorRepository interface {
	Create(ctx context.Context, p *entity.Proveedor) error
	GetByID(ctx context.Context, id string) (*entity.Proveedor, error)
	Update(ctx context.Context, p *entity.Proveedor) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Proveedor, error)
	// Deactivate hace baja lógica: los materiales históricos siguen apuntando al proveedor.
	Deactivate(ctx context.Context, id string) error
}
