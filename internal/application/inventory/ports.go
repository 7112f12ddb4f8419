package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: stock, kardex y aprobaciones cambian juntos o no cambian.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		mpRepo repository.MateriaPrimaRepository,
		movRepo repository.MovimientoRepository,
		aprRepo repository.AprobacionRepository,
	) error) error
}
