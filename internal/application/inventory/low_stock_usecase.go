package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	invdomain "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LowStockUseCase genera la lista de reposición: materiales en o por debajo de su stock mínimo.
type LowStockUseCase struct {
	mpRepo repository.MateriaPrimaRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(mpRepo repository.MateriaPrimaRepository) *LowStockUseCase {
	return &LowStockUseCase{mpRepo: mpRepo}
}

// Report devuelve los materiales bajo mínimo con la cantidad sugerida de pedido, ordenados
// por déficit (StockMinimo - StockActual) descendente y luego por nombre.
func (uc *LowStockUseCase) Report(ctx context.Context) ([]dto.BajoStockItemDTO, error) {
	list, err := uc.mpRepo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BajoStockItemDTO, 0, len(list))
	for _, m := range list {
		if !m.BajoStock() {
			continue
		}
		sugerida := invdomain.CantidadSugerida(m.StockActual, m.StockMinimo)
		items = append(items, dto.BajoStockItemDTO{
			MateriaPrimaID:   m.ID,
			CodigoBarras:     m.CodigoBarras,
			Nombre:           m.Nombre,
			ProveedorID:      m.ProveedorID,
			StockActual:      m.StockActual,
			StockMinimo:      m.StockMinimo,
			Deficit:          m.StockMinimo.Sub(m.StockActual),
			CantidadSugerida: sugerida,
			CostoEstimado:    sugerida.Mul(m.CostoUnitario),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Deficit.Equal(items[j].Deficit) {
			return items[i].Deficit.GreaterThan(items[j].Deficit)
		}
		return items[i].Nombre < items[j].Nombre
	})
	return items, nil
}
