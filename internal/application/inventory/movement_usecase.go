package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	invdomain "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario (entrada, salida, ajuste) de forma
// transaccional, con bloqueo de fila del material (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	mpRepo   repository.MateriaPrimaRepository
	movRepo  repository.MovimientoRepository
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	mpRepo repository.MateriaPrimaRepository,
	movRepo repository.MovimientoRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		mpRepo:   mpRepo,
		movRepo:  movRepo,
		now:      time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento.
// CostoUnitario es obligatorio en entrada; en salida y ajuste se usa el costo promedio vigente.
type MovementInputDTO struct {
	UserID         string
	MateriaPrimaID string
	Tipo           string
	Cantidad       decimal.Decimal
	CostoUnitario  *decimal.Decimal
	Referencia     string
	Motivo         string
	AprobacionID   string
}

func validateMovement(in MovementInputDTO) error {
	if in.MateriaPrimaID == "" || !entity.IsValidTipoMovimiento(in.Tipo) {
		return domain.ErrInvalidInput
	}
	switch in.Tipo {
	case entity.MovimientoEntrada:
		if !in.Cantidad.GreaterThan(decimal.Zero) || in.CostoUnitario == nil || in.CostoUnitario.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovimientoSalida:
		if !in.Cantidad.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovimientoAjuste:
		if in.Cantidad.LessThan(decimal.Zero) || in.Motivo == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// RegisterMovement valida, verifica que el material exista y esté activo, y aplica el movimiento
// dentro de una transacción.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.Movimiento, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}
	mp, err := uc.mpRepo.GetByID(ctx, input.MateriaPrimaID)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, domain.ErrNotFound
	}
	if !mp.Activo {
		return nil, domain.ErrConflict
	}

	var mov *entity.Movimiento
	err = uc.txRunner.Run(ctx, func(
		mpRepo repository.MateriaPrimaRepository,
		movRepo repository.MovimientoRepository,
		_ repository.AprobacionRepository,
	) error {
		var err error
		mov, err = uc.applyInTx(ctx, mpRepo, movRepo, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovimientoRequest) (*dto.MovimientoResponse, error) {
	mov, err := uc.RegisterMovement(ctx, MovementInputDTO{
		UserID:         userID,
		MateriaPrimaID: in.MateriaPrimaID,
		Tipo:           in.Tipo,
		Cantidad:       in.Cantidad,
		CostoUnitario:  in.CostoUnitario,
		Referencia:     in.Referencia,
		Motivo:         in.Motivo,
	})
	if err != nil {
		return nil, err
	}
	return toMovimientoResponse(mov), nil
}

// applyInTx bloquea la fila del material, calcula el stock resultante (y el costo promedio en
// entradas), actualiza el material y guarda el registro del kardex. Usa los repos de la tx del caller.
func (uc *RegisterMovementUseCase) applyInTx(
	ctx context.Context,
	mpRepo repository.MateriaPrimaRepository,
	movRepo repository.MovimientoRepository,
	input MovementInputDTO,
) (*entity.Movimiento, error) {
	mp, err := mpRepo.GetForUpdate(ctx, input.MateriaPrimaID)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, domain.ErrNotFound
	}

	nuevo, err := invdomain.StockResultante(input.Tipo, mp.StockActual, input.Cantidad)
	if err != nil {
		return nil, err
	}

	costoMov := mp.CostoUnitario
	costoNuevo := mp.CostoUnitario
	if input.Tipo == entity.MovimientoEntrada {
		costoMov = *input.CostoUnitario
		costoNuevo = invdomain.CostoPromedio(mp.StockActual, mp.CostoUnitario, input.Cantidad, costoMov)
	}

	if err := mpRepo.UpdateStock(ctx, mp.ID, nuevo, costoNuevo); err != nil {
		return nil, err
	}

	mov := &entity.Movimiento{
		ID:             uuid.New().String(),
		MateriaPrimaID: mp.ID,
		Tipo:           input.Tipo,
		Cantidad:       input.Cantidad,
		StockAnterior:  mp.StockActual,
		StockNuevo:     nuevo,
		CostoUnitario:  costoMov,
		Referencia:     input.Referencia,
		Motivo:         input.Motivo,
		UsuarioID:      input.UserID,
		AprobacionID:   input.AprobacionID,
		CreatedAt:      uc.now(),
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// CreateWithInitialStock crea el material y, si stock > 0, su entrada inicial en la misma transacción.
func (uc *RegisterMovementUseCase) CreateWithInitialStock(ctx context.Context, mp *entity.MateriaPrima, userID string, stock, costo decimal.Decimal) error {
	if stock.LessThan(decimal.Zero) || costo.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		mpRepo repository.MateriaPrimaRepository,
		movRepo repository.MovimientoRepository,
		_ repository.AprobacionRepository,
	) error {
		if err := mpRepo.Create(ctx, mp); err != nil {
			return err
		}
		if stock.IsZero() {
			return nil
		}
		mov, err := uc.applyInTx(ctx, mpRepo, movRepo, MovementInputDTO{
			UserID:         userID,
			MateriaPrimaID: mp.ID,
			Tipo:           entity.MovimientoEntrada,
			Cantidad:       stock,
			CostoUnitario:  &costo,
			Motivo:         "stock inicial",
		})
		if err != nil {
			return err
		}
		mp.StockActual = mov.StockNuevo
		mp.CostoUnitario = costo
		return nil
	})
}

// Kardex lista los movimientos de un material (más recientes primero).
func (uc *RegisterMovementUseCase) Kardex(ctx context.Context, materiaPrimaID string, from, to *time.Time, limit, offset int) (*dto.MovimientoListResponse, error) {
	mp, err := uc.mpRepo.GetByID(ctx, materiaPrimaID)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByMateriaPrima(ctx, materiaPrimaID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovimientoResponse(m))
	}
	return &dto.MovimientoListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toMovimientoResponse(m *entity.Movimiento) *dto.MovimientoResponse {
	return &dto.MovimientoResponse{
		ID:             m.ID,
		MateriaPrimaID: m.MateriaPrimaID,
		Tipo:           m.Tipo,
		Cantidad:       m.Cantidad,
		StockAnterior:  m.StockAnterior,
		StockNuevo:     m.StockNuevo,
		CostoUnitario:  m.CostoUnitario,
		Referencia:     m.Referencia,
		Motivo:         m.Motivo,
		UsuarioID:      m.UsuarioID,
		AprobacionID:   m.AprobacionID,
		CreatedAt:      m.CreatedAt,
	}
}
