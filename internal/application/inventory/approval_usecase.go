package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ApprovalUseCase gestiona solicitudes de movimiento que requieren visto bueno.
// Aprobar aplica el movimiento y marca la solicitud en la misma transacción.
type ApprovalUseCase struct {
	txRunner TxRunner
	aprRepo  repository.AprobacionRepository
	mpRepo   repository.MateriaPrimaRepository
	movement *RegisterMovementUseCase
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(
	txRunner TxRunner,
	aprRepo repository.AprobacionRepository,
	mpRepo repository.MateriaPrimaRepository,
	movement *RegisterMovementUseCase,
) *ApprovalUseCase {
	return &ApprovalUseCase{txRunner: txRunner, aprRepo: aprRepo, mpRepo: mpRepo, movement: movement}
}

// Request crea una solicitud pendiente. No toca el stock.
func (uc *ApprovalUseCase) Request(ctx context.Context, userID string, in dto.RegisterMovimientoRequest) (*dto.AprobacionResponse, error) {
	input := MovementInputDTO{
		UserID:         userID,
		MateriaPrimaID: in.MateriaPrimaID,
		Tipo:           in.Tipo,
		Cantidad:       in.Cantidad,
		CostoUnitario:  in.CostoUnitario,
		Referencia:     in.Referencia,
		Motivo:         in.Motivo,
	}
	if err := validateMovement(input); err != nil {
		return nil, err
	}
	mp, err := uc.mpRepo.GetByID(ctx, in.MateriaPrimaID)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, domain.ErrNotFound
	}
	a := &entity.Aprobacion{
		ID:             uuid.New().String(),
		MateriaPrimaID: in.MateriaPrimaID,
		Tipo:           in.Tipo,
		Cantidad:       in.Cantidad,
		CostoUnitario:  in.CostoUnitario,
		Referencia:     in.Referencia,
		Motivo:         in.Motivo,
		Estado:         entity.AprobacionPendiente,
		SolicitadoPor:  userID,
		CreatedAt:      uc.movement.now(),
	}
	if err := uc.aprRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAprobacionResponse(a), nil
}

// Approve aplica el movimiento solicitado. Si el stock ya no alcanza la solicitud sigue pendiente
// y se devuelve ErrInsufficientStock.
func (uc *ApprovalUseCase) Approve(ctx context.Context, id, approverID, comentario string) (*dto.AprobacionResponse, error) {
	var out *entity.Aprobacion
	err := uc.txRunner.Run(ctx, func(
		mpRepo repository.MateriaPrimaRepository,
		movRepo repository.MovimientoRepository,
		aprRepo repository.AprobacionRepository,
	) error {
		a, err := lockPending(ctx, aprRepo, id)
		if err != nil {
			return err
		}
		mov, err := uc.movement.applyInTx(ctx, mpRepo, movRepo, MovementInputDTO{
			UserID:         approverID,
			MateriaPrimaID: a.MateriaPrimaID,
			Tipo:           a.Tipo,
			Cantidad:       a.Cantidad,
			CostoUnitario:  a.CostoUnitario,
			Referencia:     a.Referencia,
			Motivo:         a.Motivo,
			AprobacionID:   a.ID,
		})
		if err != nil {
			return err
		}
		now := uc.movement.now()
		a.Estado = entity.AprobacionAprobada
		a.ResueltoPor = approverID
		a.Comentario = comentario
		a.MovimientoID = mov.ID
		a.ResueltoAt = &now
		if err := aprRepo.Resolve(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAprobacionResponse(out), nil
}

// Reject marca la solicitud como rechazada con el comentario del administrador.
func (uc *ApprovalUseCase) Reject(ctx context.Context, id, approverID, comentario string) (*dto.AprobacionResponse, error) {
	if comentario == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Aprobacion
	err := uc.txRunner.Run(ctx, func(
		_ repository.MateriaPrimaRepository,
		_ repository.MovimientoRepository,
		aprRepo repository.AprobacionRepository,
	) error {
		a, err := lockPending(ctx, aprRepo, id)
		if err != nil {
			return err
		}
		now := uc.movement.now()
		a.Estado = entity.AprobacionRechazada
		a.ResueltoPor = approverID
		a.Comentario = comentario
		a.ResueltoAt = &now
		if err := aprRepo.Resolve(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAprobacionResponse(out), nil
}

// List lista solicitudes filtrando por estado (vacío = todas).
func (uc *ApprovalUseCase) List(ctx context.Context, estado string, limit, offset int) ([]dto.AprobacionResponse, error) {
	switch estado {
	case "", entity.AprobacionPendiente, entity.AprobacionAprobada, entity.AprobacionRechazada:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.aprRepo.List(ctx, estado, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AprobacionResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAprobacionResponse(a))
	}
	return out, nil
}

// GetByID obtiene una solicitud.
func (uc *ApprovalUseCase) GetByID(ctx context.Context, id string) (*dto.AprobacionResponse, error) {
	a, err := uc.aprRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return toAprobacionResponse(a), nil
}

func lockPending(ctx context.Context, aprRepo repository.AprobacionRepository, id string) (*entity.Aprobacion, error) {
	a, err := aprRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if !a.Pendiente() {
		return nil, domain.ErrAlreadyResolved
	}
	return a, nil
}

func toAprobacionResponse(a *entity.Aprobacion) *dto.AprobacionResponse {
	return &dto.AprobacionResponse{
		ID:             a.ID,
		MateriaPrimaID: a.MateriaPrimaID,
		Tipo:           a.Tipo,
		Cantidad:       a.Cantidad,
		CostoUnitario:  a.CostoUnitario,
		Referencia:     a.Referencia,
		Motivo:         a.Motivo,
		Estado:         a.Estado,
		SolicitadoPor:  a.SolicitadoPor,
		ResueltoPor:    a.ResueltoPor,
		Comentario:     a.Comentario,
		MovimientoID:   a.MovimientoID,
		CreatedAt:      a.CreatedAt,
		ResueltoAt:     a.ResueltoAt,
	}
}
