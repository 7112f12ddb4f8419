package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.AprobacionRepository = (*AprobacionRepo)(nil)

const aprobacionColumns = `id::text, materia_prima_id::text, tipo, cantidad, costo_unitario, referencia, motivo, estado,
	solicitado_por::text, resuelto_por::text, comentario, movimiento_id::text, created_at, resuelto_at`

// AprobacionRepo persistencia de solicitudes de movimiento.
type AprobacionRepo struct {
	q Querier
}

// NewAprobacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAprobacionRepository(q Querier) *AprobacionRepo {
	return &AprobacionRepo{q: q}
}

func scanAprobacion(row pgx.Row) (*entity.Aprobacion, error) {
	var a entity.Aprobacion
	var costo decimal.NullDecimal
	var resueltoPor, movimientoID *string
	err := row.Scan(&a.ID, &a.MateriaPrimaID, &a.Tipo, &a.Cantidad, &costo, &a.Referencia, &a.Motivo, &a.Estado,
		&a.SolicitadoPor, &resueltoPor, &a.Comentario, &movimientoID, &a.CreatedAt, &a.ResueltoAt)
	if err != nil {
		return nil, err
	}
	if costo.Valid {
		a.CostoUnitario = &costo.Decimal
	}
	a.ResueltoPor, a.MovimientoID = deref(resueltoPor), deref(movimientoID)
	return &a, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (r *AprobacionRepo) Create(ctx context.Context, a *entity.Aprobacion) error {
	query := `
		INSERT INTO aprobaciones (id, materia_prima_id, tipo, cantidad, costo_unitario, referencia, motivo, estado,
			solicitado_por, comentario, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.MateriaPrimaID, a.Tipo, a.Cantidad, nullDecimal(a.CostoUnitario), a.Referencia, a.Motivo, a.Estado,
		a.SolicitadoPor, a.Comentario, a.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert aprobacion: %w", err)
	}
	return nil
}

func (r *AprobacionRepo) getOne(ctx context.Context, query, id string) (*entity.Aprobacion, error) {
	a, err := scanAprobacion(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get aprobacion: %w", err)
	}
	return a, nil
}

func (r *AprobacionRepo) GetByID(ctx context.Context, id string) (*entity.Aprobacion, error) {
	return r.getOne(ctx, `SELECT `+aprobacionColumns+` FROM aprobaciones WHERE id = $1`, id)
}

// GetForUpdate bloquea la solicitud para que dos administradores no la resuelvan a la vez.
func (r *AprobacionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Aprobacion, error) {
	return r.getOne(ctx, `SELECT `+aprobacionColumns+` FROM aprobaciones WHERE id = $1 FOR UPDATE`, id)
}

// Resolve guarda la resolución solo si la solicitud seguía pendiente.
func (r *AprobacionRepo) Resolve(ctx context.Context, a *entity.Aprobacion) error {
	query := `
		UPDATE aprobaciones SET estado = $2, resuelto_por = $3, comentario = $4, movimiento_id = $5, resuelto_at = $6
		WHERE id = $1 AND estado = 'pendiente'`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.Estado, nullIfEmpty(a.ResueltoPor), a.Comentario, nullIfEmpty(a.MovimientoID), a.ResueltoAt)
	if err != nil {
		return fmt.Errorf("resolve aprobacion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// List filtra por estado si no viene vacío; las más antiguas primero.
func (r *AprobacionRepo) List(ctx context.Context, estado string, limit, offset int) ([]*entity.Aprobacion, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+aprobacionColumns+` FROM aprobaciones
		WHERE ($1 = '' OR estado = $1)
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, estado, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list aprobaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Aprobacion
	for rows.Next() {
		a, err := scanAprobacion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan aprobacion: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
