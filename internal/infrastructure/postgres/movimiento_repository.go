package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

const movimientoColumns = `id::text, materia_prima_id::text, tipo, cantidad, stock_anterior, stock_nuevo, costo_unitario,
	referencia, motivo, usuario_id::text, aprobacion_id::text, created_at`

// MovimientoRepo persistencia del kardex. Los movimientos no se actualizan ni se borran.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

func scanMovimiento(row pgx.Row) (*entity.Movimiento, error) {
	var m entity.Movimiento
	var aprobacionID *string
	err := row.Scan(&m.ID, &m.MateriaPrimaID, &m.Tipo, &m.Cantidad, &m.StockAnterior, &m.StockNuevo, &m.CostoUnitario,
		&m.Referencia, &m.Motivo, &m.UsuarioID, &aprobacionID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.AprobacionID = deref(aprobacionID)
	return &m, nil
}

func (r *MovimientoRepo) Create(ctx context.Context, m *entity.Movimiento) error {
	query := `
		INSERT INTO movimientos (id, materia_prima_id, tipo, cantidad, stock_anterior, stock_nuevo, costo_unitario,
			referencia, motivo, usuario_id, aprobacion_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MateriaPrimaID, m.Tipo, m.Cantidad, m.StockAnterior, m.StockNuevo, m.CostoUnitario,
		m.Referencia, m.Motivo, m.UsuarioID, nullIfEmpty(m.AprobacionID), m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

func (r *MovimientoRepo) GetByID(ctx context.Context, id string) (*entity.Movimiento, error) {
	m, err := scanMovimiento(r.q.QueryRow(ctx, `SELECT `+movimientoColumns+` FROM movimientos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return m, nil
}

// ListByMateriaPrima devuelve el kardex del material, más reciente primero. from/to son opcionales.
func (r *MovimientoRepo) ListByMateriaPrima(ctx context.Context, materiaPrimaID string, from, to *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	limit, offset = pageArgs(limit, offset)
	query := `SELECT ` + movimientoColumns + ` FROM movimientos
		WHERE materia_prima_id = $1
			AND ($2::timestamptz IS NULL OR created_at >= $2)
			AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, materiaPrimaID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimiento
	for rows.Next() {
		m, err := scanMovimiento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
