package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MateriaPrimaRepository = (*MateriaPrimaRepo)(nil)

const materiaPrimaColumns = `id::text, codigo_barras, nombre, marca, modelo, descripcion,
	presentacion_id::text, categoria_id::text, proveedor_id::text, unidad_medida,
	stock_actual, stock_minimo, costo_unitario, fecha_caducidad, imagen_url, activo, created_at, updated_at`

// MateriaPrimaRepo implementación de MateriaPrimaRepository sobre PostgreSQL (usable con pool o tx).
type MateriaPrimaRepo struct {
	q Querier
}

// NewMateriaPrimaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMateriaPrimaRepository(q Querier) *MateriaPrimaRepo {
	return &MateriaPrimaRepo{q: q}
}

func scanMateriaPrima(row pgx.Row) (*entity.MateriaPrima, error) {
	var m entity.MateriaPrima
	var presID, catID, provID *string
	err := row.Scan(
		&m.ID, &m.CodigoBarras, &m.Nombre, &m.Marca, &m.Modelo, &m.Descripcion,
		&presID, &catID, &provID, &m.UnidadMedida,
		&m.StockActual, &m.StockMinimo, &m.CostoUnitario, &m.FechaCaducidad, &m.ImagenURL, &m.Activo,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.PresentacionID, m.CategoriaID, m.ProveedorID = deref(presID), deref(catID), deref(provID)
	return &m, nil
}

// Create persiste un material nuevo.
func (r *MateriaPrimaRepo) Create(ctx context.Context, m *entity.MateriaPrima) error {
	query := `
		INSERT INTO materia_prima (id, codigo_barras, nombre, marca, modelo, descripcion, presentacion_id, categoria_id, proveedor_id,
			unidad_medida, stock_actual, stock_minimo, costo_unitario, fecha_caducidad, imagen_url, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CodigoBarras, m.Nombre, m.Marca, m.Modelo, m.Descripcion,
		nullIfEmpty(m.PresentacionID), nullIfEmpty(m.CategoriaID), nullIfEmpty(m.ProveedorID),
		m.UnidadMedida, m.StockActual, m.StockMinimo, m.CostoUnitario, m.FechaCaducidad, m.ImagenURL, m.Activo,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert materia prima: %w", err)
	}
	return nil
}

func (r *MateriaPrimaRepo) getOne(ctx context.Context, what, query string, arg any) (*entity.MateriaPrima, error) {
	m, err := scanMateriaPrima(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return m, nil
}

// GetByID obtiene un material por ID.
func (r *MateriaPrimaRepo) GetByID(ctx context.Context, id string) (*entity.MateriaPrima, error) {
	return r.getOne(ctx, "get materia prima", `SELECT `+materiaPrimaColumns+` FROM materia_prima WHERE id = $1`, id)
}

// GetByCodigoBarras obtiene un material por código de barras.
func (r *MateriaPrimaRepo) GetByCodigoBarras(ctx context.Context, codigo string) (*entity.MateriaPrima, error) {
	return r.getOne(ctx, "get materia prima by codigo", `SELECT `+materiaPrimaColumns+` FROM materia_prima WHERE codigo_barras = $1`, codigo)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *MateriaPrimaRepo) GetForUpdate(ctx context.Context, id string) (*entity.MateriaPrima, error) {
	return r.getOne(ctx, "lock materia prima", `SELECT `+materiaPrimaColumns+` FROM materia_prima WHERE id = $1 FOR UPDATE`, id)
}

// Update actualiza los datos descriptivos. El stock y el costo solo cambian por UpdateStock.
func (r *MateriaPrimaRepo) Update(ctx context.Context, m *entity.MateriaPrima) error {
	query := `
		UPDATE materia_prima SET codigo_barras = $2, nombre = $3, marca = $4, modelo = $5, descripcion = $6,
			presentacion_id = $7, categoria_id = $8, proveedor_id = $9, unidad_medida = $10, stock_minimo = $11,
			fecha_caducidad = $12, imagen_url = $13, activo = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.CodigoBarras, m.Nombre, m.Marca, m.Modelo, m.Descripcion,
		nullIfEmpty(m.PresentacionID), nullIfEmpty(m.CategoriaID), nullIfEmpty(m.ProveedorID),
		m.UnidadMedida, m.StockMinimo, m.FechaCaducidad, m.ImagenURL, m.Activo, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update materia prima: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija stock y costo promedio. Se llama dentro de la tx del movimiento.
func (r *MateriaPrimaRepo) UpdateStock(ctx context.Context, id string, stock, costoUnitario decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE materia_prima SET stock_actual = $2, costo_unitario = $3, updated_at = now() WHERE id = $1`,
		id, stock, costoUnitario)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActivo activa o da de baja lógica un material.
func (r *MateriaPrimaRepo) SetActivo(ctx context.Context, id string, activo bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE materia_prima SET activo = $2, updated_at = now() WHERE id = $1`, id, activo)
	if err != nil {
		return fmt.Errorf("set activo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve la página pedida y el total que cumple el filtro.
func (r *MateriaPrimaRepo) List(ctx context.Context, f entity.MateriaPrimaFilter) ([]*entity.MateriaPrima, int, error) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if !f.IncluirInactivos {
		conds = append(conds, "activo = TRUE")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("(nombre ILIKE $%[1]d OR codigo_barras ILIKE $%[1]d OR marca ILIKE $%[1]d)", "%"+s+"%")
	}
	if f.CategoriaID != "" {
		add("categoria_id = $%d", f.CategoriaID)
	}
	if f.ProveedorID != "" {
		add("proveedor_id = $%d", f.ProveedorID)
	}
	if f.SoloBajoStock {
		conds = append(conds, "stock_minimo > 0 AND stock_actual <= stock_minimo")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM materia_prima`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count materia prima: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM materia_prima%s ORDER BY nombre LIMIT $%d OFFSET $%d`,
		materiaPrimaColumns, where, len(args)-1, len(args))
	list, err := r.queryList(ctx, "list materia prima", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListBajoStock devuelve los activos en o bajo su mínimo, mayor déficit primero.
func (r *MateriaPrimaRepo) ListBajoStock(ctx context.Context) ([]*entity.MateriaPrima, error) {
	query := `SELECT ` + materiaPrimaColumns + ` FROM materia_prima
		WHERE activo = TRUE AND stock_minimo > 0 AND stock_actual <= stock_minimo
		ORDER BY (stock_minimo - stock_actual) DESC, nombre`
	return r.queryList(ctx, "list bajo stock", query)
}

func (r *MateriaPrimaRepo) queryList(ctx context.Context, what, query string, args ...any) ([]*entity.MateriaPrima, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()
	var list []*entity.MateriaPrima
	for rows.Next() {
		m, err := scanMateriaPrima(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", what, err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByCategoria cuenta materiales (activos o no) que referencian la categoría.
func (r *MateriaPrimaRepo) CountByCategoria(ctx context.Context, categoriaID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM materia_prima WHERE categoria_id = $1`, categoriaID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by categoria: %w", err)
	}
	return n, nil
}

// CountByPresentacion cuenta materiales que referencian la presentación.
func (r *MateriaPrimaRepo) CountByPresentacion(ctx context.Context, presentacionID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM materia_prima WHERE presentacion_id = $1`, presentacionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by presentacion: %w", err)
	}
	return n, nil
}
