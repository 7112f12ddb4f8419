package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var (
	_ repository.CategoriaRepository    = (*CategoriaRepo)(nil)
	_ repository.PresentacionRepository = (*PresentacionRepo)(nil)
	_ repository.ProveedorRepository    = (*ProveedorRepo)(nil)
)

func pageArgs(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func execAffecting(ctx context.Context, q Querier, what, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── Categorías ───────────────────────────────────────────────────────────────

// CategoriaRepo persistencia de categorías.
type CategoriaRepo struct {
	q Querier
}

// NewCategoriaRepository construye el adaptador.
func NewCategoriaRepository(q Querier) *CategoriaRepo {
	return &CategoriaRepo{q: q}
}

func (r *CategoriaRepo) Create(ctx context.Context, c *entity.Categoria) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categorias (id, nombre, descripcion, activo, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Nombre, c.Descripcion, c.Activo, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert categoria: %w", err)
	}
	return nil
}

func (r *CategoriaRepo) GetByID(ctx context.Context, id string) (*entity.Categoria, error) {
	var c entity.Categoria
	err := r.q.QueryRow(ctx,
		`SELECT id::text, nombre, descripcion, activo, created_at, updated_at FROM categorias WHERE id = $1`, id,
	).Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Activo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get categoria: %w", err)
	}
	return &c, nil
}

func (r *CategoriaRepo) Update(ctx context.Context, c *entity.Categoria) error {
	return execAffecting(ctx, r.q, "update categoria",
		`UPDATE categorias SET nombre = $2, descripcion = $3, activo = $4, updated_at = $5 WHERE id = $1`,
		c.ID, c.Nombre, c.Descripcion, c.Activo, c.UpdatedAt)
}

func (r *CategoriaRepo) List(ctx context.Context, limit, offset int) ([]*entity.Categoria, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx,
		`SELECT id::text, nombre, descripcion, activo, created_at, updated_at FROM categorias ORDER BY nombre LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	defer rows.Close()
	var list []*entity.Categoria
	for rows.Next() {
		var c entity.Categoria
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Activo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete borra la categoría. La FK de materia_prima impide borrar una en uso (ErrConflict).
func (r *CategoriaRepo) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.q, "delete categoria", `DELETE FROM categorias WHERE id = $1`, id)
}

// ── Presentaciones ───────────────────────────────────────────────────────────

// PresentacionRepo persistencia de presentaciones.
type PresentacionRepo struct {
	q Querier
}

// NewPresentacionRepository construye el adaptador.
func NewPresentacionRepository(q Querier) *PresentacionRepo {
	return &PresentacionRepo{q: q}
}

const presentacionColumns = `id::text, nombre, descripcion, cantidad, unidad_medida, activo, created_at, updated_at`

func scanPresentacion(row pgx.Row) (*entity.Presentacion, error) {
	var p entity.Presentacion
	if err := row.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Cantidad, &p.UnidadMedida, &p.Activo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PresentacionRepo) Create(ctx context.Context, p *entity.Presentacion) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO presentaciones (id, nombre, descripcion, cantidad, unidad_medida, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Nombre, p.Descripcion, p.Cantidad, p.UnidadMedida, p.Activo, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert presentacion: %w", err)
	}
	return nil
}

func (r *PresentacionRepo) GetByID(ctx context.Context, id string) (*entity.Presentacion, error) {
	p, err := scanPresentacion(r.q.QueryRow(ctx, `SELECT `+presentacionColumns+` FROM presentaciones WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presentacion: %w", err)
	}
	return p, nil
}

func (r *PresentacionRepo) Update(ctx context.Context, p *entity.Presentacion) error {
	return execAffecting(ctx, r.q, "update presentacion",
		`UPDATE presentaciones SET nombre = $2, descripcion = $3, cantidad = $4, unidad_medida = $5, activo = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Nombre, p.Descripcion, p.Cantidad, p.UnidadMedida, p.Activo, p.UpdatedAt)
}

func (r *PresentacionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Presentacion, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx,
		`SELECT `+presentacionColumns+` FROM presentaciones ORDER BY nombre LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list presentaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Presentacion
	for rows.Next() {
		p, err := scanPresentacion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan presentacion: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PresentacionRepo) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.q, "delete presentacion", `DELETE FROM presentaciones WHERE id = $1`, id)
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// ProveedorRepo persistencia de proveedores.
type ProveedorRepo struct {
	q Querier
}

// NewProveedorRepository construye el adaptador.
func NewProveedorRepository(q Querier) *ProveedorRepo {
	return &ProveedorRepo{q: q}
}

const proveedorColumns = `id::text, nombre, rfc, telefono, email, direccion, contacto, activo, created_at, updated_at`

func scanProveedor(row pgx.Row) (*entity.Proveedor, error) {
	var p entity.Proveedor
	if err := row.Scan(&p.ID, &p.Nombre, &p.RFC, &p.Telefono, &p.Email, &p.Direccion, &p.Contacto, &p.Activo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProveedorRepo) Create(ctx context.Context, p *entity.Proveedor) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO proveedores (id, nombre, rfc, telefono, email, direccion, contacto, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Nombre, p.RFC, p.Telefono, p.Email, p.Direccion, p.Contacto, p.Activo, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert proveedor: %w", err)
	}
	return nil
}

func (r *ProveedorRepo) GetByID(ctx context.Context, id string) (*entity.Proveedor, error) {
	p, err := scanProveedor(r.q.QueryRow(ctx, `SELECT `+proveedorColumns+` FROM proveedores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proveedor: %w", err)
	}
	return p, nil
}

func (r *ProveedorRepo) Update(ctx context.Context, p *entity.Proveedor) error {
	return execAffecting(ctx, r.q, "update proveedor",
		`UPDATE proveedores SET nombre = $2, rfc = $3, telefono = $4, email = $5, direccion = $6, contacto = $7, activo = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.Nombre, p.RFC, p.Telefono, p.Email, p.Direccion, p.Contacto, p.Activo, p.UpdatedAt)
}

// List filtra por nombre o RFC cuando search no está vacío.
func (r *ProveedorRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Proveedor, error) {
	limit, offset = pageArgs(limit, offset)
	query := `SELECT ` + proveedorColumns + ` FROM proveedores`
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		args = append(args, "%"+s+"%")
		query += ` WHERE nombre ILIKE $1 OR rfc ILIKE $1`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY nombre LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list proveedores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Proveedor
	for rows.Next() {
		p, err := scanProveedor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proveedor: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProveedorRepo) Deactivate(ctx context.Context, id string) error {
	return execAffecting(ctx, r.q, "deactivate proveedor",
		`UPDATE proveedores SET activo = FALSE, updated_at = now() WHERE id = $1`, id)
}
