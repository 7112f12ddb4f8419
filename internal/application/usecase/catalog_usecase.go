package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// usageCounter cuenta materiales que referencian un catálogo (para impedir borrar en uso).
type usageCounter func(ctx context.Context, id string) (int, error)

func ensureUnused(ctx context.Context, count usageCounter, id string) error {
	n, err := count(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return nil
}

func activoOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// CategoriaUseCase casos de uso CRUD para categorías.
type CategoriaUseCase struct {
	repo   repository.CategoriaRepository
	mpRepo repository.MateriaPrimaRepository
}

// NewCategoriaUseCase construye el caso de uso.
func NewCategoriaUseCase(repo repository.CategoriaRepository, mpRepo repository.MateriaPrimaRepository) *CategoriaUseCase {
	return &CategoriaUseCase{repo: repo, mpRepo: mpRepo}
}

// Create crea una categoría.
func (uc *CategoriaUseCase) Create(ctx context.Context, in dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Categoria{
		ID:          uuid.New().String(),
		Nombre:      strings.TrimSpace(in.Nombre),
		Descripcion: in.Descripcion,
		Activo:      activoOr(in.Activo, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoriaResponse(c), nil
}

// GetByID obtiene una categoría. (nil, nil) si no existe.
func (uc *CategoriaUseCase) GetByID(ctx context.Context, id string) (*dto.CategoriaResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCategoriaResponse(c), nil
}

// Update reemplaza nombre, descripción y estado.
func (uc *CategoriaUseCase) Update(ctx context.Context, id string, in dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	c.Nombre = strings.TrimSpace(in.Nombre)
	c.Descripcion = in.Descripcion
	c.Activo = activoOr(in.Activo, c.Activo)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoriaResponse(c), nil
}

// List lista categorías.
func (uc *CategoriaUseCase) List(ctx context.Context, limit, offset int) ([]dto.CategoriaResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoriaResponse(c))
	}
	return out, nil
}

// Delete elimina la categoría si ningún material la usa (ErrConflict si está en uso).
func (uc *CategoriaUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if err := ensureUnused(ctx, uc.mpRepo.CountByCategoria, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func toCategoriaResponse(c *entity.Categoria) *dto.CategoriaResponse {
	return &dto.CategoriaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// PresentacionUseCase casos de uso CRUD para presentaciones.
type PresentacionUseCase struct {
	repo   repository.PresentacionRepository
	mpRepo repository.MateriaPrimaRepository
}

// NewPresentacionUseCase construye el caso de uso.
func NewPresentacionUseCase(repo repository.PresentacionRepository, mpRepo repository.MateriaPrimaRepository) *PresentacionUseCase {
	return &PresentacionUseCase{repo: repo, mpRepo: mpRepo}
}

func validatePresentacion(in dto.PresentacionRequest) error {
	if strings.TrimSpace(in.Nombre) == "" || in.Cantidad.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create crea una presentación.
func (uc *PresentacionUseCase) Create(ctx context.Context, in dto.PresentacionRequest) (*dto.PresentacionResponse, error) {
	if err := validatePresentacion(in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Presentacion{
		ID:           uuid.New().String(),
		Nombre:       strings.TrimSpace(in.Nombre),
		Descripcion:  in.Descripcion,
		Cantidad:     in.Cantidad,
		UnidadMedida: in.UnidadMedida,
		Activo:       activoOr(in.Activo, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPresentacionResponse(p), nil
}

// GetByID obtiene una presentación. (nil, nil) si no existe.
func (uc *PresentacionUseCase) GetByID(ctx context.Context, id string) (*dto.PresentacionResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return toPresentacionResponse(p), nil
}

// Update reemplaza los datos de la presentación.
func (uc *PresentacionUseCase) Update(ctx context.Context, id string, in dto.PresentacionRequest) (*dto.PresentacionResponse, error) {
	if err := validatePresentacion(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	p.Nombre = strings.TrimSpace(in.Nombre)
	p.Descripcion = in.Descripcion
	p.Cantidad = in.Cantidad
	p.UnidadMedida = in.UnidadMedida
	p.Activo = activoOr(in.Activo, p.Activo)
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPresentacionResponse(p), nil
}

// List lista presentaciones.
func (uc *PresentacionUseCase) List(ctx context.Context, limit, offset int) ([]dto.PresentacionResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresentacionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPresentacionResponse(p))
	}
	return out, nil
}

// Delete elimina la presentación si ningún material la usa.
func (uc *PresentacionUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if err := ensureUnused(ctx, uc.mpRepo.CountByPresentacion, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func toPresentacionResponse(p *entity.Presentacion) *dto.PresentacionResponse {
	return &dto.PresentacionResponse{
		ID:           p.ID,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Cantidad:     p.Cantidad,
		UnidadMedida: p.UnidadMedida,
		Activo:       p.Activo,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ProveedorUseCase casos de uso CRUD para proveedores.
type ProveedorUseCase struct {
	repo repository.ProveedorRepository
}

// NewProveedorUseCase construye el caso de uso.
func NewProveedorUseCase(repo repository.ProveedorRepository) *ProveedorUseCase {
	return &ProveedorUseCase{repo: repo}
}

// RFC mexicano: 12 caracteres persona moral, 13 persona física.
func validateProveedor(in dto.ProveedorRequest) error {
	rfc := strings.TrimSpace(in.RFC)
	if strings.TrimSpace(in.Nombre) == "" || len(rfc) < 12 || len(rfc) > 13 {
		return domain.ErrInvalidInput
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create crea un proveedor. RFC duplicado -> ErrDuplicate (constraint único en BD).
func (uc *ProveedorUseCase) Create(ctx context.Context, in dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := validateProveedor(in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Proveedor{
		ID:        uuid.New().String(),
		Nombre:    strings.TrimSpace(in.Nombre),
		RFC:       strings.ToUpper(strings.TrimSpace(in.RFC)),
		Telefono:  in.Telefono,
		Email:     in.Email,
		Direccion: in.Direccion,
		Contacto:  in.Contacto,
		Activo:    activoOr(in.Activo, true),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProveedorResponse(p), nil
}

// GetByID obtiene un proveedor. (nil, nil) si no existe.
func (uc *ProveedorUseCase) GetByID(ctx context.Context, id string) (*dto.ProveedorResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return toProveedorResponse(p), nil
}

// Update reemplaza los datos del proveedor.
func (uc *ProveedorUseCase) Update(ctx context.Context, id string, in dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := validateProveedor(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	p.Nombre = strings.TrimSpace(in.Nombre)
	p.RFC = strings.ToUpper(strings.TrimSpace(in.RFC))
	p.Telefono = in.Telefono
	p.Email = in.Email
	p.Direccion = in.Direccion
	p.Contacto = in.Contacto
	p.Activo = activoOr(in.Activo, p.Activo)
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProveedorResponse(p), nil
}

// List lista proveedores; search filtra por nombre o RFC.
func (uc *ProveedorUseCase) List(ctx context.Context, search string, limit, offset int) ([]dto.ProveedorResponse, error) {
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProveedorResponse(p))
	}
	return out, nil
}

// Delete da de baja al proveedor (baja lógica).
func (uc *ProveedorUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(ctx, id)
}

func toProveedorResponse(p *entity.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:        p.ID,
		Nombre:    p.Nombre,
		RFC:       p.RFC,
		Telefono:  p.Telefono,
		Email:     p.Email,
		Direccion: p.Direccion,
		Contacto:  p.Contacto,
		Activo:    p.Activo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
