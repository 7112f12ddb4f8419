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

// stockInitializer crea el material junto con su entrada de stock inicial en una sola transacción.
// Lo implementa *inventory.RegisterMovementUseCase.
type stockInitializer interface {
	CreateWithInitialStock(ctx context.Context, mp *entity.MateriaPrima, userID string, stock, costo decimal.Decimal) error
}

// MateriaPrimaUseCase casos de uso CRUD para materia prima. Stock y costo se manejan vía movimientos.
type MateriaPrimaUseCase struct {
	repo      repository.MateriaPrimaRepository
	catRepo   repository.CategoriaRepository
	presRepo  repository.PresentacionRepository
	provRepo  repository.ProveedorRepository
	stockInit stockInitializer
}

// NewMateriaPrimaUseCase construye el caso de uso.
func NewMateriaPrimaUseCase(
	repo repository.MateriaPrimaRepository,
	catRepo repository.CategoriaRepository,
	presRepo repository.PresentacionRepository,
	provRepo repository.ProveedorRepository,
	stockInit stockInitializer,
) *MateriaPrimaUseCase {
	return &MateriaPrimaUseCase{repo: repo, catRepo: catRepo, presRepo: presRepo, provRepo: provRepo, stockInit: stockInit}
}

// Create crea un material. Si trae stock_inicial registra la entrada en la misma transacción.
func (uc *MateriaPrimaUseCase) Create(ctx context.Context, userID string, in dto.CreateMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error) {
	in.CodigoBarras = strings.TrimSpace(in.CodigoBarras)
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.CodigoBarras == "" || in.Nombre == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockMinimo.LessThan(decimal.Zero) || in.StockInicial.LessThan(decimal.Zero) || in.CostoUnitario.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCodigoBarras(ctx, in.CodigoBarras)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkReferences(ctx, in.CategoriaID, in.PresentacionID, in.ProveedorID); err != nil {
		return nil, err
	}
	if in.UnidadMedida == "" {
		in.UnidadMedida = "pza"
	}

	now := time.Now()
	mp := &entity.MateriaPrima{
		ID:             uuid.New().String(),
		CodigoBarras:   in.CodigoBarras,
		Nombre:         in.Nombre,
		Marca:          in.Marca,
		Modelo:         in.Modelo,
		Descripcion:    in.Descripcion,
		PresentacionID: in.PresentacionID,
		CategoriaID:    in.CategoriaID,
		ProveedorID:    in.ProveedorID,
		UnidadMedida:   in.UnidadMedida,
		StockActual:    decimal.Zero,
		StockMinimo:    in.StockMinimo,
		CostoUnitario:  decimal.Zero,
		FechaCaducidad: in.FechaCaducidad,
		ImagenURL:      in.ImagenURL,
		Activo:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.stockInit.CreateWithInitialStock(ctx, mp, userID, in.StockInicial, in.CostoUnitario); err != nil {
		return nil, err
	}
	return toMateriaPrimaResponse(mp), nil
}

// checkReferences valida que las claves foráneas no vacías existan.
func (uc *MateriaPrimaUseCase) checkReferences(ctx context.Context, categoriaID, presentacionID, proveedorID string) error {
	if categoriaID != "" {
		c, err := uc.catRepo.GetByID(ctx, categoriaID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrInvalidInput
		}
	}
	if presentacionID != "" {
		p, err := uc.presRepo.GetByID(ctx, presentacionID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrInvalidInput
		}
	}
	if proveedorID != "" {
		p, err := uc.provRepo.GetByID(ctx, proveedorID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// GetByID obtiene un material por ID. (nil, nil) si no existe.
func (uc *MateriaPrimaUseCase) GetByID(ctx context.Context, id string) (*dto.MateriaPrimaResponse, error) {
	mp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, nil
	}
	return toMateriaPrimaResponse(mp), nil
}

// GetByCodigoBarras obtiene un material por su código (lectura con escáner).
func (uc *MateriaPrimaUseCase) GetByCodigoBarras(ctx context.Context, codigo string) (*dto.MateriaPrimaResponse, error) {
	mp, err := uc.repo.GetByCodigoBarras(ctx, strings.TrimSpace(codigo))
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, nil
	}
	return toMateriaPrimaResponse(mp), nil
}

// Update actualiza los datos descriptivos. No modifica stock ni costo.
func (uc *MateriaPrimaUseCase) Update(ctx context.Context, id string, in dto.UpdateMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error) {
	mp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, nil
	}
	if in.CodigoBarras != nil {
		codigo := strings.TrimSpace(*in.CodigoBarras)
		if codigo == "" {
			return nil, domain.ErrInvalidInput
		}
		if codigo != mp.CodigoBarras {
			other, err := uc.repo.GetByCodigoBarras(ctx, codigo)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
			mp.CodigoBarras = codigo
		}
	}
	if in.Nombre != nil {
		if strings.TrimSpace(*in.Nombre) == "" {
			return nil, domain.ErrInvalidInput
		}
		mp.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Marca != nil {
		mp.Marca = *in.Marca
	}
	if in.Modelo != nil {
		mp.Modelo = *in.Modelo
	}
	if in.Descripcion != nil {
		mp.Descripcion = *in.Descripcion
	}
	if in.CategoriaID != nil {
		mp.CategoriaID = *in.CategoriaID
	}
	if in.PresentacionID != nil {
		mp.PresentacionID = *in.PresentacionID
	}
	if in.ProveedorID != nil {
		mp.ProveedorID = *in.ProveedorID
	}
	if err := uc.checkReferences(ctx, mp.CategoriaID, mp.PresentacionID, mp.ProveedorID); err != nil {
		return nil, err
	}
	if in.UnidadMedida != nil {
		mp.UnidadMedida = *in.UnidadMedida
	}
	if in.StockMinimo != nil {
		if in.StockMinimo.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		mp.StockMinimo = *in.StockMinimo
	}
	if in.FechaCaducidad != nil {
		mp.FechaCaducidad = in.FechaCaducidad
	}
	if in.ImagenURL != nil {
		mp.ImagenURL = *in.ImagenURL
	}
	if in.Activo != nil {
		mp.Activo = *in.Activo
	}
	mp.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, mp); err != nil {
		return nil, err
	}
	return toMateriaPrimaResponse(mp), nil
}

// Delete hace baja lógica: el kardex conserva sus referencias.
func (uc *MateriaPrimaUseCase) Delete(ctx context.Context, id string) error {
	mp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if mp == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActivo(ctx, id, false)
}

// List lista materiales con filtros y paginación.
func (uc *MateriaPrimaUseCase) List(ctx context.Context, in dto.MateriaPrimaFilterRequest) (*dto.MateriaPrimaListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, entity.MateriaPrimaFilter{
		Search:           strings.TrimSpace(in.Search),
		CategoriaID:      in.CategoriaID,
		ProveedorID:      in.ProveedorID,
		SoloBajoStock:    in.BajoStock,
		IncluirInactivos: in.IncluirInactivos,
		Limit:            in.Limit,
		Offset:           in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MateriaPrimaResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMateriaPrimaResponse(m))
	}
	return &dto.MateriaPrimaListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

func toMateriaPrimaResponse(m *entity.MateriaPrima) *dto.MateriaPrimaResponse {
	if m == nil {
		return nil
	}
	return &dto.MateriaPrimaResponse{
		ID:             m.ID,
		CodigoBarras:   m.CodigoBarras,
		Nombre:         m.Nombre,
		Marca:          m.Marca,
		Modelo:         m.Modelo,
		Descripcion:    m.Descripcion,
		PresentacionID: m.PresentacionID,
		CategoriaID:    m.CategoriaID,
		ProveedorID:    m.ProveedorID,
		UnidadMedida:   m.UnidadMedida,
		StockActual:    m.StockActual,
		StockMinimo:    m.StockMinimo,
		CostoUnitario:  m.CostoUnitario,
		BajoStock:      m.BajoStock(),
		FechaCaducidad: m.FechaCaducidad,
		ImagenURL:      m.ImagenURL,
		Activo:         m.Activo,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
