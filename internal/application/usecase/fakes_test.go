package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

type memMPRepo struct {
	items map[string]*entity.MateriaPrima
}

func newMemMPRepo() *memMPRepo { return &memMPRepo{items: map[string]*entity.MateriaPrima{}} }

func (r *memMPRepo) Create(_ context.Context, m *entity.MateriaPrima) error {
	c := *m
	r.items[m.ID] = &c
	return nil
}

func (r *memMPRepo) GetByID(_ context.Context, id string) (*entity.MateriaPrima, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *memMPRepo) GetByCodigoBarras(_ context.Context, codigo string) (*entity.MateriaPrima, error) {
	for _, m := range r.items {
		if m.CodigoBarras == codigo {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memMPRepo) GetForUpdate(ctx context.Context, id string) (*entity.MateriaPrima, error) {
	return r.GetByID(ctx, id)
}

func (r *memMPRepo) Update(_ context.Context, m *entity.MateriaPrima) error {
	if _, ok := r.items[m.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *m
	r.items[m.ID] = &c
	return nil
}

func (r *memMPRepo) UpdateStock(_ context.Context, id string, stock, costo decimal.Decimal) error {
	m, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.StockActual, m.CostoUnitario = stock, costo
	return nil
}

func (r *memMPRepo) SetActivo(_ context.Context, id string, activo bool) error {
	m, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Activo = activo
	return nil
}

func (r *memMPRepo) List(_ context.Context, f entity.MateriaPrimaFilter) ([]*entity.MateriaPrima, int, error) {
	var out []*entity.MateriaPrima
	for _, m := range r.items {
		if !f.IncluirInactivos && !m.Activo {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(m.Nombre), strings.ToLower(f.Search)) && m.CodigoBarras != f.Search {
			continue
		}
		if f.CategoriaID != "" && m.CategoriaID != f.CategoriaID {
			continue
		}
		if f.SoloBajoStock && !m.BajoStock() {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return out, len(out), nil
}

func (r *memMPRepo) ListBajoStock(ctx context.Context) ([]*entity.MateriaPrima, error) {
	out, _, err := r.List(ctx, entity.MateriaPrimaFilter{SoloBajoStock: true})
	return out, err
}

func (r *memMPRepo) CountByCategoria(_ context.Context, id string) (int, error) {
	n := 0
	for _, m := range r.items {
		if m.CategoriaID == id {
			n++
		}
	}
	return n, nil
}

func (r *memMPRepo) CountByPresentacion(_ context.Context, id string) (int, error) {
	n := 0
	for _, m := range r.items {
		if m.PresentacionID == id {
			n++
		}
	}
	return n, nil
}

// fakeStockInit simula la transacción de alta: guarda el material y aplica el stock inicial.
type fakeStockInit struct {
	repo    *memMPRepo
	calls   int
	lastQty decimal.Decimal
}

func (f *fakeStockInit) CreateWithInitialStock(ctx context.Context, mp *entity.MateriaPrima, _ string, stock, costo decimal.Decimal) error {
	f.calls++
	f.lastQty = stock
	if stock.GreaterThan(decimal.Zero) {
		mp.StockActual = stock
		mp.CostoUnitario = costo
	}
	return f.repo.Create(ctx, mp)
}

type memCategoriaRepo struct{ items map[string]*entity.Categoria }

func (r *memCategoriaRepo) Create(_ context.Context, c *entity.Categoria) error {
	for _, e := range r.items {
		if e.Nombre == c.Nombre {
			return domain.ErrDuplicate
		}
	}
	r.items[c.ID] = c
	return nil
}
func (r *memCategoriaRepo) GetByID(_ context.Context, id string) (*entity.Categoria, error) {
	return r.items[id], nil
}
func (r *memCategoriaRepo) Update(_ context.Context, c *entity.Categoria) error {
	r.items[c.ID] = c
	return nil
}
func (r *memCategoriaRepo) List(_ context.Context, _, _ int) ([]*entity.Categoria, error) {
	out := make([]*entity.Categoria, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}
func (r *memCategoriaRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type memPresentacionRepo struct {
	items map[string]*entity.Presentacion
}

func (r *memPresentacionRepo) Create(_ context.Context, p *entity.Presentacion) error {
	r.items[p.ID] = p
	return nil
}
func (r *memPresentacionRepo) GetByID(_ context.Context, id string) (*entity.Presentacion, error) {
	return r.items[id], nil
}
func (r *memPresentacionRepo) Update(_ context.Context, p *entity.Presentacion) error {
	r.items[p.ID] = p
	return nil
}
func (r *memPresentacionRepo) List(_ context.Context, _, _ int) ([]*entity.Presentacion, error) {
	out := make([]*entity.Presentacion, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}
func (r *memPresentacionRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type memProveedorRepo struct{ items map[string]*entity.Proveedor }

func (r *memProveedorRepo) Create(_ context.Context, p *entity.Proveedor) error {
	for _, e := range r.items {
		if e.RFC == p.RFC {
			return domain.ErrDuplicate
		}
	}
	r.items[p.ID] = p
	return nil
}
func (r *memProveedorRepo) GetByID(_ context.Context, id string) (*entity.Proveedor, error) {
	return r.items[id], nil
}
func (r *memProveedorRepo) Update(_ context.Context, p *entity.Proveedor) error {
	r.items[p.ID] = p
	return nil
}
func (r *memProveedorRepo) List(_ context.Context, search string, _, _ int) ([]*entity.Proveedor, error) {
	var out []*entity.Proveedor
	for _, p := range r.items {
		if search == "" || strings.Contains(p.Nombre, search) || strings.Contains(p.RFC, search) {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *memProveedorRepo) Deactivate(_ context.Context, id string) error {
	if p, ok := r.items[id]; ok {
		p.Activo = false
		p.UpdatedAt = time.Now()
	}
	return nil
}

type fixture struct {
	mp    *memMPRepo
	cat   *memCategoriaRepo
	pres  *memPresentacionRepo
	prov  *memProveedorRepo
	init  *fakeStockInit
	mpUC  *MateriaPrimaUseCase
	catUC *CategoriaUseCase
	prUC  *PresentacionUseCase
	pvUC  *ProveedorUseCase
}

func newFixture() *fixture {
	f := &fixture{
		mp:   newMemMPRepo(),
		cat:  &memCategoriaRepo{items: map[string]*entity.Categoria{}},
		pres: &memPresentacionRepo{items: map[string]*entity.Presentacion{}},
		prov: &memProveedorRepo{items: map[string]*entity.Proveedor{}},
	}
	f.init = &fakeStockInit{repo: f.mp}
	f.mpUC = NewMateriaPrimaUseCase(f.mp, f.cat, f.pres, f.prov, f.init)
	f.catUC = NewCategoriaUseCase(f.cat, f.mp)
	f.prUC = NewPresentacionUseCase(f.pres, f.mp)
	f.pvUC = NewProveedorUseCase(f.prov)
	return f
}
