package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// memStore guarda el estado de los tres repos; fakeTx lo restaura si fn devuelve error.
type memStore struct {
	materias     map[string]entity.MateriaPrima
	movimientos  []entity.Movimiento
	aprobaciones map[string]entity.Aprobacion
	lockCalls    int
}

func newMemStore() *memStore {
	return &memStore{
		materias:     map[string]entity.MateriaPrima{},
		aprobaciones: map[string]entity.Aprobacion{},
	}
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.materias {
		c.materias[k] = v
	}
	for k, v := range s.aprobaciones {
		c.aprobaciones[k] = v
	}
	c.movimientos = append(c.movimientos, s.movimientos...)
	c.lockCalls = s.lockCalls
	return c
}

type fakeTx struct{ s *memStore }

func (f *fakeTx) Run(_ context.Context, fn func(
	repository.MateriaPrimaRepository,
	repository.MovimientoRepository,
	repository.AprobacionRepository,
) error) error {
	before := f.s.snapshot()
	if err := fn(&fakeMPRepo{f.s}, &fakeMovRepo{f.s}, &fakeAprRepo{f.s}); err != nil {
		*f.s = *before
		return err
	}
	return nil
}

type fakeMPRepo struct{ s *memStore }

func (r *fakeMPRepo) Create(_ context.Context, m *entity.MateriaPrima) error {
	for _, e := range r.s.materias {
		if e.CodigoBarras == m.CodigoBarras {
			return domain.ErrDuplicate
		}
	}
	r.s.materias[m.ID] = *m
	return nil
}

func (r *fakeMPRepo) GetByID(_ context.Context, id string) (*entity.MateriaPrima, error) {
	m, ok := r.s.materias[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *fakeMPRepo) GetByCodigoBarras(_ context.Context, codigo string) (*entity.MateriaPrima, error) {
	for _, m := range r.s.materias {
		if m.CodigoBarras == codigo {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *fakeMPRepo) GetForUpdate(ctx context.Context, id string) (*entity.MateriaPrima, error) {
	r.s.lockCalls++
	return r.GetByID(ctx, id)
}

func (r *fakeMPRepo) Update(_ context.Context, m *entity.MateriaPrima) error {
	r.s.materias[m.ID] = *m
	return nil
}

func (r *fakeMPRepo) UpdateStock(_ context.Context, id string, stock, costo decimal.Decimal) error {
	m := r.s.materias[id]
	m.StockActual = stock
	m.CostoUnitario = costo
	r.s.materias[id] = m
	return nil
}

func (r *fakeMPRepo) SetActivo(_ context.Context, id string, activo bool) error {
	m := r.s.materias[id]
	m.Activo = activo
	r.s.materias[id] = m
	return nil
}

func (r *fakeMPRepo) List(_ context.Context, _ entity.MateriaPrimaFilter) ([]*entity.MateriaPrima, int, error) {
	var out []*entity.MateriaPrima
	for _, m := range r.s.materias {
		m := m
		out = append(out, &m)
	}
	return out, len(out), nil
}

func (r *fakeMPRepo) ListBajoStock(_ context.Context) ([]*entity.MateriaPrima, error) {
	var out []*entity.MateriaPrima
	for _, m := range r.s.materias {
		m := m
		if m.Activo && m.StockActual.LessThanOrEqual(m.StockMinimo) {
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMPRepo) CountByCategoria(_ context.Context, _ string) (int, error)    { return 0, nil }
func (r *fakeMPRepo) CountByPresentacion(_ context.Context, _ string) (int, error) { return 0, nil }

type fakeMovRepo struct{ s *memStore }

func (r *fakeMovRepo) Create(_ context.Context, m *entity.Movimiento) error {
	r.s.movimientos = append(r.s.movimientos, *m)
	return nil
}

func (r *fakeMovRepo) GetByID(_ context.Context, id string) (*entity.Movimiento, error) {
	for _, m := range r.s.movimientos {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *fakeMovRepo) ListByMateriaPrima(_ context.Context, id string, _, _ *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	var out []*entity.Movimiento
	for i := len(r.s.movimientos) - 1; i >= 0; i-- {
		m := r.s.movimientos[i]
		if m.MateriaPrimaID == id {
			out = append(out, &m)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeAprRepo struct{ s *memStore }

func (r *fakeAprRepo) Create(_ context.Context, a *entity.Aprobacion) error {
	r.s.aprobaciones[a.ID] = *a
	return nil
}

func (r *fakeAprRepo) GetByID(_ context.Context, id string) (*entity.Aprobacion, error) {
	a, ok := r.s.aprobaciones[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAprRepo) GetForUpdate(ctx context.Context, id string) (*entity.Aprobacion, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAprRepo) Resolve(_ context.Context, a *entity.Aprobacion) error {
	r.s.aprobaciones[a.ID] = *a
	return nil
}

func (r *fakeAprRepo) List(_ context.Context, estado string, _, _ int) ([]*entity.Aprobacion, error) {
	var out []*entity.Aprobacion
	for _, a := range r.s.aprobaciones {
		a := a
		if estado == "" || a.Estado == estado {
			out = append(out, &a)
		}
	}
	return out, nil
}
