package printing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// memJobRepo cola en memoria con la misma semántica de reclamo que la de Postgres.
type memJobRepo struct {
	mu   sync.Mutex
	jobs map[string]entity.PrintJob
}

func newMemJobRepo() *memJobRepo { return &memJobRepo{jobs: map[string]entity.PrintJob{}} }

func (r *memJobRepo) Create(_ context.Context, job *entity.PrintJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if job.IdempotencyKey != "" && j.IdempotencyKey == job.IdempotencyKey {
			return domain.ErrDuplicate
		}
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *memJobRepo) GetByID(_ context.Context, id string) (*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (r *memJobRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.IdempotencyKey == key {
			return &j, nil
		}
	}
	return nil, nil
}

func (r *memJobRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PrintJob
	for _, j := range r.jobs {
		if status == "" || j.Status == status {
			c := j
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memJobRepo) ClaimNext(_ context.Context, now time.Time) (*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *entity.PrintJob
	for _, j := range r.jobs {
		if j.Status != entity.PrintJobPending || j.NextAttemptAt.After(now) {
			continue
		}
		c := j
		if best == nil || c.Priority > best.Priority ||
			(c.Priority == best.Priority && c.CreatedAt.Before(best.CreatedAt)) {
			best = &c
		}
	}
	if best == nil {
		return nil, nil
	}
	best.Status = entity.PrintJobPrinting
	best.Attempts++
	best.StartedAt = &now
	best.UpdatedAt = now
	r.jobs[best.ID] = *best
	return best, nil
}

func (r *memJobRepo) UpdateStatus(_ context.Context, job *entity.PrintJob, expected string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != expected {
		return domain.ErrConflict
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *memJobRepo) ResetStale(_ context.Context, olderThan, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, j := range r.jobs {
		if j.Status == entity.PrintJobPrinting && j.StartedAt != nil && j.StartedAt.Before(olderThan) {
			j.Status = entity.PrintJobPending
			if j.Attempts >= j.MaxAttempts {
				j.Status = entity.PrintJobError
				j.LastError = entity.StaleJobError
				j.CompletedAt = &now
			}
			j.NextAttemptAt = olderThan
			j.UpdatedAt = now
			r.jobs[id] = j
			n++
		}
	}
	return n, nil
}

func (r *memJobRepo) get(id string) entity.PrintJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[id]
}

func (r *memJobRepo) put(j entity.PrintJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = j
}

// memMPRepo solo implementa lo que usan la cola y las etiquetas.
type memMPRepo struct {
	items map[string]*entity.MateriaPrima
}

func (r *memMPRepo) Create(context.Context, *entity.MateriaPrima) error { return nil }
func (r *memMPRepo) GetByID(_ context.Context, id string) (*entity.MateriaPrima, error) {
	return r.items[id], nil
}
func (r *memMPRepo) GetByCodigoBarras(context.Context, string) (*entity.MateriaPrima, error) {
	return nil, nil
}
func (r *memMPRepo) GetForUpdate(ctx context.Context, id string) (*entity.MateriaPrima, error) {
	return r.GetByID(ctx, id)
}
func (r *memMPRepo) Update(context.Context, *entity.MateriaPrima) error { return nil }
func (r *memMPRepo) UpdateStock(context.Context, string, decimal.Decimal, decimal.Decimal) error {
	return nil
}
func (r *memMPRepo) SetActivo(context.Context, string, bool) error { return nil }
func (r *memMPRepo) List(context.Context, entity.MateriaPrimaFilter) ([]*entity.MateriaPrima, int, error) {
	return nil, 0, nil
}
func (r *memMPRepo) ListBajoStock(context.Context) ([]*entity.MateriaPrima, error) { return nil, nil }
func (r *memMPRepo) CountByCategoria(context.Context, string) (int, error)         { return 0, nil }
func (r *memMPRepo) CountByPresentacion(context.Context, string) (int, error)      { return 0, nil }

var errBadEAN = errors.New("EAN13 requiere 12 o 13 dígitos")

type fakeBarcodes struct{}

func (fakeBarcodes) RenderPNG(value string, opts entity.BarcodeOptions) ([]byte, int, int, error) {
	if opts.Format == entity.BarcodeEAN13 && len(value) < 12 {
		return nil, 0, 0, errBadEAN
	}
	return []byte("PNG:" + value), 200, opts.Height, nil
}

type fakeLabels struct {
	mu   sync.Mutex
	last entity.LabelData
	cfg  entity.PrinterConfig
}

func (f *fakeLabels) RenderLabel(data entity.LabelData, _ entity.BarcodeOptions, cfg entity.PrinterConfig) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last, f.cfg = data, cfg
	return []byte("%PDF-" + data.Code), nil
}

func (f *fakeLabels) Extension() string { return ".pdf" }

type printCall struct {
	Printer string
	Path    string
	Copies  int
}

type fakeDriver struct {
	mu       sync.Mutex
	failures int // cantidad de fallos antes de imprimir bien
	partial  int // copias que el próximo fallo reporta como ya impresas
	calls    []printCall
	def      *entity.Printer
	printers []entity.Printer
}

func (f *fakeDriver) Discover(context.Context) ([]entity.Printer, error) {
	return append([]entity.Printer(nil), f.printers...), nil
}

func (f *fakeDriver) Default(context.Context) (*entity.Printer, error) { return f.def, nil }

func (f *fakeDriver) PrintFile(_ context.Context, printer, path string, copies int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, printCall{printer, path, copies})
	if f.failures > 0 {
		f.failures--
		err := errors.New("impresora fuera de línea")
		if f.partial > 0 {
			printed := f.partial
			f.partial = 0
			return &entity.CopiesError{Printed: printed, Err: err}
		}
		return err
	}
	return nil
}

func (f *fakeDriver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memSpool struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string
}

func newMemSpool() *memSpool { return &memSpool{files: map[string][]byte{}} }

func (s *memSpool) Write(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := "/spool/" + name
	s.files[path] = data
	return path, nil
}

func (s *memSpool) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	s.removed = append(s.removed, path)
}

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) Notify() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}
