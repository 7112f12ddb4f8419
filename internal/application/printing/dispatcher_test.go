package printing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainprinting "github.com/jhoicas/almacen-api/internal/domain/printing"
)

type dispatcherFixture struct {
	jobs   *memJobRepo
	mps    *memMPRepo
	labels *fakeLabels
	drv    *fakeDriver
	spool  *memSpool
	d      *Dispatcher
	uc     *PrintUseCase
	clock  time.Time
}

func newDispatcherFixture(cfg DispatcherConfig) *dispatcherFixture {
	f := &dispatcherFixture{
		jobs:   newMemJobRepo(),
		mps:    &memMPRepo{items: map[string]*entity.MateriaPrima{}},
		labels: &fakeLabels{},
		drv:    &fakeDriver{def: &entity.Printer{Name: "Zebra-ZD220", IsDefault: true}},
		spool:  newMemSpool(),
		clock:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if cfg.Backoff.Base == 0 {
		cfg.Backoff = domainprinting.Backoff{Base: 2 * time.Second, Max: time.Minute}
	}
	f.d = NewDispatcher(f.jobs, f.mps, fakeBarcodes{}, f.labels, f.drv, f.spool, cfg, nil)
	f.uc = NewPrintUseCase(f.jobs, f.mps, fakeBarcodes{}, f.drv, f.d, Settings{MaxAttempts: 3})
	now := func() time.Time { return f.clock }
	f.d.now = now
	f.uc.now = now
	return f
}

func (f *dispatcherFixture) enqueue(t *testing.T, req dto.PrintBarcodeRequest) string {
	t.Helper()
	out, _, err := f.uc.Enqueue(context.Background(), "u1", req)
	require.NoError(t, err)
	return out.ID
}

func TestProcessNext_ColaVacia(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{})
	processed, err := f.d.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestProcessNext_ImprimeYLimpiaSpool(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{})
	id := f.enqueue(t, dto.PrintBarcodeRequest{Value: "MP-0001", Copies: 3})

	processed, err := f.d.ProcessNext(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	job := f.jobs.get(id)
	assert.Equal(t, entity.PrintJobCompleted, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, "Zebra-ZD220", job.Printer)
	require.NotNil(t, job.CompletedAt)

	require.Len(t, f.drv.calls, 1)
	assert.Equal(t, printCall{"Zebra-ZD220", "/spool/" + id + ".png", 3}, f.drv.calls[0])
	assert.Empty(t, f.spool.files)
	assert.Equal(t, []string{"/spool/" + id + ".png"}, f.spool.removed)
}

func TestProcessNext_PrioridadYFIFO(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{})
	first := f.enqueue(t, dto.PrintBarcodeRequest{Value: "A"})
	f.clock = f.clock.Add(time.Second)
	urgent := f.enqueue(t, dto.PrintBarcodeRequest{Value: "B", Priority: 5})
	f.clock = f.clock.Add(time.Second)
	last := f.enqueue(t, dto.PrintBarcodeRequest{Value: "C"})

	for i := 0; i < 3; i++ {
		_, err := f.d.ProcessNext(context.Background())
		require.NoError(t, err)
	}
	require.Len(t, f.drv.calls, 3)
	assert.Contains(t, f.drv.calls[0].Path, urgent)
	assert.Contains(t, f.drv.calls[1].Path, first)
	assert.Contains(t, f.drv.calls[2].Path, last)
}

func TestProcessNext_ReintentoConBackoffYError(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{})
	f.drv.failures = 10
	id := f.enqueue(t, dto.PrintBarcodeRequest{Value: "MP-0001"})
	ctx := context.Background()

	_, err := f.d.ProcessNext(ctx)
	require.NoError(t, err)
	job := f.jobs.get(id)
	assert.Equal(t, entity.PrintJobPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, "impresora fuera de línea", job.LastError)
	assert.Equal(t, f.clock.Add(2*time.Second), job.NextAttemptAt)

	// Antes del backoff no se reclama.
	processed, err := f.d.ProcessNext(ctx)
	require.NoError(t, err)
	assert.False(t, processed)

	f.clock = f.clock.Add(2 * time.Second)
	_, err = f.d.ProcessNext(ctx)
	require.NoError(t, err)
	job = f.jobs.get(id)
	assert.Equal(t, 2, job.Attempts)
	assert.Equal(t, f.clock.Add(4*time.Second), job.NextAttemptAt)

	f.clock = f.clock.Add(4 * time.Second)
	_, err = f.d.ProcessNext(ctx)
	require.NoError(t, err)
	job = f.jobs.get(id)
	assert.Equal(t, entity.PrintJobError, job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, 3, f.drv.callCount())

	// Reintento manual: vuelve a pending y se imprime.
	f.drv.failures = 0
	_, err = f.uc.RetryJob(ctx, id)
	require.NoError(t, err)
	_, err = f.d.ProcessNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.PrintJobCompleted, f.jobs.get(id).Status)
}

func TestProcessNext_SinImpresoraReintenta(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{})
	f.drv.def = nil
	id := f.enqueue(t, dto.PrintBarcodeRequest{Value: "MP-0001"})

	_, err := f.d.ProcessNext(context.Background())
	require.NoError(t, err)
	job := f.jobs.get(id)
	assert.Equal(t, entity.PrintJobPending, job.Status)
	assert.Equal(t, domain.ErrNoPrinter.Error(), job.LastError)
	assert.Zero(t, f.drv.callCount())
}

func TestProcessNext_ContenidoInvalidoVaDirectoAError(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{})
	id := f.enqueue(t, dto.PrintBarcodeRequest{Value: "MP-0001"})
	// Alterado después del alta (ej. edición manual en BD).
	j := f.jobs.get(id)
	j.Options.Format = entity.BarcodeEAN13
	j.Value = "12"
	f.jobs.put(j)

	_, err := f.d.ProcessNext(context.Background())
	require.NoError(t, err)
	job := f.jobs.get(id)
	assert.Equal(t, entity.PrintJobError, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Contains(t, job.LastError, errBadEAN.Error())
}

func TestProcessNext_EtiquetaDeMaterial(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{Label: entity.PrinterConfig{LabelWidthMM: 60, LabelHeightMM: 40, DPI: 300}})
	cad := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	f.mps.items["mp1"] = &entity.MateriaPrima{
		ID: "mp1", CodigoBarras: "7501234567890", Nombre: "Ácido cítrico",
		Marca: "Acme", FechaCaducidad: &cad, UnidadMedida: "kg", Activo: true,
	}
	out, _, err := f.uc.EnqueueMaterialLabel(context.Background(), "u1", "mp1", dto.PrintLabelRequest{Printer: "Brother"})
	require.NoError(t, err)

	_, err = f.d.ProcessNext(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.PrintJobCompleted, f.jobs.get(out.ID).Status)
	assert.Equal(t, "Ácido cítrico", f.labels.last.Title)
	assert.Equal(t, []string{"Acme", "Cad: 2027-01-31"}, f.labels.last.Lines)
	assert.Equal(t, 60.0, f.labels.cfg.LabelWidthMM)
	assert.Equal(t, "Brother", f.labels.cfg.Name)
	assert.Equal(t, "/spool/"+out.ID+".pdf", f.drv.calls[0].Path)
}

func TestRun_ReencolaHuerfanosYSeDetieneSinFugas(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newDispatcherFixture(DispatcherConfig{Workers: 3, PollInterval: 10 * time.Millisecond, StaleAfter: time.Minute})
	orphan := f.enqueue(t, dto.PrintBarcodeRequest{Value: "HUERFANO"})
	j := f.jobs.get(orphan)
	started := f.clock.Add(-time.Hour)
	j.Status = entity.PrintJobPrinting
	j.StartedAt = &started
	f.jobs.put(j)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.d.Run(ctx) }()

	id := f.enqueue(t, dto.PrintBarcodeRequest{Value: "NUEVO"})

	require.Eventually(t, func() bool {
		return f.jobs.get(id).Status == entity.PrintJobCompleted &&
			f.jobs.get(orphan).Status == entity.PrintJobCompleted
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("el despachador no se detuvo")
	}
}

func TestNotify_NoBloquea(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{})
	for i := 0; i < 10; i++ {
		f.d.Notify()
	}
	assert.Len(t, f.d.wake, 1)
}

func TestRecoverStale_CaidasRepetidasTerminanEnError(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{StaleAfter: time.Minute})
	id := f.enqueue(t, dto.PrintBarcodeRequest{Value: "MP-0001"})
	ctx := context.Background()

	// Cada vuelta: un worker reclama el trabajo y el proceso cae antes de terminarlo.
	for i := 1; i <= 3; i++ {
		claimed, err := f.jobs.ClaimNext(ctx, f.clock)
		require.NoError(t, err)
		require.NotNil(t, claimed, "vuelta %d", i)
		f.clock = f.clock.Add(time.Hour)
		require.NoError(t, f.d.recoverStale(ctx))
	}

	job := f.jobs.get(id)
	assert.Equal(t, entity.PrintJobError, job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, entity.StaleJobError, job.LastError)
	require.NotNil(t, job.CompletedAt)
	assert.Equal(t, f.clock, *job.CompletedAt)

	claimed, err := f.jobs.ClaimNext(ctx, f.clock)
	require.NoError(t, err)
	assert.Nil(t, claimed)
	assert.Zero(t, f.drv.callCount())
}

func TestRecoverStale_ConIntentosVuelveAPending(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{StaleAfter: time.Minute})
	id := f.enqueue(t, dto.PrintBarcodeRequest{Value: "MP-0001"})
	ctx := context.Background()

	_, err := f.jobs.ClaimNext(ctx, f.clock)
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Hour)
	require.NoError(t, f.d.recoverStale(ctx))

	job := f.jobs.get(id)
	assert.Equal(t, entity.PrintJobPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Empty(t, job.LastError)
	assert.Nil(t, job.CompletedAt)
}

func TestProcessNext_ReintentoSoloImprimeCopiasFaltantes(t *testing.T) {
	f := newDispatcherFixture(DispatcherConfig{})
	id := f.enqueue(t, dto.PrintBarcodeRequest{Value: "MP-0001", Copies: 3})
	f.drv.failures = 1
	f.drv.partial = 2
	ctx := context.Background()

	_, err := f.d.ProcessNext(ctx)
	require.NoError(t, err)
	job := f.jobs.get(id)
	assert.Equal(t, entity.PrintJobPending, job.Status)
	assert.Equal(t, 2, job.CopiesPrinted)
	assert.Contains(t, job.LastError, "2 copias impresas")

	f.clock = f.clock.Add(time.Minute)
	_, err = f.d.ProcessNext(ctx)
	require.NoError(t, err)

	job = f.jobs.get(id)
	assert.Equal(t, entity.PrintJobCompleted, job.Status)
	assert.Equal(t, 3, job.CopiesPrinted)
	require.Len(t, f.drv.calls, 2)
	assert.Equal(t, 3, f.drv.calls[0].Copies)
	assert.Equal(t, 1, f.drv.calls[1].Copies)
}
