package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainprinting "github.com/jhoicas/almacen-api/internal/domain/printing"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// finishTimeout acota la escritura del resultado cuando el contexto del worker ya fue cancelado.
const finishTimeout = 5 * time.Second

// DispatcherConfig parámetros del pool de workers.
type DispatcherConfig struct {
	Workers        int
	PollInterval   time.Duration
	StaleAfter     time.Duration
	Backoff        domainprinting.Backoff
	DefaultPrinter string
	Label          entity.PrinterConfig
}

// Dispatcher consume la cola persistente: reclama trabajos, los renderiza, los envía
// a la impresora y registra el resultado o programa el reintento.
type Dispatcher struct {
	jobs     repository.PrintJobRepository
	mpRepo   repository.MateriaPrimaRepository
	barcodes BarcodeRenderer
	labels   LabelRenderer
	driver   PrinterDriver
	spool    Spool
	cfg      DispatcherConfig
	log      *logger.Logger
	now      func() time.Time
	wake     chan struct{}
}

// NewDispatcher construye el despachador.
func NewDispatcher(
	jobs repository.PrintJobRepository,
	mpRepo repository.MateriaPrimaRepository,
	barcodes BarcodeRenderer,
	labels LabelRenderer,
	driver PrinterDriver,
	spool Spool,
	cfg DispatcherConfig,
	log *logger.Logger,
) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		jobs:     jobs,
		mpRepo:   mpRepo,
		barcodes: barcodes,
		labels:   labels,
		driver:   driver,
		spool:    spool,
		cfg:      cfg,
		log:      log.Component("print-dispatcher"),
		now:      time.Now,
		wake:     make(chan struct{}, 1),
	}
}

// Notify despierta a un worker dormido sin bloquear.
func (d *Dispatcher) Notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run re-encola los trabajos huérfanos y arranca los workers. Bloquea hasta que ctx se cancela.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.recoverStale(ctx); err != nil {
		return err
	}

	d.log.Info().Int("workers", d.cfg.Workers).Msg("despachador de impresión iniciado")
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.cfg.Workers; i++ {
		worker := i
		g.Go(func() error {
			d.work(gctx, worker)
			return nil
		})
	}
	err := g.Wait()
	d.log.Info().Msg("despachador de impresión detenido")
	return err
}

// recoverStale resuelve los trabajos que una caída dejó en printing.
func (d *Dispatcher) recoverStale(ctx context.Context) error {
	if d.cfg.StaleAfter <= 0 {
		return nil
	}
	now := d.now()
	n, err := d.jobs.ResetStale(ctx, now.Add(-d.cfg.StaleAfter), now)
	if err != nil {
		return fmt.Errorf("reset stale print jobs: %w", err)
	}
	if n > 0 {
		d.log.Warn().Int("jobs", n).Msg("trabajos en printing recuperados al arrancar")
	}
	return nil
}

func (d *Dispatcher) work(ctx context.Context, worker int) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-d.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		for ctx.Err() == nil {
			processed, err := d.ProcessNext(ctx)
			if err != nil {
				d.log.Error().Err(err).Int("worker", worker).Msg("error en la cola de impresión")
				break
			}
			if !processed {
				break
			}
		}
		timer.Reset(d.cfg.PollInterval)
	}
}

// ProcessNext reclama y procesa un trabajo. Devuelve false si la cola no tenía trabajo listo.
func (d *Dispatcher) ProcessNext(ctx context.Context) (bool, error) {
	job, err := d.jobs.ClaimNext(ctx, d.now())
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, fmt.Errorf("claim print job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	log := d.log.With().Str("job_id", job.ID).Int("attempt", job.Attempts).Logger()
	printer, printErr := d.dispatch(ctx, job)
	log.Debug().Str("printer", printer).Msg("trabajo enviado")

	if err := d.finish(ctx, job, printer, printErr); err != nil {
		return true, err
	}
	switch job.Status {
	case entity.PrintJobCompleted:
		log.Info().Str("printer", printer).Int("copies", job.Copies).Msg("trabajo impreso")
	case entity.PrintJobPending:
		log.Warn().Err(printErr).Time("next_attempt_at", job.NextAttemptAt).Msg("impresión fallida, reintento programado")
	case entity.PrintJobError:
		log.Error().Err(printErr).Msg("impresión fallida, sin más reintentos")
	}
	return true, nil
}

// dispatch renderiza el trabajo, lo deja en el spool y lo manda a la impresora.
func (d *Dispatcher) dispatch(ctx context.Context, job *entity.PrintJob) (string, error) {
	printer, err := d.resolvePrinter(ctx, job)
	if err != nil {
		return "", err
	}
	data, ext, err := d.render(ctx, job)
	if err != nil {
		return printer, err
	}
	path, err := d.spool.Write(job.ID+ext, data)
	if err != nil {
		return printer, fmt.Errorf("spool: %w", err)
	}
	defer d.spool.Remove(path)

	err = d.driver.PrintFile(ctx, printer, path, job.RemainingCopies())
	var partial *entity.CopiesError
	if errors.As(err, &partial) {
		job.CopiesPrinted += partial.Printed
	}
	return printer, err
}

func (d *Dispatcher) resolvePrinter(ctx context.Context, job *entity.PrintJob) (string, error) {
	if job.Printer != "" {
		return job.Printer, nil
	}
	if d.cfg.DefaultPrinter != "" {
		return d.cfg.DefaultPrinter, nil
	}
	p, err := d.driver.Default(ctx)
	if err != nil {
		return "", err
	}
	if p == nil || p.Name == "" {
		return "", domain.ErrNoPrinter
	}
	return p.Name, nil
}

func (d *Dispatcher) render(ctx context.Context, job *entity.PrintJob) ([]byte, string, error) {
	switch job.Kind {
	case entity.PrintKindLabel:
		data := entity.LabelData{Title: job.Caption, Code: job.Value}
		if job.MateriaPrimaID != "" {
			mp, err := d.mpRepo.GetByID(ctx, job.MateriaPrimaID)
			if err != nil {
				return nil, "", err
			}
			if mp != nil {
				data = LabelFromMateriaPrima(mp)
			}
		}
		out, err := d.labels.RenderLabel(data, job.Options, d.labelConfig(job))
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return out, d.labels.Extension(), nil
	default:
		png, _, _, err := d.barcodes.RenderPNG(job.Value, job.Options)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return png, ".png", nil
	}
}

func (d *Dispatcher) labelConfig(job *entity.PrintJob) entity.PrinterConfig {
	cfg := d.cfg.Label
	if cfg.LabelWidthMM <= 0 || cfg.LabelHeightMM <= 0 {
		cfg = entity.DefaultPrinterConfig(cfg.Name)
	}
	if job.Printer != "" {
		cfg.Name = job.Printer
	}
	return cfg
}

// finish decide el estado final del intento y lo persiste sobre el estado printing.
func (d *Dispatcher) finish(ctx context.Context, job *entity.PrintJob, printer string, printErr error) error {
	now := d.now()
	switch {
	case printErr == nil:
		job.Status = entity.PrintJobCompleted
		job.LastError = ""
		job.CompletedAt = &now
		job.CopiesPrinted = job.Copies
		if job.Printer == "" {
			job.Printer = printer
		}
	case ctx.Err() != nil:
		// Apagado a mitad del intento: no cuenta como fallo.
		job.Status = entity.PrintJobPending
		job.Attempts--
		job.LastError = "interrumpido por apagado"
		job.NextAttemptAt = now
	case errors.Is(printErr, domain.ErrInvalidInput) || job.Attempts >= job.MaxAttempts:
		job.Status = entity.PrintJobError
		job.LastError = printErr.Error()
		job.CompletedAt = &now
	default:
		job.Status = entity.PrintJobPending
		job.LastError = printErr.Error()
		job.NextAttemptAt = now.Add(d.cfg.Backoff.Delay(job.Attempts))
	}
	job.UpdatedAt = now
	if err := domainprinting.ValidateStatusChange(entity.PrintJobPrinting, job.Status); err != nil {
		return err
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()
	if err := d.jobs.UpdateStatus(wctx, job, entity.PrintJobPrinting); err != nil {
		return fmt.Errorf("update print job %s: %w", job.ID, err)
	}
	return nil
}

// LabelFromMateriaPrima arma los datos de etiqueta de un material.
func LabelFromMateriaPrima(mp *entity.MateriaPrima) entity.LabelData {
	var lines []string
	if mp.Marca != "" || mp.Modelo != "" {
		lines = append(lines, joinNonEmpty(" ", mp.Marca, mp.Modelo))
	}
	if mp.FechaCaducidad != nil {
		lines = append(lines, "Cad: "+mp.FechaCaducidad.Format("2006-01-02"))
	}
	return entity.LabelData{
		Title:        mp.Nombre,
		Code:         mp.CodigoBarras,
		Subtitle:     mp.Descripcion,
		Lines:        lines,
		Quantity:     mp.StockActual,
		UnidadMedida: mp.UnidadMedida,
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
