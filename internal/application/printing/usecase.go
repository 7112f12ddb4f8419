// Package printing orquesta la cola persistente de impresión: alta de trabajos, consulta,
// cancelación, reintento y el despachador que los envía a la impresora.
package printing

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainprinting "github.com/jhoicas/almacen-api/internal/domain/printing"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

const (
	maxCopies   = 100
	maxPriority = 10
	maxValueLen = 256
)

// Settings parámetros de la cola que vienen de configuración.
type Settings struct {
	MaxAttempts    int
	DefaultPrinter string
}

// PrintUseCase casos de uso de códigos de barras, impresoras y trabajos de impresión.
type PrintUseCase struct {
	jobs     repository.PrintJobRepository
	mpRepo   repository.MateriaPrimaRepository
	barcodes BarcodeRenderer
	driver   PrinterDriver
	notifier Notifier
	cfg      Settings
	now      func() time.Time
}

// NewPrintUseCase construye el caso de uso. notifier puede ser nil.
func NewPrintUseCase(
	jobs repository.PrintJobRepository,
	mpRepo repository.MateriaPrimaRepository,
	barcodes BarcodeRenderer,
	driver PrinterDriver,
	notifier Notifier,
	cfg Settings,
) *PrintUseCase {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	return &PrintUseCase{
		jobs:     jobs,
		mpRepo:   mpRepo,
		barcodes: barcodes,
		driver:   driver,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

func validateBarcodeInput(value string, opts entity.BarcodeOptions) (string, entity.BarcodeOptions, error) {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > maxValueLen {
		return "", opts, fmt.Errorf("%w: valor de código vacío o demasiado largo", domain.ErrInvalidInput)
	}
	opts = opts.WithDefaults()
	opts.Format = strings.ToUpper(opts.Format)
	if !entity.IsValidBarcodeFormat(opts.Format) {
		return "", opts, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, opts.Format)
	}
	if err := opts.Validate(); err != nil {
		return "", opts, err
	}
	return value, opts, nil
}

// GenerateBarcode renderiza el PNG y lo devuelve como data URL base64.
func (uc *PrintUseCase) GenerateBarcode(_ context.Context, in dto.GenerateBarcodeRequest) (*dto.GenerateBarcodeResponse, error) {
	value, opts, err := validateBarcodeInput(in.Value, in.Options)
	if err != nil {
		return nil, err
	}
	png, w, h, err := uc.barcodes.RenderPNG(value, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &dto.GenerateBarcodeResponse{
		ResultResponse: dto.ResultResponse{Success: true},
		DataURL:        "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		Width:          w,
		Height:         h,
	}, nil
}

// Enqueue valida y persiste un trabajo de código de barras. Con idempotency_key repetida
// devuelve el trabajo existente y created=false.
func (uc *PrintUseCase) Enqueue(ctx context.Context, userID string, in dto.PrintBarcodeRequest) (*dto.PrintJobResponse, bool, error) {
	value, opts, err := validateBarcodeInput(in.Value, in.Options)
	if err != nil {
		return nil, false, err
	}
	// El contenido se valida ahora (dígitos EAN, alfabeto CODE39) y no al imprimir.
	if _, _, _, err := uc.barcodes.RenderPNG(value, opts); err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	job := &entity.PrintJob{
		Kind:           entity.PrintKindBarcode,
		Value:          value,
		Caption:        strings.TrimSpace(in.Caption),
		Options:        opts,
		Printer:        strings.TrimSpace(in.Printer),
		Copies:         in.Copies,
		Priority:       in.Priority,
		IdempotencyKey: strings.TrimSpace(in.IdempotencyKey),
		CreatedBy:      userID,
	}
	return uc.persist(ctx, job)
}

// EnqueueMaterialLabel encola la etiqueta de un material (código = codigo_barras, texto = nombre).
func (uc *PrintUseCase) EnqueueMaterialLabel(ctx context.Context, userID, materiaPrimaID string, in dto.PrintLabelRequest) (*dto.PrintJobResponse, bool, error) {
	mp, err := uc.mpRepo.GetByID(ctx, materiaPrimaID)
	if err != nil {
		return nil, false, err
	}
	if mp == nil {
		return nil, false, domain.ErrNotFound
	}
	if !mp.Activo {
		return nil, false, domain.ErrConflict
	}
	job := &entity.PrintJob{
		Kind:           entity.PrintKindLabel,
		Value:          mp.CodigoBarras,
		Caption:        mp.Nombre,
		MateriaPrimaID: mp.ID,
		Options:        entity.DefaultBarcodeOptions(),
		Printer:        strings.TrimSpace(in.Printer),
		Copies:         in.Copies,
		IdempotencyKey: strings.TrimSpace(in.IdempotencyKey),
		CreatedBy:      userID,
	}
	return uc.persist(ctx, job)
}

func (uc *PrintUseCase) persist(ctx context.Context, job *entity.PrintJob) (*dto.PrintJobResponse, bool, error) {
	if job.Copies == 0 {
		job.Copies = 1
	}
	if job.Copies < 1 || job.Copies > maxCopies || job.Priority < 0 || job.Priority > maxPriority {
		return nil, false, fmt.Errorf("%w: copias 1..%d, prioridad 0..%d", domain.ErrInvalidInput, maxCopies, maxPriority)
	}
	if job.IdempotencyKey != "" {
		existing, err := uc.jobs.GetByIdempotencyKey(ctx, job.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return ToPrintJobResponse(existing), false, nil
		}
	}
	now := uc.now()
	job.ID = uuid.New().String()
	job.Status = entity.PrintJobPending
	job.MaxAttempts = uc.cfg.MaxAttempts
	job.NextAttemptAt = now
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := uc.jobs.Create(ctx, job); err != nil {
		// Carrera entre dos altas con la misma clave: gana la que llegó primero.
		if errors.Is(err, domain.ErrDuplicate) && job.IdempotencyKey != "" {
			existing, gerr := uc.jobs.GetByIdempotencyKey(ctx, job.IdempotencyKey)
			if gerr == nil && existing != nil {
				return ToPrintJobResponse(existing), false, nil
			}
		}
		return nil, false, err
	}
	if uc.notifier != nil {
		uc.notifier.Notify()
	}
	return ToPrintJobResponse(job), true, nil
}

// ListJobs lista trabajos, opcionalmente filtrados por estado.
func (uc *PrintUseCase) ListJobs(ctx context.Context, status string, page dto.PageRequest) (*dto.PrintJobListResponse, error) {
	if status != "" && !domainprinting.IsValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.jobs.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PrintJobResponse, 0, len(list))
	for _, j := range list {
		items = append(items, *ToPrintJobResponse(j))
	}
	return &dto.PrintJobListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// GetJob obtiene un trabajo. (nil, nil) si no existe.
func (uc *PrintUseCase) GetJob(ctx context.Context, id string) (*dto.PrintJobResponse, error) {
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil || job == nil {
		return nil, err
	}
	return ToPrintJobResponse(job), nil
}

// CancelJob cancela un trabajo pending. Si un worker ya lo tomó devuelve ErrConflict.
func (uc *PrintUseCase) CancelJob(ctx context.Context, id string) (*dto.PrintJobResponse, error) {
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if err := domainprinting.ValidateStatusChange(job.Status, entity.PrintJobCancelled); err != nil {
		return nil, err
	}
	now := uc.now()
	job.Status = entity.PrintJobCancelled
	job.CompletedAt = &now
	job.UpdatedAt = now
	if err := uc.jobs.UpdateStatus(ctx, job, entity.PrintJobPending); err != nil {
		return nil, err
	}
	return ToPrintJobResponse(job), nil
}

// RetryJob vuelve a encolar un trabajo en error con el contador de intentos en cero.
func (uc *PrintUseCase) RetryJob(ctx context.Context, id string) (*dto.PrintJobResponse, error) {
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if err := domainprinting.ValidateStatusChange(job.Status, entity.PrintJobPending); err != nil {
		return nil, err
	}
	if job.Status != entity.PrintJobError {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, job.Status, entity.PrintJobPending)
	}
	now := uc.now()
	job.Status = entity.PrintJobPending
	job.Attempts = 0
	job.LastError = ""
	job.NextAttemptAt = now
	job.StartedAt = nil
	job.CompletedAt = nil
	job.UpdatedAt = now
	if err := uc.jobs.UpdateStatus(ctx, job, entity.PrintJobError); err != nil {
		return nil, err
	}
	if uc.notifier != nil {
		uc.notifier.Notify()
	}
	return ToPrintJobResponse(job), nil
}

// Printers descubre las impresoras instaladas.
func (uc *PrintUseCase) Printers(ctx context.Context) ([]entity.Printer, error) {
	list, err := uc.driver.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if uc.cfg.DefaultPrinter == "" {
		return list, nil
	}
	for i := range list {
		list[i].IsDefault = list[i].Name == uc.cfg.DefaultPrinter
	}
	return list, nil
}

// DefaultPrinter devuelve la impresora configurada o, si no hay, la predeterminada del sistema.
func (uc *PrintUseCase) DefaultPrinter(ctx context.Context) (*entity.Printer, error) {
	if uc.cfg.DefaultPrinter != "" {
		return &entity.Printer{Name: uc.cfg.DefaultPrinter, IsDefault: true, Source: "config"}, nil
	}
	p, err := uc.driver.Default(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNoPrinter
	}
	return p, nil
}

// ToPrintJobResponse mapea la entidad a la salida HTTP.
func ToPrintJobResponse(j *entity.PrintJob) *dto.PrintJobResponse {
	if j == nil {
		return nil
	}
	return &dto.PrintJobResponse{
		ID:             j.ID,
		Kind:           j.Kind,
		Status:         j.Status,
		Priority:       j.Priority,
		Value:          j.Value,
		Caption:        j.Caption,
		MateriaPrimaID: j.MateriaPrimaID,
		Options:        j.Options,
		Printer:        j.Printer,
		Copies:         j.Copies,
		CopiesPrinted:  j.CopiesPrinted,
		Attempts:       j.Attempts,
		MaxAttempts:    j.MaxAttempts,
		LastError:      j.LastError,
		NextAttemptAt:  j.NextAttemptAt,
		CreatedAt:      j.CreatedAt,
		StartedAt:      j.StartedAt,
		CompletedAt:    j.CompletedAt,
	}
}
