package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// GenerateBarcodeRequest body de POST /api/barcode/generate (canal barcode:generate).
type GenerateBarcodeRequest struct {
	Value   string                `json:"value"`
	Options entity.BarcodeOptions `json:"options"`
}

// GenerateBarcodeResponse PNG en base64 (data URL lista para <img src>).
type GenerateBarcodeResponse struct {
	ResultResponse
	DataURL string `json:"data_url,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// PrintBarcodeRequest body de POST /api/barcode/print (canal barcode:print).
type PrintBarcodeRequest struct {
	Value          string                `json:"value"`
	Caption        string                `json:"caption"`
	Options        entity.BarcodeOptions `json:"options"`
	Printer        string                `json:"printer"`
	Copies         int                   `json:"copies"`
	Priority       int                   `json:"priority"`
	IdempotencyKey string                `json:"idempotency_key"`
}

// PrintLabelRequest body de POST /api/materiaPrima/:id/etiqueta.
type PrintLabelRequest struct {
	Printer        string `json:"printer"`
	Copies         int    `json:"copies"`
	IdempotencyKey string `json:"idempotency_key"`
}

// PrintJobResponse salida de un trabajo de impresión.
type PrintJobResponse struct {
	ID             string                `json:"id"`
	Kind           string                `json:"kind"`
	Status         string                `json:"status"`
	Priority       int                   `json:"priority"`
	Value          string                `json:"value"`
	Caption        string                `json:"caption,omitempty"`
	MateriaPrimaID string                `json:"materia_prima_id,omitempty"`
	Options        entity.BarcodeOptions `json:"options"`
	Printer        string                `json:"printer,omitempty"`
	Copies         int                   `json:"copies"`
	CopiesPrinted  int                   `json:"copies_printed"`
	Attempts       int                   `json:"attempts"`
	MaxAttempts    int                   `json:"max_attempts"`
	LastError      string                `json:"last_error,omitempty"`
	NextAttemptAt  time.Time             `json:"next_attempt_at"`
	CreatedAt      time.Time             `json:"created_at"`
	StartedAt      *time.Time            `json:"started_at,omitempty"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
}

// PrintJobEnqueuedResponse respuesta {success, job} del canal barcode:print.
type PrintJobEnqueuedResponse struct {
	ResultResponse
	Job *PrintJobResponse `json:"job,omitempty"`
}

// PrintJobListResponse lista paginada de trabajos.
type PrintJobListResponse struct {
	Items []PrintJobResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// PrinterListResponse respuesta del canal printer:discover.
type PrinterListResponse struct {
	ResultResponse
	Printers []entity.Printer `json:"printers"`
}
