package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un trabajo de impresión.
const (
	PrintJobPending   = "pending"
	PrintJobPrinting  = "printing"
	PrintJobCompleted = "completed"
	PrintJobError     = "error"
	PrintJobCancelled = "cancelled"
)

// StaleJobError queda en last_error cuando un trabajo interrumpido ya agotó sus intentos.
const StaleJobError = "impresión interrumpida: el proceso se detuvo con el trabajo en curso"

// Tipos de trabajo: código de barras suelto o etiqueta completa de material.
const (
	PrintKindBarcode = "barcode"
	PrintKindLabel   = "label"
)

// PrintJob es un trabajo persistido en la cola de impresión.
type PrintJob struct {
	ID             string
	Kind           string
	Status         string
	Priority       int    // mayor primero; FIFO dentro de la misma prioridad
	Value          string // dato codificado en el código de barras
	Caption        string // texto bajo el código (nombre del material)
	MateriaPrimaID string
	Options        BarcodeOptions
	Printer        string // vacío = impresora por defecto
	Copies         int
	CopiesPrinted  int // copias ya entregadas al spooler en intentos anteriores
	IdempotencyKey string
	Attempts       int
	MaxAttempts    int
	LastError      string
	NextAttemptAt  time.Time
	CreatedBy      string
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	UpdatedAt      time.Time
}

// Terminal indica si el trabajo ya no será procesado por los workers sin intervención.
func (j *PrintJob) Terminal() bool {
	switch j.Status {
	case PrintJobCompleted, PrintJobError, PrintJobCancelled:
		return true
	}
	return false
}

// RemainingCopies copias que faltan por imprimir; al menos 1.
func (j *PrintJob) RemainingCopies() int {
	n := j.Copies - j.CopiesPrinted
	if n < 1 {
		return 1
	}
	return n
}

// CopiesError indica que la impresora falló después de recibir Printed copias.
type CopiesError struct {
	Printed int
	Err     error
}

func (e *CopiesError) Error() string {
	return fmt.Sprintf("falló tras %d copias impresas: %v", e.Printed, e.Err)
}

func (e *CopiesError) Unwrap() error { return e.Err }

// LabelData datos de la etiqueta de un material (nombre, código, presentación, stock).
type LabelData struct {
	Title        string
	Code         string
	Subtitle     string
	Lines        []string
	Quantity     decimal.Decimal
	UnidadMedida string
}
