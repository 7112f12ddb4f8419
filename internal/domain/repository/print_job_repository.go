package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PrintJobRepository es la cola persistente de impresión.
type PrintJobRepository interface {
	Create(ctx context.Context, job *entity.PrintJob) error
	GetByID(ctx context.Context, id string) (*entity.PrintJob, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.PrintJob, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PrintJob, error)
	// ClaimNext toma atómicamente el siguiente trabajo pending con next_attempt_at <= now,
	// lo pasa a printing e incrementa attempts. Devuelve (nil, nil) si no hay trabajo.
	ClaimNext(ctx context.Context, now time.Time) (*entity.PrintJob, error)
	// UpdateStatus persiste status, attempts, last_error, next_attempt_at y marcas de tiempo,
	// solo si el estado almacenado sigue siendo expectedStatus. Devuelve ErrConflict si no.
	UpdateStatus(ctx context.Context, job *entity.PrintJob, expectedStatus string) error
	// ResetStale recupera trabajos en printing iniciados antes de olderThan (caída del proceso):
	// vuelven a pending si les quedan intentos y pasan a error si ya los agotaron.
	ResetStale(ctx context.Context, olderThan, now time.Time) (int, error)
}
