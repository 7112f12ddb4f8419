package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.PrintJobRepository = (*PrintJobRepo)(nil)

const printJobColumns = `id::text, kind, status, priority, value, caption, materia_prima_id::text, options, printer, copies,
	copies_printed, idempotency_key, attempts, max_attempts, last_error, next_attempt_at, created_by::text,
	created_at, started_at, completed_at, updated_at`

// PrintJobRepo cola de impresión sobre PostgreSQL. Varios workers (o procesos) pueden
// reclamar trabajos a la vez: ClaimNext usa FOR UPDATE SKIP LOCKED.
type PrintJobRepo struct {
	q Querier
}

// NewPrintJobRepository construye el adaptador.
func NewPrintJobRepository(q Querier) *PrintJobRepo {
	return &PrintJobRepo{q: q}
}

func scanPrintJob(row pgx.Row) (*entity.PrintJob, error) {
	var j entity.PrintJob
	var mpID, idemKey, createdBy *string
	err := row.Scan(&j.ID, &j.Kind, &j.Status, &j.Priority, &j.Value, &j.Caption, &mpID, &j.Options, &j.Printer, &j.Copies,
		&j.CopiesPrinted, &idemKey, &j.Attempts, &j.MaxAttempts, &j.LastError, &j.NextAttemptAt, &createdBy,
		&j.CreatedAt, &j.StartedAt, &j.CompletedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.MateriaPrimaID, j.IdempotencyKey, j.CreatedBy = deref(mpID), deref(idemKey), deref(createdBy)
	return &j, nil
}

// Create encola un trabajo. Una idempotency_key repetida devuelve ErrDuplicate.
func (r *PrintJobRepo) Create(ctx context.Context, j *entity.PrintJob) error {
	query := `
		INSERT INTO print_jobs (id, kind, status, priority, value, caption, materia_prima_id, options, printer, copies,
			idempotency_key, attempts, max_attempts, last_error, next_attempt_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		j.ID, j.Kind, j.Status, j.Priority, j.Value, j.Caption, nullIfEmpty(j.MateriaPrimaID), j.Options, j.Printer, j.Copies,
		nullIfEmpty(j.IdempotencyKey), j.Attempts, j.MaxAttempts, j.LastError, j.NextAttemptAt, nullIfEmpty(j.CreatedBy),
		j.CreatedAt, j.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert print job: %w", err)
	}
	return nil
}

func (r *PrintJobRepo) getOne(ctx context.Context, what, query string, arg any) (*entity.PrintJob, error) {
	j, err := scanPrintJob(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return j, nil
}

func (r *PrintJobRepo) GetByID(ctx context.Context, id string) (*entity.PrintJob, error) {
	return r.getOne(ctx, "get print job", `SELECT `+printJobColumns+` FROM print_jobs WHERE id = $1`, id)
}

func (r *PrintJobRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.PrintJob, error) {
	return r.getOne(ctx, "get print job by key", `SELECT `+printJobColumns+` FROM print_jobs WHERE idempotency_key = $1`, key)
}

// List devuelve los trabajos más recientes primero; status vacío no filtra.
func (r *PrintJobRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PrintJob, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+printJobColumns+` FROM print_jobs
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list print jobs: %w", err)
	}
	defer rows.Close()
	var list []*entity.PrintJob
	for rows.Next() {
		j, err := scanPrintJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan print job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// ClaimNext toma el siguiente trabajo listo: mayor prioridad primero, FIFO dentro de la prioridad.
func (r *PrintJobRepo) ClaimNext(ctx context.Context, now time.Time) (*entity.PrintJob, error) {
	query := `
		UPDATE print_jobs SET status = 'printing', attempts = attempts + 1, started_at = $1, updated_at = $1
		WHERE id = (
			SELECT id FROM print_jobs
			WHERE status = 'pending' AND next_attempt_at <= $1
			ORDER BY priority DESC, created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + printJobColumns
	return r.getOne(ctx, "claim print job", query, now)
}

// UpdateStatus aplica la transición solo si nadie cambió el estado desde que se leyó.
func (r *PrintJobRepo) UpdateStatus(ctx context.Context, j *entity.PrintJob, expectedStatus string) error {
	query := `
		UPDATE print_jobs SET status = $2, attempts = $3, last_error = $4, next_attempt_at = $5,
			started_at = $6, completed_at = $7, updated_at = $8, copies_printed = $10
		WHERE id = $1 AND status = $9`
	tag, err := r.q.Exec(ctx, query,
		j.ID, j.Status, j.Attempts, j.LastError, j.NextAttemptAt, j.StartedAt, j.CompletedAt, j.UpdatedAt, expectedStatus,
		j.CopiesPrinted)
	if err != nil {
		return fmt.Errorf("update print job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ResetStale recupera los trabajos que quedaron en printing tras una caída.
// El intento interrumpido cuenta: con attempts >= max_attempts el trabajo pasa a error.
func (r *PrintJobRepo) ResetStale(ctx context.Context, olderThan, now time.Time) (int, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE print_jobs SET
			status = CASE WHEN attempts >= max_attempts THEN 'error' ELSE 'pending' END,
			last_error = CASE WHEN attempts >= max_attempts THEN $3 ELSE last_error END,
			completed_at = CASE WHEN attempts >= max_attempts THEN $2 ELSE completed_at END,
			next_attempt_at = $1, updated_at = $2
		WHERE status = 'printing' AND started_at < $1`, olderThan, now, entity.StaleJobError)
	if err != nil {
		return 0, fmt.Errorf("reset stale print jobs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
