//go:build integration

package postgres

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/config"
)

// go test -tags integration ./internal/infrastructure/postgres/ con
// ALMACEN_TEST_DATABASE_URL apuntando a una base desechable.

// testPool abre un pool contra un schema propio del test, con las migraciones aplicadas.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("ALMACEN_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ALMACEN_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	schema := "it_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, `CREATE SCHEMA `+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), `DROP SCHEMA `+schema+` CASCADE`)
		admin.Close()
	})

	pc, err := buildPoolConfig(config.DBConfig{DatabaseURL: url, MaxConns: 8, MinConns: 0})
	require.NoError(t, err)
	pc.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

func newJob(value string, priority int, created time.Time) *entity.PrintJob {
	return &entity.PrintJob{
		ID:            uuid.NewString(),
		Kind:          entity.PrintKindBarcode,
		Status:        entity.PrintJobPending,
		Priority:      priority,
		Value:         value,
		Options:       entity.DefaultBarcodeOptions(),
		Copies:        1,
		MaxAttempts:   2,
		NextAttemptAt: created,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestPrintJobRepo_ClaimNextPrioridadYFIFO(t *testing.T) {
	repo := NewPrintJobRepository(testPool(t))
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newJob("viejo-normal", 0, t0)))
	require.NoError(t, repo.Create(ctx, newJob("nuevo-urgente", 5, t0.Add(2*time.Second))))
	require.NoError(t, repo.Create(ctx, newJob("viejo-urgente", 5, t0.Add(time.Second))))
	futuro := newJob("programado", 9, t0)
	futuro.NextAttemptAt = t0.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, futuro))

	now := t0.Add(time.Minute)
	var order []string
	for {
		j, err := repo.ClaimNext(ctx, now)
		require.NoError(t, err)
		if j == nil {
			break
		}
		assert.Equal(t, entity.PrintJobPrinting, j.Status)
		assert.Equal(t, 1, j.Attempts)
		require.NotNil(t, j.StartedAt)
		order = append(order, j.Value)
	}
	assert.Equal(t, []string{"viejo-urgente", "nuevo-urgente", "viejo-normal"}, order)
}

func TestPrintJobRepo_ClaimNextConcurrenteNoDuplica(t *testing.T) {
	repo := NewPrintJobRepository(testPool(t))
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	const total = 20
	for i := 0; i < total; i++ {
		require.NoError(t, repo.Create(ctx, newJob("MP", 0, t0.Add(time.Duration(i)*time.Millisecond))))
	}

	var (
		mu   sync.Mutex
		seen = map[string]int{}
	)
	var g errgroup.Group
	for w := 0; w < 4; w++ {
		g.Go(func() error {
			for {
				j, err := repo.ClaimNext(ctx, t0.Add(time.Minute))
				if err != nil || j == nil {
					return err
				}
				mu.Lock()
				seen[j.ID]++
				mu.Unlock()
			}
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, seen, total)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestPrintJobRepo_UpdateStatusOptimista(t *testing.T) {
	repo := NewPrintJobRepository(testPool(t))
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newJob("MP", 0, t0)))

	j, err := repo.ClaimNext(ctx, t0)
	require.NoError(t, err)
	require.NotNil(t, j)

	done := t0.Add(time.Second)
	j.Status = entity.PrintJobCompleted
	j.CompletedAt = &done
	j.CopiesPrinted = 1
	require.NoError(t, repo.UpdateStatus(ctx, j, entity.PrintJobPrinting))

	// Un segundo worker con la vista vieja ya no puede pisar el estado.
	j.Status = entity.PrintJobError
	assert.ErrorIs(t, repo.UpdateStatus(ctx, j, entity.PrintJobPrinting), domain.ErrConflict)

	got, err := repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PrintJobCompleted, got.Status)
	assert.Equal(t, 1, got.CopiesPrinted)
}

func TestPrintJobRepo_ResetStale(t *testing.T) {
	repo := NewPrintJobRepository(testPool(t))
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	conIntentos := newJob("con-intentos", 1, t0)
	agotado := newJob("agotado", 0, t0)
	agotado.Attempts = 1 // el claim lo deja en 2 = max_attempts
	require.NoError(t, repo.Create(ctx, conIntentos))
	require.NoError(t, repo.Create(ctx, agotado))
	for i := 0; i < 2; i++ {
		j, err := repo.ClaimNext(ctx, t0)
		require.NoError(t, err)
		require.NotNil(t, j)
	}

	recent := newJob("reciente", 0, t0)
	require.NoError(t, repo.Create(ctx, recent))
	_, err := repo.ClaimNext(ctx, t0.Add(time.Hour))
	require.NoError(t, err)

	now := t0.Add(time.Hour)
	n, err := repo.ResetStale(ctx, now.Add(-5*time.Minute), now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := repo.GetByID(ctx, conIntentos.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PrintJobPending, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Nil(t, got.CompletedAt)

	got, err = repo.GetByID(ctx, agotado.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PrintJobError, got.Status)
	assert.Equal(t, entity.StaleJobError, got.LastError)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(now))

	got, err = repo.GetByID(ctx, recent.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PrintJobPrinting, got.Status)
}
