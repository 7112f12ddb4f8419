package printing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/printing"
)

func TestValidateStatusChange_Permitidas(t *testing.T) {
	ok := [][2]string{
		{entity.PrintJobPending, entity.PrintJobPrinting},
		{entity.PrintJobPending, entity.PrintJobCancelled},
		{entity.PrintJobPrinting, entity.PrintJobCompleted},
		{entity.PrintJobPrinting, entity.PrintJobError},
		{entity.PrintJobPrinting, entity.PrintJobPending},
		{entity.PrintJobError, entity.PrintJobPending},
	}
	for _, tr := range ok {
		assert.NoError(t, printing.ValidateStatusChange(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestValidateStatusChange_Rechazadas(t *testing.T) {
	bad := [][2]string{
		{entity.PrintJobCompleted, entity.PrintJobPending},
		{entity.PrintJobCancelled, entity.PrintJobPending},
		{entity.PrintJobPrinting, entity.PrintJobCancelled},
		{entity.PrintJobPending, entity.PrintJobCompleted},
	}
	for _, tr := range bad {
		assert.ErrorIs(t, printing.ValidateStatusChange(tr[0], tr[1]), domain.ErrInvalidTransition)
	}
}

func TestBackoff_Delay(t *testing.T) {
	b := printing.Backoff{Base: time.Second, Max: 5 * time.Second}
	assert.Equal(t, time.Second, b.Delay(1))
	assert.Equal(t, 2*time.Second, b.Delay(2))
	assert.Equal(t, 4*time.Second, b.Delay(3))
	assert.Equal(t, 5*time.Second, b.Delay(4))
	assert.Equal(t, 5*time.Second, b.Delay(10))
	assert.Equal(t, time.Second, b.Delay(0))
}
