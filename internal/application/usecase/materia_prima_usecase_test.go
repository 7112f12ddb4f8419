package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

func TestMateriaPrima_CreateConStockInicial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cat, err := f.catUC.Create(ctx, dto.CategoriaRequest{Nombre: "Químicos"})
	require.NoError(t, err)

	out, err := f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{
		CodigoBarras:  " MP-0001 ",
		Nombre:        "Ácido cítrico",
		CategoriaID:   cat.ID,
		StockInicial:  decimal.NewFromInt(10),
		StockMinimo:   decimal.NewFromInt(5),
		CostoUnitario: decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "MP-0001", out.CodigoBarras)
	assert.Equal(t, "pza", out.UnidadMedida)
	assert.True(t, out.StockActual.Equal(decimal.NewFromInt(10)))
	assert.True(t, out.Activo)
	assert.False(t, out.BajoStock)
	assert.Equal(t, 1, f.init.calls)
}

func TestMateriaPrima_CreateValidaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "", Nombre: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "A1", Nombre: "X", StockMinimo: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "A1", Nombre: "X", CategoriaID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "A1", Nombre: "X"})
	require.NoError(t, err)
	_, err = f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "A1", Nombre: "Y"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestMateriaPrima_UpdateNoTocaStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, err := f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "A1", Nombre: "Azúcar", StockInicial: decimal.NewFromInt(3)})
	require.NoError(t, err)
	_, err = f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "B1", Nombre: "Sal"})
	require.NoError(t, err)

	nombre := "Azúcar refinada"
	minimo := decimal.NewFromInt(4)
	out, err := f.mpUC.Update(ctx, a.ID, dto.UpdateMateriaPrimaRequest{Nombre: &nombre, StockMinimo: &minimo})
	require.NoError(t, err)
	assert.Equal(t, nombre, out.Nombre)
	assert.True(t, out.StockActual.Equal(decimal.NewFromInt(3)))
	assert.True(t, out.BajoStock)

	dup := "B1"
	_, err = f.mpUC.Update(ctx, a.ID, dto.UpdateMateriaPrimaRequest{CodigoBarras: &dup})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	missing, err := f.mpUC.Update(ctx, "nope", dto.UpdateMateriaPrimaRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMateriaPrima_DeleteEsBajaLogica(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, err := f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "A1", Nombre: "Azúcar"})
	require.NoError(t, err)

	require.NoError(t, f.mpUC.Delete(ctx, a.ID))
	got, err := f.mpUC.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Activo)

	list, err := f.mpUC.List(ctx, dto.MateriaPrimaFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 20, list.Page.Limit)

	list, err = f.mpUC.List(ctx, dto.MateriaPrimaFilterRequest{IncluirInactivos: true})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	assert.ErrorIs(t, f.mpUC.Delete(ctx, "nope"), domain.ErrNotFound)
}

func TestMateriaPrima_GetByCodigoBarras(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.mpUC.Create(ctx, "u1", dto.CreateMateriaPrimaRequest{CodigoBarras: "7501234567890", Nombre: "Envase"})
	require.NoError(t, err)

	got, err := f.mpUC.GetByCodigoBarras(ctx, "7501234567890\n")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Envase", got.Nombre)
}
