package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

type fakePDF struct {
	container *entity.Container
	entries   []entity.KardexEntry
}

func (p *fakePDF) GenerateKardexPDF(_ context.Context, _ *entity.Product, c *entity.Container, entries []entity.KardexEntry) ([]byte, error) {
	p.container = c
	p.entries = entries
	return []byte("%PDF-1.4"), nil
}

func TestGetKardex_SkipsCancelledAndAccumulates(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	in := f.entry(t, "P1", "C1", 100, nil)
	f.now = f.now.Add(time.Hour)
	_, err := f.exit(t, "P1", "C1", 30, in.LotID)
	require.NoError(t, err)
	f.now = f.now.Add(time.Hour)
	wrong := f.entry(t, "P1", "C1", 5, nil)
	_, err = f.movements.CancelMovement(ctx, wrong.ID, "duplicado", "u1")
	require.NoError(t, err)
	f.now = f.now.Add(time.Hour)
	f.entry(t, "P1", "C2", 8, nil)

	uc := inventory.NewKardexUseCase(f.store.Repos(), nil)

	all, err := uc.GetKardex(ctx, inventory.KardexQuery{ProductID: "P1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "100", all[0].Balance.String())
	assert.Equal(t, "70", all[1].Balance.String())
	assert.Equal(t, "78", all[2].Balance.String())

	c1 := "C1"
	byContainer, err := uc.GetKardex(ctx, inventory.KardexQuery{ProductID: "P1", ContainerID: &c1})
	require.NoError(t, err)
	require.Len(t, byContainer, 2)
	assert.Equal(t, "70", byContainer[1].Balance.String())

	from := f.now.Add(-90 * time.Minute)
	window, err := uc.GetKardex(ctx, inventory.KardexQuery{ProductID: "P1", From: &from})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "8", window[0].Balance.String(), "el saldo inicia en cero dentro del rango")
}

func TestGetKardex_Validation(t *testing.T) {
	f := newFixture(t, true)
	uc := inventory.NewKardexUseCase(f.store.Repos(), nil)
	ctx := context.Background()

	_, err := uc.GetKardex(ctx, inventory.KardexQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetKardex(ctx, inventory.KardexQuery{ProductID: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c9 := "C9"
	_, err = uc.GetKardex(ctx, inventory.KardexQuery{ProductID: "P1", ContainerID: &c9})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	from, to := f.now, f.now.Add(-time.Hour)
	_, err = uc.GetKardex(ctx, inventory.KardexQuery{ProductID: "P1", From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.KardexPDF(ctx, inventory.KardexQuery{ProductID: "P1"})
	assert.Error(t, err)
}

func TestKardexPDF_PassesContainerAndEntries(t *testing.T) {
	f := newFixture(t, true)
	f.entry(t, "P1", "C1", 12, nil)
	pdf := &fakePDF{}
	uc := inventory.NewKardexUseCase(f.store.Repos(), pdf)

	c1 := "C1"
	out, err := uc.KardexPDF(context.Background(), inventory.KardexQuery{ProductID: "P1", ContainerID: &c1})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), out)
	require.NotNil(t, pdf.container)
	assert.Equal(t, "Bodega", pdf.container.Name)
	require.Len(t, pdf.entries, 1)
	assert.Equal(t, "12", pdf.entries[0].Balance.String())
}
