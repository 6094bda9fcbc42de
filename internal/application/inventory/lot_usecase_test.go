package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestListLots_FEFOOrder(t *testing.T) {
	f := newFixture(t, true)
	f.entry(t, "P1", "C1", 1, day(2025, 6, 1))
	f.entry(t, "P1", "C1", 2, nil)
	f.entry(t, "P1", "C1", 3, day(2025, 3, 1))

	lots, err := f.lots.ListLots(context.Background(), "P1", "C1")
	require.NoError(t, err)
	require.Len(t, lots, 3)
	assert.Equal(t, "3", lots[0].Quantity.String())
	assert.Equal(t, "1", lots[1].Quantity.String())
	assert.Nil(t, lots[2].ExpiryDate)

	_, err = f.lots.ListLots(context.Background(), "P1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListExpiringLots(t *testing.T) {
	f := newFixture(t, true)
	f.entry(t, "P1", "C1", 1, day(2025, 1, 5))
	f.entry(t, "P1", "C2", 1, day(2025, 2, 1))
	f.entry(t, "P1", "C1", 1, day(2025, 4, 1))
	f.entry(t, "P1", "C2", 1, nil)

	lots, err := f.lots.ListExpiringLots(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, lots, 2, "incluye lotes ya vencidos y los de los próximos 30 días")
	assert.True(t, entity.SameDate(lots[0].ExpiryDate, day(2025, 1, 5)))

	_, err = f.lots.ListExpiringLots(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveLot(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	in := f.entry(t, "P1", "C1", 7, nil)
	f.entry(t, "P1", "C1", 3, day(2025, 2, 1))
	f.now = f.now.Add(time.Hour)

	m, err := f.lots.RemoveLot(ctx, *in.LotID, "u1", " vencido ")
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionExit, m.Direction)
	assert.Equal(t, entity.ReasonAdjustment, m.ReasonName)
	assert.Equal(t, "7", m.Quantity.String())
	assert.Equal(t, "10", m.StockBefore.String())
	assert.Equal(t, "3", m.StockAfter.String())
	assert.Equal(t, "vencido", m.Observation)
	assert.Equal(t, "3", f.stock(t, "P1", "C1"))

	_, err = f.lots.RemoveLot(ctx, *in.LotID, "u1", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.movements.CancelMovement(ctx, m.ID, "retiro por error", "u1")
	require.NoError(t, err)
	assert.Equal(t, "10", f.stock(t, "P1", "C1"))
}
