package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestTransfer_MovesLotAttributes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	state := "bueno"
	price := dec(2500)
	in, err := f.movements.CreateMovement(ctx, inventory.CreateMovementInput{
		ProductID: "P1", ContainerID: "C1", Direction: entity.DirectionEntry, Reason: entity.ReasonPurchase,
		Quantity: dec(50), Packages: 5, UnitPrice: &price, ExpiryDate: day(2025, 8, 1), StateID: &state,
	})
	require.NoError(t, err)
	f.events.reset()

	res, err := f.transfers.Transfer(ctx, inventory.TransferInput{
		UserID: "u1", ProductID: "P1", FromContainerID: "C1", ToContainerID: "C2", Quantity: dec(20),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ReasonTransferOut, res.Exit.ReasonName)
	assert.Equal(t, entity.ReasonTransferIn, res.Entry.ReasonName)
	assert.Equal(t, "50", res.Exit.StockBefore.String())
	assert.Equal(t, "30", res.Exit.StockAfter.String())
	assert.Equal(t, "0", res.Entry.StockBefore.String())
	assert.Equal(t, "20", res.Entry.StockAfter.String())
	assert.Equal(t, *in.LotID, *res.Exit.LotID)

	lots, err := f.lots.ListLots(ctx, "P1", "C2")
	require.NoError(t, err)
	require.Len(t, lots, 1)
	dst := lots[0]
	assert.Equal(t, "10", dst.PackagingUnitSize.String())
	assert.Equal(t, "2500", dst.UnitPrice.String())
	assert.True(t, entity.SameDate(dst.ExpiryDate, day(2025, 8, 1)))
	require.NotNil(t, dst.StateID)
	assert.Equal(t, "bueno", *dst.StateID)

	assert.Equal(t, 2, f.events.count(inventory.EntityMovement))
	assert.Equal(t, 2, f.events.count(inventory.EntityLot))
}

func TestTransfer_MergesIntoMatchingLot(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.entry(t, "P1", "C1", 10, day(2025, 8, 1))
	f.entry(t, "P1", "C2", 5, day(2025, 8, 1))

	_, err := f.transfers.Transfer(ctx, inventory.TransferInput{ProductID: "P1", FromContainerID: "C1", ToContainerID: "C2", Quantity: dec(10)})
	require.NoError(t, err)

	lots, err := f.lots.ListLots(ctx, "P1", "C2")
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "15", lots[0].Quantity.String())
	assert.Equal(t, "0", f.stock(t, "P1", "C1"))
}

func TestTransfer_Rejects(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.entry(t, "P1", "C1", 10, day(2025, 3, 1))
	f.entry(t, "P1", "C1", 10, day(2025, 4, 1))

	_, err := f.transfers.Transfer(ctx, inventory.TransferInput{ProductID: "P1", FromContainerID: "C1", ToContainerID: "C1", Quantity: dec(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.transfers.Transfer(ctx, inventory.TransferInput{ProductID: "P1", FromContainerID: "C1", ToContainerID: "C2", Quantity: dec(1)})
	assert.ErrorIs(t, err, domain.ErrNoLotSelected)

	_, err = f.transfers.Transfer(ctx, inventory.TransferInput{ProductID: "P1", FromContainerID: "C1", ToContainerID: "C9", Quantity: dec(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, "20", f.stock(t, "P1", "C1"))
	assert.Equal(t, "0", f.stock(t, "P1", "C2"))
}
