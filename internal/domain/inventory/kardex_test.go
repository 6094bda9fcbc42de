package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestBuildKardex_RunningBalance(t *testing.T) {
	t0 := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	cancelled := t0.Add(3 * time.Hour)
	movements := []*entity.Movement{
		{ID: "m3", Direction: entity.DirectionExit, Quantity: decimal.NewFromInt(30), Date: t0.Add(2 * time.Hour), Visible: true},
		{ID: "m1", Direction: entity.DirectionEntry, Quantity: decimal.NewFromInt(100), Date: t0, Visible: true},
		{ID: "m2", Direction: entity.DirectionEntry, Quantity: decimal.NewFromInt(15), Date: t0.Add(time.Hour), Visible: false, CancelledAt: &cancelled},
		{ID: "m4", Direction: entity.DirectionEntry, Quantity: decimal.RequireFromString("2.5"), Date: t0.Add(4 * time.Hour), Visible: true},
	}

	entries := BuildKardex(movements)
	require.Len(t, entries, 3)

	assert.Equal(t, "m1", entries[0].MovementID)
	assert.Equal(t, "100", entries[0].Balance.String())
	assert.True(t, entries[0].Exit.IsZero())

	assert.Equal(t, "m3", entries[1].MovementID)
	assert.Equal(t, "30", entries[1].Exit.String())
	assert.Equal(t, "70", entries[1].Balance.String())

	assert.Equal(t, "72.5", entries[2].Balance.String())
}

func TestBuildKardex_Empty(t *testing.T) {
	assert.Empty(t, BuildKardex(nil))
}
