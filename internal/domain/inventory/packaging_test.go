package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func caseProduct(units int) *entity.Product {
	return &entity.Product{ID: "BEB", UnitsPerCase: &units}
}

func TestMovementQuantity_CasesToUnits(t *testing.T) {
	qty, err := MovementQuantity(caseProduct(24), decimal.Zero, 10)
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(240)))

	qty, err = MovementQuantity(caseProduct(24), decimal.NewFromInt(240), 10)
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(240)))

	_, err = MovementQuantity(caseProduct(24), decimal.NewFromInt(100), 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMovementQuantity_Rejects(t *testing.T) {
	plain := &entity.Product{ID: "P1"}
	_, err := MovementQuantity(plain, decimal.Zero, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = MovementQuantity(plain, decimal.NewFromInt(-3), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = MovementQuantity(plain, decimal.NewFromInt(3), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	qty, err := MovementQuantity(plain, decimal.RequireFromString("2.5"), 4)
	require.NoError(t, err)
	assert.Equal(t, "2.5", qty.String())
}

func TestPackagingUnitSize(t *testing.T) {
	size, err := PackagingUnitSize(&entity.Product{ID: "P1"}, decimal.NewFromInt(50), 5)
	require.NoError(t, err)
	assert.Equal(t, "10", size.String())

	size, err = PackagingUnitSize(caseProduct(24), decimal.NewFromInt(48), 7)
	require.NoError(t, err)
	assert.Equal(t, "24", size.String(), "productos por caja ignoran el número informado")

	_, err = PackagingUnitSize(&entity.Product{ID: "P1"}, decimal.NewFromInt(50), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
