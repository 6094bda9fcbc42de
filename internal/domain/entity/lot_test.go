package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

func TestLotKey_Equal(t *testing.T) {
	base := LotKey{ProductID: "P1", ContainerID: "C1", ExpiryDate: datePtr(2025, 3, 1), StateID: strPtr("bueno")}
	late := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		other LotKey
		want  bool
	}{
		{"idéntica", base, true},
		{"misma fecha con hora", LotKey{ProductID: "P1", ContainerID: "C1", ExpiryDate: &late, StateID: strPtr("bueno")}, true},
		{"otra fecha", LotKey{ProductID: "P1", ContainerID: "C1", ExpiryDate: datePtr(2025, 3, 2), StateID: strPtr("bueno")}, false},
		{"sin fecha", LotKey{ProductID: "P1", ContainerID: "C1", StateID: strPtr("bueno")}, false},
		{"sin estado", LotKey{ProductID: "P1", ContainerID: "C1", ExpiryDate: datePtr(2025, 3, 1)}, false},
		{"otro estado", LotKey{ProductID: "P1", ContainerID: "C1", ExpiryDate: datePtr(2025, 3, 1), StateID: strPtr("averiado")}, false},
		{"otro contenedor", LotKey{ProductID: "P1", ContainerID: "C2", ExpiryDate: datePtr(2025, 3, 1), StateID: strPtr("bueno")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Equal(tt.other))
			assert.Equal(t, tt.want, tt.other.Equal(base))
		})
	}

	assert.True(t, LotKey{ProductID: "P1", ContainerID: "C1"}.Equal(LotKey{ProductID: "P1", ContainerID: "C1"}))
}

func TestLot_Packages(t *testing.T) {
	lot := &Lot{Quantity: decimal.NewFromInt(50), PackagingUnitSize: decimal.NewFromInt(12)}
	assert.Equal(t, int64(4), lot.Packages())

	lot.PackagingUnitSize = decimal.Zero
	assert.Equal(t, int64(0), lot.Packages())
}

func TestDateOnly(t *testing.T) {
	assert.Nil(t, DateOnly(nil))
	in := time.Date(2025, 5, 4, 23, 10, 0, 0, time.UTC)
	assert.Equal(t, *datePtr(2025, 5, 4), *DateOnly(&in))
}
