package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

type recordedChange struct {
	entity string
	id     string
}

type recorder struct {
	mu      sync.Mutex
	changes []recordedChange
}

func (r *recorder) EntityChanged(_ context.Context, entityType, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, recordedChange{entity: entityType, id: id})
}

func (r *recorder) count(entityType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.changes {
		if c.entity == entityType {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = nil
}

type fixture struct {
	store     *memory.Store
	now       time.Time
	events    *recorder
	movements *inventory.MovementUseCase
	transfers *inventory.TransferUseCase
	lots      *inventory.LotUseCase
}

func newFixture(t *testing.T, legacyFallback bool) *fixture {
	t.Helper()
	f := &fixture{
		store:  memory.NewStore(),
		now:    time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		events: &recorder{},
	}
	upc := 24
	f.store.PutProduct(&entity.Product{ID: "P1", Name: "Arroz", EstimatedPrice: decimal.NewFromInt(3000)})
	f.store.PutProduct(&entity.Product{ID: "BEB", Name: "Gaseosa", UnitsPerCase: &upc})
	f.store.PutContainer(&entity.Container{ID: "C1", Name: "Bodega"})
	f.store.PutContainer(&entity.Container{ID: "C2", Name: "Cuarto frío"})

	opts := inventory.MovementOptions{
		LegacyLotFallback: legacyFallback,
		Clock:             func() time.Time { return f.now },
		Notifier:          f.events,
		Logger:            zerolog.Nop(),
	}
	repos := f.store.Repos()
	f.movements = inventory.NewMovementUseCase(f.store, repos, opts)
	f.transfers = inventory.NewTransferUseCase(f.store, opts)
	f.lots = inventory.NewLotUseCase(f.store, repos, opts)
	return f
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func (f *fixture) entry(t *testing.T, productID, containerID string, q int64, expiry *time.Time) *entity.Movement {
	t.Helper()
	m, err := f.movements.CreateMovement(context.Background(), inventory.CreateMovementInput{
		UserID: "u1", ProductID: productID, ContainerID: containerID,
		Direction: entity.DirectionEntry, Reason: entity.ReasonPurchase,
		Quantity: dec(q), ExpiryDate: expiry,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) exit(t *testing.T, productID, containerID string, q int64, lotID *string) (*entity.Movement, error) {
	t.Helper()
	return f.movements.CreateMovement(context.Background(), inventory.CreateMovementInput{
		UserID: "u1", ProductID: productID, ContainerID: containerID,
		Direction: entity.DirectionExit, Reason: entity.ReasonWithdrawal,
		Quantity: dec(q), LotID: lotID,
	})
}

func (f *fixture) stock(t *testing.T, productID, containerID string) string {
	t.Helper()
	lots, err := f.lots.ListLots(context.Background(), productID, containerID)
	require.NoError(t, err)
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(l.Quantity)
	}
	return total.String()
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
