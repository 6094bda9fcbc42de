package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	inv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/rs/zerolog"
)

// LotUseCase consultas de lotes y retiro explícito de un lote.
type LotUseCase struct {
	txRunner TxRunner
	repos    Repos
	notifier EntityChangeNotifier
	log      zerolog.Logger
	now      Clock
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(txRunner TxRunner, repos Repos, opts MovementOptions) *LotUseCase {
	uc := &LotUseCase{
		txRunner: txRunner,
		repos:    repos,
		notifier: opts.Notifier,
		log:      opts.Logger,
		now:      opts.Clock,
	}
	if uc.notifier == nil {
		uc.notifier = noopNotifier{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// ListLots devuelve los lotes visibles del par producto+contenedor en orden FEFO,
// para que el usuario elija de cuál sale la mercancía.
func (uc *LotUseCase) ListLots(ctx context.Context, productID, containerID string) ([]*entity.Lot, error) {
	if productID == "" || containerID == "" {
		return nil, fmt.Errorf("%w: producto y contenedor son obligatorios", domain.ErrInvalidInput)
	}
	return inv.NewBatchResolver(uc.repos.Lots).LotsFor(ctx, productID, containerID)
}

// ListExpiringLots devuelve los lotes visibles que vencen dentro de los próximos days días.
func (uc *LotUseCase) ListExpiringLots(ctx context.Context, days int) ([]*entity.Lot, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: días debe ser mayor o igual a cero", domain.ErrInvalidInput)
	}
	lots, err := uc.repos.Lots.ListExpiring(ctx, uc.now().AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	inv.SortFEFO(lots)
	return lots, nil
}

// RemoveLot retira un lote completo: registra una salida por "Ajuste de inventario" con su
// cantidad restante y lo deja inactivo. Devuelve el movimiento generado.
func (uc *LotUseCase) RemoveLot(ctx context.Context, lotID, userID, observation string) (*entity.Movement, error) {
	if lotID == "" {
		return nil, fmt.Errorf("%w: id del lote es obligatorio", domain.ErrInvalidInput)
	}

	var (
		result  *entity.Movement
		changes changeSet
	)
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		current, err := tx.Lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if current == nil || !current.Visible {
			return domain.ErrNotFound
		}
		if err := tx.Lots.LockPair(ctx, current.ProductID, current.ContainerID); err != nil {
			return err
		}
		product, err := loadPair(ctx, tx, current.ProductID, current.ContainerID)
		if err != nil {
			return err
		}
		lot, err := tx.Lots.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil || !lot.Visible {
			return domain.ErrNotFound
		}
		reason, err := tx.Reasons.Upsert(ctx, entity.ReasonAdjustment, entity.DirectionExit)
		if err != nil {
			return err
		}
		changes.add(EntityReason, reason.ID)

		now := uc.now()
		resolver := inv.NewBatchResolver(tx.Lots)
		before, err := resolver.Stock(ctx, lot.ProductID, lot.ContainerID)
		if err != nil {
			return err
		}
		qty := lot.Quantity
		if _, err := resolver.ResolveExit(ctx, inv.ExitRequest{
			Product:     product,
			ContainerID: lot.ContainerID,
			Quantity:    qty,
			LotID:       &lot.ID,
			Now:         now,
		}); err != nil {
			return err
		}
		changes.add(EntityLot, lot.ID)
		after, err := resolver.Stock(ctx, lot.ProductID, lot.ContainerID)
		if err != nil {
			return err
		}
		if err := checkSnapshot(entity.DirectionExit, before, after, qty); err != nil {
			return err
		}

		id := lot.ID
		m := &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   lot.ProductID,
			ContainerID: lot.ContainerID,
			ReasonID:    reason.ID,
			ReasonName:  reason.Name,
			Direction:   entity.DirectionExit,
			Quantity:    qty,
			UnitPrice:   lot.UnitPrice,
			StockBefore: before,
			StockAfter:  after,
			Observation: strings.TrimSpace(observation),
			Date:        now,
			LotID:       &id,
			UserID:      userID,
			Visible:     true,
			UpdatedAt:   now,
		}
		if err := tx.Movements.Create(ctx, m); err != nil {
			return err
		}
		changes.add(EntityMovement, m.ID)
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("lot_id", lotID).Str("movement_id", result.ID).Msg("lote retirado")
	changes.publish(ctx, uc.notifier)
	return result, nil
}
