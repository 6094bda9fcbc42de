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
	"github.com/shopspring/decimal"
)

// TransferUseCase traslada mercancía de un lote de un contenedor a otro contenedor.
type TransferUseCase struct {
	txRunner TxRunner
	notifier EntityChangeNotifier
	log      zerolog.Logger
	now      Clock
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner TxRunner, opts MovementOptions) *TransferUseCase {
	uc := &TransferUseCase{
		txRunner: txRunner,
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

// TransferInput entrada de un traslado. LotID es el lote origen (obligatorio si hay varios).
type TransferInput struct {
	UserID          string
	ProductID       string
	FromContainerID string
	ToContainerID   string
	Quantity        decimal.Decimal
	Packages        int
	LotID           *string
	Observation     string
}

// TransferResult movimientos generados por un traslado.
type TransferResult struct {
	Exit  *entity.Movement
	Entry *entity.Movement
}

// Transfer resta del lote origen (Transferencia-salida) y suma en el contenedor destino
// (Transferencia-entrada) un lote con el mismo vencimiento, estado, precio y empaque.
// Ambos movimientos se registran en la misma transacción.
func (uc *TransferUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.ProductID == "" || in.FromContainerID == "" || in.ToContainerID == "" {
		return nil, fmt.Errorf("%w: producto, contenedor origen y destino son obligatorios", domain.ErrInvalidInput)
	}
	if in.FromContainerID == in.ToContainerID {
		return nil, fmt.Errorf("%w: el contenedor destino debe ser distinto al origen", domain.ErrInvalidInput)
	}

	var (
		result  TransferResult
		changes changeSet
	)
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		product, err := loadPair(ctx, tx, in.ProductID, in.FromContainerID)
		if err != nil {
			return err
		}
		if _, err := loadPair(ctx, tx, in.ProductID, in.ToContainerID); err != nil {
			return err
		}
		qty, err := inv.MovementQuantity(product, in.Quantity, in.Packages)
		if err != nil {
			return err
		}
		// Orden fijo de bloqueo para evitar interbloqueos entre traslados cruzados.
		first, second := in.FromContainerID, in.ToContainerID
		if second < first {
			first, second = second, first
		}
		if err := tx.Lots.LockPair(ctx, in.ProductID, first); err != nil {
			return err
		}
		if err := tx.Lots.LockPair(ctx, in.ProductID, second); err != nil {
			return err
		}
		outReason, err := tx.Reasons.Upsert(ctx, entity.ReasonTransferOut, entity.DirectionExit)
		if err != nil {
			return err
		}
		inReason, err := tx.Reasons.Upsert(ctx, entity.ReasonTransferIn, entity.DirectionEntry)
		if err != nil {
			return err
		}
		changes.add(EntityReason, outReason.ID)
		changes.add(EntityReason, inReason.ID)

		now := uc.now()
		resolver := inv.NewBatchResolver(tx.Lots)
		obs := strings.TrimSpace(in.Observation)

		srcBefore, err := resolver.Stock(ctx, in.ProductID, in.FromContainerID)
		if err != nil {
			return err
		}
		src, err := resolver.ResolveExit(ctx, inv.ExitRequest{
			Product:     product,
			ContainerID: in.FromContainerID,
			Quantity:    qty,
			LotID:       in.LotID,
			Now:         now,
		})
		if err != nil {
			return err
		}
		srcAfter, err := resolver.Stock(ctx, in.ProductID, in.FromContainerID)
		if err != nil {
			return err
		}
		if err := checkSnapshot(entity.DirectionExit, srcBefore, srcAfter, qty); err != nil {
			return err
		}
		changes.add(EntityLot, src.ID)

		dstBefore, err := resolver.Stock(ctx, in.ProductID, in.ToContainerID)
		if err != nil {
			return err
		}
		dst, err := resolver.ResolveEntry(ctx, inv.EntryRequest{
			Product:     product,
			ContainerID: in.ToContainerID,
			Quantity:    qty,
			UnitSize:    src.PackagingUnitSize,
			UnitPrice:   src.UnitPrice,
			ExpiryDate:  src.ExpiryDate,
			StateID:     src.StateID,
			Now:         now,
		})
		if err != nil {
			return err
		}
		dstAfter, err := resolver.Stock(ctx, in.ProductID, in.ToContainerID)
		if err != nil {
			return err
		}
		if err := checkSnapshot(entity.DirectionEntry, dstBefore, dstAfter, qty); err != nil {
			return err
		}
		changes.add(EntityLot, dst.ID)

		srcID, dstID := src.ID, dst.ID
		result.Exit = &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   in.ProductID,
			ContainerID: in.FromContainerID,
			ReasonID:    outReason.ID,
			ReasonName:  outReason.Name,
			Direction:   entity.DirectionExit,
			Quantity:    qty,
			UnitPrice:   src.UnitPrice,
			StockBefore: srcBefore,
			StockAfter:  srcAfter,
			Observation: obs,
			Date:        now,
			LotID:       &srcID,
			UserID:      in.UserID,
			Visible:     true,
			UpdatedAt:   now,
		}
		result.Entry = &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   in.ProductID,
			ContainerID: in.ToContainerID,
			ReasonID:    inReason.ID,
			ReasonName:  inReason.Name,
			Direction:   entity.DirectionEntry,
			Quantity:    qty,
			UnitPrice:   src.UnitPrice,
			StockBefore: dstBefore,
			StockAfter:  dstAfter,
			Observation: obs,
			Date:        now,
			LotID:       &dstID,
			UserID:      in.UserID,
			Visible:     true,
			UpdatedAt:   now,
		}
		if err := tx.Movements.Create(ctx, result.Exit); err != nil {
			return err
		}
		if err := tx.Movements.Create(ctx, result.Entry); err != nil {
			return err
		}
		changes.add(EntityMovement, result.Exit.ID)
		changes.add(EntityMovement, result.Entry.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("from", in.FromContainerID).
		Str("to", in.ToContainerID).
		Str("quantity", result.Exit.Quantity.String()).
		Msg("traslado registrado")
	changes.publish(ctx, uc.notifier)
	return &result, nil
}
