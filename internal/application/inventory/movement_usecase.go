package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	inv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultCancelWindow plazo durante el cual un movimiento puede anularse.
const DefaultCancelWindow = 24 * time.Hour

// MovementOptions parámetros de comportamiento del controlador de movimientos.
type MovementOptions struct {
	CancelWindow      time.Duration
	LegacyLotFallback bool // movimientos sin lote_id: usar el lote FEFO más próximo
	Clock             Clock
	Notifier          EntityChangeNotifier
	Logger            zerolog.Logger
}

// MovementUseCase orquesta creación, edición y anulación de movimientos.
// Cada operación corre en una única transacción con el par producto+contenedor bloqueado.
type MovementUseCase struct {
	txRunner       TxRunner
	repos          Repos
	notifier       EntityChangeNotifier
	log            zerolog.Logger
	now            Clock
	cancelWindow   time.Duration
	legacyFallback bool
}

// NewMovementUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewMovementUseCase(txRunner TxRunner, repos Repos, opts MovementOptions) *MovementUseCase {
	uc := &MovementUseCase{
		txRunner:       txRunner,
		repos:          repos,
		notifier:       opts.Notifier,
		log:            opts.Logger,
		now:            opts.Clock,
		cancelWindow:   opts.CancelWindow,
		legacyFallback: opts.LegacyLotFallback,
	}
	if uc.notifier == nil {
		uc.notifier = noopNotifier{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.cancelWindow <= 0 {
		uc.cancelWindow = DefaultCancelWindow
	}
	return uc
}

// CreateMovementInput entrada para registrar un movimiento.
// Quantity en unidades; para productos por caja puede enviarse Packages (cajas) en su lugar.
// Packages en entradas de productos normales es el número de empaques en que se divide la cantidad.
// UnitPrice nil usa el precio estimado del producto.
// LotID: en entradas suma a ese lote; en salidas es obligatorio si hay más de un lote.
type CreateMovementInput struct {
	UserID      string
	ProductID   string
	ContainerID string
	Direction   string
	Reason      string
	Quantity    decimal.Decimal
	Packages    int
	UnitPrice   *decimal.Decimal
	LotID       *string
	ExpiryDate  *time.Time
	StateID     *string
	Observation string
}

// UpdateMovementInput campos editables de un movimiento activo. Los nil no cambian.
// Producto, contenedor y dirección son inmutables.
type UpdateMovementInput struct {
	ID          string
	UserID      string
	Quantity    *decimal.Decimal
	Packages    int
	Reason      *string
	UnitPrice   *decimal.Decimal
	Observation *string
}

// CreateMovement valida la intención, resuelve el lote y registra el movimiento con la foto de stock.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, in CreateMovementInput) (*entity.Movement, error) {
	if in.ProductID == "" || in.ContainerID == "" {
		return nil, fmt.Errorf("%w: producto y contenedor son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.ValidDirection(in.Direction) {
		return nil, fmt.Errorf("%w: tipo de movimiento debe ser entrada o salida", domain.ErrInvalidInput)
	}
	reasonName, ok := entity.CanonicalReason(in.Direction, in.Reason)
	if !ok {
		return nil, fmt.Errorf("%w: motivo %q no corresponde a una %s", domain.ErrInvalidInput, in.Reason, in.Direction)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}

	var (
		result  *entity.Movement
		changes changeSet
	)
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		product, err := loadPair(ctx, tx, in.ProductID, in.ContainerID)
		if err != nil {
			return err
		}
		qty, err := inv.MovementQuantity(product, in.Quantity, in.Packages)
		if err != nil {
			return err
		}
		price := product.EstimatedPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		if err := tx.Lots.LockPair(ctx, in.ProductID, in.ContainerID); err != nil {
			return err
		}
		reason, err := tx.Reasons.Upsert(ctx, reasonName, in.Direction)
		if err != nil {
			return err
		}
		changes.add(EntityReason, reason.ID)

		now := uc.now()
		resolver := inv.NewBatchResolver(tx.Lots)
		before, err := resolver.Stock(ctx, in.ProductID, in.ContainerID)
		if err != nil {
			return err
		}

		var lot *entity.Lot
		if in.Direction == entity.DirectionEntry {
			lot, err = resolver.ResolveEntry(ctx, inv.EntryRequest{
				Product:     product,
				ContainerID: in.ContainerID,
				Quantity:    qty,
				LotID:       in.LotID,
				Packages:    entryPackages(product, in.Packages),
				UnitPrice:   price,
				ExpiryDate:  in.ExpiryDate,
				StateID:     in.StateID,
				Now:         now,
			})
		} else {
			lot, err = resolver.ResolveExit(ctx, inv.ExitRequest{
				Product:     product,
				ContainerID: in.ContainerID,
				Quantity:    qty,
				LotID:       in.LotID,
				Now:         now,
			})
		}
		if err != nil {
			return err
		}
		changes.add(EntityLot, lot.ID)

		after, err := resolver.Stock(ctx, in.ProductID, in.ContainerID)
		if err != nil {
			return err
		}
		if err := checkSnapshot(in.Direction, before, after, qty); err != nil {
			return err
		}

		lotID := lot.ID
		m := &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   in.ProductID,
			ContainerID: in.ContainerID,
			ReasonID:    reason.ID,
			ReasonName:  reason.Name,
			Direction:   in.Direction,
			Quantity:    qty,
			UnitPrice:   price,
			StockBefore: before,
			StockAfter:  after,
			Observation: strings.TrimSpace(in.Observation),
			Date:        now,
			LotID:       &lotID,
			UserID:      in.UserID,
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

	uc.log.Info().
		Str("movement_id", result.ID).
		Str("direction", result.Direction).
		Str("product_id", result.ProductID).
		Str("container_id", result.ContainerID).
		Str("quantity", result.Quantity.String()).
		Msg("movimiento registrado")
	changes.publish(ctx, uc.notifier)
	return result, nil
}

// UpdateMovement revierte el efecto original sobre su lote y aplica los nuevos valores
// sobre ese mismo lote, recalculando la foto de stock.
func (uc *MovementUseCase) UpdateMovement(ctx context.Context, in UpdateMovementInput) (*entity.Movement, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("%w: id del movimiento es obligatorio", domain.ErrInvalidInput)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}

	var (
		result  *entity.Movement
		changes changeSet
	)
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		m, err := uc.lockMovement(ctx, tx, in.ID)
		if err != nil {
			return err
		}
		product, err := loadPair(ctx, tx, m.ProductID, m.ContainerID)
		if err != nil {
			return err
		}

		qty := m.Quantity
		if in.Quantity != nil || in.Packages > 0 {
			// Solo packages: en productos por caja son cajas; en el resto re-divide la cantidad vigente.
			var raw decimal.Decimal
			switch {
			case in.Quantity != nil:
				raw = *in.Quantity
			case !product.IsCasePackaged():
				raw = m.Quantity
			}
			if qty, err = inv.MovementQuantity(product, raw, in.Packages); err != nil {
				return err
			}
		}
		reasonID, reasonName := m.ReasonID, m.ReasonName
		if in.Reason != nil {
			name, ok := entity.CanonicalReason(m.Direction, *in.Reason)
			if !ok {
				return fmt.Errorf("%w: motivo %q no corresponde a una %s", domain.ErrInvalidInput, *in.Reason, m.Direction)
			}
			reason, err := tx.Reasons.Upsert(ctx, name, m.Direction)
			if err != nil {
				return err
			}
			reasonID, reasonName = reason.ID, reason.Name
			changes.add(EntityReason, reason.ID)
		}
		price := m.UnitPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}

		now := uc.now()
		resolver := inv.NewBatchResolver(tx.Lots)
		lot, fallback, err := resolver.LocateLot(ctx, m, uc.legacyFallback)
		if err != nil {
			return err
		}
		if fallback {
			uc.log.Warn().
				Str("movement_id", m.ID).
				Str("lot_id", lot.ID).
				Msg("movimiento legado sin lote_id: se usa el lote de vencimiento más próximo")
		}

		var (
			applied       *entity.Lot
			before, after decimal.Decimal
		)
		if m.IsEntry() {
			applied, before, after, err = uc.reapplyEntry(ctx, resolver, m, inv.EntryRevision{
				Product:   product,
				Lot:       lot,
				Previous:  m.Quantity,
				Quantity:  qty,
				Packages:  entryPackages(product, in.Packages),
				UnitPrice: price,
				Now:       now,
			})
		} else {
			applied, before, after, err = uc.reapplyExit(ctx, resolver, m, lot, product, qty, now)
		}
		if err != nil {
			return err
		}

		m.Quantity = qty
		m.ReasonID, m.ReasonName = reasonID, reasonName
		m.UnitPrice = price
		if in.Observation != nil {
			m.Observation = strings.TrimSpace(*in.Observation)
		}
		m.StockBefore, m.StockAfter = before, after
		if applied != nil {
			id := applied.ID
			m.LotID = &id
			changes.add(EntityLot, applied.ID)
		}
		m.UpdatedAt = now
		if err := tx.Movements.Update(ctx, m); err != nil {
			return err
		}
		changes.add(EntityMovement, m.ID)
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", result.ID).
		Str("quantity", result.Quantity.String()).
		Str("user_id", in.UserID).
		Msg("movimiento editado")
	changes.publish(ctx, uc.notifier)
	return result, nil
}

// reapplyEntry corrige una entrada. Con su lote activo la cantidad se ajusta en una sola escritura.
// Con el lote inactivo o inexistente la reversión se omite y se aplica la cantidad nueva completa.
// Las fotos de stock siempre salen de sumas reales de lotes.
func (uc *MovementUseCase) reapplyEntry(ctx context.Context, resolver *inv.BatchResolver, m *entity.Movement, rev inv.EntryRevision) (*entity.Lot, decimal.Decimal, decimal.Decimal, error) {
	current, err := resolver.Stock(ctx, m.ProductID, m.ContainerID)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}

	lot := rev.Lot
	if lot == nil || !lot.Visible {
		uc.log.Warn().
			Str("movement_id", m.ID).
			Msg("el lote de la entrada ya no está activo: se omite la reversión")
		var lotID *string
		if lot != nil {
			id := lot.ID
			lotID = &id
		}
		applied, err := resolver.ResolveEntry(ctx, inv.EntryRequest{
			Product:     rev.Product,
			ContainerID: m.ContainerID,
			Quantity:    rev.Quantity,
			LotID:       lotID,
			Packages:    rev.Packages,
			UnitPrice:   rev.UnitPrice,
			Now:         rev.Now,
		})
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		after, err := resolver.Stock(ctx, m.ProductID, m.ContainerID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		if err := checkSnapshot(entity.DirectionEntry, current, after, rev.Quantity); err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		return applied, current, after, nil
	}

	held := lot.Quantity
	applied, err := resolver.ReviseEntry(ctx, rev)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	after, err := resolver.Stock(ctx, m.ProductID, m.ContainerID)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	// Lote intacto: la foto es la del par sin la entrada original. Lote ya consumido por
	// salidas posteriores: la foto es el stock antes y después de la corrección.
	if held.GreaterThanOrEqual(rev.Previous) {
		before := current.Sub(rev.Previous)
		if err := checkSnapshot(entity.DirectionEntry, before, after, rev.Quantity); err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		return applied, before, after, nil
	}
	if !current.Sub(rev.Previous).Add(rev.Quantity).Equal(after) {
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("foto de stock inconsistente: anterior %s, nuevo %s, cantidad %s -> %s",
			current, after, rev.Previous, rev.Quantity)
	}
	return applied, current, after, nil
}

// reapplyExit revierte la salida sobre su lote y vuelve a descontar la cantidad nueva del mismo lote.
func (uc *MovementUseCase) reapplyExit(ctx context.Context, resolver *inv.BatchResolver, m *entity.Movement, lot *entity.Lot, product *entity.Product, qty decimal.Decimal, now time.Time) (*entity.Lot, decimal.Decimal, decimal.Decimal, error) {
	if _, err := resolver.Revert(ctx, m, lot, now); err != nil {
		if errors.Is(err, domain.ErrOrphanedLot) {
			uc.log.Error().Str("movement_id", m.ID).Msg("lote huérfano al revertir movimiento")
		}
		return nil, decimal.Zero, decimal.Zero, err
	}
	before, err := resolver.Stock(ctx, m.ProductID, m.ContainerID)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	lotID := lot.ID
	applied, err := resolver.ResolveExit(ctx, inv.ExitRequest{
		Product:     product,
		ContainerID: m.ContainerID,
		Quantity:    qty,
		LotID:       &lotID,
		Now:         now,
	})
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	after, err := resolver.Stock(ctx, m.ProductID, m.ContainerID)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	if err := checkSnapshot(entity.DirectionExit, before, after, qty); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	return applied, before, after, nil
}

// CancelMovement anula un movimiento activo dentro del plazo permitido, revirtiendo su efecto
// sobre el lote. La anulación es terminal.
func (uc *MovementUseCase) CancelMovement(ctx context.Context, id, reason, userID string) (*entity.Movement, error) {
	reason = strings.TrimSpace(reason)
	if id == "" {
		return nil, fmt.Errorf("%w: id del movimiento es obligatorio", domain.ErrInvalidInput)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo de anulación es obligatorio", domain.ErrInvalidInput)
	}

	var (
		result  *entity.Movement
		changes changeSet
	)
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		m, err := uc.lockMovement(ctx, tx, id)
		if err != nil {
			return err
		}
		now := uc.now()
		if now.Sub(m.Date) > uc.cancelWindow {
			return domain.ErrCancellationWindowExpired
		}

		resolver := inv.NewBatchResolver(tx.Lots)
		lot, fallback, err := resolver.LocateLot(ctx, m, uc.legacyFallback)
		switch {
		case errors.Is(err, domain.ErrCannotEditLegacyMovement):
			lot = nil
		case err != nil:
			return err
		case fallback:
			uc.log.Warn().
				Str("movement_id", m.ID).
				Str("lot_id", lot.ID).
				Msg("movimiento legado sin lote_id: se usa el lote de vencimiento más próximo")
		}

		rev, err := resolver.Revert(ctx, m, lot, now)
		if err != nil {
			if errors.Is(err, domain.ErrOrphanedLot) {
				uc.log.Error().Str("movement_id", m.ID).Msg("lote huérfano al anular movimiento")
			}
			return err
		}
		if rev.Skipped {
			uc.log.Warn().
				Str("movement_id", m.ID).
				Msg("el lote de la entrada ya no está activo: se anula sin revertir")
		}
		if rev.Lot != nil {
			changes.add(EntityLot, rev.Lot.ID)
		}

		m.Visible = false
		m.CancelReason = reason
		m.CancelledAt = &now
		m.UpdatedAt = now
		if err := tx.Movements.Update(ctx, m); err != nil {
			return err
		}
		changes.add(EntityMovement, m.ID)
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", result.ID).
		Str("user_id", userID).
		Str("motivo", reason).
		Msg("movimiento anulado")
	changes.publish(ctx, uc.notifier)
	return result, nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.repos.Movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListMovements lista movimientos, más recientes primero.
func (uc *MovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	filter.Ascending = false
	return uc.repos.Movements.List(ctx, filter)
}

// lockMovement obtiene el movimiento bloqueado y verifica que siga activo.
func (uc *MovementUseCase) lockMovement(ctx context.Context, tx Repos, id string) (*entity.Movement, error) {
	m, err := tx.Movements.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if !m.IsActive() {
		return nil, domain.ErrAlreadyCancelled
	}
	if err := tx.Lots.LockPair(ctx, m.ProductID, m.ContainerID); err != nil {
		return nil, err
	}
	return m, nil
}

// loadPair verifica que producto y contenedor existan y devuelve el producto.
func loadPair(ctx context.Context, tx Repos, productID, containerID string) (*entity.Product, error) {
	product, err := tx.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	container, err := tx.Containers.GetByID(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, fmt.Errorf("%w: contenedor %s", domain.ErrNotFound, containerID)
	}
	return product, nil
}

// entryPackages: en productos por caja Packages expresa cajas, no divisiones del lote.
func entryPackages(product *entity.Product, packages int) int {
	if product.IsCasePackaged() {
		return 0
	}
	return packages
}

// checkSnapshot verifica stock_nuevo = stock_anterior ± cantidad y que no quede negativo.
func checkSnapshot(direction string, before, after, qty decimal.Decimal) error {
	if after.IsNegative() {
		return domain.ErrInsufficientStock
	}
	expected := before.Add(qty)
	if direction == entity.DirectionExit {
		expected = before.Sub(qty)
	}
	if !expected.Equal(after) {
		return fmt.Errorf("foto de stock inconsistente: anterior %s, nuevo %s, cantidad %s", before, after, qty)
	}
	return nil
}
