package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// BatchResolver traduce la intención de un movimiento en mutaciones concretas de lotes.
// Trabaja sobre un LotRepository atado a la transacción en curso.
type BatchResolver struct {
	lots repository.LotRepository
}

// NewBatchResolver construye el resolvedor sobre el repositorio de lotes de la transacción.
func NewBatchResolver(lots repository.LotRepository) *BatchResolver {
	return &BatchResolver{lots: lots}
}

// EntryRequest datos de una entrada ya normalizada (Quantity en unidades).
// Packages es el número de empaques informado; 0 = no informado.
// UnitSize fija el tamaño de empaque (traslados conservan el del lote origen); cero = calcular.
type EntryRequest struct {
	Product     *entity.Product
	ContainerID string
	Quantity    decimal.Decimal
	LotID       *string
	Packages    int
	UnitSize    decimal.Decimal
	UnitPrice   decimal.Decimal
	ExpiryDate  *time.Time
	StateID     *string
	Now         time.Time
}

// ExitRequest datos de una salida ya normalizada.
type ExitRequest struct {
	Product     *entity.Product
	ContainerID string
	Quantity    decimal.Decimal
	LotID       *string
	Now         time.Time
}

// RevertResult describe el efecto de revertir un movimiento.
// Skipped indica que la entrada no pudo revertirse porque su lote ya no existe o está inactivo.
type RevertResult struct {
	Lot     *entity.Lot
	Skipped bool
}

// Stock devuelve el stock total del par: suma de los lotes visibles.
func (r *BatchResolver) Stock(ctx context.Context, productID, containerID string) (decimal.Decimal, error) {
	lots, err := r.LotsFor(ctx, productID, containerID)
	if err != nil {
		return decimal.Zero, err
	}
	return SumQuantity(lots), nil
}

// LotsFor devuelve los lotes visibles del par en orden FEFO.
func (r *BatchResolver) LotsFor(ctx context.Context, productID, containerID string) ([]*entity.Lot, error) {
	lots, err := r.lots.ListByPair(ctx, productID, containerID)
	if err != nil {
		return nil, err
	}
	SortFEFO(lots)
	return lots, nil
}

// ResolveEntry suma la entrada al lote indicado, o al lote con las mismas coordenadas,
// o crea un lote nuevo. Precio y tamaño de empaque: gana el último informado.
func (r *BatchResolver) ResolveEntry(ctx context.Context, req EntryRequest) (*entity.Lot, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}

	var lot *entity.Lot
	if req.LotID != nil {
		found, err := r.lots.GetForUpdate(ctx, *req.LotID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, domain.ErrNotFound
		}
		if err := checkPair(found, req.Product.ID, req.ContainerID); err != nil {
			return nil, err
		}
		lot = found
	} else {
		key := entity.LotKey{
			ProductID:   req.Product.ID,
			ContainerID: req.ContainerID,
			ExpiryDate:  entity.DateOnly(req.ExpiryDate),
			StateID:     req.StateID,
		}
		found, err := r.lots.FindMatching(ctx, key)
		if err != nil {
			return nil, err
		}
		lot = found
	}

	if lot == nil {
		size, err := r.entrySize(req)
		if err != nil {
			return nil, err
		}
		lot = &entity.Lot{
			ID:                uuid.New().String(),
			ProductID:         req.Product.ID,
			ContainerID:       req.ContainerID,
			Quantity:          req.Quantity,
			PackagingUnitSize: size,
			UnitPrice:         req.UnitPrice,
			ExpiryDate:        entity.DateOnly(req.ExpiryDate),
			StateID:           req.StateID,
			Visible:           true,
			CreatedAt:         req.Now,
			UpdatedAt:         req.Now,
		}
		if err := r.lots.Upsert(ctx, lot); err != nil {
			return nil, err
		}
		return lot, nil
	}

	// Fusión: suma cantidades, último precio, tamaño de empaque fijo (cajas) o el último informado.
	if req.Product.IsCasePackaged() || req.Packages > 0 || req.UnitSize.IsPositive() {
		size, err := r.entrySize(req)
		if err != nil {
			return nil, err
		}
		lot.PackagingUnitSize = size
	}
	lot.Quantity = lot.Quantity.Add(req.Quantity)
	lot.UnitPrice = req.UnitPrice
	lot.Visible = true
	lot.UpdatedAt = req.Now
	if err := r.lots.Upsert(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// ResolveExit descuenta la cantidad del lote seleccionado. Sin lote seleccionado solo procede
// si el par tiene exactamente un lote visible. Un lote que llega a cero queda inactivo.
func (r *BatchResolver) ResolveExit(ctx context.Context, req ExitRequest) (*entity.Lot, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}

	var lot *entity.Lot
	if req.LotID == nil {
		lots, err := r.LotsFor(ctx, req.Product.ID, req.ContainerID)
		if err != nil {
			return nil, err
		}
		switch len(lots) {
		case 0:
			return nil, domain.ErrInsufficientStock
		case 1:
			lot = lots[0]
		default:
			return nil, domain.ErrNoLotSelected
		}
	} else {
		found, err := r.lots.GetForUpdate(ctx, *req.LotID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, domain.ErrNotFound
		}
		if err := checkPair(found, req.Product.ID, req.ContainerID); err != nil {
			return nil, err
		}
		lot = found
	}

	if !lot.Visible || req.Quantity.GreaterThan(lot.Quantity) {
		return nil, domain.ErrInsufficientStock
	}
	lot.Quantity = lot.Quantity.Sub(req.Quantity)
	lot.UpdatedAt = req.Now
	if err := r.store(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// EntryRevision corrige la cantidad de una entrada sobre el lote que afectó.
// Previous es la cantidad registrada; Quantity la nueva.
type EntryRevision struct {
	Product   *entity.Product
	Lot       *entity.Lot
	Previous  decimal.Decimal
	Quantity  decimal.Decimal
	Packages  int
	UnitPrice decimal.Decimal
	Now       time.Time
}

// ReviseEntry reemplaza el aporte de una entrada a su lote en una sola escritura:
// cantidad - anterior + nueva. Solo se exige que el resultado no sea negativo, así una entrada
// parcialmente consumida por salidas posteriores sigue siendo editable.
func (r *BatchResolver) ReviseEntry(ctx context.Context, req EntryRevision) (*entity.Lot, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	lot := req.Lot
	if lot == nil || !lot.Visible {
		return nil, domain.ErrNotFound
	}
	next := lot.Quantity.Sub(req.Previous).Add(req.Quantity)
	if next.IsNegative() {
		return nil, fmt.Errorf("%w: salidas posteriores ya consumieron %s del lote",
			domain.ErrInsufficientStock, req.Previous.Sub(lot.Quantity))
	}
	if req.Product.IsCasePackaged() || req.Packages > 0 {
		size, err := r.entrySize(EntryRequest{Product: req.Product, Quantity: req.Quantity, Packages: req.Packages})
		if err != nil {
			return nil, err
		}
		lot.PackagingUnitSize = size
	}
	lot.Quantity = next
	lot.UnitPrice = req.UnitPrice
	lot.UpdatedAt = req.Now
	if err := r.store(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// Revert deshace el efecto de un movimiento aplicado sobre lot.
// Entrada: resta la cantidad; si el lote falta o está inactivo no hace nada (Skipped).
// Salida: devuelve la cantidad al lote (reactivándolo); si el lote no existe, ErrOrphanedLot.
func (r *BatchResolver) Revert(ctx context.Context, m *entity.Movement, lot *entity.Lot, now time.Time) (RevertResult, error) {
	if m.IsEntry() {
		if lot == nil || !lot.Visible {
			return RevertResult{Lot: lot, Skipped: true}, nil
		}
		if m.Quantity.GreaterThan(lot.Quantity) {
			return RevertResult{}, fmt.Errorf("%w: el lote ya fue consumido y no admite revertir la entrada", domain.ErrInsufficientStock)
		}
		lot.Quantity = lot.Quantity.Sub(m.Quantity)
		lot.UpdatedAt = now
		if err := r.store(ctx, lot); err != nil {
			return RevertResult{}, err
		}
		return RevertResult{Lot: lot}, nil
	}

	if lot == nil {
		return RevertResult{}, domain.ErrOrphanedLot
	}
	lot.Quantity = lot.Quantity.Add(m.Quantity)
	lot.Visible = true
	lot.UpdatedAt = now
	if err := r.lots.Upsert(ctx, lot); err != nil {
		return RevertResult{}, err
	}
	return RevertResult{Lot: lot}, nil
}

// LocateLot devuelve el lote que afectó el movimiento. Para movimientos legados (sin lote_id)
// y con allowFallback, usa el lote visible de vencimiento más próximo; fallback lo informa.
// Sin lote posible devuelve ErrCannotEditLegacyMovement.
// Si lote_id apunta a una fila inexistente devuelve (nil, false, nil).
func (r *BatchResolver) LocateLot(ctx context.Context, m *entity.Movement, allowFallback bool) (lot *entity.Lot, fallback bool, err error) {
	if m.LotID != nil {
		lot, err = r.lots.GetForUpdate(ctx, *m.LotID)
		return lot, false, err
	}
	if !allowFallback {
		return nil, false, domain.ErrCannotEditLegacyMovement
	}
	lots, err := r.LotsFor(ctx, m.ProductID, m.ContainerID)
	if err != nil {
		return nil, false, err
	}
	if len(lots) == 0 {
		return nil, false, domain.ErrCannotEditLegacyMovement
	}
	return lots[0], true, nil
}

// entrySize calcula el tamaño de empaque de una entrada; sin empaques informados es un solo empaque.
func (r *BatchResolver) entrySize(req EntryRequest) (decimal.Decimal, error) {
	if req.UnitSize.IsPositive() && !req.Product.IsCasePackaged() {
		return req.UnitSize, nil
	}
	packages := req.Packages
	if packages == 0 {
		packages = 1
	}
	return PackagingUnitSize(req.Product, req.Quantity, packages)
}

// store persiste el lote; si quedó en cero lo da de baja lógica.
func (r *BatchResolver) store(ctx context.Context, lot *entity.Lot) error {
	if lot.Quantity.IsZero() {
		lot.Visible = false
		return r.lots.SoftDelete(ctx, lot.ID)
	}
	return r.lots.Upsert(ctx, lot)
}

func checkPair(lot *entity.Lot, productID, containerID string) error {
	if lot.ProductID != productID || lot.ContainerID != containerID {
		return fmt.Errorf("%w: el lote no pertenece al producto y contenedor indicados", domain.ErrInvalidInput)
	}
	return nil
}

// SumQuantity suma la cantidad de los lotes visibles.
func SumQuantity(lots []*entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		if l.Visible {
			total = total.Add(l.Quantity)
		}
	}
	return total
}
