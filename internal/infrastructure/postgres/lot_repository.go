package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre detalle_contenedor (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, producto_id, contenedor_id, cantidad, cantidad_por_empaque, precio_real,
	fecha_vencimiento, estado_id, visible, created_at, updated_at`

const fefoOrder = `ORDER BY fecha_vencimiento ASC NULLS LAST, created_at, id`

// LockPair toma un advisory lock de transacción sobre el par producto+contenedor.
func (r *LotRepo) LockPair(ctx context.Context, productID, containerID string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, productID, containerID)
	if err != nil {
		return fmt.Errorf("lock par producto/contenedor: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID (visible o no).
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM detalle_contenedor WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM detalle_contenedor WHERE id = $1 FOR UPDATE`, id)
}

// FindMatching busca el lote visible con las mismas coordenadas; nulos se comparan como iguales.
func (r *LotRepo) FindMatching(ctx context.Context, key entity.LotKey) (*entity.Lot, error) {
	if !validID(key.ProductID) || !validID(key.ContainerID) {
		return nil, nil
	}
	query := `
		SELECT ` + lotColumns + `
		FROM detalle_contenedor
		WHERE producto_id = $1 AND contenedor_id = $2 AND visible
		  AND fecha_vencimiento IS NOT DISTINCT FROM $3::date
		  AND estado_id IS NOT DISTINCT FROM $4::text
		ORDER BY created_at, id
		LIMIT 1
		FOR UPDATE`
	return r.getOne(ctx, query, key.ProductID, key.ContainerID, entity.DateOnly(key.ExpiryDate), key.StateID)
}

// ListByPair devuelve los lotes visibles del par en orden FEFO, bloqueados.
func (r *LotRepo) ListByPair(ctx context.Context, productID, containerID string) ([]*entity.Lot, error) {
	if !validID(productID) || !validID(containerID) {
		return []*entity.Lot{}, nil
	}
	query := `
		SELECT ` + lotColumns + `
		FROM detalle_contenedor
		WHERE producto_id = $1 AND contenedor_id = $2 AND visible
		` + fefoOrder + `
		FOR UPDATE`
	return r.list(ctx, query, productID, containerID)
}

// ListExpiring devuelve los lotes visibles con vencimiento <= before.
func (r *LotRepo) ListExpiring(ctx context.Context, before time.Time) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM detalle_contenedor
		WHERE visible AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento <= $1::date
		` + fefoOrder
	return r.list(ctx, query, before)
}

// Upsert inserta el lote o actualiza cantidad, empaque, precio y visibilidad.
func (r *LotRepo) Upsert(ctx context.Context, lot *entity.Lot) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	now := time.Now()
	if lot.CreatedAt.IsZero() {
		lot.CreatedAt = now
	}
	if lot.UpdatedAt.IsZero() {
		lot.UpdatedAt = now
	}
	query := `
		INSERT INTO detalle_contenedor (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			cantidad = EXCLUDED.cantidad,
			cantidad_por_empaque = EXCLUDED.cantidad_por_empaque,
			precio_real = EXCLUDED.precio_real,
			visible = EXCLUDED.visible,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.ProductID, lot.ContainerID, lot.Quantity, lot.PackagingUnitSize, lot.UnitPrice,
		entity.DateOnly(lot.ExpiryDate), lot.StateID, lot.Visible, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert lote: %w", err)
	}
	return nil
}

// SoftDelete deja el lote en cero e invisible; la fila se conserva para el historial.
func (r *LotRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE detalle_contenedor SET visible = false, cantidad = 0, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("baja lógica de lote: %w", err)
	}
	return nil
}

func (r *LotRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return l, nil
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Lot, 0)
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.ContainerID, &l.Quantity, &l.PackagingUnitSize, &l.UnitPrice,
		&l.ExpiryDate, &l.StateID, &l.Visible, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
