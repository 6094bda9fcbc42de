package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementSelect = `
	SELECT m.id, m.producto_id, m.contenedor_id, m.motivo_id, mm.nombre, mm.tipo,
		m.cantidad, m.precio_unitario, m.stock_anterior, m.stock_nuevo, m.observacion,
		m.fecha_movimiento, m.lote_id, m.usuario_id, m.visible, m.motivo_anulacion,
		m.fecha_anulacion, m.updated_at
	FROM movimiento m
	JOIN motivo_movimiento mm ON mm.id = m.motivo_id`

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimiento (id, producto_id, contenedor_id, motivo_id, cantidad, precio_unitario,
			stock_anterior, stock_nuevo, observacion, fecha_movimiento, lote_id, usuario_id, visible,
			motivo_anulacion, fecha_anulacion, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.ContainerID, m.ReasonID, m.Quantity, m.UnitPrice,
		m.StockBefore, m.StockAfter, m.Observation, m.Date, m.LotID, m.UserID, m.Visible,
		m.CancelReason, m.CancelledAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: movimiento %s ya existe", domain.ErrInvalidInput, m.ID)
		}
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, movementSelect+` WHERE m.id = $1`, id)
}

// GetForUpdate obtiene el movimiento y bloquea su fila.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, movementSelect+` WHERE m.id = $1 FOR UPDATE OF m`, id)
}

// Update reescribe los campos editables, la foto de stock, el lote y la anulación.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE movimiento SET
			motivo_id = $2, cantidad = $3, precio_unitario = $4, stock_anterior = $5, stock_nuevo = $6,
			observacion = $7, lote_id = $8, visible = $9, motivo_anulacion = $10, fecha_anulacion = $11,
			updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.ReasonID, m.Quantity, m.UnitPrice, m.StockBefore, m.StockAfter,
		m.Observation, m.LotID, m.Visible, m.CancelReason, m.CancelledAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movimiento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista movimientos según el filtro.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	for _, id := range []*string{f.ProductID, f.ContainerID} {
		if id != nil && !validID(*id) {
			return []*entity.Movement{}, nil
		}
	}
	if f.ProductID != nil {
		add("m.producto_id = $%d", *f.ProductID)
	}
	if f.ContainerID != nil {
		add("m.contenedor_id = $%d", *f.ContainerID)
	}
	if f.From != nil {
		add("m.fecha_movimiento >= $%d", *f.From)
	}
	if f.To != nil {
		add("m.fecha_movimiento <= $%d", *f.To)
	}
	if !f.IncludeCancelled {
		conds = append(conds, "m.visible")
	}

	query := movementSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if f.Ascending {
		query += " ORDER BY m.fecha_movimiento ASC, m.id"
	} else {
		query += " ORDER BY m.fecha_movimiento DESC, m.id"
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MovementRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.ContainerID, &m.ReasonID, &m.ReasonName, &m.Direction,
		&m.Quantity, &m.UnitPrice, &m.StockBefore, &m.StockAfter, &m.Observation,
		&m.Date, &m.LotID, &m.UserID, &m.Visible, &m.CancelReason,
		&m.CancelledAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
