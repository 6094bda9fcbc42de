package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ReasonRepository = (*ReasonRepo)(nil)

// ReasonRepo motivos de movimiento (motivo_movimiento).
type ReasonRepo struct {
	q Querier
}

// NewReasonRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReasonRepository(q Querier) *ReasonRepo {
	return &ReasonRepo{q: q}
}

// Upsert crea el motivo si no existe. El UNIQUE (nombre, tipo) hace que dos llamadas
// concurrentes terminen con la misma fila.
func (r *ReasonRepo) Upsert(ctx context.Context, name, direction string) (*entity.Reason, error) {
	query := `
		INSERT INTO motivo_movimiento (id, nombre, tipo)
		VALUES ($1, $2, $3)
		ON CONFLICT (nombre, tipo) DO UPDATE SET nombre = EXCLUDED.nombre
		RETURNING id, nombre, tipo`
	var rs entity.Reason
	err := r.q.QueryRow(ctx, query, uuid.New().String(), name, direction).Scan(&rs.ID, &rs.Name, &rs.Direction)
	if err != nil {
		return nil, fmt.Errorf("upsert motivo: %w", err)
	}
	return &rs, nil
}

// GetByID obtiene un motivo por ID.
func (r *ReasonRepo) GetByID(ctx context.Context, id string) (*entity.Reason, error) {
	if !validID(id) {
		return nil, nil
	}
	var rs entity.Reason
	err := r.q.QueryRow(ctx, `SELECT id, nombre, tipo FROM motivo_movimiento WHERE id = $1`, id).
		Scan(&rs.ID, &rs.Name, &rs.Direction)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get motivo: %w", err)
	}
	return &rs, nil
}
