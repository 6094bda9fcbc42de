package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ReasonRepository define el puerto para motivos de movimiento.
type ReasonRepository interface {
	// Upsert devuelve el motivo (name, direction), creándolo si no existe. Es idempotente.
	Upsert(ctx context.Context, name, direction string) (*entity.Reason, error)
	GetByID(ctx context.Context, id string) (*entity.Reason, error)
}
