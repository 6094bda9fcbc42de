package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos. Los campos nil no filtran.
type MovementFilter struct {
	ProductID        *string
	ContainerID      *string
	From             *time.Time
	To               *time.Time
	IncludeCancelled bool
	Ascending        bool // orden cronológico (kardex); por defecto más recientes primero
	Limit            int  // 0 = sin límite
	Offset           int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// GetByID/GetForUpdate devuelven (nil, nil) si el movimiento no existe.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
