package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia de lotes (detalle_contenedor).
// Nunca borra filas: un lote agotado o retirado queda con visible=false.
// Los métodos GetByID/GetForUpdate devuelven (nil, nil) si el lote no existe.
type LotRepository interface {
	// LockPair serializa las operaciones sobre el par producto+contenedor hasta el fin de la transacción.
	LockPair(ctx context.Context, productID, containerID string) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	// FindMatching busca un lote visible con las mismas coordenadas (producto, contenedor, vencimiento, estado).
	FindMatching(ctx context.Context, key entity.LotKey) (*entity.Lot, error)
	// ListByPair devuelve los lotes visibles del par en orden FEFO.
	ListByPair(ctx context.Context, productID, containerID string) ([]*entity.Lot, error)
	// ListExpiring devuelve los lotes visibles con vencimiento <= before, en orden FEFO.
	ListExpiring(ctx context.Context, before time.Time) ([]*entity.Lot, error)
	Upsert(ctx context.Context, lot *entity.Lot) error
	// SoftDelete deja el lote con cantidad cero y visible=false.
	SoftDelete(ctx context.Context, id string) error
}
