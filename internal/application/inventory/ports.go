package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción (o al pool fuera de ella).
type Repos struct {
	Lots       repository.LotRepository
	Movements  repository.MovementRepository
	Reasons    repository.ReasonRepository
	Products   repository.ProductRepository
	Containers repository.ContainerRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}

// Tipos de entidad publicados en las notificaciones de cambio.
const (
	EntityLot      = "lote"
	EntityMovement = "movimiento"
	EntityReason   = "motivo_movimiento"
)

// EntityChangeNotifier recibe la señal de "algo cambió" después de cada mutación confirmada.
// Las capas de caché/UI se suscriben a ella.
type EntityChangeNotifier interface {
	EntityChanged(ctx context.Context, entityType, id string)
}

// KardexPDFGenerator genera la representación PDF del kardex.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, product *entity.Product, container *entity.Container, entries []entity.KardexEntry) ([]byte, error)
}

// Clock devuelve la hora actual; inyectable en tests.
type Clock func() time.Time

type noopNotifier struct{}

func (noopNotifier) EntityChanged(context.Context, string, string) {}

// change es una notificación pendiente hasta que la transacción confirme.
type change struct {
	entityType string
	id         string
}

type changeSet []change

func (c *changeSet) add(entityType, id string) {
	if id == "" {
		return
	}
	for _, ch := range *c {
		if ch.entityType == entityType && ch.id == id {
			return
		}
	}
	*c = append(*c, change{entityType: entityType, id: id})
}

func (c changeSet) publish(ctx context.Context, n EntityChangeNotifier) {
	for _, ch := range c {
		n.EntityChanged(ctx, ch.entityType, ch.id)
	}
}
