// Package events distribuye las notificaciones de cambio de entidades a sus suscriptores
// (auditoría, invalidación de caché vía Redis).
package events

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/rs/zerolog"
)

// Subscriber recibe cada notificación de cambio.
type Subscriber interface {
	EntityChanged(ctx context.Context, entityType, id string)
}

// SubscriberFunc adapta una función a Subscriber.
type SubscriberFunc func(ctx context.Context, entityType, id string)

// EntityChanged llama a f.
func (f SubscriberFunc) EntityChanged(ctx context.Context, entityType, id string) {
	f(ctx, entityType, id)
}

var _ inventory.EntityChangeNotifier = (*Bus)(nil)

// Bus reparte las notificaciones en forma síncrona, en orden de suscripción.
// Un suscriptor que entra en pánico no impide que los demás reciban el evento.
type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
	log  zerolog.Logger
}

// NewBus crea el bus con suscriptores iniciales.
func NewBus(log zerolog.Logger, subs ...Subscriber) *Bus {
	return &Bus{subs: subs, log: log}
}

// Subscribe agrega un suscriptor.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// EntityChanged implementa inventory.EntityChangeNotifier.
func (b *Bus) EntityChanged(ctx context.Context, entityType, id string) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(ctx, s, entityType, id)
	}
}

func (b *Bus) deliver(ctx context.Context, s Subscriber, entityType, id string) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Str("entity", entityType).
				Str("id", id).
				Msg("suscriptor de eventos falló")
		}
	}()
	s.EntityChanged(ctx, entityType, id)
}
