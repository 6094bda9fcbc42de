package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// publishTimeout límite para publicar; la mutación ya está confirmada.
const publishTimeout = 2 * time.Second

// Event mensaje publicado en Redis.
type Event struct {
	Entity string    `json:"entity"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

// publisher es la parte de *redis.Client que se usa.
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publica cada cambio en el canal "<prefijo>:<entidad>" para que las
// cachés de lectura se invaliden.
type RedisPublisher struct {
	client publisher
	prefix string
	log    zerolog.Logger
	now    func() time.Time
}

// NewRedisPublisher construye el suscriptor sobre un cliente go-redis.
func NewRedisPublisher(client *redis.Client, prefix string, log zerolog.Logger) *RedisPublisher {
	return newRedisPublisher(client, prefix, log)
}

func newRedisPublisher(client publisher, prefix string, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix, log: log, now: time.Now}
}

// Channel devuelve el canal de una entidad.
func (p *RedisPublisher) Channel(entityType string) string {
	if p.prefix == "" {
		return entityType
	}
	return p.prefix + ":" + entityType
}

// EntityChanged publica el evento. Un fallo de Redis solo se registra.
func (p *RedisPublisher) EntityChanged(ctx context.Context, entityType, id string) {
	payload, err := json.Marshal(Event{Entity: entityType, ID: id, At: p.now().UTC()})
	if err != nil {
		p.log.Error().Err(err).Msg("serializar evento")
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.Channel(entityType), payload).Err(); err != nil {
		p.log.Warn().Err(err).Str("entity", entityType).Str("id", id).Msg("no se pudo publicar en Redis")
	}
}

// ConnectRedis abre el cliente desde una URL redis:// y verifica la conexión.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	opt.MaxRetries = 3
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar Redis: %w", err)
	}
	return client, nil
}
