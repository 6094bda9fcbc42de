package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/events"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		repos    inventory.Repos
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		seedDemo(store)
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("driver en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Cambios de entidades: log de auditoría y, si hay Redis, invalidación de cachés.
	bus := events.NewBus(log.Component("events"), events.NewAuditLogger(log.Component("audit")))
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = events.ConnectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		bus.Subscribe(events.NewRedisPublisher(redisClient, cfg.Redis.ChannelPrefix, log.Component("redis")))
		log.Info().Str("prefix", cfg.Redis.ChannelPrefix).Msg("publicación de cambios en Redis activa")
	}

	opts := inventory.MovementOptions{
		CancelWindow:      time.Duration(cfg.Inventory.CancelWindowHours) * time.Hour,
		LegacyLotFallback: cfg.Inventory.LegacyLotFallback,
		Notifier:          bus,
		Logger:            log.Component("inventory"),
	}
	movementUC := inventory.NewMovementUseCase(txRunner, repos, opts)
	transferUC := inventory.NewTransferUseCase(txRunner, opts)
	lotUC := inventory.NewLotUseCase(txRunner, repos, opts)
	kardexUC := inventory.NewKardexUseCase(repos, infrapdf.NewKardexPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements: movementUC,
		Transfers: transferUC,
		Lots:      lotUC,
		Kardex:    kardexUC,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// seedDemo carga un catálogo mínimo para el driver en memoria.
func seedDemo(store *memory.Store) {
	now := time.Now()
	unitsPerCase := 24
	store.PutProduct(&entity.Product{
		ID: "arroz", Name: "Arroz", UnitMeasure: "kg",
		EstimatedPrice: decimal.NewFromInt(3500), CreatedAt: now, UpdatedAt: now,
	})
	store.PutProduct(&entity.Product{
		ID: "gaseosa", Name: "Gaseosa 350ml", UnitMeasure: "unidad", UnitsPerCase: &unitsPerCase,
		EstimatedPrice: decimal.NewFromInt(1800), CreatedAt: now, UpdatedAt: now,
	})
	store.PutContainer(&entity.Container{ID: "bodega", Name: "Bodega principal"})
	store.PutContainer(&entity.Container{ID: "frio", Name: "Cuarto frío"})
}
