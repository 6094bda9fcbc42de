package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements *inventory.MovementUseCase
	Transfers *inventory.TransferUseCase
	Lots      *inventory.LotUseCase
	Kardex    *inventory.KardexUseCase
	JWTSecret string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API. Lecturas: cualquier usuario autenticado;
// escrituras: admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/inventory", AuthMiddleware(deps.JWTSecret))
	writer := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	movementHandler := NewMovementHandler(deps.Movements, deps.Transfers, deps.Logger)
	protected.Post("/movements", writer, movementHandler.Create)
	protected.Get("/movements", movementHandler.List)
	protected.Get("/movements/:id", movementHandler.Get)
	protected.Put("/movements/:id", writer, movementHandler.Update)
	protected.Post("/movements/:id/cancel", writer, movementHandler.Cancel)
	protected.Post("/transfers", writer, movementHandler.Transfer)

	lotHandler := NewLotHandler(deps.Lots, deps.Logger)
	protected.Get("/lots", lotHandler.List)
	protected.Get("/lots/expiring", lotHandler.Expiring)
	protected.Delete("/lots/:id", writer, lotHandler.Remove)

	kardexHandler := NewKardexHandler(deps.Kardex, deps.Logger)
	protected.Get("/kardex", kardexHandler.Get)
	protected.Get("/kardex/pdf", kardexHandler.PDF)
}
