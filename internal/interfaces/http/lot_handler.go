package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/rs/zerolog"
)

// LotHandler consultas y retiro de lotes (protegido).
type LotHandler struct {
	lots *inventory.LotUseCase
	log  zerolog.Logger
}

// NewLotHandler construye el handler.
func NewLotHandler(lots *inventory.LotUseCase, log zerolog.Logger) *LotHandler {
	return &LotHandler{lots: lots, log: log}
}

// List godoc
// @Summary      Lotes de un producto en un contenedor (FEFO)
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        container_id  query  string  true  "Contenedor"
// @Success      200  {object}  dto.LotListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	lots, err := h.lots.ListLots(c.UserContext(), c.Query("product_id"), c.Query("container_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewLotListResponse(lots))
}

// Expiring godoc
// @Summary      Lotes próximos a vencer
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (default 30)"
// @Success      200  {object}  dto.LotListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/expiring [get]
func (h *LotHandler) Expiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	lots, err := h.lots.ListExpiringLots(c.UserContext(), days)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewLotListResponse(lots))
}

// Remove godoc
// @Summary      Retirar un lote
// @Description  Registra una salida por ajuste con la cantidad restante y deja el lote inactivo.
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id           path   string  true   "ID del lote"
// @Param        observation  query  string  false  "Observación"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id} [delete]
func (h *LotHandler) Remove(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return respondError(c, h.log, fmt.Errorf("%w: id del lote es obligatorio", domain.ErrInvalidInput))
	}
	m, err := h.lots.RemoveLot(c.UserContext(), id, GetUserID(c), c.Query("observation"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}
