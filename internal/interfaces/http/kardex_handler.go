package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/rs/zerolog"
)

// KardexHandler kardex de un producto (protegido).
type KardexHandler struct {
	kardex *inventory.KardexUseCase
	log    zerolog.Logger
}

// NewKardexHandler construye el handler.
func NewKardexHandler(kardex *inventory.KardexUseCase, log zerolog.Logger) *KardexHandler {
	return &KardexHandler{kardex: kardex, log: log}
}

// Get godoc
// @Summary      Kardex con saldo acumulado
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        container_id  query  string  false  "Contenedor"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Success      200  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex [get]
func (h *KardexHandler) Get(c *fiber.Ctx) error {
	q, err := kardexQuery(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	entries, err := h.kardex.GetKardex(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewKardexResponse(q.ProductID, q.ContainerID, entries))
}

// PDF godoc
// @Summary      Kardex en PDF
// @Tags         kardex
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id    query  string  true   "Producto"
// @Param        container_id  query  string  false  "Contenedor"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex/pdf [get]
func (h *KardexHandler) PDF(c *fiber.Ctx) error {
	q, err := kardexQuery(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	doc, err := h.kardex.KardexPDF(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kardex-`+q.ProductID+`.pdf"`)
	return c.Send(doc)
}

func kardexQuery(c *fiber.Ctx) (inventory.KardexQuery, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return inventory.KardexQuery{}, err
	}
	return inventory.KardexQuery{
		ProductID:   c.Query("product_id"),
		ContainerID: optionalQuery(c, "container_id"),
		From:        from,
		To:          to,
	}, nil
}
