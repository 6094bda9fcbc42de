package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// MovementHandler maneja las peticiones HTTP de movimientos y traslados (protegido).
type MovementHandler struct {
	movements *inventory.MovementUseCase
	transfers *inventory.TransferUseCase
	log       zerolog.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(movements *inventory.MovementUseCase, transfers *inventory.TransferUseCase, log zerolog.Logger) *MovementHandler {
	return &MovementHandler{movements: movements, transfers: transfers, log: log}
}

// Create godoc
// @Summary      Registrar movimiento (entrada o salida)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, container_id, type, reason, quantity o packages, lot_id (salidas con varios lotes)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	m, err := h.movements.CreateMovement(c.UserContext(), inventory.CreateMovementInput{
		UserID:      GetUserID(c),
		ProductID:   in.ProductID,
		ContainerID: in.ContainerID,
		Direction:   in.Type,
		Reason:      in.Reason,
		Quantity:    in.Quantity,
		Packages:    in.Packages,
		UnitPrice:   in.UnitPrice,
		LotID:       in.LotID,
		ExpiryDate:  in.ExpiryDate.Ptr(),
		StateID:     in.StateID,
		Observation: in.Observation,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(m))
}

// Get godoc
// @Summary      Obtener movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	m, err := h.movements.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}

// List godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id         query  string  false  "Producto"
// @Param        container_id       query  string  false  "Contenedor"
// @Param        from               query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to                 query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        include_cancelled  query  bool    false  "Incluir anulados"
// @Param        limit              query  int     false  "Límite (default 20)"
// @Param        offset             query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: paginación inválida", domain.ErrInvalidInput))
	}
	page.DefaultPage()
	from, to, err := dateRange(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	list, err := h.movements.ListMovements(c.UserContext(), repository.MovementFilter{
		ProductID:        optionalQuery(c, "product_id"),
		ContainerID:      optionalQuery(c, "container_id"),
		From:             from,
		To:               to,
		IncludeCancelled: c.QueryBool("include_cancelled", false),
		Limit:            page.Limit,
		Offset:           page.Offset,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.NewMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Update godoc
// @Summary      Editar movimiento
// @Description  Revierte el efecto original sobre su lote y aplica los nuevos valores en el mismo lote.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "quantity, packages, reason, unit_price, observation"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	m, err := h.movements.UpdateMovement(c.UserContext(), inventory.UpdateMovementInput{
		ID:          c.Params("id"),
		UserID:      GetUserID(c),
		Quantity:    in.Quantity,
		Packages:    in.Packages,
		Reason:      in.Reason,
		UnitPrice:   in.UnitPrice,
		Observation: in.Observation,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}

// Cancel godoc
// @Summary      Anular movimiento
// @Description  Solo dentro de las 24 horas siguientes a su registro. La anulación es definitiva.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.CancelMovementRequest  true  "reason"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	m, err := h.movements.CancelMovement(c.UserContext(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}

// Transfer godoc
// @Summary      Trasladar mercancía entre contenedores
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_container_id, to_container_id, quantity, lot_id"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *MovementHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.transfers.Transfer(c.UserContext(), inventory.TransferInput{
		UserID:          GetUserID(c),
		ProductID:       in.ProductID,
		FromContainerID: in.FromContainerID,
		ToContainerID:   in.ToContainerID,
		Quantity:        in.Quantity,
		Packages:        in.Packages,
		LotID:           in.LotID,
		Observation:     in.Observation,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Exit:  dto.NewMovementResponse(res.Exit),
		Entry: dto.NewMovementResponse(res.Entry),
	})
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

// dateRange lee from/to. Un "to" sin hora incluye todo ese día.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: from debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: to debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		if len(s) == len("2006-01-02") {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		to = &t
	}
	return from, to, nil
}
