package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/inventory/movements.
// Para productos por caja (bebidas) puede enviarse packages (cajas) en lugar de quantity.
type CreateMovementRequest struct {
	ProductID   string           `json:"product_id"`
	ContainerID string           `json:"container_id"`
	Type        string           `json:"type"`   // entrada | salida
	Reason      string           `json:"reason"` // motivo del vocabulario de la dirección
	Quantity    decimal.Decimal  `json:"quantity"`
	Packages    int              `json:"packages,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	LotID       *string          `json:"lot_id,omitempty"`
	ExpiryDate  *Date            `json:"expiry_date,omitempty"`
	StateID     *string          `json:"state_id,omitempty"`
	Observation string           `json:"observation,omitempty"`
}

// UpdateMovementRequest body para PUT /api/inventory/movements/:id. Los campos ausentes no cambian.
type UpdateMovementRequest struct {
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Packages    int              `json:"packages,omitempty"`
	Reason      *string          `json:"reason,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Observation *string          `json:"observation,omitempty"`
}

// CancelMovementRequest body para POST /api/inventory/movements/:id/cancel.
type CancelMovementRequest struct {
	Reason string `json:"reason"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       string          `json:"product_id"`
	FromContainerID string          `json:"from_container_id"`
	ToContainerID   string          `json:"to_container_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Packages        int             `json:"packages,omitempty"`
	LotID           *string         `json:"lot_id,omitempty"`
	Observation     string          `json:"observation,omitempty"`
}

// MovementResponse movimiento del libro con su foto de stock.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ContainerID  string          `json:"container_id"`
	ReasonID     string          `json:"reason_id"`
	Reason       string          `json:"reason"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	StockBefore  decimal.Decimal `json:"stock_anterior"`
	StockAfter   decimal.Decimal `json:"stock_nuevo"`
	Observation  string          `json:"observation,omitempty"`
	Date         time.Time       `json:"date"`
	LotID        *string         `json:"lot_id,omitempty"`
	UserID       string          `json:"user_id,omitempty"`
	Cancelled    bool            `json:"cancelled"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
}

// TransferResponse movimientos generados por un traslado.
type TransferResponse struct {
	Exit  MovementResponse `json:"exit"`
	Entry MovementResponse `json:"entry"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewMovementResponse convierte la entidad.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ContainerID:  m.ContainerID,
		ReasonID:     m.ReasonID,
		Reason:       m.ReasonName,
		Type:         m.Direction,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		StockBefore:  m.StockBefore,
		StockAfter:   m.StockAfter,
		Observation:  m.Observation,
		Date:         m.Date,
		LotID:        m.LotID,
		UserID:       m.UserID,
		Cancelled:    !m.IsActive(),
		CancelReason: m.CancelReason,
		CancelledAt:  m.CancelledAt,
	}
}
