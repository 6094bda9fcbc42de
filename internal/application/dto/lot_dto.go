package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotResponse lote (detalle_contenedor) con el número de empaques completos.
type LotResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ContainerID       string          `json:"container_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	PackagingUnitSize decimal.Decimal `json:"packaging_unit_size"`
	Packages          int64           `json:"packages"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ExpiryDate        *Date           `json:"expiry_date"`
	StateID           *string         `json:"state_id,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LotListResponse lotes en orden FEFO.
type LotListResponse struct {
	Total int           `json:"total"`
	Items []LotResponse `json:"items"`
}

// NewLotResponse convierte la entidad.
func NewLotResponse(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		ContainerID:       l.ContainerID,
		Quantity:          l.Quantity,
		PackagingUnitSize: l.PackagingUnitSize,
		Packages:          l.Packages(),
		UnitPrice:         l.UnitPrice,
		ExpiryDate:        NewDate(l.ExpiryDate),
		StateID:           l.StateID,
		UpdatedAt:         l.UpdatedAt,
	}
}

// NewLotListResponse convierte una lista conservando el orden.
func NewLotListResponse(lots []*entity.Lot) LotListResponse {
	items := make([]LotResponse, 0, len(lots))
	for _, l := range lots {
		items = append(items, NewLotResponse(l))
	}
	return LotListResponse{Total: len(items), Items: items}
}
