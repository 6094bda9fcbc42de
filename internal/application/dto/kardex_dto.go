package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// KardexEntryResponse línea del kardex.
type KardexEntryResponse struct {
	MovementID  string          `json:"movement_id"`
	Date        time.Time       `json:"date"`
	ContainerID string          `json:"container_id"`
	LotID       *string         `json:"lot_id,omitempty"`
	Reason      string          `json:"reason"`
	Type        string          `json:"type"`
	Entry       decimal.Decimal `json:"entrada"`
	Exit        decimal.Decimal `json:"salida"`
	Balance     decimal.Decimal `json:"saldo"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Observation string          `json:"observation,omitempty"`
}

// KardexResponse kardex de un producto con su saldo final.
type KardexResponse struct {
	ProductID   string                `json:"product_id"`
	ContainerID *string               `json:"container_id,omitempty"`
	Balance     decimal.Decimal       `json:"saldo"`
	Entries     []KardexEntryResponse `json:"entries"`
}

// NewKardexResponse convierte las líneas calculadas.
func NewKardexResponse(productID string, containerID *string, entries []entity.KardexEntry) KardexResponse {
	out := KardexResponse{
		ProductID:   productID,
		ContainerID: containerID,
		Balance:     decimal.Zero,
		Entries:     make([]KardexEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, KardexEntryResponse{
			MovementID:  e.MovementID,
			Date:        e.Date,
			ContainerID: e.ContainerID,
			LotID:       e.LotID,
			Reason:      e.Reason,
			Type:        e.Direction,
			Entry:       e.Entry,
			Exit:        e.Exit,
			Balance:     e.Balance,
			UnitPrice:   e.UnitPrice,
			Observation: e.Observation,
		})
		out.Balance = e.Balance
	}
	return out
}
