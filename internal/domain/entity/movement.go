package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement representa un movimiento de stock (entrada o salida) con la foto del stock total
// del par producto+contenedor antes y después de aplicarlo.
// Quantity siempre es positiva; la dirección la da el motivo.
// Un movimiento anulado (Visible=false) es inmutable.
type Movement struct {
	ID           string
	ProductID    string
	ContainerID  string
	ReasonID     string
	ReasonName   string
	Direction    string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	StockBefore  decimal.Decimal // stock_anterior
	StockAfter   decimal.Decimal // stock_nuevo
	Observation  string
	Date         time.Time // fecha_movimiento
	LotID        *string   // lote afectado; nil en movimientos legados
	UserID       string
	Visible      bool
	CancelReason string     // motivo_anulacion
	CancelledAt  *time.Time // fecha_anulacion
	UpdatedAt    time.Time
}

// IsActive indica si el movimiento no ha sido anulado.
func (m *Movement) IsActive() bool {
	return m.Visible
}

// IsEntry indica si el movimiento suma stock.
func (m *Movement) IsEntry() bool {
	return m.Direction == DirectionEntry
}

// Delta devuelve la variación firmada de stock que produce el movimiento.
func (m *Movement) Delta() decimal.Decimal {
	if m.IsEntry() {
		return m.Quantity
	}
	return m.Quantity.Neg()
}
