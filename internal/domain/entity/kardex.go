package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// KardexEntry es una línea del kardex: un movimiento no anulado con el saldo acumulado.
type KardexEntry struct {
	MovementID  string
	Date        time.Time
	ContainerID string
	LotID       *string
	Reason      string
	Direction   string
	Entry       decimal.Decimal // entrada
	Exit        decimal.Decimal // salida
	Balance     decimal.Decimal // saldo
	UnitPrice   decimal.Decimal
	Observation string
}
