package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Container representa un contenedor físico (estante, cámara, bodega) donde se guardan lotes.
type Container struct {
	ID        string
	Name      string
	Type      string
	Capacity  decimal.Decimal
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
