package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Es de solo lectura para el motor de lotes;
// su alta y edición pertenecen al módulo de catálogo.
// UnitsPerCase marca productos empacados por caja (bebidas): el tamaño de empaque de sus lotes
// queda fijado a ese valor.
type Product struct {
	ID             string
	Name           string
	CategoryID     string
	UnitMeasure    string
	EstimatedPrice decimal.Decimal
	MinStock       decimal.Decimal
	UnitsPerCase   *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsCasePackaged indica si el producto se maneja en cajas con unidades fijas.
func (p *Product) IsCasePackaged() bool {
	return p != nil && p.UnitsPerCase != nil && *p.UnitsPerCase > 0
}
