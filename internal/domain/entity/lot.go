package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote (detalle_contenedor): existencias de un producto dentro de un
// contenedor con la misma fecha de vencimiento y estado.
// PackagingUnitSize es la cantidad por empaque, no el número de empaques.
type Lot struct {
	ID                string
	ProductID         string
	ContainerID       string
	Quantity          decimal.Decimal
	PackagingUnitSize decimal.Decimal
	UnitPrice         decimal.Decimal // precio real pagado en la última entrada
	ExpiryDate        *time.Time
	StateID           *string
	Visible           bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Key devuelve las coordenadas que identifican el lote para fusiones.
func (l *Lot) Key() LotKey {
	return LotKey{
		ProductID:   l.ProductID,
		ContainerID: l.ContainerID,
		ExpiryDate:  l.ExpiryDate,
		StateID:     l.StateID,
	}
}

// Packages devuelve el número de empaques completos: floor(cantidad / tamaño de empaque).
func (l *Lot) Packages() int64 {
	if !l.PackagingUnitSize.IsPositive() {
		return 0
	}
	return l.Quantity.Div(l.PackagingUnitSize).Floor().IntPart()
}

// LotKey clave compuesta de un lote. Dos lotes se fusionan solo si producto, contenedor,
// fecha de vencimiento (o ambas nulas) y estado (o ambos nulos) coinciden.
type LotKey struct {
	ProductID   string
	ContainerID string
	ExpiryDate  *time.Time
	StateID     *string
}

// Equal compara dos claves. Las fechas se comparan por día calendario.
func (k LotKey) Equal(o LotKey) bool {
	if k.ProductID != o.ProductID || k.ContainerID != o.ContainerID {
		return false
	}
	if !SameDate(k.ExpiryDate, o.ExpiryDate) {
		return false
	}
	switch {
	case k.StateID == nil && o.StateID == nil:
		return true
	case k.StateID == nil || o.StateID == nil:
		return false
	default:
		return *k.StateID == *o.StateID
	}
}

// SameDate compara dos fechas opcionales por día calendario (UTC). Nil solo es igual a nil.
func SameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly trunca una fecha opcional al día (UTC).
func DateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &day
}
