package inventory

import (
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementQuantity normaliza la cantidad de un movimiento.
// Para productos por caja, packages es el número de cajas y la cantidad es cajas × unidades por caja;
// si además se envía quantity, debe coincidir. Para el resto se usa quantity tal cual.
func MovementQuantity(product *entity.Product, quantity decimal.Decimal, packages int) (decimal.Decimal, error) {
	if packages < 0 {
		return decimal.Zero, fmt.Errorf("%w: el número de empaques no puede ser negativo", domain.ErrInvalidInput)
	}
	if product.IsCasePackaged() && packages > 0 {
		total := decimal.NewFromInt(int64(packages)).Mul(decimal.NewFromInt(int64(*product.UnitsPerCase)))
		if !quantity.IsZero() && !quantity.Equal(total) {
			return decimal.Zero, fmt.Errorf("%w: la cantidad no coincide con %d cajas de %d unidades",
				domain.ErrInvalidInput, packages, *product.UnitsPerCase)
		}
		quantity = total
	}
	if !quantity.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	return quantity, nil
}

// PackagingUnitSize calcula la cantidad por empaque de un lote.
// Productos por caja: siempre unidades por caja. Resto: quantity / packages, donde packages
// es el número de empaques en que el usuario divide la entrada (entero positivo).
// packages == 0 significa "no informado"; el llamador decide si conserva el tamaño previo.
func PackagingUnitSize(product *entity.Product, quantity decimal.Decimal, packages int) (decimal.Decimal, error) {
	if product.IsCasePackaged() {
		return decimal.NewFromInt(int64(*product.UnitsPerCase)), nil
	}
	if packages <= 0 {
		return decimal.Zero, fmt.Errorf("%w: el número de empaques debe ser un entero positivo", domain.ErrInvalidInput)
	}
	return quantity.Div(decimal.NewFromInt(int64(packages))), nil
}
