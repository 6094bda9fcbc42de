package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los mensajes son aptos para mostrarse directamente al usuario.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Motor de lotes y movimientos
	ErrInsufficientStock         = errors.New("stock insuficiente")
	ErrNoLotSelected             = errors.New("debe seleccionar un lote: existen varios lotes del producto en el contenedor")
	ErrCannotEditLegacyMovement  = errors.New("el movimiento no tiene lote asociado y no existe un lote para revertirlo")
	ErrOrphanedLot               = errors.New("el lote afectado por el movimiento ya no existe")
	ErrAlreadyCancelled          = errors.New("el movimiento ya fue anulado")
	ErrCancellationWindowExpired = errors.New("el plazo para anular el movimiento expiró")
)
