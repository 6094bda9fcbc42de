package entity

import "strings"

// Direcciones de movimiento.
const (
	DirectionEntry = "entrada"
	DirectionExit  = "salida"
)

// Motivos predefinidos por dirección.
const (
	ReasonPurchase    = "Compra"
	ReasonAdjustment  = "Ajuste de inventario"
	ReasonTransferIn  = "Transferencia-entrada"
	ReasonWithdrawal  = "Retiro de contenedor"
	ReasonTransferOut = "Transferencia-salida"
)

var reasonVocabulary = map[string][]string{
	DirectionEntry: {ReasonPurchase, ReasonAdjustment, ReasonTransferIn},
	DirectionExit:  {ReasonWithdrawal, ReasonAdjustment, ReasonTransferOut},
}

// Reason representa un motivo de movimiento (motivo_movimiento).
type Reason struct {
	ID        string
	Name      string
	Direction string
}

// ValidDirection indica si d es "entrada" o "salida".
func ValidDirection(d string) bool {
	return d == DirectionEntry || d == DirectionExit
}

// ReasonsFor devuelve el vocabulario de motivos de una dirección.
func ReasonsFor(direction string) []string {
	out := make([]string, len(reasonVocabulary[direction]))
	copy(out, reasonVocabulary[direction])
	return out
}

// CanonicalReason busca name (sin distinguir mayúsculas) en el vocabulario de la dirección
// y devuelve su forma canónica.
func CanonicalReason(direction, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, r := range reasonVocabulary[direction] {
		if strings.EqualFold(r, name) {
			return r, true
		}
	}
	return "", false
}
