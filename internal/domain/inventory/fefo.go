package inventory

import (
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SortFEFO ordena lotes por vencimiento ascendente (first-expire-first-out).
// Los lotes sin vencimiento van al final; empates por fecha de creación e ID.
func SortFEFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		return fefoLess(lots[i], lots[j])
	})
}

func fefoLess(a, b *entity.Lot) bool {
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate != nil:
		return false
	case a.ExpiryDate != nil && b.ExpiryDate == nil:
		return true
	case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
		return a.ExpiryDate.Before(*b.ExpiryDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
