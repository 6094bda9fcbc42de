package inventory

import (
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BuildKardex recorre los movimientos no anulados en orden cronológico y acumula
// entrada - salida en el saldo. El saldo inicia en cero sobre el conjunto recibido.
func BuildKardex(movements []*entity.Movement) []entity.KardexEntry {
	active := make([]*entity.Movement, 0, len(movements))
	for _, m := range movements {
		if m.IsActive() {
			active = append(active, m)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Date.Before(active[j].Date)
	})

	entries := make([]entity.KardexEntry, 0, len(active))
	balance := decimal.Zero
	for _, m := range active {
		e := entity.KardexEntry{
			MovementID:  m.ID,
			Date:        m.Date,
			ContainerID: m.ContainerID,
			LotID:       m.LotID,
			Reason:      m.ReasonName,
			Direction:   m.Direction,
			Entry:       decimal.Zero,
			Exit:        decimal.Zero,
			UnitPrice:   m.UnitPrice,
			Observation: m.Observation,
		}
		if m.IsEntry() {
			e.Entry = m.Quantity
		} else {
			e.Exit = m.Quantity
		}
		balance = balance.Add(e.Entry).Sub(e.Exit)
		e.Balance = balance
		entries = append(entries, e)
	}
	return entries
}
