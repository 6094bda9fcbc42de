package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	inv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LotRepo implementa repository.LotRepository.
type LotRepo struct{ v view }

var _ repository.LotRepository = (*LotRepo)(nil)

// LockPair no hace nada: Store.Run ya serializa las transacciones.
func (r *LotRepo) LockPair(ctx context.Context, productID, containerID string) error {
	return ctx.Err()
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	st, done := r.v.read()
	defer done()
	l, ok := st.lots[id]
	if !ok {
		return nil, nil
	}
	return cloneLot(l), nil
}

func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, id)
}

func (r *LotRepo) FindMatching(ctx context.Context, key entity.LotKey) (*entity.Lot, error) {
	st, done := r.v.read()
	defer done()
	var matches []*entity.Lot
	for _, l := range st.lots {
		if l.Visible && l.Key().Equal(key) {
			matches = append(matches, l)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	inv.SortFEFO(matches)
	return cloneLot(matches[0]), nil
}

func (r *LotRepo) ListByPair(ctx context.Context, productID, containerID string) ([]*entity.Lot, error) {
	return r.list(func(l *entity.Lot) bool {
		return l.ProductID == productID && l.ContainerID == containerID
	}), nil
}

func (r *LotRepo) ListExpiring(ctx context.Context, before time.Time) ([]*entity.Lot, error) {
	return r.list(func(l *entity.Lot) bool {
		return l.ExpiryDate != nil && !l.ExpiryDate.After(before)
	}), nil
}

func (r *LotRepo) list(match func(*entity.Lot) bool) []*entity.Lot {
	st, done := r.v.read()
	defer done()
	out := make([]*entity.Lot, 0)
	for _, l := range st.lots {
		if l.Visible && match(l) {
			out = append(out, cloneLot(l))
		}
	}
	inv.SortFEFO(out)
	return out
}

func (r *LotRepo) Upsert(ctx context.Context, lot *entity.Lot) error {
	st, done := r.v.write()
	defer done()
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	st.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (r *LotRepo) SoftDelete(ctx context.Context, id string) error {
	st, done := r.v.write()
	defer done()
	l, ok := st.lots[id]
	if !ok {
		return nil
	}
	l.Visible = false
	l.Quantity = decimal.Zero
	l.UpdatedAt = time.Now()
	return nil
}

// MovementRepo implementa repository.MovementRepository.
type MovementRepo struct{ v view }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	st, done := r.v.write()
	defer done()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if _, ok := st.movements[m.ID]; !ok {
		st.order = append(st.order, m.ID)
	}
	st.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	st, done := r.v.read()
	defer done()
	m, ok := st.movements[id]
	if !ok {
		return nil, nil
	}
	return cloneMovement(m), nil
}

func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	st, done := r.v.write()
	defer done()
	if _, ok := st.movements[m.ID]; !ok {
		return domain.ErrNotFound
	}
	st.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	st, done := r.v.read()
	defer done()
	out := make([]*entity.Movement, 0)
	for _, id := range st.order {
		m := st.movements[id]
		switch {
		case f.ProductID != nil && m.ProductID != *f.ProductID:
			continue
		case f.ContainerID != nil && m.ContainerID != *f.ContainerID:
			continue
		case f.From != nil && m.Date.Before(*f.From):
			continue
		case f.To != nil && m.Date.After(*f.To):
			continue
		case !f.IncludeCancelled && !m.IsActive():
			continue
		}
		out = append(out, cloneMovement(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Ascending {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*entity.Movement{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

// ReasonRepo implementa repository.ReasonRepository.
type ReasonRepo struct{ v view }

var _ repository.ReasonRepository = (*ReasonRepo)(nil)

func (r *ReasonRepo) Upsert(ctx context.Context, name, direction string) (*entity.Reason, error) {
	st, done := r.v.write()
	defer done()
	for _, rs := range st.reasons {
		if rs.Name == name && rs.Direction == direction {
			cp := *rs
			return &cp, nil
		}
	}
	rs := &entity.Reason{ID: uuid.New().String(), Name: name, Direction: direction}
	st.reasons[rs.ID] = rs
	cp := *rs
	return &cp, nil
}

func (r *ReasonRepo) GetByID(ctx context.Context, id string) (*entity.Reason, error) {
	st, done := r.v.read()
	defer done()
	rs, ok := st.reasons[id]
	if !ok {
		return nil, nil
	}
	cp := *rs
	return &cp, nil
}

// Count devuelve cuántos motivos hay registrados.
func (r *ReasonRepo) Count() int {
	st, done := r.v.read()
	defer done()
	return len(st.reasons)
}

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ v view }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	st, done := r.v.read()
	defer done()
	p, ok := st.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

// ContainerRepo implementa repository.ContainerRepository.
type ContainerRepo struct{ v view }

var _ repository.ContainerRepository = (*ContainerRepo)(nil)

func (r *ContainerRepo) GetByID(ctx context.Context, id string) (*entity.Container, error) {
	st, done := r.v.read()
	defer done()
	c, ok := st.containers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
