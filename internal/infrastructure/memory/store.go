// Package memory implementa los repositorios del motor de lotes en memoria.
// Sirve como driver de desarrollo (DB_DRIVER=memory) y como base de los tests.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

type state struct {
	products   map[string]*entity.Product
	containers map[string]*entity.Container
	lots       map[string]*entity.Lot
	reasons    map[string]*entity.Reason
	movements  map[string]*entity.Movement
	order      []string // ids de movimientos en orden de inserción
}

func newState() *state {
	return &state{
		products:   map[string]*entity.Product{},
		containers: map[string]*entity.Container{},
		lots:       map[string]*entity.Lot{},
		reasons:    map[string]*entity.Reason{},
		movements:  map[string]*entity.Movement{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = cloneProduct(v)
	}
	for k, v := range s.containers {
		cp := *v
		c.containers[k] = &cp
	}
	for k, v := range s.lots {
		c.lots[k] = cloneLot(v)
	}
	for k, v := range s.reasons {
		cp := *v
		c.reasons[k] = &cp
	}
	for k, v := range s.movements {
		c.movements[k] = cloneMovement(v)
	}
	c.order = append([]string(nil), s.order...)
	return c
}

// Store guarda el estado completo y actúa como TxRunner.
// Una transacción trabaja sobre una copia y la publica solo si fn termina sin error;
// las transacciones se serializan, lo que equivale al bloqueo por par de PostgreSQL.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

var _ inventory.TxRunner = (*Store)(nil)

// Run ejecuta fn con repositorios sobre una copia del estado; confirma si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(tx inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(view{tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma el candado del almacén).
func (s *Store) Repos() inventory.Repos {
	return reposFor(view{store: s})
}

// PutProduct registra o reemplaza un producto; el catálogo vive fuera de este servicio.
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = cloneProduct(p)
}

// PutContainer registra o reemplaza un contenedor.
func (s *Store) PutContainer(c *entity.Container) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.st.containers[c.ID] = &cp
}

// PutLot carga un lote tal cual (datos migrados).
func (s *Store) PutLot(l *entity.Lot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.lots[l.ID] = cloneLot(l)
}

// PutMovement carga un movimiento tal cual (datos migrados, p. ej. sin lote_id).
func (s *Store) PutMovement(m *entity.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.movements[m.ID]; !ok {
		s.st.order = append(s.st.order, m.ID)
	}
	s.st.movements[m.ID] = cloneMovement(m)
}

// DeleteLot elimina la fila del lote (solo para reproducir datos inconsistentes).
func (s *Store) DeleteLot(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.st.lots, id)
}

// view resuelve el estado a usar: el de la transacción o el del almacén con su candado.
type view struct {
	store *Store
	tx    *state
}

func (v view) read() (*state, func()) {
	if v.tx != nil {
		return v.tx, func() {}
	}
	v.store.mu.RLock()
	return v.store.st, v.store.mu.RUnlock
}

func (v view) write() (*state, func()) {
	if v.tx != nil {
		return v.tx, func() {}
	}
	v.store.mu.Lock()
	return v.store.st, v.store.mu.Unlock
}

func reposFor(v view) inventory.Repos {
	return inventory.Repos{
		Lots:       &LotRepo{v: v},
		Movements:  &MovementRepo{v: v},
		Reasons:    &ReasonRepo{v: v},
		Products:   &ProductRepo{v: v},
		Containers: &ContainerRepo{v: v},
	}
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.UnitsPerCase != nil {
		n := *p.UnitsPerCase
		cp.UnitsPerCase = &n
	}
	return &cp
}

func cloneLot(l *entity.Lot) *entity.Lot {
	cp := *l
	cp.ExpiryDate = cloneTime(l.ExpiryDate)
	cp.StateID = cloneString(l.StateID)
	return &cp
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	cp := *m
	cp.LotID = cloneString(m.LotID)
	cp.CancelledAt = cloneTime(m.CancelledAt)
	return &cp
}
