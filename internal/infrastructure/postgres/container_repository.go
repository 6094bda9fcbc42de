package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ContainerRepository = (*ContainerRepo)(nil)

// ContainerRepo lectura de contenedores.
type ContainerRepo struct {
	q Querier
}

// NewContainerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContainerRepository(q Querier) *ContainerRepo {
	return &ContainerRepo{q: q}
}

// GetByID obtiene un contenedor por ID.
func (r *ContainerRepo) GetByID(ctx context.Context, id string) (*entity.Container, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT id, nombre, tipo, capacidad, ubicacion, created_at, updated_at
		FROM contenedor WHERE id = $1`
	var c entity.Container
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Type, &c.Capacity, &c.Location, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contenedor: %w", err)
	}
	return &c, nil
}
