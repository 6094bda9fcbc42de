package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ContainerRepository puerto de lectura de contenedores.
type ContainerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Container, error)
}
