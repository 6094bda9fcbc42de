package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos (el catálogo los administra).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
