package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	inv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// KardexQuery filtros del kardex. ContainerID nil = todos los contenedores.
type KardexQuery struct {
	ProductID   string
	ContainerID *string
	From        *time.Time
	To          *time.Time
}

// KardexUseCase calcula el kardex (saldo acumulado) de un producto.
type KardexUseCase struct {
	repos Repos
	pdf   KardexPDFGenerator
}

// NewKardexUseCase construye el caso de uso. pdf puede ser nil si no se exporta.
func NewKardexUseCase(repos Repos, pdf KardexPDFGenerator) *KardexUseCase {
	return &KardexUseCase{repos: repos, pdf: pdf}
}

// GetKardex recorre los movimientos no anulados en orden cronológico acumulando entrada - salida.
func (uc *KardexUseCase) GetKardex(ctx context.Context, q KardexQuery) ([]entity.KardexEntry, error) {
	if _, _, err := uc.load(ctx, q); err != nil {
		return nil, err
	}
	return uc.entries(ctx, q)
}

// KardexPDF genera el kardex en PDF.
func (uc *KardexUseCase) KardexPDF(ctx context.Context, q KardexQuery) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador de PDF no configurado")
	}
	product, container, err := uc.load(ctx, q)
	if err != nil {
		return nil, err
	}
	entries, err := uc.entries(ctx, q)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateKardexPDF(ctx, product, container, entries)
}

func (uc *KardexUseCase) load(ctx context.Context, q KardexQuery) (*entity.Product, *entity.Container, error) {
	if q.ProductID == "" {
		return nil, nil, fmt.Errorf("%w: producto es obligatorio", domain.ErrInvalidInput)
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, nil, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrInvalidInput)
	}
	product, err := uc.repos.Products.GetByID(ctx, q.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, q.ProductID)
	}
	var container *entity.Container
	if q.ContainerID != nil {
		container, err = uc.repos.Containers.GetByID(ctx, *q.ContainerID)
		if err != nil {
			return nil, nil, err
		}
		if container == nil {
			return nil, nil, fmt.Errorf("%w: contenedor %s", domain.ErrNotFound, *q.ContainerID)
		}
	}
	return product, container, nil
}

func (uc *KardexUseCase) entries(ctx context.Context, q KardexQuery) ([]entity.KardexEntry, error) {
	productID := q.ProductID
	movements, err := uc.repos.Movements.List(ctx, repository.MovementFilter{
		ProductID:   &productID,
		ContainerID: q.ContainerID,
		From:        q.From,
		To:          q.To,
		Ascending:   true,
	})
	if err != nil {
		return nil, err
	}
	return inv.BuildKardex(movements), nil
}
