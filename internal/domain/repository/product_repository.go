package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// ProductRepository define el puerto del catálogo de productos (DIP).
type ProductRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) (*entity.Product, error)
	List(ctx context.Context, limit int) ([]*entity.Product, error)
}
