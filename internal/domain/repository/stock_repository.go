package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockPositionRepository define el puerto de la posición de stock (una fila por producto).
// Usado dentro de transacciones para garantizar consistencia con el libro de movimientos.
type StockPositionRepository interface {
	// Get devuelve nil, nil si no hubo inicio de stock para el producto.
	Get(ctx context.Context, productID int64) (*entity.StockPosition, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID int64) (*entity.StockPosition, error)
	// Insert falla con domain.ErrConstraint si ya existe posición para el producto.
	Insert(ctx context.Context, position *entity.StockPosition) (*entity.StockPosition, error)
	// Update falla con domain.ErrNotFound si no existe y con domain.ErrConstraint si el
	// almacenamiento rechaza los valores. Una falla no invalida la transacción en curso.
	Update(ctx context.Context, productID int64, quantity, unitPrice decimal.Decimal) (*entity.StockPosition, error)
	// ListWithProducts une posiciones con el catálogo, como máximo limit filas.
	ListWithProducts(ctx context.Context, limit int) ([]*entity.PositionView, error)
}
