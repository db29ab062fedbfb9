package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos (append-only).
type StockMovementRepository interface {
	// Insert asigna ID y devuelve el movimiento persistido. Falla con domain.ErrConstraint
	// si el producto no tiene posición.
	Insert(ctx context.Context, movement *entity.StockMovement) (*entity.StockMovement, error)
	// Delete solo se usa para deshacer un Insert de la misma transacción.
	Delete(ctx context.Context, id int64) error
	// List ordena por timestamp descendente.
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error)
}
