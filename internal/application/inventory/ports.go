package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Puede reintentar fn completo ante
// fallas de serialización, por lo que fn no debe tener efectos fuera de los repositorios.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		positionRepo repository.StockPositionRepository,
		movementRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// PositionCache caché de lectura de posiciones (cache-aside).
type PositionCache interface {
	// Get devuelve ok=false ante un miss.
	Get(ctx context.Context, productID int64) (pos *entity.StockPosition, ok bool, err error)
	Set(ctx context.Context, position *entity.StockPosition) error
	Invalidate(ctx context.Context, productID int64) error
}

// EventPublisher notifica cambios de stock ya confirmados.
type EventPublisher interface {
	PublishStockInitiated(ctx context.Context, position *entity.StockPosition) error
	PublishMovementApplied(ctx context.Context, movement *entity.StockMovement) error
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (*entity.StockPosition, bool, error) {
	return nil, false, nil
}
func (noopCache) Set(context.Context, *entity.StockPosition) error { return nil }
func (noopCache) Invalidate(context.Context, int64) error          { return nil }

type noopPublisher struct{}

func (noopPublisher) PublishStockInitiated(context.Context, *entity.StockPosition) error  { return nil }
func (noopPublisher) PublishMovementApplied(context.Context, *entity.StockMovement) error { return nil }
