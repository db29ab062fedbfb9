package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo implementación de StockPositionRepository sobre PostgreSQL (usable con pool o tx).
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

// Get obtiene la posición de un producto; nil si no hubo inicio de stock.
func (r *StockPositionRepo) Get(ctx context.Context, productID int64) (*entity.StockPosition, error) {
	return r.get(ctx, `
		SELECT product_id, quantity, unit_price
		FROM stock_positions WHERE product_id = $1`, productID)
}

// GetForUpdate obtiene la posición y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StockPositionRepo) GetForUpdate(ctx context.Context, productID int64) (*entity.StockPosition, error) {
	return r.get(ctx, `
		SELECT product_id, quantity, unit_price
		FROM stock_positions WHERE product_id = $1
		FOR UPDATE`, productID)
}

func (r *StockPositionRepo) get(ctx context.Context, query string, productID int64) (*entity.StockPosition, error) {
	var p entity.StockPosition
	err := r.q.QueryRow(ctx, query, productID).Scan(&p.ProductID, &p.Quantity, &p.UnitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock position: %w", err)
	}
	return &p, nil
}

// Insert crea la posición inicial. Una posición duplicada es domain.ErrConstraint.
func (r *StockPositionRepo) Insert(ctx context.Context, position *entity.StockPosition) (*entity.StockPosition, error) {
	query := `
		INSERT INTO stock_positions (product_id, quantity, unit_price)
		VALUES ($1, $2, $3)
		RETURNING product_id, quantity, unit_price`
	var p entity.StockPosition
	err := r.q.QueryRow(ctx, query, position.ProductID, position.Quantity, position.UnitPrice).
		Scan(&p.ProductID, &p.Quantity, &p.UnitPrice)
	if err != nil {
		return nil, classifyError("insert stock position", err)
	}
	return &p, nil
}

// Update fija cantidad y precio unitario. Corre en un savepoint para que un CHECK violado
// no aborte la transacción del llamador, que todavía debe deshacer el movimiento.
func (r *StockPositionRepo) Update(ctx context.Context, productID int64, quantity, unitPrice decimal.Decimal) (*entity.StockPosition, error) {
	query := `
		UPDATE stock_positions SET quantity = $2, unit_price = $3
		WHERE product_id = $1
		RETURNING product_id, quantity, unit_price`
	var p entity.StockPosition
	err := withSavepoint(ctx, r.q, func(q Querier) error {
		return q.QueryRow(ctx, query, productID, quantity, unitPrice).Scan(&p.ProductID, &p.Quantity, &p.UnitPrice)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("posição de estoque do produto %d não encontrada", productID)
		}
		return nil, classifyError("update stock position", err)
	}
	return &p, nil
}

// ListWithProducts une posiciones con el catálogo, ordenadas por producto.
func (r *StockPositionRepo) ListWithProducts(ctx context.Context, limit int) ([]*entity.PositionView, error) {
	query := `
		SELECT s.product_id, p.description, p.output_unit, s.quantity, s.unit_price
		FROM stock_positions s
		JOIN products p ON p.id = s.product_id
		ORDER BY s.product_id
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock positions: %w", err)
	}
	defer rows.Close()

	var list []*entity.PositionView
	for rows.Next() {
		var v entity.PositionView
		if err := rows.Scan(&v.ProductID, &v.Description, &v.OutputUnit, &v.Quantity, &v.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
