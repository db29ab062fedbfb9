package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Insert registra el movimiento y devuelve el ID asignado. Sin posición para el producto
// la FK falla con domain.ErrConstraint.
func (r *StockMovementRepo) Insert(ctx context.Context, movement *entity.StockMovement) (*entity.StockMovement, error) {
	query := `
		INSERT INTO stock_movements (product_id, document, quantity, unit_price, freight_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	m := *movement
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.Document, m.Quantity, m.UnitPrice, m.FreightPrice, m.Timestamp,
	).Scan(&m.ID)
	if err != nil {
		return nil, classifyError("insert stock movement", err)
	}
	return &m, nil
}

// Delete elimina el movimiento (rollback por borrado).
func (r *StockMovementRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("movimento de estoque %d não encontrado", id)
	}
	return nil
}

// List ordena por timestamp descendente (id como desempate).
func (r *StockMovementRepo) List(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	switch filter.Direction {
	case entity.DirectionIn:
		where = append(where, "quantity >= 0")
	case entity.DirectionOut:
		where = append(where, "quantity < 0")
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	args = append(args, filter.Limit)

	var sb strings.Builder
	sb.WriteString(`SELECT id, product_id, document, quantity, unit_price, freight_price, created_at FROM stock_movements`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Document, &m.Quantity, &m.UnitPrice, &m.FreightPrice, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Timestamp = m.Timestamp.UTC()
		list = append(list, &m)
	}
	return list, rows.Err()
}
