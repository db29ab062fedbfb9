package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de cambios (tabla audit_log).
type AuditRepo struct {
	q Querier
}

func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Record inserta la entrada en un savepoint: una falla no invalida la transacción del llamador.
func (r *AuditRepo) Record(ctx context.Context, entry *entity.AuditEntry) (int64, error) {
	query := `
		INSERT INTO audit_log (table_name, actor, operation, created_at, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int64
	err := withSavepoint(ctx, r.q, func(q Querier) error {
		return q.QueryRow(ctx, query,
			entry.Table, entry.Actor, int16(entry.Operation), entry.Timestamp, entry.Description,
		).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("insert audit entry: %w", err)
	}
	return id, nil
}

// List devuelve las últimas entradas. Una operación desconocida en la tabla es domain.ErrStorageCorruption.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, table_name, actor, operation, created_at, description
		FROM audit_log
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditEntry
	for rows.Next() {
		var (
			e  entity.AuditEntry
			op int16
		)
		if err := rows.Scan(&e.ID, &e.Table, &e.Actor, &op, &e.Timestamp, &e.Description); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if e.Operation, err = entity.ParseOperationKind(op); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		list = append(list, &e)
	}
	return list, rows.Err()
}
