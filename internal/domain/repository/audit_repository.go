package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// AuditRepository bitácora de cambios. Record no debe invalidar la transacción
// del llamador cuando falla.
type AuditRepository interface {
	Record(ctx context.Context, entry *entity.AuditEntry) (int64, error)
	List(ctx context.Context, limit int) ([]*entity.AuditEntry, error)
}
