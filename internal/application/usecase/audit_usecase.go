package usecase

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// AuditUseCase consulta de la bitácora de cambios.
type AuditUseCase struct {
	repo repository.AuditRepository
}

func NewAuditUseCase(repo repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// List devuelve las últimas entradas, de la más reciente a la más antigua.
func (uc *AuditUseCase) List(ctx context.Context, limit int) ([]dto.AuditEntryResponse, error) {
	list, err := uc.repo.List(ctx, clampLimit(limit))
	if err != nil {
		if domain.KindOf(err) == domain.KindStorageCorruption {
			return nil, err
		}
		return nil, domain.Internal("Erro interno ao consultar auditoria.", err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.AuditEntryResponse{
			ID:          e.ID,
			Table:       e.Table,
			Actor:       e.Actor,
			Operation:   e.Operation.String(),
			Timestamp:   e.Timestamp,
			Description: e.Description,
		})
	}
	return out, nil
}
