package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ProductUseCase casos de uso del catálogo. El stock se maneja solo vía movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	auditRepo repository.AuditRepository
	log       zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, auditRepo repository.AuditRepository, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, auditRepo: auditRepo, log: log}
}

// Create crea un producto. La unidad de salida se guarda en mayúsculas.
func (uc *ProductUseCase) Create(ctx context.Context, actor string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.Create(ctx, &entity.Product{
		Description: in.Description,
		OutputUnit:  entity.NormalizeOutputUnit(in.OutputUnit),
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindConstraint {
			return nil, &domain.Error{Kind: domain.KindSemantic, Message: domain.MessageOf(err), Err: err}
		}
		return nil, domain.Internal("Erro interno ao cadastrar produto.", err)
	}
	entry := entity.NewAuditEntry(entity.AuditTableProduct, actor, entity.OperationInsert,
		fmt.Sprintf("Cadastro do produto %d", product.ID))
	if _, err := uc.auditRepo.Record(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Int64("product_id", product.ID).Msg("registrar auditoría de producto")
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("Erro interno ao consultar produto.", err)
	}
	return toProductResponse(product), nil
}

// List lista productos ordenados por ID.
func (uc *ProductUseCase) List(ctx context.Context, limit int) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, clampLimit(limit))
	if err != nil {
		return nil, domain.Internal("Erro interno ao listar produtos.", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Description: p.Description,
		OutputUnit:  p.OutputUnit,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
