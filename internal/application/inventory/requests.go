package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// InitiateStockFromRequest adapta el body HTTP al caso de uso.
func (uc *StockControlUseCase) InitiateStockFromRequest(ctx context.Context, actor string, in dto.InitiateStockRequest) (*dto.StockPositionResponse, error) {
	pos, err := uc.InitiateStock(ctx, InitiateStockInput{
		Actor:     actor,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	})
	if err != nil {
		return nil, err
	}
	return ToPositionResponse(pos), nil
}

// ApplyMovementFromRequest adapta el body HTTP al caso de uso.
func (uc *StockControlUseCase) ApplyMovementFromRequest(ctx context.Context, actor string, in dto.ApplyMovementRequest) (*dto.StockMovementResponse, error) {
	mov, err := uc.ApplyMovement(ctx, ApplyMovementInput{
		Actor:        actor,
		ProductID:    in.ProductID,
		Document:     in.Document,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		FreightPrice: in.FreightPrice,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// ListPositionsView lista posiciones como DTOs.
func (uc *StockControlUseCase) ListPositionsView(ctx context.Context, limit int) ([]dto.PositionViewResponse, error) {
	list, err := uc.ListPositions(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PositionViewResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PositionViewResponse{
			ProductID:   p.ProductID,
			Description: p.Description,
			OutputUnit:  p.OutputUnit,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
		})
	}
	return out, nil
}

// ListMovementsView lista movimientos como DTOs a partir de los parámetros de query.
func (uc *StockControlUseCase) ListMovementsView(ctx context.Context, q dto.MovementListQuery) ([]dto.StockMovementResponse, error) {
	filter := entity.MovementFilter{
		Limit:     q.Limit,
		Direction: entity.MovementDirection(q.Direction),
	}
	if q.ProductID > 0 {
		id := q.ProductID
		filter.ProductID = &id
	}
	list, err := uc.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out, nil
}

func ToPositionResponse(p *entity.StockPosition) *dto.StockPositionResponse {
	if p == nil {
		return nil
	}
	return &dto.StockPositionResponse{
		ProductID: p.ProductID,
		Quantity:  p.Quantity,
		UnitPrice: p.UnitPrice,
	}
}

func ToMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	if m == nil {
		return nil
	}
	return &dto.StockMovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Document:     m.Document,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		FreightPrice: m.FreightPrice,
		Timestamp:    m.Timestamp,
	}
}
