package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitiateStockRequest body para POST /api/stock.
type InitiateStockRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ApplyMovementRequest body para POST /api/stock/movements.
// Quantity positiva = entrada, negativa = salida. FreightPrice omitido = 0.
type ApplyMovementRequest struct {
	ProductID    int64            `json:"product_id" validate:"required,gt=0"`
	Document     string           `json:"document" validate:"max=255"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	FreightPrice *decimal.Decimal `json:"freight_price,omitempty"`
}

// MovementListQuery filtros de GET /api/stock/movements.
type MovementListQuery struct {
	Limit     int    `query:"limit" validate:"min=0"`
	Direction string `query:"direction" validate:"omitempty,oneof=in out"`
	ProductID int64  `query:"product_id" validate:"min=0"`
}

// StockPositionResponse posición de stock de un producto.
type StockPositionResponse struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PositionViewResponse posición unida a los datos del catálogo.
type PositionViewResponse struct {
	ProductID   int64           `json:"product_id"`
	Description string          `json:"description"`
	OutputUnit  string          `json:"output_unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// StockMovementResponse movimiento del libro.
type StockMovementResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	Document     string          `json:"document"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	FreightPrice decimal.Decimal `json:"freight_price"`
	Timestamp    time.Time       `json:"timestamp"`
}

// AuditEntryResponse registro de la bitácora.
type AuditEntryResponse struct {
	ID          int64     `json:"id"`
	Table       string    `json:"table"`
	Actor       string    `json:"actor"`
	Operation   string    `json:"operation"`
	Timestamp   time.Time `json:"timestamp"`
	Description *string   `json:"description,omitempty"`
}
