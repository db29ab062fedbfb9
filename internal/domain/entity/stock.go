package entity

import "github.com/shopspring/decimal"

// Escalas admitidas por las columnas NUMERIC de stock.
const (
	QuantityScale = 3 // NUMERIC(12,3)
	PriceScale    = 4 // NUMERIC(13,4)
)

// StockPosition es la posición actual de stock de un producto (una fila por producto).
// Quantity nunca es negativa y UnitPrice siempre es mayor que cero.
type StockPosition struct {
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// PositionView combina la posición con los datos descriptivos del catálogo.
type PositionView struct {
	ProductID   int64
	Description string
	OutputUnit  string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// FitsScale indica si d no tiene más dígitos fraccionarios que scale.
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}
