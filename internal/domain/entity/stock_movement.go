package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection filtra movimientos por sentido.
type MovementDirection string

const (
	DirectionAll MovementDirection = ""
	DirectionIn  MovementDirection = "in"  // quantity >= 0
	DirectionOut MovementDirection = "out" // quantity < 0
)

// Valid indica si la dirección es uno de los valores conocidos.
func (d MovementDirection) Valid() bool {
	return d == DirectionAll || d == DirectionIn || d == DirectionOut
}

// StockMovement es una entrada del libro de movimientos (append-only).
// Quantity positiva = entrada, negativa = salida.
type StockMovement struct {
	ID           int64
	ProductID    int64
	Document     string // referencia externa, p. ej. número de nota fiscal
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal // nuevo precio unitario que pasa a regir
	FreightPrice decimal.Decimal
	Timestamp    time.Time
}

// MovementFilter parámetros de listado del libro.
type MovementFilter struct {
	Limit     int
	Direction MovementDirection
	ProductID *int64
}

// Matches aplica el filtro en memoria (mismo criterio que el SQL).
func (f MovementFilter) Matches(m *StockMovement) bool {
	if f.ProductID != nil && *f.ProductID != m.ProductID {
		return false
	}
	switch f.Direction {
	case DirectionIn:
		return !m.Quantity.IsNegative()
	case DirectionOut:
		return m.Quantity.IsNegative()
	}
	return true
}
