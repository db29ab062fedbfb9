package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

func TestParseOperationKind(t *testing.T) {
	for _, v := range []int16{0, 1, 2} {
		op, err := entity.ParseOperationKind(v)
		require.NoError(t, err)
		assert.Equal(t, entity.OperationKind(v), op)
	}
	_, err := entity.ParseOperationKind(3)
	assert.ErrorIs(t, err, domain.ErrStorageCorruption)
}

func TestNewAuditEntry(t *testing.T) {
	e := entity.NewAuditEntry(entity.AuditTableStock, "", entity.OperationUpdate, "")
	assert.Equal(t, entity.ActorSystem, e.Actor)
	assert.Nil(t, e.Description)
	assert.Equal(t, "update", e.Operation.String())

	e = entity.NewAuditEntry(entity.AuditTableStockMovement, "maria", entity.OperationDelete, "Rollback de movimento de estoque 3")
	assert.Equal(t, "maria", e.Actor)
	require.NotNil(t, e.Description)
	assert.Equal(t, "Rollback de movimento de estoque 3", *e.Description)
}

func TestFitsScale(t *testing.T) {
	assert.True(t, entity.FitsScale(decimal.RequireFromString("1.123"), entity.QuantityScale))
	assert.False(t, entity.FitsScale(decimal.RequireFromString("1.1234"), entity.QuantityScale))
	assert.True(t, entity.FitsScale(decimal.RequireFromString("1.1230"), entity.QuantityScale))
	assert.True(t, entity.FitsScale(decimal.RequireFromString("-0.0001"), entity.PriceScale))
}

func TestMovementFilter_Matches(t *testing.T) {
	in := &entity.StockMovement{ProductID: 1, Quantity: decimal.Zero}
	out := &entity.StockMovement{ProductID: 2, Quantity: decimal.NewFromInt(-1)}

	assert.True(t, entity.MovementFilter{Direction: entity.DirectionIn}.Matches(in))
	assert.False(t, entity.MovementFilter{Direction: entity.DirectionIn}.Matches(out))
	assert.True(t, entity.MovementFilter{Direction: entity.DirectionOut}.Matches(out))

	id := int64(2)
	assert.False(t, entity.MovementFilter{ProductID: &id}.Matches(in))
	assert.True(t, entity.MovementFilter{ProductID: &id}.Matches(out))

	assert.False(t, entity.MovementDirection("x").Valid())
}

func TestNormalizeOutputUnit(t *testing.T) {
	assert.Equal(t, "KG", entity.NormalizeOutputUnit(" kg "))
}
