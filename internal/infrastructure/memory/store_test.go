package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

func TestTxRunner_ErrorRestauraSnapshot(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.Products().Create(ctx, &entity.Product{Description: "Café", OutputUnit: "KG"})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = memory.NewTxRunner(s).Run(ctx, func(
		positions repository.StockPositionRepository,
		movements repository.StockMovementRepository,
		_ repository.ProductRepository,
		audit repository.AuditRepository,
	) error {
		_, err := positions.Insert(ctx, &entity.StockPosition{ProductID: 1, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)})
		require.NoError(t, err)
		_, err = audit.Record(ctx, entity.NewAuditEntry(entity.AuditTableStock, "", entity.OperationInsert, ""))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	pos, err := s.Positions().Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, pos)
	entries, err := s.Audit().List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(
		repository.StockPositionRepository,
		repository.StockMovementRepository,
		repository.ProductRepository,
		repository.AuditRepository,
	) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPositions_RestriccionesDeAlmacenamiento(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.Products().Create(ctx, &entity.Product{Description: "Arroz", OutputUnit: "FD"})
	require.NoError(t, err)

	one := decimal.NewFromInt(1)
	_, err = s.Positions().Insert(ctx, &entity.StockPosition{ProductID: 1, Quantity: one, UnitPrice: one})
	require.NoError(t, err)

	_, err = s.Positions().Insert(ctx, &entity.StockPosition{ProductID: 1, Quantity: one, UnitPrice: one})
	assert.ErrorIs(t, err, domain.ErrConstraint, "posición duplicada")

	_, err = s.Positions().Update(ctx, 1, decimal.NewFromInt(-1), one)
	assert.ErrorIs(t, err, domain.ErrConstraint, "cantidad negativa")

	_, err = s.Positions().Update(ctx, 9, one, one)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Movements().Insert(ctx, &entity.StockMovement{ProductID: 9, Quantity: one, UnitPrice: one})
	assert.ErrorIs(t, err, domain.ErrConstraint, "movimiento sin posición")
}

func TestUsers_LoginUnico(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.Users().Create(ctx, &entity.User{Login: "admin"})
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, &entity.User{Login: "admin"})
	assert.ErrorIs(t, err, domain.ErrConstraint)

	n, err := s.Users().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u, err := s.Users().FindByLogin(ctx, "nadie")
	require.NoError(t, err)
	assert.Nil(t, u)
}
