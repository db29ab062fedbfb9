package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/estoque-api/internal/domain"
)

func TestError_IsComparaPorKind(t *testing.T) {
	err := domain.NotFound("Produto não encontrado")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrSemantic)

	wrapped := fmt.Errorf("handler: %w", domain.Semantic("estoque atual: %s", "10"))
	assert.ErrorIs(t, wrapped, domain.ErrSemantic)
	assert.Equal(t, domain.KindSemantic, domain.KindOf(wrapped))
	assert.Equal(t, "estoque atual: 10", domain.MessageOf(wrapped))
}

func TestError_NoCentinelasComparanMensaje(t *testing.T) {
	a := domain.Semantic("a")
	assert.ErrorIs(t, a, domain.Semantic("a"))
	assert.NotErrorIs(t, a, domain.Semantic("b"))
}

func TestConstraint_UsaMensajeDelMotor(t *testing.T) {
	cause := errors.New(`duplicate key value violates unique constraint "stock_positions_pkey"`)
	err := domain.Constraint(cause)
	assert.ErrorIs(t, err, domain.ErrConstraint)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), domain.MessageOf(err))
}

func TestKindOf_ErrorAjenoEsInterno(t *testing.T) {
	assert.Equal(t, domain.KindInternal, domain.KindOf(errors.New("x")))
	assert.Equal(t, "", domain.MessageOf(errors.New("x")))
	assert.Equal(t, "internal", domain.KindInternal.String())
	assert.Equal(t, "storage_corruption", domain.KindStorageCorruption.String())
}

func TestInternal_ConservaCausa(t *testing.T) {
	cause := errors.New("conn reset")
	err := domain.Internal("Erro interno", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, "Erro interno: conn reset", err.Error())
}

func TestRetryable_ConservaCausaYKind(t *testing.T) {
	cause := errors.New("could not serialize access")
	err := fmt.Errorf("update: %w", domain.Retryable(cause))
	assert.ErrorIs(t, err, domain.ErrRetryable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, "retryable", domain.KindOf(err).String())

	// Envuelto como interno sigue siendo reconocible como conflicto.
	wrapped := domain.Internal("erro", err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(wrapped))
	assert.ErrorIs(t, wrapped, domain.ErrRetryable)
}
