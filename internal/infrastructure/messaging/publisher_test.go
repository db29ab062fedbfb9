package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestPublishMovementApplied(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "estoque.events", "estoque-api", zerolog.Nop())
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := p.PublishMovementApplied(context.Background(), &entity.StockMovement{
		ID: 9, ProductID: 42, Document: "NF-9",
		Quantity: decimal.RequireFromString("-50"), UnitPrice: decimal.RequireFromString("2.0000"),
		FreightPrice: decimal.RequireFromString("5"), Timestamp: ts,
	})
	require.NoError(t, err)
	require.Len(t, ch.sent, 1)

	got := ch.sent[0]
	assert.Equal(t, "estoque.events", got.exchange)
	assert.Equal(t, RoutingMovementApplied, got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.NotEmpty(t, got.msg.MessageId)
	assert.Equal(t, "42", got.msg.Headers["product_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.EqualValues(t, 9, body["movement_id"])
	assert.Equal(t, "-50", body["quantity"], "los decimales viajan como string")
	assert.Equal(t, "NF-9", body["document"])
}

func TestPublishStockInitiated_MessageIdUnico(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "x", "estoque-api", zerolog.Nop())
	pos := &entity.StockPosition{ProductID: 1, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}

	require.NoError(t, p.PublishStockInitiated(context.Background(), pos))
	require.NoError(t, p.PublishStockInitiated(context.Background(), pos))
	require.Len(t, ch.sent, 2)
	assert.Equal(t, RoutingStockInitiated, ch.sent[0].key)
	assert.NotEqual(t, ch.sent[0].msg.MessageId, ch.sent[1].msg.MessageId)
}

func TestPublish_ErrorDelCanal(t *testing.T) {
	boom := errors.New("channel closed")
	p := NewPublisher(&fakeChannel{err: boom}, "x", "estoque-api", zerolog.Nop())
	err := p.PublishStockInitiated(context.Background(), &entity.StockPosition{ProductID: 1})
	assert.ErrorIs(t, err, boom)
}
