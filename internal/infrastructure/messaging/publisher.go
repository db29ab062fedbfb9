// Package messaging publica los eventos de stock en RabbitMQ después del commit.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var _ inventory.EventPublisher = (*Publisher)(nil)

// Routing keys del exchange topic.
const (
	RoutingStockInitiated  = "stock.initiated"
	RoutingMovementApplied = "stock.movement.applied"
	exchangeKind           = "topic"
	publishTimeout         = 5 * time.Second
)

// channel es la parte de *amqp.Channel que usa el publisher.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Connect abre conexión y canal y declara el exchange (durable, topic).
func Connect(url, exchange string, log zerolog.Logger) (*amqp.Connection, *amqp.Channel, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("conectar a RabbitMQ")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return conn, ch, nil
}

// Publisher implementa inventory.EventPublisher.
type Publisher struct {
	mu       sync.Mutex
	ch       channel
	exchange string
	source   string
	log      zerolog.Logger
	now      func() time.Time
}

// NewPublisher construye el publisher; source identifica a la aplicación en los headers.
func NewPublisher(ch channel, exchange, source string, log zerolog.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, source: source, log: log, now: time.Now}
}

// StockInitiatedEvent cuerpo de stock.initiated.
type StockInitiatedEvent struct {
	ProductID  int64           `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// MovementAppliedEvent cuerpo de stock.movement.applied.
type MovementAppliedEvent struct {
	MovementID   int64           `json:"movement_id"`
	ProductID    int64           `json:"product_id"`
	Document     string          `json:"document"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	FreightPrice decimal.Decimal `json:"freight_price"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

func (p *Publisher) PublishStockInitiated(ctx context.Context, pos *entity.StockPosition) error {
	return p.publish(ctx, RoutingStockInitiated, pos.ProductID, StockInitiatedEvent{
		ProductID:  pos.ProductID,
		Quantity:   pos.Quantity,
		UnitPrice:  pos.UnitPrice,
		OccurredAt: p.now().UTC(),
	})
}

func (p *Publisher) PublishMovementApplied(ctx context.Context, m *entity.StockMovement) error {
	return p.publish(ctx, RoutingMovementApplied, m.ProductID, MovementAppliedEvent{
		MovementID:   m.ID,
		ProductID:    m.ProductID,
		Document:     m.Document,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		FreightPrice: m.FreightPrice,
		OccurredAt:   m.Timestamp,
	})
}

func (p *Publisher) publish(ctx context.Context, routingKey string, productID int64, event any) error {
	msg, err := p.buildMessage(routingKey, productID, event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.log.Debug().Str("routing_key", routingKey).Str("message_id", msg.MessageId).Msg("evento publicado")
	return nil
}

func (p *Publisher) buildMessage(routingKey string, productID int64, event any) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("serializar evento %s: %w", routingKey, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    p.now().UTC(),
		Type:         routingKey,
		Headers: amqp.Table{
			"product_id": strconv.FormatInt(productID, 10),
			"source":     p.source,
		},
	}, nil
}
