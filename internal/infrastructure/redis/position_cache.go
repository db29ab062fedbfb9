// Package redis implementa la caché de posiciones de stock sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var _ inventory.PositionCache = (*PositionCache)(nil)

const keyPrefix = "estoque:posicao:"

// NewClient crea el cliente y valida la conexión al arrancar.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// PositionCache guarda la posición de cada producto como JSON con TTL. Los decimales
// se serializan como string para no perder precisión.
type PositionCache struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewPositionCache(rdb goredis.UniversalClient, ttl time.Duration) *PositionCache {
	return &PositionCache{rdb: rdb, ttl: ttl}
}

type cachedPosition struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func positionKey(productID int64) string {
	return keyPrefix + strconv.FormatInt(productID, 10)
}

func (c *PositionCache) Get(ctx context.Context, productID int64) (*entity.StockPosition, bool, error) {
	raw, err := c.rdb.Get(ctx, positionKey(productID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var v cachedPosition
	if err := json.Unmarshal(raw, &v); err != nil {
		// Entrada ilegible: se trata como miss y se descarta.
		_ = c.rdb.Del(ctx, positionKey(productID)).Err()
		return nil, false, fmt.Errorf("decode cached position: %w", err)
	}
	return &entity.StockPosition{ProductID: v.ProductID, Quantity: v.Quantity, UnitPrice: v.UnitPrice}, true, nil
}

func (c *PositionCache) Set(ctx context.Context, p *entity.StockPosition) error {
	raw, err := json.Marshal(cachedPosition{ProductID: p.ProductID, Quantity: p.Quantity, UnitPrice: p.UnitPrice})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, positionKey(p.ProductID), raw, c.ttl).Err()
}

func (c *PositionCache) Invalidate(ctx context.Context, productID int64) error {
	return c.rdb.Del(ctx, positionKey(productID)).Err()
}
