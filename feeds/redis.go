// Package feeds holds reference trade-listener implementations: ordinary
// callbacks registered with MatchingEngine.RegisterTradeListener that fan
// a matched trade batch out to an external system. None of these change
// engine semantics — the engine would behave identically with zero
// listeners registered.
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ordercore/logging"
	"ordercore/models"
)

// RedisConfig configures the connection used by RedisPublisher. Grounded
// on the existing cache client's config shape.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig matches a local development Redis instance.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// tradeMessage is the wire shape published to the Redis channel.
type tradeMessage struct {
	TradeID     uint64    `json:"trade_id"`
	Symbol      string    `json:"symbol"`
	BuyOrderID  uint64    `json:"buy_order_id"`
	SellOrderID uint64    `json:"sell_order_id"`
	Price       string    `json:"price"`
	Quantity    string    `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}

// RedisPublisher publishes each matched trade to a per-symbol Redis
// pub/sub channel and keeps a capped recent-trades list per symbol,
// same pattern as the cache layer's pub/sub invalidation channels and
// TradesCache respectively.
type RedisPublisher struct {
	client     *redis.Client
	ctx        context.Context
	channelFmt string
	listKeyFmt string
	listCap    int64
}

// NewRedisPublisher dials Redis and returns a publisher, or an error if
// the connection can't be established.
func NewRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisPublisher{
		client:     client,
		ctx:        ctx,
		channelFmt: "ordercore:trades:%s",
		listKeyFmt: "ordercore:trades:recent:%s",
		listCap:    200,
	}, nil
}

// Listen is a TradeListener: register it with
// MatchingEngine.RegisterTradeListener to mirror every trade batch into
// Redis. Listeners run outside the symbol exclusion and are the caller's
// responsibility if they error — failures are logged, never propagated
// back into the engine.
func (p *RedisPublisher) Listen(trades []models.Trade) {
	for _, t := range trades {
		msg := tradeMessage{
			TradeID:     uint64(t.TradeId),
			Symbol:      string(t.Symbol),
			BuyOrderID:  uint64(t.BuyOrderId),
			SellOrderID: uint64(t.SellOrderId),
			Price:       t.Price.String(),
			Quantity:    t.Quantity.String(),
			Timestamp:   t.Timestamp,
		}

		data, err := json.Marshal(msg)
		if err != nil {
			logging.LogRepositoryError("redis_publish_marshal", err)
			continue
		}

		channel := fmt.Sprintf(p.channelFmt, t.Symbol)
		if err := p.client.Publish(p.ctx, channel, data).Err(); err != nil {
			logging.LogRepositoryError("redis_publish", err)
			continue
		}

		listKey := fmt.Sprintf(p.listKeyFmt, t.Symbol)
		pipe := p.client.Pipeline()
		pipe.LPush(p.ctx, listKey, data)
		pipe.LTrim(p.ctx, listKey, 0, p.listCap-1)
		if _, err := pipe.Exec(p.ctx); err != nil {
			logging.LogRepositoryError("redis_trim_recent", err)
		}
	}
}

// Close releases the underlying connection pool.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
