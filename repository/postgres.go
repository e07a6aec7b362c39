package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"ordercore/models"
)

// PostgresTradeRepository persists trades the matching engine hands to it
// through AddTrades; it never touches order-book state.
// Same transaction-with-retry shape as the order-persistence store,
// narrowed to the three-method trade-repository surface.
type PostgresTradeRepository struct {
	db         *sql.DB
	maxRetries int
	retryDelay time.Duration
}

// NewPostgresTradeRepository wraps an already-open database handle.
func NewPostgresTradeRepository(db *sql.DB) *PostgresTradeRepository {
	return &PostgresTradeRepository{
		db:         db,
		maxRetries: 3,
		retryDelay: 100 * time.Millisecond,
	}
}

func (p *PostgresTradeRepository) AddTrades(trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	ctx := context.Background()
	return p.executeWithRetry(ctx, func(ctx context.Context) error {
		tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return errors.WithMessage(err, "begin transaction")
		}
		defer func() { _ = tx.Rollback() }()

		for _, t := range trades {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO trades (
					trade_id, symbol, buy_order_id, sell_order_id,
					price, quantity, timestamp
				) VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (trade_id) DO NOTHING
			`,
				uint64(t.TradeId), string(t.Symbol), uint64(t.BuyOrderId), uint64(t.SellOrderId),
				t.Price.String(), t.Quantity.String(), t.Timestamp,
			); err != nil {
				return errors.WithMessagef(err, "insert trade %d", t.TradeId)
			}
		}

		return tx.Commit()
	})
}

func (p *PostgresTradeRepository) TradesBetween(symbol models.Symbol, start, end time.Time) ([]models.Trade, error) {
	rows, err := p.db.QueryContext(context.Background(), `
		SELECT trade_id, symbol, buy_order_id, sell_order_id, price, quantity, timestamp
		FROM trades
		WHERE symbol = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp ASC, trade_id ASC
	`, string(symbol), start, end)
	if err != nil {
		return nil, errors.WithMessage(err, "query trades_between")
	}
	defer rows.Close()
	return scanTrades(rows)
}

func (p *PostgresTradeRepository) TradesAll(symbol models.Symbol) ([]models.Trade, error) {
	rows, err := p.db.QueryContext(context.Background(), `
		SELECT trade_id, symbol, buy_order_id, sell_order_id, price, quantity, timestamp
		FROM trades
		WHERE symbol = $1
		ORDER BY timestamp ASC, trade_id ASC
	`, string(symbol))
	if err != nil {
		return nil, errors.WithMessage(err, "query trades_all")
	}
	defer rows.Close()
	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]models.Trade, error) {
	var out []models.Trade
	for rows.Next() {
		var (
			tradeID, buyID, sellID uint64
			symbol                 string
			priceStr, qtyStr       string
			ts                     time.Time
		)
		if err := rows.Scan(&tradeID, &symbol, &buyID, &sellID, &priceStr, &qtyStr, &ts); err != nil {
			return nil, errors.WithMessage(err, "scan trade row")
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, errors.WithMessage(err, "parse trade price")
		}
		qty, err := decimal.NewFromString(qtyStr)
		if err != nil {
			return nil, errors.WithMessage(err, "parse trade quantity")
		}
		out = append(out, models.Trade{
			TradeId:     models.TradeId(tradeID),
			Symbol:      models.Symbol(symbol),
			BuyOrderId:  models.OrderId(buyID),
			SellOrderId: models.OrderId(sellID),
			Price:       price,
			Quantity:    qty,
			Timestamp:   ts,
		})
	}
	return out, rows.Err()
}

// executeWithRetry retries transient Postgres errors (deadlocks,
// serialization failures, connection drops) with exponential backoff.
func (p *PostgresTradeRepository) executeWithRetry(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return err
		}
		if attempt < p.maxRetries {
			delay := p.retryDelay * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return errors.WithMessage(lastErr, "max retries exceeded")
}

func isRetryableError(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	if !ok {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "08000", "08003", "08006", "57P03":
		return true
	}
	return false
}
