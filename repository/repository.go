// Package repository implements the trade sink the matching engine treats
// as an external collaborator: a place to hand off matched trades and
// later query them back out by symbol and time range.
package repository

import (
	"time"

	"ordercore/models"
)

// TradeRepository accepts batches of trades as they are produced and
// answers later time-range and all-time queries by symbol. The engine
// only ever calls AddTrades; the query methods exist for report
// aggregators and other downstream readers.
type TradeRepository interface {
	AddTrades(trades []models.Trade) error
	TradesBetween(symbol models.Symbol, start, end time.Time) ([]models.Trade, error)
	TradesAll(symbol models.Symbol) ([]models.Trade, error)
}
