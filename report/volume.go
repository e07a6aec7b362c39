// Package report implements pure aggregation functions over trades
// already retrieved from a TradeRepository: summaries with no dependency
// on the engine or the book.
package report

import (
	"github.com/shopspring/decimal"

	"ordercore/models"
)

// VolumeStats is the total traded quantity and notional value across a
// trade sequence for one symbol. Grounded on the original core's
// VolumeReport/VolumeStats.
type VolumeStats struct {
	Symbol        models.Symbol
	TotalQuantity decimal.Decimal
	TotalNotional decimal.Decimal
}

// VolumeReport sums quantity and price*quantity (notional) across trades.
// Trades are assumed to share one symbol; the first trade's symbol is
// used for the result. An empty input returns the zero value.
func VolumeReport(trades []models.Trade) VolumeStats {
	var stats VolumeStats
	if len(trades) == 0 {
		return stats
	}

	stats.Symbol = trades[0].Symbol
	stats.TotalQuantity = decimal.Zero
	stats.TotalNotional = decimal.Zero

	for _, t := range trades {
		stats.TotalQuantity = stats.TotalQuantity.Add(t.Quantity)
		stats.TotalNotional = stats.TotalNotional.Add(t.Price.Mul(t.Quantity))
	}

	return stats
}
