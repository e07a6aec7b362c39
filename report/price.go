package report

import (
	"math"

	"ordercore/models"
)

// PriceStats summarizes the price distribution of a trade sequence for
// one symbol. Grounded on the original core's PriceStatsReport: min, max,
// mean, and (population) standard deviation expressed as a percentage of
// the mean. Price arithmetic here is float64 rather than decimal.Decimal
// since a statistical summary, unlike matched quantity, has no exactness
// requirement.
type PriceStats struct {
	Symbol     models.Symbol
	MinPrice   float64
	MaxPrice   float64
	AvgPrice   float64
	StdDevPct  float64
	TradeCount int
}

// IsValid reports whether the report covers at least one trade.
func (s PriceStats) IsValid() bool { return s.TradeCount > 0 }

// PriceStatsFromTrades computes PriceStats over trades. Trades are
// assumed to share one symbol; the first trade's symbol is used for the
// result. An empty input returns the zero value (TradeCount == 0).
func PriceStatsFromTrades(trades []models.Trade) PriceStats {
	var stats PriceStats
	if len(trades) == 0 {
		return stats
	}

	stats.Symbol = trades[0].Symbol
	stats.MinPrice = math.Inf(1)
	stats.MaxPrice = math.Inf(-1)

	var sumPrice, sumSquares float64
	for _, t := range trades {
		price, _ := t.Price.Float64()

		if price < stats.MinPrice {
			stats.MinPrice = price
		}
		if price > stats.MaxPrice {
			stats.MaxPrice = price
		}

		sumPrice += price
		sumSquares += price * price
		stats.TradeCount++
	}

	n := float64(stats.TradeCount)
	stats.AvgPrice = sumPrice / n

	variance := (sumSquares / n) - (stats.AvgPrice * stats.AvgPrice)
	if variance < 0 {
		variance = 0
	}
	stdDev := math.Sqrt(variance)
	if stats.AvgPrice > 0 {
		stats.StdDevPct = (stdDev / stats.AvgPrice) * 100
	}

	return stats
}
