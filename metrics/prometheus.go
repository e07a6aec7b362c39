// Package metrics exposes Prometheus collectors for engine observability:
// order throughput, rejection reasons, match latency, and live book depth.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordercore_orders_received_total",
			Help: "Total number of orders submitted to the matching engine",
		},
		[]string{"symbol", "side", "type"},
	)

	OrdersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordercore_orders_rejected_total",
			Help: "Total number of orders rejected by validation",
		},
		[]string{"symbol", "reason"},
	)

	OrderLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ordercore_order_latency_seconds",
			Help:    "Time to process new_order from receipt to the end of matching, before trade delivery",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		},
		[]string{"symbol", "type"},
	)

	TradesExecutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordercore_trades_executed_total",
			Help: "Total number of trades emitted by the matching engine",
		},
		[]string{"symbol"},
	)

	TradedVolumeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordercore_traded_volume_total",
			Help: "Total quantity matched across all trades",
		},
		[]string{"symbol"},
	)

	OrderbookDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ordercore_orderbook_depth",
			Help: "Current number of price levels on one side of a book",
		},
		[]string{"symbol", "side"},
	)

	BestBidPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ordercore_best_bid_price",
			Help: "Current best bid price",
		},
		[]string{"symbol"},
	)

	BestAskPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ordercore_best_ask_price",
			Help: "Current best ask price",
		},
		[]string{"symbol"},
	)
)

// RecordOrderReceived increments the orders_received_total counter.
func RecordOrderReceived(symbol, side, orderType string) {
	OrdersReceivedTotal.WithLabelValues(symbol, side, orderType).Inc()
}

// RecordOrderRejected increments the orders_rejected_total counter.
func RecordOrderRejected(symbol, reason string) {
	OrdersRejectedTotal.WithLabelValues(symbol, reason).Inc()
}

// RecordOrderLatency records the time spent inside new_order.
func RecordOrderLatency(symbol, orderType string, seconds float64) {
	OrderLatencySeconds.WithLabelValues(symbol, orderType).Observe(seconds)
}

// RecordTrades records a batch of emitted trades.
func RecordTrades(symbol string, count int, volume float64) {
	if count == 0 {
		return
	}
	TradesExecutedTotal.WithLabelValues(symbol).Add(float64(count))
	TradedVolumeTotal.WithLabelValues(symbol).Add(volume)
}

// UpdateOrderbookDepth sets the current price-level count for one side.
func UpdateOrderbookDepth(symbol, side string, depth float64) {
	OrderbookDepth.WithLabelValues(symbol, side).Set(depth)
}

// UpdateBestPrices sets the current best bid/ask gauges. A zero value
// means "no level on that side" and is skipped rather than recorded as 0,
// since 0 is a valid-looking but wrong price.
func UpdateBestPrices(symbol string, bestBid, bestAsk float64) {
	if bestBid > 0 {
		BestBidPrice.WithLabelValues(symbol).Set(bestBid)
	}
	if bestAsk > 0 {
		BestAskPrice.WithLabelValues(symbol).Set(bestAsk)
	}
}
