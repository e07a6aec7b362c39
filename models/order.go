package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a single working order. It is mutably owned by the matching
// engine's registry for its whole lifetime; price levels only ever hold a
// borrowed pointer to it (see engine.OrderBookSide).
type Order struct {
	OrderId OrderId
	Symbol  Symbol
	Side    Side
	Type    OrderType
	TIF     TimeInForce

	Price decimal.Decimal
	Qty   decimal.Decimal

	Filled    decimal.Decimal
	Remaining decimal.Decimal

	Timestamp time.Time

	// ClientID is opaque caller metadata for logging/metrics correlation.
	// It plays no role in matching or price-time ordering.
	ClientID string
}

// NewOrder constructs an Order with remaining == qty and filled == 0.
func NewOrder(id OrderId, symbol Symbol, side Side, typ OrderType, tif TimeInForce, price, qty decimal.Decimal, ts time.Time) *Order {
	return &Order{
		OrderId:   id,
		Symbol:    symbol,
		Side:      side,
		Type:      typ,
		TIF:       tif,
		Price:     price,
		Qty:       qty,
		Filled:    decimal.Zero,
		Remaining: qty,
		Timestamp: ts,
	}
}

// AddFill clamps q to the order's remaining quantity, then moves it from
// remaining into filled. A non-positive q is a silent no-op.
func (o *Order) AddFill(q decimal.Decimal) {
	if q.Sign() <= 0 {
		return
	}
	if q.GreaterThan(o.Remaining) {
		q = o.Remaining
	}
	o.Filled = o.Filled.Add(q)
	o.Remaining = o.Remaining.Sub(q)
}

// IsFilled reports whether the order has no remaining quantity and was
// given a positive quantity in the first place.
func (o *Order) IsFilled() bool {
	return o.Qty.Sign() > 0 && o.Remaining.Sign() == 0
}

// Clone returns a deep-enough copy for snapshot-before-validate use (the
// engine's modify path takes a registry snapshot before acquiring the
// symbol lock).
func (o *Order) Clone() *Order {
	c := *o
	return &c
}
