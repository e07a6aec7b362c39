package models

import "github.com/shopspring/decimal"

// NewOrderRequest is the caller-facing input to MatchingEngine.NewOrder.
type NewOrderRequest struct {
	Symbol   Symbol
	Side     Side
	Type     OrderType
	TIF      TimeInForce
	Price    decimal.Decimal
	Quantity decimal.Decimal
	ClientID string
}

// ModifyOrderRequest carries an optional new price and/or new quantity for
// MatchingEngine.ModifyOrder. A field is only applied when its Has* flag
// is set, so an absent price/quantity is distinguishable from an explicit
// zero.
type ModifyOrderRequest struct {
	HasNewQuantity bool
	NewQuantity    decimal.Decimal

	HasNewPrice bool
	NewPrice    decimal.Decimal
}
