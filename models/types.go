// Package models holds the data types shared by the order book and the
// matching engine: orders, trades, and the request shapes callers use to
// submit or amend them.
package models

// OrderId uniquely identifies an order for the lifetime of a MatchingEngine.
// Zero is reserved to mean "invalid/none".
type OrderId uint64

// TradeId uniquely identifies an emitted trade. Zero is reserved invalid.
type TradeId uint64

// Symbol is an opaque instrument identifier.
type Symbol string

// InvalidOrderID and InvalidTradeID are the reserved "none" sentinels.
const (
	InvalidOrderID OrderId = 0
	InvalidTradeID TradeId = 0
)

// Side is which book an order rests on / which side of a trade it took.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// OrderType distinguishes resting limit orders from immediate market orders.
type OrderType string

const (
	Limit  OrderType = "limit"
	Market OrderType = "market"
)

// TimeInForce governs what happens to an order's unfilled remainder.
type TimeInForce string

const (
	// GTC rests on the book until canceled or fully filled.
	GTC TimeInForce = "GTC"
	// IOC matches what it can immediately and discards the remainder.
	IOC TimeInForce = "IOC"
	// FOK matches fully immediately or not at all.
	FOK TimeInForce = "FOK"
)

// RejectReason explains why new_order/modify_order validation failed.
type RejectReason string

const (
	RejectNone                   RejectReason = ""
	RejectInvalidPrice           RejectReason = "invalid_price"
	RejectInvalidQuantity        RejectReason = "invalid_quantity"
	RejectUnsupportedOrderType   RejectReason = "unsupported_order_type"
	RejectUnsupportedTIF         RejectReason = "unsupported_time_in_force"
)
