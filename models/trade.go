package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an immutable record of one match between two orders. TradeId
// and Timestamp are assigned by the matching engine after the match
// completes, not by the order book.
type Trade struct {
	TradeId     TradeId
	Symbol      Symbol
	BuyOrderId  OrderId
	SellOrderId OrderId
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	Timestamp   time.Time
}
