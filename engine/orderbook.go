package engine

import "ordercore/models"

// OrderBook is one symbol's pair of opposing sides: submit/cancel/modify
// at book level, including time-in-force semantics. All mutation is
// expected to happen under the owning MatchingEngine's per-symbol
// exclusion — OrderBook itself holds no lock.
type OrderBook struct {
	Symbol models.Symbol
	bids   *OrderBookSide
	asks   *OrderBookSide
}

// NewOrderBook creates an empty book for symbol.
func NewOrderBook(symbol models.Symbol) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bids:   newOrderBookSide(Buy),
		asks:   newOrderBookSide(Sell),
	}
}

// Bids exposes the buy side for read-only inspection (best price, depth).
func (b *OrderBook) Bids() *OrderBookSide { return b.bids }

// Asks exposes the sell side for read-only inspection (best price, depth).
func (b *OrderBook) Asks() *OrderBookSide { return b.asks }

func (b *OrderBook) sideOf(side Side) *OrderBookSide {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) oppositeSideOf(side Side) *OrderBookSide {
	if side == Buy {
		return b.asks
	}
	return b.bids
}

// SubmitOrder matches order against the opposite side and, for GTC orders
// with quantity left over, rests it on order's own side. Preconditions
// (order.Remaining > 0, and for Limit order.Price > 0) are the caller's
// responsibility — MatchingEngine validates before ever reaching here.
func (b *OrderBook) SubmitOrder(order *models.Order) []models.Trade {
	opposite := b.oppositeSideOf(order.Side)
	own := b.sideOf(order.Side)

	if order.TIF == models.FOK {
		avail := opposite.availableQuantityForOrder(order)
		if avail.LessThan(order.Remaining) {
			return nil
		}
	}

	var trades []models.Trade
	opposite.match(order, &trades)

	if order.Remaining.Sign() > 0 && order.TIF == models.GTC {
		own.addOrder(order)
	}
	// IOC: surplus is discarded, nothing to add.
	// FOK: guarded above, so remaining > 0 here never applies to it.

	return trades
}

// CancelOrder removes order from its resting side. Returns whether it was
// found and removed.
func (b *OrderBook) CancelOrder(order *models.Order) bool {
	return b.sideOf(order.Side).removeOrder(order)
}

// ModifyOrder removes order from its own side, applies the requested
// price/quantity change, and re-adds it to the (possibly new) level if
// quantity remains. Time priority is lost: the order becomes the new
// FIFO tail at its level. This path is only used when the matching engine
// has decided the modify does not need to rematch.
func (b *OrderBook) ModifyOrder(order *models.Order, req models.ModifyOrderRequest) bool {
	if req.HasNewQuantity && req.NewQuantity.LessThan(order.Filled) {
		return false
	}

	own := b.sideOf(order.Side)
	if !own.removeOrder(order) {
		return false
	}

	if req.HasNewPrice {
		order.Price = req.NewPrice
	}
	if req.HasNewQuantity {
		order.Qty = req.NewQuantity
	}
	order.Remaining = order.Qty.Sub(order.Filled)

	if order.Remaining.Sign() > 0 {
		own.addOrder(order)
	}
	return true
}
