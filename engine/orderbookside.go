package engine

import (
	"github.com/google/btree"
	"github.com/shopspring/decimal"
	"ordercore/models"
)

// btreeDegree keeps levels few enough per node that a wide fan-out is
// small structs so a wide fan-out keeps the tree shallow.
const btreeDegree = 32

// OrderBookSide is one side (bid or ask) of a symbol's book: a
// price-ordered set of PriceLevels, kept in a btree so the best level is
// an O(log n) Min()/Max() lookup.
type OrderBookSide struct {
	side Side
	tree *btree.BTree
}

func newOrderBookSide(side Side) *OrderBookSide {
	return &OrderBookSide{side: side, tree: btree.New(btreeDegree)}
}

func searchKey(price decimal.Decimal) *PriceLevel { return &PriceLevel{price: price} }

func (s *OrderBookSide) getLevel(price decimal.Decimal) *PriceLevel {
	if item := s.tree.Get(searchKey(price)); item != nil {
		return item.(*PriceLevel)
	}
	return nil
}

func (s *OrderBookSide) getOrCreateLevel(price decimal.Decimal) *PriceLevel {
	if lvl := s.getLevel(price); lvl != nil {
		return lvl
	}
	lvl := newPriceLevel(price)
	s.tree.ReplaceOrInsert(lvl)
	return lvl
}

// addOrder locates or creates the level at o.Price and appends o to it.
func (s *OrderBookSide) addOrder(o *models.Order) {
	lvl := s.getOrCreateLevel(o.Price)
	lvl.addOrder(o)
}

// removeOrder removes o from its level, pruning the level if it becomes
// empty. Returns false if the level or the order within it isn't found.
func (s *OrderBookSide) removeOrder(o *models.Order) bool {
	lvl := s.getLevel(o.Price)
	if lvl == nil {
		return false
	}
	if !lvl.removeOrder(o.OrderId) {
		return false
	}
	if lvl.Empty() {
		s.tree.Delete(lvl)
	}
	return true
}

// bestLevel returns the best non-empty level for this side: smallest
// price for asks, largest for bids. Empty levels are pruned eagerly
// elsewhere, but this defensively skips one if it's ever observed.
func (s *OrderBookSide) bestLevel() *PriceLevel {
	var found *PriceLevel
	visit := func(item btree.Item) bool {
		lvl := item.(*PriceLevel)
		if lvl.Empty() {
			return true // keep scanning past a transiently empty level
		}
		found = lvl
		return false
	}
	if s.side == Buy {
		s.tree.Descend(visit)
	} else {
		s.tree.Ascend(visit)
	}
	return found
}

// topKLevels returns up to k best non-empty levels in price-time priority
// order (best first). Present in the original C++ core this behavior
// was ported from, alongside the price-time matching loop below.
func (s *OrderBookSide) topKLevels(k int) []*PriceLevel {
	levels := make([]*PriceLevel, 0, k)
	if k <= 0 {
		return levels
	}
	visit := func(item btree.Item) bool {
		lvl := item.(*PriceLevel)
		if !lvl.Empty() {
			levels = append(levels, lvl)
		}
		return len(levels) < k
	}
	if s.side == Buy {
		s.tree.Descend(visit)
	} else {
		s.tree.Ascend(visit)
	}
	return levels
}

func (s *OrderBookSide) len() int { return s.tree.Len() }

// match walks this side (the opposite side of the incoming order) in
// price-time order, filling the incoming order against resting liquidity
// and appending emitted trades to trades.
func (s *OrderBookSide) match(incoming *models.Order, trades *[]models.Trade) {
	for incoming.Remaining.Sign() > 0 {
		lvl := s.bestLevel()
		if lvl == nil {
			break
		}

		bestPrice := lvl.Price()
		if incoming.Type == models.Limit {
			if incoming.Side == Buy && bestPrice.GreaterThan(incoming.Price) {
				break
			}
			if incoming.Side == Sell && bestPrice.LessThan(incoming.Price) {
				break
			}
		}

		resting := lvl.topOrder()
		if resting == nil {
			// bestLevel() only returns non-empty levels; this would mean
			// a concurrent mutation reached in under our caller's lock.
			break
		}

		matchQty := decimal.Min(incoming.Remaining, resting.Remaining)
		tradePrice := resting.Price

		incoming.AddFill(matchQty)
		resting.AddFill(matchQty)

		trade := models.Trade{
			Symbol:    incoming.Symbol,
			Price:     tradePrice,
			Quantity:  matchQty,
			Timestamp: incoming.Timestamp,
		}
		if incoming.Side == Buy {
			trade.BuyOrderId = incoming.OrderId
			trade.SellOrderId = resting.OrderId
		} else {
			trade.BuyOrderId = resting.OrderId
			trade.SellOrderId = incoming.OrderId
		}
		*trades = append(*trades, trade)

		if resting.Remaining.Sign() == 0 {
			// removeTopOrder only subtracts the (now zero) remaining
			// quantity, so take the fill off the cached volume first.
			lvl.updateVolume(matchQty)
			lvl.removeTopOrder()
			if lvl.Empty() {
				s.tree.Delete(lvl)
			}
		} else {
			lvl.updateVolume(matchQty)
		}
	}
}

// availableQuantityForOrder sums resting volume in match order until it
// reaches incoming's remaining quantity, returning early with that
// cumulative total; otherwise it returns the total eligible volume.
// Used by the FOK pre-check before an order is allowed to rest or match.
func (s *OrderBookSide) availableQuantityForOrder(incoming *models.Order) decimal.Decimal {
	total := decimal.Zero
	if s.tree.Len() == 0 {
		return total
	}

	accumulate := func(item btree.Item) bool {
		lvl := item.(*PriceLevel)
		total = total.Add(lvl.Volume())
		return total.LessThan(incoming.Remaining)
	}

	switch {
	case incoming.Type == models.Limit && s.side == Sell:
		s.tree.Ascend(func(item btree.Item) bool {
			lvl := item.(*PriceLevel)
			if lvl.Price().GreaterThan(incoming.Price) {
				return false
			}
			return accumulate(item)
		})
	case incoming.Type == models.Limit && s.side == Buy:
		s.tree.Descend(func(item btree.Item) bool {
			lvl := item.(*PriceLevel)
			if lvl.Price().LessThan(incoming.Price) {
				return false
			}
			return accumulate(item)
		})
	default: // market order: every level on the opposite side is eligible
		if s.side == Buy {
			s.tree.Descend(accumulate)
		} else {
			s.tree.Ascend(accumulate)
		}
	}

	return total
}
