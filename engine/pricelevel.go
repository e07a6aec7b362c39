package engine

import (
	"container/list"

	"github.com/google/btree"
	"github.com/shopspring/decimal"
	"ordercore/models"
)

// PriceLevel is the FIFO of orders resting at one price on one side of a
// book, plus a cached aggregate of their remaining quantity. It
// implements btree.Item so OrderBookSide can keep levels in ascending
// price order.
type PriceLevel struct {
	price  decimal.Decimal
	orders *list.List
	volume decimal.Decimal
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: list.New(),
		volume: decimal.Zero,
	}
}

// Less orders price levels ascending by price for the btree.
func (pl *PriceLevel) Less(than btree.Item) bool {
	return pl.price.LessThan(than.(*PriceLevel).price)
}

// Price returns the level's price.
func (pl *PriceLevel) Price() decimal.Decimal { return pl.price }

// Volume returns the cached sum of remaining quantity across the level's
// orders.
func (pl *PriceLevel) Volume() decimal.Decimal { return pl.volume }

// Size returns the number of orders resting at this level.
func (pl *PriceLevel) Size() int { return pl.orders.Len() }

// Empty reports whether the level's FIFO holds no orders.
func (pl *PriceLevel) Empty() bool { return pl.orders.Len() == 0 }

// addOrder appends o to the tail of the FIFO and adds its remaining
// quantity to the cached volume. A non-positive remaining quantity is a
// silent no-op.
func (pl *PriceLevel) addOrder(o *models.Order) {
	if o.Remaining.Sign() <= 0 {
		return
	}
	pl.orders.PushBack(o)
	pl.volume = pl.volume.Add(o.Remaining)
}

// topOrder returns the FIFO head without removing it, or nil if empty.
func (pl *PriceLevel) topOrder() *models.Order {
	front := pl.orders.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*models.Order)
}

// removeTopOrder pops the FIFO head, decrementing volume by its current
// remaining quantity.
func (pl *PriceLevel) removeTopOrder() {
	front := pl.orders.Front()
	if front == nil {
		return
	}
	o := front.Value.(*models.Order)
	pl.volume = pl.volume.Sub(o.Remaining)
	pl.orders.Remove(front)
}

// removeOrder scans for id and erases it, decrementing volume by its
// current remaining quantity. Returns whether it was found.
func (pl *PriceLevel) removeOrder(id models.OrderId) bool {
	for e := pl.orders.Front(); e != nil; e = e.Next() {
		o := e.Value.(*models.Order)
		if o.OrderId == id {
			pl.volume = pl.volume.Sub(o.Remaining)
			pl.orders.Remove(e)
			return true
		}
	}
	return false
}

// updateVolume decrements the cached volume by filledQty. Called after a
// partial fill on the top order, which leaves it at the head of the FIFO.
func (pl *PriceLevel) updateVolume(filledQty decimal.Decimal) {
	pl.volume = pl.volume.Sub(filledQty)
}
