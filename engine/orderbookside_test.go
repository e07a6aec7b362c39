package engine

import (
	"testing"

	"ordercore/models"
)

func TestOrderBookSideBestLevelBid(t *testing.T) {
	s := newOrderBookSide(Buy)
	s.addOrder(newTestOrder(1, Buy, 99, 5))
	s.addOrder(newTestOrder(2, Buy, 100, 3))

	best := s.bestLevel()
	if best == nil || !best.Price().Equal(d(100)) {
		t.Fatalf("bestLevel price = %v, want 100 (highest bid)", best)
	}
}

func TestOrderBookSideBestLevelAsk(t *testing.T) {
	s := newOrderBookSide(Sell)
	s.addOrder(newTestOrder(1, Sell, 101, 5))
	s.addOrder(newTestOrder(2, Sell, 100, 3))

	best := s.bestLevel()
	if best == nil || !best.Price().Equal(d(100)) {
		t.Fatalf("bestLevel price = %v, want 100 (lowest ask)", best)
	}
}

func TestOrderBookSideRemoveOrderPrunesEmptyLevel(t *testing.T) {
	s := newOrderBookSide(Buy)
	o := newTestOrder(1, Buy, 100, 5)
	s.addOrder(o)

	if !s.removeOrder(o) {
		t.Fatal("removeOrder = false, want true")
	}
	if s.len() != 0 {
		t.Fatalf("len = %d, want 0 (empty level pruned)", s.len())
	}
}

func TestOrderBookSideMatchPriceTimePriority(t *testing.T) {
	// S1: two resting sells at 100, one incoming buy for 15.
	asks := newOrderBookSide(Sell)
	a := newTestOrder(1, Sell, 100, 10)
	b := newTestOrder(2, Sell, 100, 10)
	asks.addOrder(a)
	asks.addOrder(b)

	incoming := newTestOrder(3, Buy, 101, 15)
	incoming.Type = models.Limit

	var trades []models.Trade
	asks.match(incoming, &trades)

	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	if trades[0].SellOrderId != 1 || !trades[0].Quantity.Equal(d(10)) {
		t.Fatalf("trade[0] = %+v, want seller 1 qty 10", trades[0])
	}
	if trades[1].SellOrderId != 2 || !trades[1].Quantity.Equal(d(5)) {
		t.Fatalf("trade[1] = %+v, want seller 2 qty 5", trades[1])
	}
	if !incoming.Remaining.IsZero() {
		t.Fatalf("incoming.Remaining = %v, want 0", incoming.Remaining)
	}
	if !b.Remaining.Equal(d(5)) {
		t.Fatalf("resting order 2 remaining = %v, want 5", b.Remaining)
	}
}

func TestOrderBookSideMatchStopsWhenNoCross(t *testing.T) {
	asks := newOrderBookSide(Sell)
	asks.addOrder(newTestOrder(1, Sell, 101, 10))

	incoming := newTestOrder(2, Buy, 100, 5)
	var trades []models.Trade
	asks.match(incoming, &trades)

	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}
	if !incoming.Remaining.Equal(d(5)) {
		t.Fatalf("incoming.Remaining = %v, want unchanged 5", incoming.Remaining)
	}
}

func TestOrderBookSideAvailableQuantityForOrderLimitBuy(t *testing.T) {
	asks := newOrderBookSide(Sell)
	asks.addOrder(newTestOrder(1, Sell, 100, 4))
	asks.addOrder(newTestOrder(2, Sell, 101, 4))
	asks.addOrder(newTestOrder(3, Sell, 102, 10))

	incoming := newTestOrder(4, Buy, 101, 10)
	avail := asks.availableQuantityForOrder(incoming)

	if !avail.Equal(d(8)) {
		t.Fatalf("available = %v, want 8 (levels at 100 and 101 only)", avail)
	}
}

func TestOrderBookSideAvailableQuantityForOrderMarket(t *testing.T) {
	asks := newOrderBookSide(Sell)
	asks.addOrder(newTestOrder(1, Sell, 100, 4))
	asks.addOrder(newTestOrder(2, Sell, 200, 4))

	incoming := newTestOrder(3, Buy, 0, 100)
	incoming.Type = models.Market
	avail := asks.availableQuantityForOrder(incoming)

	if !avail.Equal(d(8)) {
		t.Fatalf("available = %v, want 8 (all levels eligible for market)", avail)
	}
}
