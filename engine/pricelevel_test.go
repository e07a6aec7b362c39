package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ordercore/models"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestOrder(id models.OrderId, side Side, price, qty int64) *models.Order {
	return models.NewOrder(id, "AAPL", side, models.Limit, models.GTC, d(price), d(qty), time.Now())
}

func TestPriceLevelAddOrderAccumulatesVolume(t *testing.T) {
	lvl := newPriceLevel(d(100))
	lvl.addOrder(newTestOrder(1, Buy, 100, 10))
	lvl.addOrder(newTestOrder(2, Buy, 100, 5))

	if !lvl.Volume().Equal(d(15)) {
		t.Fatalf("Volume = %v, want 15", lvl.Volume())
	}
	if lvl.Size() != 2 {
		t.Fatalf("Size = %d, want 2", lvl.Size())
	}
}

func TestPriceLevelAddOrderRejectsNonPositiveRemaining(t *testing.T) {
	lvl := newPriceLevel(d(100))
	o := newTestOrder(1, Buy, 100, 10)
	o.AddFill(d(10)) // remaining now zero
	lvl.addOrder(o)

	if !lvl.Empty() {
		t.Fatalf("expected level to reject a zero-remaining order")
	}
}

func TestPriceLevelFIFOOrder(t *testing.T) {
	lvl := newPriceLevel(d(100))
	first := newTestOrder(1, Buy, 100, 10)
	second := newTestOrder(2, Buy, 100, 5)
	lvl.addOrder(first)
	lvl.addOrder(second)

	if lvl.topOrder().OrderId != 1 {
		t.Fatalf("topOrder = %v, want order 1 (FIFO head)", lvl.topOrder().OrderId)
	}
	lvl.removeTopOrder()
	if lvl.topOrder().OrderId != 2 {
		t.Fatalf("after pop, topOrder = %v, want order 2", lvl.topOrder().OrderId)
	}
	if !lvl.Volume().Equal(d(5)) {
		t.Fatalf("Volume after pop = %v, want 5", lvl.Volume())
	}
}

func TestPriceLevelRemoveOrderByID(t *testing.T) {
	lvl := newPriceLevel(d(100))
	lvl.addOrder(newTestOrder(1, Buy, 100, 10))
	lvl.addOrder(newTestOrder(2, Buy, 100, 5))

	if !lvl.removeOrder(1) {
		t.Fatal("removeOrder(1) = false, want true")
	}
	if lvl.removeOrder(1) {
		t.Fatal("removeOrder(1) again = true, want false")
	}
	if !lvl.Volume().Equal(d(5)) {
		t.Fatalf("Volume after removal = %v, want 5", lvl.Volume())
	}
}

func TestPriceLevelUpdateVolumeAfterPartialFill(t *testing.T) {
	lvl := newPriceLevel(d(100))
	o := newTestOrder(1, Buy, 100, 10)
	lvl.addOrder(o)

	o.AddFill(d(4))
	lvl.updateVolume(d(4))

	if !lvl.Volume().Equal(d(6)) {
		t.Fatalf("Volume = %v, want 6", lvl.Volume())
	}
}
