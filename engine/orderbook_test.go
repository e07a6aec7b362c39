package engine

import (
	"testing"

	"ordercore/models"
)

func TestOrderBookSubmitGTCRestsWhenNoCross(t *testing.T) {
	book := NewOrderBook("AAPL")

	trades := book.SubmitOrder(newTestOrder(1, Buy, 99, 5))
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}

	best := book.Bids().bestLevel()
	if best == nil || !best.Price().Equal(d(99)) {
		t.Fatalf("expected resting bid at 99")
	}
}

func TestOrderBookSubmitIOCDiscardsSurplus(t *testing.T) {
	book := NewOrderBook("AAPL")
	sell := newTestOrder(1, Sell, 101, 4)
	book.SubmitOrder(sell)

	ioc := newTestOrder(2, Buy, 101, 10)
	ioc.TIF = models.IOC
	trades := book.SubmitOrder(ioc)

	if len(trades) != 1 || !trades[0].Quantity.Equal(d(4)) {
		t.Fatalf("trades = %+v, want one trade of qty 4", trades)
	}
	if book.Bids().len() != 0 {
		t.Fatalf("IOC surplus must not rest on the book")
	}
}

func TestOrderBookSubmitFOKAllOrNothing(t *testing.T) {
	book := NewOrderBook("AAPL")
	book.SubmitOrder(newTestOrder(1, Sell, 101, 4))

	fok := newTestOrder(2, Buy, 101, 10)
	fok.TIF = models.FOK
	trades := book.SubmitOrder(fok)

	if len(trades) != 0 {
		t.Fatalf("expected FOK to produce no trades when liquidity insufficient, got %d", len(trades))
	}
	if book.Asks().len() != 1 {
		t.Fatal("FOK failure must not mutate the book")
	}
}

func TestOrderBookSubmitFOKFillsWhenSufficient(t *testing.T) {
	book := NewOrderBook("AAPL")
	book.SubmitOrder(newTestOrder(1, Sell, 101, 10))

	fok := newTestOrder(2, Buy, 101, 10)
	fok.TIF = models.FOK
	trades := book.SubmitOrder(fok)

	if len(trades) != 1 || !trades[0].Quantity.Equal(d(10)) {
		t.Fatalf("trades = %+v, want one trade of qty 10", trades)
	}
}

func TestOrderBookCancelOrder(t *testing.T) {
	book := NewOrderBook("AAPL")
	o := newTestOrder(1, Buy, 100, 10)
	book.SubmitOrder(o)

	if !book.CancelOrder(o) {
		t.Fatal("first cancel = false, want true")
	}
	if book.CancelOrder(o) {
		t.Fatal("second cancel = true, want false")
	}
}

func TestOrderBookModifyOrderNewQtyAndPrice(t *testing.T) {
	book := NewOrderBook("AAPL")
	o := newTestOrder(1, Buy, 100, 10)
	book.SubmitOrder(o)

	ok := book.ModifyOrder(o, models.ModifyOrderRequest{
		HasNewQuantity: true, NewQuantity: d(20),
		HasNewPrice: true, NewPrice: d(100),
	})
	if !ok {
		t.Fatal("ModifyOrder = false, want true")
	}
	if !o.Remaining.Equal(d(20)) {
		t.Fatalf("Remaining = %v, want 20", o.Remaining)
	}

	best := book.Bids().bestLevel()
	if best == nil || best.topOrder().OrderId != 1 {
		t.Fatal("expected modified order to rest at head of new (only) level")
	}
}

func TestOrderBookModifyOrderRejectsQuantityBelowFilled(t *testing.T) {
	book := NewOrderBook("AAPL")
	book.SubmitOrder(newTestOrder(1, Sell, 100, 4))

	buy := newTestOrder(2, Buy, 100, 10)
	book.SubmitOrder(buy) // partially fills buy: filled=4, remaining=6

	ok := book.ModifyOrder(buy, models.ModifyOrderRequest{HasNewQuantity: true, NewQuantity: d(2)})
	if ok {
		t.Fatal("ModifyOrder with newQuantity < filled should fail")
	}
}
