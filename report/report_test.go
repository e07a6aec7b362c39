package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ordercore/models"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleTrades() []models.Trade {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.Trade{
		{TradeId: 1, Symbol: "AAPL", Price: d(100), Quantity: d(10), Timestamp: ts},
		{TradeId: 2, Symbol: "AAPL", Price: d(102), Quantity: d(5), Timestamp: ts},
		{TradeId: 3, Symbol: "AAPL", Price: d(98), Quantity: d(5), Timestamp: ts},
	}
}

func TestVolumeReportSumsQuantityAndNotional(t *testing.T) {
	stats := VolumeReport(sampleTrades())

	if stats.Symbol != "AAPL" {
		t.Fatalf("Symbol = %v, want AAPL", stats.Symbol)
	}
	wantQty := d(20)
	if !stats.TotalQuantity.Equal(wantQty) {
		t.Fatalf("TotalQuantity = %v, want %v", stats.TotalQuantity, wantQty)
	}
	wantNotional := d(100*10 + 102*5 + 98*5)
	if !stats.TotalNotional.Equal(wantNotional) {
		t.Fatalf("TotalNotional = %v, want %v", stats.TotalNotional, wantNotional)
	}
}

func TestVolumeReportEmpty(t *testing.T) {
	stats := VolumeReport(nil)
	if stats.Symbol != "" || !stats.TotalQuantity.IsZero() {
		t.Fatalf("expected zero value for empty input, got %+v", stats)
	}
}

func TestPriceStatsFromTrades(t *testing.T) {
	stats := PriceStatsFromTrades(sampleTrades())

	if !stats.IsValid() {
		t.Fatal("expected valid stats for non-empty trades")
	}
	if stats.TradeCount != 3 {
		t.Fatalf("TradeCount = %d, want 3", stats.TradeCount)
	}
	if stats.MinPrice != 98 {
		t.Fatalf("MinPrice = %v, want 98", stats.MinPrice)
	}
	if stats.MaxPrice != 102 {
		t.Fatalf("MaxPrice = %v, want 102", stats.MaxPrice)
	}
	if stats.AvgPrice != 100 {
		t.Fatalf("AvgPrice = %v, want 100", stats.AvgPrice)
	}
	if stats.StdDevPct <= 0 {
		t.Fatalf("StdDevPct = %v, want > 0", stats.StdDevPct)
	}
}

func TestPriceStatsFromTradesEmpty(t *testing.T) {
	stats := PriceStatsFromTrades(nil)
	if stats.IsValid() {
		t.Fatal("expected invalid stats for empty input")
	}
}
