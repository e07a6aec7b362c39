package validation

import (
	"testing"

	"github.com/shopspring/decimal"

	"ordercore/models"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func validNewOrder() models.NewOrderRequest {
	return models.NewOrderRequest{
		Symbol:   "AAPL",
		Side:     models.Buy,
		Type:     models.Limit,
		TIF:      models.GTC,
		Price:    d(100),
		Quantity: d(10),
		ClientID: "client-1",
	}
}

func TestValidateNewOrderAccepts(t *testing.T) {
	v := NewDefaultInputValidator()
	if err := v.ValidateNewOrder(validNewOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateNewOrderRejectsBadSymbol(t *testing.T) {
	v := NewDefaultInputValidator()
	req := validNewOrder()
	req.Symbol = "aapl$"
	if err := v.ValidateNewOrder(req); err != ErrInvalidSymbol {
		t.Fatalf("err = %v, want ErrInvalidSymbol", err)
	}
}

func TestValidateNewOrderRejectsNonPositivePrice(t *testing.T) {
	v := NewDefaultInputValidator()
	req := validNewOrder()
	req.Price = d(0)
	if err := v.ValidateNewOrder(req); err != ErrInvalidPrice {
		t.Fatalf("err = %v, want ErrInvalidPrice", err)
	}
}

func TestValidateNewOrderSkipsPriceForMarket(t *testing.T) {
	v := NewDefaultInputValidator()
	req := validNewOrder()
	req.Type = models.Market
	req.TIF = models.IOC
	req.Price = decimal.Zero
	if err := v.ValidateNewOrder(req); err != nil {
		t.Fatalf("unexpected error for market order with zero price: %v", err)
	}
}

func TestValidateNewOrderRejectsNonPositiveQuantity(t *testing.T) {
	v := NewDefaultInputValidator()
	req := validNewOrder()
	req.Quantity = d(-1)
	if err := v.ValidateNewOrder(req); err != ErrInvalidQuantity {
		t.Fatalf("err = %v, want ErrInvalidQuantity", err)
	}
}

func TestValidateNewOrderRejectsBadClientID(t *testing.T) {
	v := NewDefaultInputValidator()
	req := validNewOrder()
	req.ClientID = "has a space"
	if err := v.ValidateNewOrder(req); err != ErrInvalidClientID {
		t.Fatalf("err = %v, want ErrInvalidClientID", err)
	}
}

func TestValidateModifyOrderChecksOnlyPresentFields(t *testing.T) {
	v := NewDefaultInputValidator()
	req := models.ModifyOrderRequest{}
	if err := v.ValidateModifyOrder(req); err != nil {
		t.Fatalf("unexpected error for empty modify request: %v", err)
	}

	req.HasNewPrice = true
	req.NewPrice = d(-5)
	if err := v.ValidateModifyOrder(req); err != ErrInvalidPrice {
		t.Fatalf("err = %v, want ErrInvalidPrice", err)
	}
}
