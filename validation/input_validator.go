// Package validation provides an optional pre-engine sanity check for
// caller-supplied requests: format and range checks a gateway would want
// to run before ever calling MatchingEngine.NewOrder, distinct from (and
// stricter than) the engine's own validate_new_order / validate_modify_order.
package validation

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"

	"ordercore/models"
)

const (
	MaxSymbolLength   = 20
	MaxClientIDLength = 64
)

var (
	symbolRegex   = regexp.MustCompile(`^[A-Z0-9]+$`)
	clientIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	ErrInvalidSymbol   = errors.New("invalid symbol format or length")
	ErrInvalidClientID = errors.New("invalid client_id format or length")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidSide     = errors.New("invalid order side")
	ErrInvalidType     = errors.New("invalid order type")
	ErrInvalidTIF      = errors.New("invalid time in force")
)

// Limits bounds the values ValidateNewOrder and ValidateModifyOrder will
// accept, independent of the engine's own (looser) validate_new_order.
type Limits struct {
	MaxPrice    decimal.Decimal
	MaxQuantity decimal.Decimal
}

// DefaultLimits is generous enough not to reject realistic test fixtures.
func DefaultLimits() Limits {
	return Limits{
		MaxPrice:    decimal.New(1, 9),
		MaxQuantity: decimal.New(1, 9),
	}
}

// InputValidator runs boundary checks a gateway would want before ever
// reaching the matching engine: well-formed symbol/client id, and prices
// and quantities within configured bounds. Follows the existing
// InputValidator; trimmed to the request shapes this spec's engine uses
// and rebuilt around decimal.Decimal instead of float64.
type InputValidator struct {
	limits Limits
}

// NewInputValidator builds a validator with the given limits.
func NewInputValidator(limits Limits) *InputValidator {
	return &InputValidator{limits: limits}
}

// NewDefaultInputValidator builds a validator with DefaultLimits.
func NewDefaultInputValidator() *InputValidator {
	return NewInputValidator(DefaultLimits())
}

// ValidateNewOrder checks a NewOrderRequest's shape before it ever
// reaches MatchingEngine.NewOrder.
func (v *InputValidator) ValidateNewOrder(req models.NewOrderRequest) error {
	if err := v.validateSymbol(string(req.Symbol)); err != nil {
		return err
	}
	if req.ClientID != "" {
		if err := v.validateClientID(req.ClientID); err != nil {
			return err
		}
	}
	if err := v.validateSide(req.Side); err != nil {
		return err
	}
	if err := v.validateType(req.Type); err != nil {
		return err
	}
	if err := v.validateTIF(req.TIF); err != nil {
		return err
	}
	if req.Type == models.Limit {
		if err := v.validatePrice(req.Price); err != nil {
			return err
		}
	}
	return v.validateQuantity(req.Quantity)
}

// ValidateModifyOrder checks a ModifyOrderRequest's shape. It only looks
// at the fields the caller asked to change.
func (v *InputValidator) ValidateModifyOrder(req models.ModifyOrderRequest) error {
	if req.HasNewPrice {
		if err := v.validatePrice(req.NewPrice); err != nil {
			return err
		}
	}
	if req.HasNewQuantity {
		if err := v.validateQuantity(req.NewQuantity); err != nil {
			return err
		}
	}
	return nil
}

func (v *InputValidator) validateSymbol(symbol string) error {
	if symbol == "" || len(symbol) > MaxSymbolLength || !symbolRegex.MatchString(symbol) {
		return ErrInvalidSymbol
	}
	return nil
}

func (v *InputValidator) validateClientID(clientID string) error {
	if len(clientID) > MaxClientIDLength || !clientIDRegex.MatchString(clientID) {
		return ErrInvalidClientID
	}
	return nil
}

func (v *InputValidator) validateSide(side models.Side) error {
	if side != models.Buy && side != models.Sell {
		return ErrInvalidSide
	}
	return nil
}

func (v *InputValidator) validateType(t models.OrderType) error {
	if t != models.Limit && t != models.Market {
		return ErrInvalidType
	}
	return nil
}

func (v *InputValidator) validateTIF(tif models.TimeInForce) error {
	switch tif {
	case models.GTC, models.IOC, models.FOK:
		return nil
	default:
		return ErrInvalidTIF
	}
}

func (v *InputValidator) validatePrice(price decimal.Decimal) error {
	if price.Sign() <= 0 || price.GreaterThan(v.limits.MaxPrice) {
		return ErrInvalidPrice
	}
	return nil
}

func (v *InputValidator) validateQuantity(qty decimal.Decimal) error {
	if qty.Sign() <= 0 || qty.GreaterThan(v.limits.MaxQuantity) {
		return ErrInvalidQuantity
	}
	return nil
}
