package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a discount rule is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var hundred = decimal.NewFromInt(100)

// DiscountRule is the definition behind a discount code.
type DiscountRule struct {
	Type  DiscountType
	Value decimal.Decimal
}

// Validate enforces a percentage of 0-100 and a non-negative fixed amount.
func (r DiscountRule) Validate() error {
	switch r.Type {
	case DiscountPercentage:
		if r.Value.IsNegative() || r.Value.GreaterThan(hundred) {
			return invalidArgument(ErrMsgPercentageRange)
		}
	case DiscountFixed:
		if r.Value.IsNegative() {
			return invalidArgument(ErrMsgFixedDiscountNeg)
		}
	default:
		return invalidArgument(ErrMsgInvalidCouponType)
	}
	return nil
}

// Amount returns the deduction for subtotal, never more than subtotal.
func (r DiscountRule) Amount(subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch r.Type {
	case DiscountPercentage:
		d = subtotal.Mul(r.Value).Div(hundred)
	case DiscountFixed:
		d = r.Value
	}
	return decimal.Min(d, subtotal)
}

// Discount is a code applied to a cart.
type Discount struct {
	Code string
	Rule DiscountRule
}

// DefaultDiscountCodes returns the built-in codes.
func DefaultDiscountCodes() map[string]DiscountRule {
	return map[string]DiscountRule{
		"WELCOME10": {Type: DiscountPercentage, Value: decimal.NewFromInt(10)},
		"SAVE5":     {Type: DiscountFixed, Value: decimal.NewFromInt(5)},
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
