package cart

import "github.com/shopspring/decimal"

// Pricing holds the store-wide rates applied on top of the subtotal.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShipping          decimal.Decimal
}

// DefaultPricing returns 8% tax and $5.99 shipping, free from $75.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(75),
		FlatShipping:          decimal.RequireFromString("5.99"),
	}
}

// Totals is the derived price breakdown of a cart. Values are exact; round
// with StringFixed(2) for display.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Compute derives tax, shipping and total from a subtotal and a discount
// amount. Tax is charged on the undiscounted subtotal. An empty subtotal
// ships free. The total never drops below zero.
func (p Pricing) Compute(subtotal, discount decimal.Decimal) Totals {
	discount = decimal.Min(decimal.Max(discount, decimal.Zero), subtotal)
	t := Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      subtotal.Mul(p.TaxRate),
		Shipping: p.shipping(subtotal),
	}
	t.Total = decimal.Max(decimal.Zero, subtotal.Sub(discount).Add(t.Tax).Add(t.Shipping))
	return t
}

func (p Pricing) shipping(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShipping
}
