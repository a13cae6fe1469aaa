// Package cart is the shopping cart aggregate: customized line items and
// the totals derived from them.
//
// A Cart is owned by whoever creates it and is not safe for concurrent use.
// Persistence goes through State snapshots (see the store package).
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/catalog"
)

// Quantity limits for a single line, as offered by the quantity picker.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// LineItem is one row of the cart. Product details are copied in when the
// line is created so that a saved cart does not depend on the catalog.
type LineItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Image       string          `json:"image,omitempty"`
	VariantID   string          `json:"variantId,omitempty"`
	VariantName string          `json:"variantName,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Payload     Payload         `json:"customization,omitempty"`
}

// LineTotal returns UnitPrice × Quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) sameLine(productID, variantID string, p Payload) bool {
	return li.ProductID == productID && li.VariantID == variantID && li.Payload.Equal(p)
}

// LineOptions are the optional parts of an add-to-cart request.
type LineOptions struct {
	Variant *catalog.Variant
	Payload Payload
}

// State is the persistable form of a cart.
type State struct {
	Items        []LineItem `json:"items"`
	DiscountCode string     `json:"discountCode,omitempty"`
}

// Option configures a Cart.
type Option func(*Cart)

// WithPricing overrides DefaultPricing.
func WithPricing(p Pricing) Option {
	return func(c *Cart) { c.pricing = p }
}

// WithDiscountCodes replaces the accepted discount codes. Keys are matched
// case-insensitively.
func WithDiscountCodes(codes map[string]DiscountRule) Option {
	return func(c *Cart) {
		c.codes = make(map[string]DiscountRule, len(codes))
		for k, v := range codes {
			c.codes[normalizeCode(k)] = v
		}
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cart) { c.log = l }
}

// WithIDGenerator overrides how line ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(c *Cart) { c.newID = fn }
}

// Cart holds line items and at most one discount.
type Cart struct {
	items    []LineItem
	discount *Discount

	pricing Pricing
	codes   map[string]DiscountRule
	log     *zap.Logger
	newID   func() string
}

// New returns an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{
		pricing: DefaultPricing(),
		log:     zap.NewNop(),
		newID:   uuid.NewString,
	}
	WithDiscountCodes(DefaultDiscountCodes())(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Line items ---

// AddLineItem adds quantity units of product. When a line with the same
// product, variant and customization already exists its quantity grows
// instead. The returned item is a copy of the affected line.
func (c *Cart) AddLineItem(product *catalog.Product, quantity int, opts LineOptions) (LineItem, error) {
	if product == nil {
		return LineItem{}, invalidArgument(ErrMsgProductRequired)
	}
	if quantity < MinQuantity {
		return LineItem{}, invalidArgument(ErrMsgQuantityPositive)
	}
	var variantID, variantName string
	if v := opts.Variant; v != nil {
		if product.Variant(v.ID) == nil {
			return LineItem{}, invalidArgument(ErrMsgVariantMismatch)
		}
		if !v.InStock {
			return LineItem{}, failedPrecondition(ErrMsgVariantOutOfStock)
		}
		variantID, variantName = v.ID, v.Name
	}
	if err := opts.Payload.Validate(); err != nil {
		return LineItem{}, err
	}

	for i := range c.items {
		if c.items[i].sameLine(product.ID, variantID, opts.Payload) {
			c.items[i].Quantity += quantity
			c.log.Debug("cart line merged",
				zap.String("line", c.items[i].ID),
				zap.Int("quantity", c.items[i].Quantity))
			return c.items[i], nil
		}
	}

	li := LineItem{
		ID:          c.newID(),
		ProductID:   product.ID,
		Name:        product.Name,
		VariantID:   variantID,
		VariantName: variantName,
		UnitPrice:   product.EffectivePrice(opts.Variant),
		Quantity:    quantity,
		Payload:     opts.Payload,
	}
	if len(product.Images) > 0 {
		li.Image = product.Images[0]
	}
	c.items = append(c.items, li)
	c.log.Debug("cart line added",
		zap.String("line", li.ID),
		zap.String("product", li.ProductID),
		zap.String("variant", li.VariantID),
		zap.Int("quantity", quantity))
	return li, nil
}

// Remove deletes the line with the given id.
func (c *Cart) Remove(id string) error {
	i := c.index(id)
	if i < 0 {
		return failedPrecondition(ErrMsgItemNotInCart)
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.log.Debug("cart line removed", zap.String("line", id))
	return nil
}

// UpdateQuantity sets the quantity of a line. q must be within
// [MinQuantity, MaxQuantity].
func (c *Cart) UpdateQuantity(id string, q int) error {
	i := c.index(id)
	if i < 0 {
		return failedPrecondition(ErrMsgItemNotInCart)
	}
	if q < MinQuantity || q > MaxQuantity {
		return invalidArgument(ErrMsgQuantityRange)
	}
	c.items[i].Quantity = q
	return nil
}

// Clear empties the cart and drops the discount.
func (c *Cart) Clear() {
	c.items = nil
	c.discount = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the line with the given id.
func (c *Cart) Item(id string) (LineItem, bool) {
	i := c.index(id)
	if i < 0 {
		return LineItem{}, false
	}
	return c.items[i], true
}

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.items) }

// Count returns the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, li := range c.items {
		n += li.Quantity
	}
	return n
}

func (c *Cart) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Discounts ---

// ApplyDiscount applies code, replacing any previously applied code.
func (c *Cart) ApplyDiscount(code string) error {
	code = normalizeCode(code)
	if code == "" {
		return invalidArgument(ErrMsgCouponCodeRequired)
	}
	rule, ok := c.codes[code]
	if !ok {
		return invalidArgument(ErrMsgUnknownCoupon)
	}
	if err := rule.Validate(); err != nil {
		return err
	}
	c.discount = &Discount{Code: code, Rule: rule}
	c.log.Debug("discount applied", zap.String("code", code))
	return nil
}

// RemoveDiscount drops the applied code, if any.
func (c *Cart) RemoveDiscount() {
	c.discount = nil
}

// Discount returns the applied discount.
func (c *Cart) Discount() (Discount, bool) {
	if c.discount == nil {
		return Discount{}, false
	}
	return *c.discount, true
}

// --- Totals ---

// Subtotal returns Σ unit price × quantity.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range c.items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}

// Totals returns the full price breakdown.
func (c *Cart) Totals() Totals {
	sub := c.Subtotal()
	disc := decimal.Zero
	if c.discount != nil {
		disc = c.discount.Rule.Amount(sub)
	}
	return c.pricing.Compute(sub, disc)
}

// Pricing returns the rates the cart was configured with.
func (c *Cart) Pricing() Pricing { return c.pricing }

// --- Persistence ---

// State returns a snapshot for persistence.
func (c *Cart) State() State {
	s := State{Items: c.Items()}
	if c.discount != nil {
		s.DiscountCode = c.discount.Code
	}
	return s
}

// Restore replaces the cart contents with s. A discount code that is no
// longer accepted is dropped and reported through the returned error; the
// items are restored regardless.
func (c *Cart) Restore(s State) error {
	c.items = append([]LineItem(nil), s.Items...)
	c.discount = nil
	if s.DiscountCode == "" {
		return nil
	}
	return c.ApplyDiscount(s.DiscountCode)
}
