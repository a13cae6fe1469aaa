package cart

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/printshop/catalog"
	"github.com/phanxgames/printshop/placement"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, name, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "%s = %s, want %s", name, got, want)
}

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	})
}

func products(t *testing.T) (shirt, hoodie, phone *catalog.Product) {
	t.Helper()
	c := catalog.Default()
	var err error
	shirt, err = c.FindProduct("1")
	require.NoError(t, err)
	hoodie, err = c.FindProduct("2")
	require.NoError(t, err)
	phone, err = c.FindProduct("5")
	require.NoError(t, err)
	return shirt, hoodie, phone
}

func TestTotalsScenario(t *testing.T) {
	shirt, _, phone := products(t)
	c := New(sequentialIDs())

	_, err := c.AddLineItem(shirt, 2, LineOptions{Variant: shirt.Variant("1-2")})
	require.NoError(t, err)
	_, err = c.AddLineItem(phone, 1, LineOptions{Variant: phone.Variant("5-1")})
	require.NoError(t, err)

	got := c.Totals()
	assertDecimal(t, "subtotal", "66.97", got.Subtotal)
	assertDecimal(t, "shipping", "5.99", got.Shipping)
	assertDecimal(t, "tax", "5.3576", got.Tax)
	assertDecimal(t, "discount", "0", got.Discount)
	assertDecimal(t, "total", "78.3176", got.Total)
	assert.Equal(t, "78.32", got.Total.StringFixed(2))
}

func TestFreeShippingThreshold(t *testing.T) {
	_, hoodie, _ := products(t)
	c := New()

	_, err := c.AddLineItem(hoodie, 1, LineOptions{})
	require.NoError(t, err)
	assertDecimal(t, "shipping", "5.99", c.Totals().Shipping)

	_, err = c.AddLineItem(hoodie, 1, LineOptions{})
	require.NoError(t, err)
	got := c.Totals()
	assertDecimal(t, "subtotal", "99.98", got.Subtotal)
	assertDecimal(t, "shipping", "0", got.Shipping)
}

func TestEmptyCartTotals(t *testing.T) {
	got := New().Totals()
	assert.True(t, got.Total.IsZero())
	assert.True(t, got.Shipping.IsZero())
}

func TestComputeExactThreshold(t *testing.T) {
	got := DefaultPricing().Compute(dec("75"), decimal.Zero)
	assertDecimal(t, "shipping", "0", got.Shipping)
	assertDecimal(t, "total", "81", got.Total)
}

// --- Merge ---

func TestAddMergesIdenticalLines(t *testing.T) {
	shirt, _, _ := products(t)
	c := New(sequentialIDs())
	payload := Payload{Text{"hello"}, Position{placement.Back}, Transform{placement.DefaultTransform()}}

	first, err := c.AddLineItem(shirt, 1, LineOptions{Variant: shirt.Variant("1-1"), Payload: payload})
	require.NoError(t, err)

	same := Payload{Text{"hello"}, Position{placement.Back}, Transform{placement.DefaultTransform()}}
	merged, err := c.AddLineItem(shirt, 2, LineOptions{Variant: shirt.Variant("1-1"), Payload: same})
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.Count())
}

func TestAddKeepsDistinctLines(t *testing.T) {
	shirt, _, _ := products(t)
	c := New(sequentialIDs())
	moved := placement.Transform{Translation: placement.Vec2{X: 10, Y: 0}, Scale: 1}

	adds := []LineOptions{
		{Variant: shirt.Variant("1-1")},
		{Variant: shirt.Variant("1-2")},
		{Variant: shirt.Variant("1-1"), Payload: Payload{Text{"a"}}},
		{Variant: shirt.Variant("1-1"), Payload: Payload{Text{"b"}}},
		{Variant: shirt.Variant("1-1"), Payload: Payload{Text{"a"}, Transform{moved}}},
	}
	for _, opts := range adds {
		_, err := c.AddLineItem(shirt, 1, opts)
		require.NoError(t, err)
	}
	assert.Equal(t, len(adds), c.Len())
}

func TestAddSnapshotsPrice(t *testing.T) {
	_, _, phone := products(t)
	c := New()
	li, err := c.AddLineItem(phone, 1, LineOptions{})
	require.NoError(t, err)
	assertDecimal(t, "unit price", "16.99", li.UnitPrice)
	assert.Equal(t, "Phone Case", li.Name)
	assert.NotEmpty(t, li.ID)
	assert.NotEmpty(t, li.Image)
}

func TestAddRejects(t *testing.T) {
	shirt, hoodie, _ := products(t)
	tests := []struct {
		name    string
		product *catalog.Product
		qty     int
		opts    LineOptions
		code    StatusCode
		msg     string
	}{
		{"nil product", nil, 1, LineOptions{}, StatusInvalidArgument, ErrMsgProductRequired},
		{"zero quantity", shirt, 0, LineOptions{}, StatusInvalidArgument, ErrMsgQuantityPositive},
		{"foreign variant", shirt, 1, LineOptions{Variant: hoodie.Variant("2-1")}, StatusInvalidArgument, ErrMsgVariantMismatch},
		{"out of stock", hoodie, 1, LineOptions{Variant: hoodie.Variant("2-12")}, StatusFailedPrecondition, ErrMsgVariantOutOfStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			_, err := c.AddLineItem(tt.product, tt.qty, tt.opts)
			require.Error(t, err)
			code, ok := Code(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.msg, err.Error())
			assert.Zero(t, c.Len())
		})
	}
}

func TestAddRejectsBadTransform(t *testing.T) {
	shirt, _, _ := products(t)
	c := New()
	bad := Payload{Transform{placement.Transform{Scale: 3}}}
	_, err := c.AddLineItem(shirt, 1, LineOptions{Payload: bad})
	code, ok := Code(err)
	require.True(t, ok)
	assert.Equal(t, StatusInvalidArgument, code)
}

// --- Remove / quantity / clear ---

func TestRemoveAndUpdateQuantity(t *testing.T) {
	shirt, hoodie, _ := products(t)
	c := New(sequentialIDs())
	a, _ := c.AddLineItem(shirt, 1, LineOptions{})
	b, _ := c.AddLineItem(hoodie, 1, LineOptions{})

	require.NoError(t, c.UpdateQuantity(a.ID, 10))
	got, ok := c.Item(a.ID)
	require.True(t, ok)
	assert.Equal(t, 10, got.Quantity)

	for _, q := range []int{0, 11, -1} {
		err := c.UpdateQuantity(a.ID, q)
		code, _ := Code(err)
		assert.Equal(t, StatusInvalidArgument, code, "q=%d", q)
	}

	require.NoError(t, c.Remove(b.ID))
	assert.Equal(t, 1, c.Len())

	err := c.Remove(b.ID)
	code, _ := Code(err)
	assert.Equal(t, StatusFailedPrecondition, code)
	assert.Equal(t, ErrMsgItemNotInCart, err.Error())

	err = c.UpdateQuantity("missing", 2)
	assert.EqualError(t, err, ErrMsgItemNotInCart)
}

func TestItemsIsACopy(t *testing.T) {
	shirt, _, _ := products(t)
	c := New()
	c.AddLineItem(shirt, 1, LineOptions{})
	items := c.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestClearDropsDiscount(t *testing.T) {
	shirt, _, _ := products(t)
	c := New()
	c.AddLineItem(shirt, 1, LineOptions{})
	require.NoError(t, c.ApplyDiscount("SAVE5"))

	c.Clear()
	assert.Zero(t, c.Len())
	_, ok := c.Discount()
	assert.False(t, ok)
}

// --- Persistence ---

func TestStateRestore(t *testing.T) {
	shirt, _, _ := products(t)
	c := New(sequentialIDs())
	c.AddLineItem(shirt, 2, LineOptions{Payload: Payload{Text{"hi"}}})
	require.NoError(t, c.ApplyDiscount("welcome10"))

	restored := New()
	require.NoError(t, restored.Restore(c.State()))
	assert.Equal(t, c.Items(), restored.Items())
	assert.True(t, c.Totals().Total.Equal(restored.Totals().Total))

	strict := New(WithDiscountCodes(map[string]DiscountRule{}))
	err := strict.Restore(c.State())
	assert.Error(t, err)
	assert.Equal(t, 1, strict.Len(), "items survive an unknown code")
}
