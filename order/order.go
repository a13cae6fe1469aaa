// Package order turns a cart into a simulated order and tracks it through
// its fulfilment states. Payment and fulfilment are not performed; Advance
// moves an order along for demos and tests.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phanxgames/printshop/cart"
)

// Delivery timing used for estimates and the tracker.
const (
	DeliveryEstimate = 7 * 24 * time.Hour
	ProcessingAfter  = 24 * time.Hour
	ShippedAfter     = 3 * 24 * time.Hour
)

var (
	ErrEmptyCart         = errors.New("order: cart is empty")
	ErrInvalidTransition = errors.New("order: invalid status transition")
)

// Status is an order's fulfilment state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// next maps each status to the one Advance moves it to.
var next = map[Status]Status{
	StatusPending:    StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// Address is a shipping address.
type Address struct {
	Name    string `json:"name,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// String formats the address on one line.
func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.ZipCode, a.Country)
}

// Order is a placed order.
type Order struct {
	ID                string          `json:"id"`
	Items             []cart.LineItem `json:"items"`
	Totals            cart.Totals     `json:"totals"`
	DiscountCode      string          `json:"discountCode,omitempty"`
	Status            Status          `json:"status"`
	ShippingAddress   Address         `json:"shippingAddress"`
	PaymentMethod     string          `json:"paymentMethod"`
	TrackingNumber    string          `json:"trackingNumber,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
}

// Place snapshots c into a pending order. The address is taken as given.
// The cart itself is left untouched; callers clear it once the order is
// stored.
func Place(c *cart.Cart, addr Address, paymentMethod string, now time.Time) (*Order, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}
	o := &Order{
		ID:                newOrderID(),
		Items:             c.Items(),
		Totals:            c.Totals(),
		Status:            StatusPending,
		ShippingAddress:   addr,
		PaymentMethod:     paymentMethod,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: now.Add(DeliveryEstimate),
	}
	if d, ok := c.Discount(); ok {
		o.DiscountCode = d.Code
	}
	return o, nil
}

func newOrderID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(id[:10])
}

// Advance moves the order to its next status. Shipping assigns a tracking
// number.
func (o *Order) Advance(now time.Time) error {
	to, ok := next[o.Status]
	if !ok {
		return fmt.Errorf("%w: %s has no next status", ErrInvalidTransition, o.Status)
	}
	o.Status = to
	o.UpdatedAt = now
	if to == StatusShipped && o.TrackingNumber == "" {
		o.TrackingNumber = "TRK" + strings.TrimPrefix(o.ID, "ORD-")
	}
	return nil
}

// Cancel cancels an order that has not shipped yet.
func (o *Order) Cancel(now time.Time) error {
	if !o.Cancellable() {
		return fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, o.Status)
	}
	o.Status = StatusCancelled
	o.UpdatedAt = now
	return nil
}

// Cancellable reports whether Cancel would succeed.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// ItemCount returns the number of units ordered.
func (o *Order) ItemCount() int {
	n := 0
	for _, li := range o.Items {
		n += li.Quantity
	}
	return n
}
