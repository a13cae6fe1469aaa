// Package account keeps the signed-in shopper's wishlist and saved designs.
// Both containers are plain in-memory values; the store package loads and
// saves them.
package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phanxgames/printshop/cart"
)

var (
	// ErrNameRequired is returned when a design is saved without a name.
	ErrNameRequired = errors.New("account: design name is required")
	// ErrProductRequired is returned when a design has no product.
	ErrProductRequired = errors.New("account: design product is required")
	// ErrDesignNotFound is returned for unknown design ids.
	ErrDesignNotFound = errors.New("account: design not found")
)

// DesignIDPrefix starts every saved design id.
const DesignIDPrefix = "design_"

// --- Wishlist ---

// Wishlist is an ordered set of product ids.
type Wishlist struct {
	ids []string
}

// NewWishlist returns a wishlist holding ids, duplicates dropped.
func NewWishlist(ids ...string) *Wishlist {
	w := &Wishlist{}
	for _, id := range ids {
		w.Add(id)
	}
	return w
}

// Add appends id. It reports false when id was already present.
func (w *Wishlist) Add(id string) bool {
	if id == "" || w.Contains(id) {
		return false
	}
	w.ids = append(w.ids, id)
	return true
}

// Remove drops id. It reports whether anything was removed.
func (w *Wishlist) Remove(id string) bool {
	for i, x := range w.ids {
		if x == id {
			w.ids = append(w.ids[:i], w.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle adds id when absent and removes it when present. It returns the
// new membership.
func (w *Wishlist) Toggle(id string) bool {
	if w.Remove(id) {
		return false
	}
	return w.Add(id)
}

// Contains reports whether id is on the wishlist.
func (w *Wishlist) Contains(id string) bool {
	for _, x := range w.ids {
		if x == id {
			return true
		}
	}
	return false
}

// IDs returns the product ids in the order they were added.
func (w *Wishlist) IDs() []string {
	return append([]string(nil), w.ids...)
}

// Len returns the number of ids.
func (w *Wishlist) Len() int { return len(w.ids) }

// --- Designs ---

// Design is a saved customization that can be reopened on the
// customization page.
type Design struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	ProductID string       `json:"productId"`
	VariantID string       `json:"variantId,omitempty"`
	Payload   cart.Payload `json:"customization"`
	Preview   string       `json:"previewImage,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// DesignsOption configures Designs.
type DesignsOption func(*Designs)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) DesignsOption {
	return func(d *Designs) { d.now = now }
}

// WithDesignIDs overrides the random part of design ids.
func WithDesignIDs(fn func() string) DesignsOption {
	return func(d *Designs) { d.newID = fn }
}

// Designs is the shopper's saved design list, oldest first.
type Designs struct {
	items []Design
	now   func() time.Time
	newID func() string
}

// NewDesigns returns an empty list.
func NewDesigns(opts ...DesignsOption) *Designs {
	d := &Designs{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Save stores d under a fresh id and creation time, ignoring whatever id
// and time d carried. The name is trimmed and must not be empty.
func (ds *Designs) Save(d Design) (Design, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return Design{}, ErrNameRequired
	}
	if d.ProductID == "" {
		return Design{}, ErrProductRequired
	}
	d.ID = DesignIDPrefix + ds.newID()
	d.CreatedAt = ds.now()
	ds.items = append(ds.items, d)
	return d, nil
}

// Remove deletes the design with the given id.
func (ds *Designs) Remove(id string) error {
	for i := range ds.items {
		if ds.items[i].ID == id {
			ds.items = append(ds.items[:i], ds.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrDesignNotFound, id)
}

// Find returns the design with the given id.
func (ds *Designs) Find(id string) (Design, error) {
	for _, d := range ds.items {
		if d.ID == id {
			return d, nil
		}
	}
	return Design{}, fmt.Errorf("%w: %q", ErrDesignNotFound, id)
}

// List returns every design in creation order.
func (ds *Designs) List() []Design {
	return append([]Design(nil), ds.items...)
}

// ForProduct returns the designs made for productID.
func (ds *Designs) ForProduct(productID string) []Design {
	var out []Design
	for _, d := range ds.items {
		if d.ProductID == productID {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of designs.
func (ds *Designs) Len() int { return len(ds.items) }

// Restore replaces the list with previously saved designs, keeping their
// ids and times.
func (ds *Designs) Restore(designs []Design) {
	ds.items = append([]Design(nil), designs...)
}
