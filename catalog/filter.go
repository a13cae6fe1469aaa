package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortOrder names a product listing order.
type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

// SortOrders lists every supported order.
func SortOrders() []SortOrder {
	return []SortOrder{SortFeatured, SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc}
}

// ParseSortOrder validates s. An empty string means SortFeatured.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortFeatured, nil
	}
	for _, o := range SortOrders() {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Filter narrows a product listing. Zero fields do not filter. Prices are
// compared against the base price, inclusive at both ends.
type Filter struct {
	Category string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
}

func (f Filter) match(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice.Valid && p.Price.LessThan(f.MinPrice.Decimal) {
		return false
	}
	if f.MaxPrice.Valid && p.Price.GreaterThan(f.MaxPrice.Decimal) {
		return false
	}
	return true
}

// Query returns the products matching f in the given order. Ties keep
// catalog order.
func (c *Catalog) Query(f Filter, order SortOrder) []Product {
	var out []Product
	for i := range c.products {
		if f.match(&c.products[i]) {
			out = append(out, c.products[i].clone())
		}
	}

	var less func(a, b *Product) bool
	switch order {
	case SortPriceLow:
		less = func(a, b *Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b *Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = func(a, b *Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortNameDesc:
		less = func(a, b *Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}
