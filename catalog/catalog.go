// Package catalog holds the read-only product list: products, their
// variants, and the lookups the customization page and cart need to resolve
// a selection to a price and an availability.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/printshop/placement"
)

//go:embed products.yaml
var builtin []byte

// ErrProductNotFound is returned by FindProduct for unknown ids.
var ErrProductNotFound = errors.New("catalog: product not found")

// Option names a customization a product accepts.
type Option string

const (
	OptionText     Option = "text"
	OptionImage    Option = "image"
	OptionPosition Option = "position"
)

// StockLevel is the product-level stock badge.
type StockLevel string

const (
	InStock    StockLevel = "in_stock"
	LowStock   StockLevel = "low_stock"
	OutOfStock StockLevel = "out_of_stock"
)

// Variant is one purchasable configuration of a product.
type Variant struct {
	ID      string
	Name    string
	Color   string
	Size    string
	Price   decimal.NullDecimal // overrides the product price when valid
	InStock bool
}

// Product is a catalog entry.
type Product struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	SalePrice       decimal.NullDecimal
	Category        string
	Images          []string
	Tags            []string
	Rating          float64
	ReviewCount     int
	Bestseller      bool
	New             bool
	StockLevel      StockLevel
	Customizable    bool
	Options         []Option
	RequiredOptions []Option
	Variants        []Variant
}

// clone returns a copy of p that shares no slices with it.
func (p Product) clone() Product {
	p.Images = slices.Clone(p.Images)
	p.Tags = slices.Clone(p.Tags)
	p.Options = slices.Clone(p.Options)
	p.RequiredOptions = slices.Clone(p.RequiredOptions)
	p.Variants = slices.Clone(p.Variants)
	return p
}

// OnSale reports whether an active sale price applies.
func (p *Product) OnSale() bool {
	return p.SalePrice.Valid && p.SalePrice.Decimal.IsPositive() &&
		p.SalePrice.Decimal.LessThan(p.Price)
}

// EffectivePrice returns the unit price charged for v: the sale price when
// one is active, else the variant's own price, else the base price. v may
// be nil.
func (p *Product) EffectivePrice(v *Variant) decimal.Decimal {
	if p.OnSale() {
		return p.SalePrice.Decimal
	}
	if v != nil && v.Price.Valid {
		return v.Price.Decimal
	}
	return p.Price
}

// HasOption reports whether the product accepts customization o.
func (p *Product) HasOption(o Option) bool {
	for _, x := range p.Options {
		if x == o {
			return true
		}
	}
	return false
}

// Requires reports whether customization o must be supplied.
func (p *Product) Requires(o Option) bool {
	for _, x := range p.RequiredOptions {
		if x == o {
			return true
		}
	}
	return false
}

// PrintPositions lists the print areas a design may target. Products
// without a position option only print on the front.
func (p *Product) PrintPositions() []placement.Position {
	if !p.HasOption(OptionPosition) {
		return []placement.Position{placement.Front}
	}
	return placement.Positions()
}

// --- Variants ---

// Variant returns the variant with the given id, or nil.
func (p *Product) Variant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// MatchVariant returns the variant matching color and size. An empty color
// matches variants without a color (canvas prints, phone cases).
func (p *Product) MatchVariant(color, size string) *Variant {
	for i := range p.Variants {
		v := &p.Variants[i]
		if strings.EqualFold(v.Color, color) && strings.EqualFold(v.Size, size) {
			return v
		}
	}
	return nil
}

// Colors returns the distinct variant colors in catalog order.
func (p *Product) Colors() []string {
	return distinct(p.Variants, func(v Variant) string { return v.Color })
}

// Sizes returns the distinct variant sizes in catalog order.
func (p *Product) Sizes() []string {
	return distinct(p.Variants, func(v Variant) string { return v.Size })
}

// SizeAvailable reports whether size can be selected for color, i.e. a
// matching variant exists and is in stock.
func (p *Product) SizeAvailable(color, size string) bool {
	v := p.MatchVariant(color, size)
	return v != nil && v.InStock
}

// FirstVariantForColor returns the first in-stock variant of color, falling
// back to the first variant of that color when none is in stock.
func (p *Product) FirstVariantForColor(color string) *Variant {
	var first *Variant
	for i := range p.Variants {
		v := &p.Variants[i]
		if !strings.EqualFold(v.Color, color) {
			continue
		}
		if v.InStock {
			return v
		}
		if first == nil {
			first = v
		}
	}
	return first
}

// DefaultVariant returns the first in-stock variant, or nil when the product
// has none.
func (p *Product) DefaultVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].InStock {
			return &p.Variants[i]
		}
	}
	return nil
}

func distinct(vs []Variant, key func(Variant) string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range vs {
		k := key(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// --- Catalog ---

// Catalog is an immutable, ordered product list. Accessors hand out copies.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in data: %v", err))
	}
	return c
}

// Load reads a YAML catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{byID: make(map[string]int, len(doc.Products))}
	for i, pd := range doc.Products {
		p, err := pd.product()
		if err != nil {
			return nil, fmt.Errorf("parse catalog: product %d: %w", i, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// FindProduct returns the product with the given id.
func (c *Catalog) FindProduct(id string) (*Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProductNotFound, id)
	}
	p := c.products[i].clone()
	return &p, nil
}

// Products returns every product in catalog ("featured") order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	for i := range c.products {
		out[i] = c.products[i].clone()
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}
