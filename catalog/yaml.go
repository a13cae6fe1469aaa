package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type catalogDoc struct {
	Products []productDoc `yaml:"products"`
}

type productDoc struct {
	ID              string       `yaml:"id"`
	Name            string       `yaml:"name"`
	Description     string       `yaml:"description"`
	Price           string       `yaml:"price"`
	SalePrice       string       `yaml:"salePrice"`
	Category        string       `yaml:"category"`
	Images          []string     `yaml:"images"`
	Tags            []string     `yaml:"tags"`
	Rating          float64      `yaml:"rating"`
	ReviewCount     int          `yaml:"reviewCount"`
	Bestseller      bool         `yaml:"bestseller"`
	New             bool         `yaml:"new"`
	StockLevel      StockLevel   `yaml:"stockLevel"`
	Customizable    bool         `yaml:"customizable"`
	Options         []Option     `yaml:"options"`
	RequiredOptions []Option     `yaml:"requiredOptions"`
	Variants        []variantDoc `yaml:"variants"`
}

type variantDoc struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Color   string `yaml:"color"`
	Size    string `yaml:"size"`
	Price   string `yaml:"price"`
	InStock bool   `yaml:"inStock"`
}

func (d productDoc) product() (Product, error) {
	if d.ID == "" {
		return Product{}, errors.New("missing id")
	}
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return Product{}, fmt.Errorf("%s: price: %w", d.ID, err)
	}
	sale, err := optionalDecimal(d.SalePrice)
	if err != nil {
		return Product{}, fmt.Errorf("%s: salePrice: %w", d.ID, err)
	}
	p := Product{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		Price:           price,
		SalePrice:       sale,
		Category:        d.Category,
		Images:          d.Images,
		Tags:            d.Tags,
		Rating:          d.Rating,
		ReviewCount:     d.ReviewCount,
		Bestseller:      d.Bestseller,
		New:             d.New,
		StockLevel:      d.StockLevel,
		Customizable:    d.Customizable,
		Options:         d.Options,
		RequiredOptions: d.RequiredOptions,
	}
	if p.StockLevel == "" {
		p.StockLevel = InStock
	}
	for _, vd := range d.Variants {
		vp, err := optionalDecimal(vd.Price)
		if err != nil {
			return Product{}, fmt.Errorf("%s: variant %s: price: %w", d.ID, vd.ID, err)
		}
		p.Variants = append(p.Variants, Variant{
			ID:      vd.ID,
			Name:    vd.Name,
			Color:   vd.Color,
			Size:    vd.Size,
			Price:   vp,
			InStock: vd.InStock,
		})
	}
	return p, nil
}

func optionalDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
