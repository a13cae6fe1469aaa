package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/phanxgames/printshop/account"
	"github.com/phanxgames/printshop/catalog"
)

var catalogFlags struct {
	category string
	minPrice string
	maxPrice string
	sort     string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List products",
	Long: `Lists the catalog, optionally filtered by category and base price.

Sort orders: featured, price-low, price-high, name-asc, name-desc.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var productCmd = &cobra.Command{
	Use:   "product [id]",
	Short: "Show a product with its variants and customization options",
	Args:  cobra.ExactArgs(1),
	RunE:  runProduct,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFlags.category, "category", "", "only this category")
	catalogCmd.Flags().StringVar(&catalogFlags.minPrice, "min", "", "minimum base price")
	catalogCmd.Flags().StringVar(&catalogFlags.maxPrice, "max", "", "maximum base price")
	catalogCmd.Flags().StringVar(&catalogFlags.sort, "sort", "", "sort order")
}

func parsePriceFlag(name, s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("--%s: %w", name, err)
	}
	return decimal.NewNullDecimal(d), nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	order, err := catalog.ParseSortOrder(catalogFlags.sort)
	if err != nil {
		return err
	}
	f := catalog.Filter{Category: catalogFlags.category}
	if f.MinPrice, err = parsePriceFlag("min", catalogFlags.minPrice); err != nil {
		return err
	}
	if f.MaxPrice, err = parsePriceFlag("max", catalogFlags.maxPrice); err != nil {
		return err
	}

	wl, err := db.LoadWishlist(cmd.Context())
	if err != nil {
		return err
	}
	wishlist := account.NewWishlist(wl...)

	products := shop.Query(f, order)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\t")
	for i := range products {
		p := &products[i]
		var flags []string
		if p.Customizable {
			flags = append(flags, "customizable")
		}
		if wishlist.Contains(p.ID) {
			flags = append(flags, "wishlist")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, priceLabel(p), strings.Join(flags, ","))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d products\n", len(products), shop.Len())
	return nil
}

func priceLabel(p *catalog.Product) string {
	if p.OnSale() {
		return fmt.Sprintf("$%s (was $%s)", p.EffectivePrice(nil).StringFixed(2), p.Price.StringFixed(2))
	}
	return "$" + p.Price.StringFixed(2)
}

func runProduct(cmd *cobra.Command, args []string) error {
	p, err := shop.FindProduct(args[0])
	if err != nil {
		return err
	}
	writeProduct(cmd.OutOrStdout(), p)
	return nil
}

func writeProduct(out io.Writer, p *catalog.Product) {
	fmt.Fprintf(out, "%s  %s\n", p.ID, p.Name)
	fmt.Fprintf(out, "  %s\n", p.Description)
	fmt.Fprintf(out, "  category: %s  price: %s  rating: %.1f (%d reviews)\n",
		p.Category, priceLabel(p), p.Rating, p.ReviewCount)
	if p.Customizable {
		opts := make([]string, len(p.Options))
		for i, o := range p.Options {
			opts[i] = string(o)
			if p.Requires(o) {
				opts[i] += " (required)"
			}
		}
		positions := make([]string, 0, len(p.PrintPositions()))
		for _, pos := range p.PrintPositions() {
			positions = append(positions, pos.String())
		}
		fmt.Fprintf(out, "  customization: %s\n", strings.Join(opts, ", "))
		fmt.Fprintf(out, "  print positions: %s\n", strings.Join(positions, ", "))
	}
	if len(p.Variants) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  VARIANT\tNAME\tPRICE\tSTOCK")
	for i := range p.Variants {
		v := &p.Variants[i]
		stock := "in stock"
		if !v.InStock {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "  %s\t%s\t$%s\t%s\n", v.ID, v.Name, p.EffectivePrice(v).StringFixed(2), stock)
	}
	w.Flush()
}
