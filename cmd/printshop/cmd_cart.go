package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/cart"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit the shopping cart",
	Args:  cobra.NoArgs,
	RunE:  runCartShow,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart with its totals",
	Args:  cobra.NoArgs,
	RunE:  runCartShow,
}

var cartAddFlags struct {
	variant  string
	quantity int
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add an uncustomized product",
	Long: `Adds a product without customization. Use "printshop customize" to
add a customized design.`,
	Args: cobra.ExactArgs(1),
	RunE: runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [line-id]",
	Short: "Remove a line",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty [line-id] [quantity]",
	Short: "Set a line's quantity (1-10)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartQty,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

var cartDiscountRemove bool

var cartDiscountCmd = &cobra.Command{
	Use:   "discount [code]",
	Short: "Apply a discount code, or drop it with --remove",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCartDiscount,
}

func init() {
	cartAddCmd.Flags().StringVar(&cartAddFlags.variant, "variant", "", "variant id (default: first in stock)")
	cartAddCmd.Flags().IntVarP(&cartAddFlags.quantity, "qty", "q", 1, "quantity")
	cartDiscountCmd.Flags().BoolVar(&cartDiscountRemove, "remove", false, "remove the applied code")

	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartQtyCmd, cartClearCmd, cartDiscountCmd)
}

// editCart loads the cart, applies fn and saves it when fn succeeds.
func editCart(cmd *cobra.Command, fn func(*cart.Cart) error) (*cart.Cart, error) {
	c, err := loadCart(cmd.Context())
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := saveCart(cmd.Context(), c); err != nil {
		return nil, err
	}
	return c, nil
}

func runCartShow(cmd *cobra.Command, args []string) error {
	c, err := loadCart(cmd.Context())
	if err != nil {
		return err
	}
	writeCart(cmd.OutOrStdout(), c)
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	p, err := shop.FindProduct(args[0])
	if err != nil {
		return err
	}
	opts := cart.LineOptions{Variant: p.DefaultVariant()}
	if cartAddFlags.variant != "" {
		if opts.Variant = p.Variant(cartAddFlags.variant); opts.Variant == nil {
			return fmt.Errorf("product %s has no variant %q", p.ID, cartAddFlags.variant)
		}
	}
	var li cart.LineItem
	c, err := editCart(cmd, func(c *cart.Cart) error {
		li, err = c.AddLineItem(p, cartAddFlags.quantity, opts)
		return err
	})
	if err != nil {
		return err
	}
	logger.Info("added to cart", zap.String("line", li.ID), zap.Int("quantity", li.Quantity))
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (line %s, quantity %d)\n", li.Name, li.ID, li.Quantity)
	writeCart(cmd.OutOrStdout(), c)
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	c, err := editCart(cmd, func(c *cart.Cart) error { return c.Remove(args[0]) })
	if err != nil {
		return err
	}
	writeCart(cmd.OutOrStdout(), c)
	return nil
}

func runCartQty(cmd *cobra.Command, args []string) error {
	q, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity %q: %w", args[1], err)
	}
	c, err := editCart(cmd, func(c *cart.Cart) error { return c.UpdateQuantity(args[0], q) })
	if err != nil {
		return err
	}
	writeCart(cmd.OutOrStdout(), c)
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	_, err := editCart(cmd, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
	return nil
}

func runCartDiscount(cmd *cobra.Command, args []string) error {
	if !cartDiscountRemove && len(args) == 0 {
		return fmt.Errorf("a discount code is required")
	}
	c, err := editCart(cmd, func(c *cart.Cart) error {
		if cartDiscountRemove {
			c.RemoveDiscount()
			return nil
		}
		return c.ApplyDiscount(args[0])
	})
	if err != nil {
		return err
	}
	writeCart(cmd.OutOrStdout(), c)
	return nil
}

func writeCart(out io.Writer, c *cart.Cart) {
	if c.Len() == 0 {
		fmt.Fprintln(out, "Your cart is empty")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "LINE\tPRODUCT\tVARIANT\tCUSTOMIZATION\tQTY\tUNIT\tTOTAL\t")
	for _, li := range c.Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t$%s\t$%s\t\n",
			li.ID, li.Name, li.VariantName, describePayload(li.Payload),
			li.Quantity, li.UnitPrice.StringFixed(2), li.LineTotal().StringFixed(2))
	}
	w.Flush()

	t := c.Totals()
	fmt.Fprintf(out, "Subtotal  $%s\n", t.Subtotal.StringFixed(2))
	if d, ok := c.Discount(); ok {
		fmt.Fprintf(out, "Discount  -$%s (%s)\n", t.Discount.StringFixed(2), d.Code)
	}
	fmt.Fprintf(out, "Tax       $%s\n", t.Tax.StringFixed(2))
	if t.Shipping.IsZero() {
		fmt.Fprintln(out, "Shipping  free")
	} else {
		fmt.Fprintf(out, "Shipping  $%s\n", t.Shipping.StringFixed(2))
	}
	fmt.Fprintf(out, "Total     $%s\n", t.Total.StringFixed(2))
}

// describePayload summarizes a customization on one line.
func describePayload(p cart.Payload) string {
	if len(p) == 0 {
		return "-"
	}
	var parts []string
	if s, ok := p.TextValue(); ok && s != "" {
		parts = append(parts, strconv.Quote(s))
	}
	if ref, ok := p.ImageRef(); ok {
		parts = append(parts, "image "+ref)
	}
	if pos, ok := p.PrintPosition(); ok {
		parts = append(parts, pos.String())
	}
	if t, ok := p.PlacementTransform(); ok && !t.IsDefault() {
		parts = append(parts, fmt.Sprintf("x%.1f @%d°", t.Scale, t.RotationDegrees))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
