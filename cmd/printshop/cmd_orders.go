package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/order"
)

var checkoutFlags struct {
	address order.Address
	payment string
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the cart contents",
	Long: `Places a simulated order for everything in the cart and empties the
cart. No payment is taken.`,
	Args: cobra.NoArgs,
	RunE: runCheckout,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders",
	Args:  cobra.NoArgs,
	RunE:  runOrdersList,
}

var orderShowCmd = &cobra.Command{
	Use:   "show [order-id]",
	Short: "Show an order with its tracking timeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderShow,
}

var orderAdvanceCmd = &cobra.Command{
	Use:   "advance [order-id]",
	Short: "Move an order to its next fulfilment status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateOrder(cmd, args[0], (*order.Order).Advance)
	},
}

var orderCancelCmd = &cobra.Command{
	Use:   "cancel [order-id]",
	Short: "Cancel an order that has not shipped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateOrder(cmd, args[0], (*order.Order).Cancel)
	},
}

func init() {
	f := checkoutCmd.Flags()
	f.StringVar(&checkoutFlags.address.Name, "name", "", "recipient name")
	f.StringVar(&checkoutFlags.address.Street, "street", "", "street address")
	f.StringVar(&checkoutFlags.address.City, "city", "", "city")
	f.StringVar(&checkoutFlags.address.State, "state", "", "state or region")
	f.StringVar(&checkoutFlags.address.ZipCode, "zip", "", "postal code")
	f.StringVar(&checkoutFlags.address.Country, "country", "US", "country")
	f.StringVar(&checkoutFlags.payment, "payment", "card", "payment method label")

	ordersCmd.AddCommand(orderShowCmd, orderAdvanceCmd, orderCancelCmd)
}

func runCheckout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := loadCart(ctx)
	if err != nil {
		return err
	}
	o, err := order.Place(c, checkoutFlags.address, checkoutFlags.payment, time.Now())
	if err != nil {
		return err
	}
	if err := db.SaveOrder(ctx, o); err != nil {
		return err
	}
	c.Clear()
	if err := saveCart(ctx, c); err != nil {
		return err
	}
	logger.Info("order placed",
		zap.String("order", o.ID),
		zap.String("total", o.Totals.Total.StringFixed(2)))
	fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed: %d items, $%s, estimated delivery %s\n",
		o.ID, o.ItemCount(), o.Totals.Total.StringFixed(2), o.EstimatedDelivery.Format("Jan 2, 2006"))
	return nil
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	orders, err := db.ListOrders(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders yet")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tPLACED\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t$%s\n",
			o.ID, o.CreatedAt.Format("2006-01-02"), o.Status, o.ItemCount(), o.Totals.Total.StringFixed(2))
	}
	return w.Flush()
}

func runOrderShow(cmd *cobra.Command, args []string) error {
	o, err := db.FindOrder(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	writeOrder(cmd.OutOrStdout(), o)
	return nil
}

func updateOrder(cmd *cobra.Command, id string, fn func(*order.Order, time.Time) error) error {
	ctx := cmd.Context()
	o, err := db.FindOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(o, time.Now()); err != nil {
		return err
	}
	if err := db.SaveOrder(ctx, o); err != nil {
		return err
	}
	logger.Info("order updated", zap.String("order", o.ID), zap.String("status", string(o.Status)))
	writeOrder(cmd.OutOrStdout(), o)
	return nil
}

func writeOrder(out io.Writer, o *order.Order) {
	fmt.Fprintf(out, "Order %s  %s\n", o.ID, o.Status)
	fmt.Fprintf(out, "  ship to: %s\n", o.ShippingAddress)
	if o.TrackingNumber != "" {
		fmt.Fprintf(out, "  tracking: %s\n", o.TrackingNumber)
	}
	for _, li := range o.Items {
		fmt.Fprintf(out, "  %d × %s %s  $%s\n", li.Quantity, li.Name, li.VariantName, li.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(out, "  total: $%s\n", o.Totals.Total.StringFixed(2))

	for _, s := range o.Timeline() {
		mark := "○"
		switch {
		case s.Current:
			mark = "●"
		case s.Completed:
			mark = "✓"
		}
		date := ""
		switch {
		case !s.Date.IsZero():
			date = s.Date.Format("Jan 2")
		case s.Estimated:
			date = "pending"
		}
		fmt.Fprintf(out, "  %s %-14s %s\n", mark, s.Label, date)
	}
}
