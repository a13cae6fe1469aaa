package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phanxgames/printshop/account"
)

var designsProduct string

var designsCmd = &cobra.Command{
	Use:   "designs",
	Short: "List saved designs",
	Args:  cobra.NoArgs,
	RunE:  runDesignsList,
}

var designDeleteCmd = &cobra.Command{
	Use:   "delete [design-id]",
	Short: "Delete a saved design",
	Args:  cobra.ExactArgs(1),
	RunE:  runDesignDelete,
}

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Show the wishlist",
	Args:  cobra.NoArgs,
	RunE:  runWishlistShow,
}

var wishlistToggleCmd = &cobra.Command{
	Use:   "toggle [product-id]",
	Short: "Add a product to the wishlist, or remove it when already there",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistToggle,
}

func init() {
	designsCmd.Flags().StringVar(&designsProduct, "product", "", "only designs for this product")
	designsCmd.AddCommand(designDeleteCmd)
	wishlistCmd.AddCommand(wishlistToggleCmd)
}

func runDesignsList(cmd *cobra.Command, args []string) error {
	ds, err := loadDesigns(cmd.Context())
	if err != nil {
		return err
	}
	list := ds.List()
	if designsProduct != "" {
		list = ds.ForProduct(designsProduct)
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No saved designs")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DESIGN\tNAME\tPRODUCT\tCUSTOMIZATION\tSAVED")
	for _, d := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Name, d.ProductID, describePayload(d.Payload), d.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runDesignDelete(cmd *cobra.Command, args []string) error {
	if err := db.DeleteDesign(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted design %s\n", args[0])
	return nil
}

func loadWishlist(cmd *cobra.Command) (*account.Wishlist, error) {
	ids, err := db.LoadWishlist(cmd.Context())
	if err != nil {
		return nil, err
	}
	return account.NewWishlist(ids...), nil
}

func runWishlistShow(cmd *cobra.Command, args []string) error {
	wl, err := loadWishlist(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if wl.Len() == 0 {
		fmt.Fprintln(out, "Your wishlist is empty")
		return nil
	}
	for _, id := range wl.IDs() {
		p, err := shop.FindProduct(id)
		if err != nil {
			fmt.Fprintf(out, "%s  (no longer available)\n", id)
			continue
		}
		fmt.Fprintf(out, "%s  %s  %s\n", p.ID, p.Name, priceLabel(p))
	}
	return nil
}

func runWishlistToggle(cmd *cobra.Command, args []string) error {
	p, err := shop.FindProduct(args[0])
	if err != nil {
		return err
	}
	wl, err := loadWishlist(cmd)
	if err != nil {
		return err
	}
	added := wl.Toggle(p.ID)
	if err := db.SaveWishlist(cmd.Context(), wl.IDs()); err != nil {
		return err
	}
	if added {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to your wishlist\n", p.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from your wishlist\n", p.Name)
	}
	return nil
}
