package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/catalog"
	"github.com/phanxgames/printshop/config"
	"github.com/phanxgames/printshop/placement"
	"github.com/phanxgames/printshop/store"
)

// setupCLI replaces the globals PersistentPreRunE would set with an
// in-memory store and the built-in catalog.
func setupCLI(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.Canvas.PreviewDir = filepath.Join(t.TempDir(), "previews")
	shop = catalog.Default()

	var err error
	db, err = store.Open(store.MemoryPath, logger)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		db = nil
	})
	resetFlags()
}

// resetFlags restores the command flags to their defaults.
func resetFlags() {
	cartAddFlags.variant, cartAddFlags.quantity = "", 1
	cartDiscountRemove = false
	customizeFlags = customizeOptions{quantity: 1, scale: 1, imageDir: "."}
}

// run calls fn with a bare command whose output is captured.
func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	if err := fn(cmd, args); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out.String()
}

func runErr(fn func(*cobra.Command, []string) error, args ...string) error {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	return fn(cmd, args)
}

func TestCatalogCmd(t *testing.T) {
	setupCLI(t)
	catalogFlags.sort, catalogFlags.category = "price-high", ""
	catalogFlags.minPrice, catalogFlags.maxPrice = "", ""

	out := run(t, runCatalog)
	if !strings.Contains(out, "Premium Hoodie") {
		t.Errorf("catalog output missing hoodie:\n%s", out)
	}
	if strings.Index(out, "Premium Hoodie") > strings.Index(out, "Classic T-Shirt") {
		t.Errorf("price-high should list the hoodie before the t-shirt:\n%s", out)
	}

	catalogFlags.sort = "cheapest"
	if err := runErr(runCatalog); err == nil {
		t.Error("unknown sort order should fail")
	}
	catalogFlags.sort, catalogFlags.minPrice = "", "abc"
	if err := runErr(runCatalog); err == nil {
		t.Error("bad --min should fail")
	}
	catalogFlags.minPrice = ""
}

func TestProductCmd(t *testing.T) {
	setupCLI(t)
	out := run(t, runProduct, "2")
	for _, want := range []string{"Premium Hoodie", "2-8", "out of stock", "left sleeve"} {
		if !strings.Contains(out, want) {
			t.Errorf("product output missing %q:\n%s", want, out)
		}
	}
	if err := runErr(runProduct, "999"); err == nil {
		t.Error("unknown product should fail")
	}
}

func TestCartLifecycle(t *testing.T) {
	setupCLI(t)

	cartAddFlags.variant, cartAddFlags.quantity = "1-2", 2
	run(t, runCartAdd, "1")
	cartAddFlags.variant, cartAddFlags.quantity = "", 1
	out := run(t, runCartAdd, "5")
	if !strings.Contains(out, "Total     $78.32") {
		t.Errorf("unexpected totals:\n%s", out)
	}

	out = run(t, runCartDiscount, "welcome10")
	if !strings.Contains(out, "(WELCOME10)") {
		t.Errorf("discount not shown:\n%s", out)
	}
	if err := runErr(runCartDiscount, "NOPE"); err == nil {
		t.Error("unknown code should fail")
	}

	c, err := loadCart(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("cart has %d lines, want 2", c.Len())
	}
	first := c.Items()[0].ID

	if err := runErr(runCartQty, first, "11"); err == nil {
		t.Error("quantity 11 should fail")
	}
	run(t, runCartQty, first, "3")
	run(t, runCartRemove, c.Items()[1].ID)

	c, _ = loadCart(context.Background())
	if c.Len() != 1 || c.Items()[0].Quantity != 3 {
		t.Fatalf("cart = %+v", c.Items())
	}

	out = run(t, runCartClear)
	if !strings.Contains(out, "Cart cleared") {
		t.Errorf("clear output: %s", out)
	}
	out = run(t, runCartShow)
	if !strings.Contains(out, "empty") {
		t.Errorf("cart should be empty:\n%s", out)
	}
}

func TestCheckoutAndOrders(t *testing.T) {
	setupCLI(t)
	if err := runErr(runCheckout); err == nil {
		t.Error("checkout of an empty cart should fail")
	}

	run(t, runCartAdd, "3")
	checkoutFlags.address.Street = "1 Main St"
	out := run(t, runCheckout)
	if !strings.HasPrefix(out, "Order ORD-") {
		t.Errorf("checkout output: %s", out)
	}

	c, _ := loadCart(context.Background())
	if c.Len() != 0 {
		t.Error("checkout should clear the cart")
	}

	orders, err := db.ListOrders(context.Background())
	if err != nil || len(orders) != 1 {
		t.Fatalf("orders = %v, %v", orders, err)
	}
	id := orders[0].ID

	out = run(t, runOrdersList)
	if !strings.Contains(out, "pending") {
		t.Errorf("list output:\n%s", out)
	}

	out = run(t, orderAdvanceCmd.RunE, id)
	if !strings.Contains(out, "processing") {
		t.Errorf("advance output:\n%s", out)
	}
	out = run(t, orderCancelCmd.RunE, id)
	if !strings.Contains(out, "Cancelled") {
		t.Errorf("cancel output:\n%s", out)
	}
	if err := runErr(orderCancelCmd.RunE, id); err == nil {
		t.Error("cancelling twice should fail")
	}
}

func TestCustomizeHeadlessAdd(t *testing.T) {
	setupCLI(t)
	customizeFlags.text = "Hello"
	customizeFlags.position = "back"
	customizeFlags.quantity = 2
	customizeFlags.add = true

	out := run(t, runCustomize, "1")
	if !strings.Contains(out, `"Hello"`) || !strings.Contains(out, "back") {
		t.Errorf("cart should describe the customization:\n%s", out)
	}

	c, _ := loadCart(context.Background())
	if c.Len() != 1 {
		t.Fatalf("cart has %d lines", c.Len())
	}
	li := c.Items()[0]
	if li.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", li.Quantity)
	}
	if pos, ok := li.Payload.PrintPosition(); !ok || pos != placement.Back {
		t.Errorf("position = %v, %v", pos, ok)
	}

	// The same design again merges into the line.
	run(t, runCustomize, "1")
	c, _ = loadCart(context.Background())
	if c.Len() != 1 || c.Items()[0].Quantity != 4 {
		t.Errorf("merge failed: %+v", c.Items())
	}
}

func TestCustomizeHeadlessSaveAndReopen(t *testing.T) {
	setupCLI(t)
	customizeFlags.text = "Team"
	customizeFlags.name = "Team shirt"
	customizeFlags.save = true

	out := run(t, runCustomize, "2")
	if !strings.Contains(out, `Saved design "Team shirt"`) {
		t.Errorf("save output:\n%s", out)
	}

	ds, err := loadDesigns(context.Background())
	if err != nil || ds.Len() != 1 {
		t.Fatalf("designs = %v, %v", ds, err)
	}
	d := ds.List()[0]
	if _, err := os.Stat(d.Preview); err != nil {
		t.Errorf("preview %q not written: %v", d.Preview, err)
	}

	// Reopen it and add to the cart with a different quantity.
	resetFlags()
	customizeFlags.design = d.ID
	customizeFlags.quantity = 3
	customizeFlags.add = true
	run(t, runCustomize, "2")

	c, _ := loadCart(context.Background())
	if c.Len() != 1 {
		t.Fatalf("cart has %d lines", c.Len())
	}
	if text, _ := c.Items()[0].Payload.TextValue(); text != "Team" {
		t.Errorf("text = %q, want Team", text)
	}

	if err := runErr(runCustomize, "1"); err == nil {
		t.Error("opening a hoodie design on the t-shirt should fail")
	}

	out = run(t, runDesignsList)
	if !strings.Contains(out, "Team shirt") {
		t.Errorf("designs output:\n%s", out)
	}
	run(t, runDesignDelete, d.ID)
	if err := runErr(runDesignDelete, d.ID); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestCustomizeRejects(t *testing.T) {
	setupCLI(t)
	customizeFlags.add = true

	// Canvas prints need an image.
	if err := runErr(runCustomize, "4"); err == nil {
		t.Error("canvas without an image should fail")
	}
	customizeFlags.quantity = 11
	if err := runErr(runCustomize, "1"); err == nil {
		t.Error("quantity 11 should fail")
	}
	customizeFlags.quantity = 1
	customizeFlags.variant = "2-8"
	if err := runErr(runCustomize, "2"); err == nil {
		t.Error("out of stock variant should fail")
	}
}

func TestWishlistToggle(t *testing.T) {
	setupCLI(t)
	out := run(t, runWishlistToggle, "3")
	if !strings.Contains(out, "Added Ceramic Mug") {
		t.Errorf("toggle output: %s", out)
	}
	out = run(t, runWishlistShow)
	if !strings.Contains(out, "Ceramic Mug") {
		t.Errorf("wishlist output: %s", out)
	}
	out = run(t, runWishlistToggle, "3")
	if !strings.Contains(out, "Removed") {
		t.Errorf("toggle output: %s", out)
	}
	out = run(t, runWishlistShow)
	if !strings.Contains(out, "empty") {
		t.Errorf("wishlist should be empty: %s", out)
	}
}

func TestNewLogger(t *testing.T) {
	for _, lc := range []config.LoggingConfig{
		{Level: "debug", Format: "console"},
		{Level: "warn", Format: "json"},
		{Level: "", Format: ""},
	} {
		l, err := newLogger(lc, false)
		if err != nil {
			t.Errorf("newLogger(%+v): %v", lc, err)
			continue
		}
		l.Sync()
	}
	if _, err := newLogger(config.LoggingConfig{Level: "loud"}, false); err == nil {
		t.Error("unknown level should fail")
	}
	if _, err := newLogger(config.LoggingConfig{Level: "loud"}, true); err != nil {
		t.Errorf("verbose ignores the configured level: %v", err)
	}
}
