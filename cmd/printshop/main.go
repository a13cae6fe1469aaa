// Command printshop browses the product catalog, manages the cart and saved
// designs, places simulated orders and opens the customization window.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/printshop/account"
	"github.com/phanxgames/printshop/cart"
	"github.com/phanxgames/printshop/catalog"
	"github.com/phanxgames/printshop/config"
	"github.com/phanxgames/printshop/store"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Set up by PersistentPreRunE
	logger *zap.Logger
	cfg    *config.Config
	db     *store.Store
	shop   *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "printshop",
	Short: "Custom print shop: catalog, cart, designs and the customization canvas",
	Long: `printshop is a small storefront for customizable products.

Browse the catalog, customize a product on the design canvas, collect
designs in the cart and place simulated orders. State is kept in a local
SQLite database (storage.path in printshop.yaml).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		shop, err = loadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
		db, err = store.Open(cfg.Storage.Path, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close store", zap.Error(err))
			}
			db = nil
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		catalogCmd,
		productCmd,
		cartCmd,
		checkoutCmd,
		ordersCmd,
		designsCmd,
		wishlistCmd,
		customizeCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger. Verbose forces a development logger
// at debug level.
func newLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	if strings.EqualFold(lc.Format, "console") {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return catalog.Load(f)
}

// --- Shared state helpers ---

// loadCart rebuilds the persisted cart with the configured pricing. A saved
// discount code that is no longer accepted is dropped with a warning.
func loadCart(ctx context.Context) (*cart.Cart, error) {
	opts, err := cfg.CartOptions()
	if err != nil {
		return nil, err
	}
	c := cart.New(append(opts, cart.WithLogger(logger))...)
	st, err := db.LoadCart(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Restore(st); err != nil {
		logger.Warn("dropped saved discount code",
			zap.String("code", st.DiscountCode), zap.Error(err))
	}
	return c, nil
}

func saveCart(ctx context.Context, c *cart.Cart) error {
	return db.SaveCart(ctx, c.State())
}

func loadDesigns(ctx context.Context) (*account.Designs, error) {
	list, err := db.ListDesigns(ctx)
	if err != nil {
		return nil, err
	}
	ds := account.NewDesigns()
	ds.Restore(list)
	return ds, nil
}

func saveDesigns(ctx context.Context, ds *account.Designs) error {
	for _, d := range ds.List() {
		if err := db.SaveDesign(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
