// Package config loads printshop.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/printshop/cart"
)

// DefaultPath is the file name looked up in the working directory.
const DefaultPath = "printshop.yaml"

// Config holds all printshop configuration.
type Config struct {
	// Pricing rates applied to every cart
	Pricing PricingConfig `yaml:"pricing"`

	// Accepted discount codes
	Discounts []DiscountConfig `yaml:"discounts"`

	// Customization window
	Window WindowConfig `yaml:"window"`
	Canvas CanvasConfig `yaml:"canvas"`

	// Persistence
	Storage StorageConfig `yaml:"storage"`

	// Alternate catalog file; empty uses the built-in data set
	CatalogPath string `yaml:"catalog_path"`

	Logging LoggingConfig `yaml:"logging"`
}

// PricingConfig holds decimal strings so that no precision is lost in YAML.
type PricingConfig struct {
	TaxRate               string `yaml:"tax_rate"`
	FreeShippingThreshold string `yaml:"free_shipping_threshold"`
	FlatShipping          string `yaml:"flat_shipping"`
}

// DiscountConfig defines one discount code.
type DiscountConfig struct {
	Code  string `yaml:"code"`
	Type  string `yaml:"type"` // percentage, fixed
	Value string `yaml:"value"`
}

// WindowConfig sizes the customization window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// CanvasConfig configures the design canvas.
type CanvasConfig struct {
	Size          int    `yaml:"size"` // square container edge in pixels
	ScreenshotDir string `yaml:"screenshot_dir"`
	PreviewDir    string `yaml:"preview_dir"`
	ShowFPS       bool   `yaml:"show_fps"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Pricing: PricingConfig{
			TaxRate:               "0.08",
			FreeShippingThreshold: "75",
			FlatShipping:          "5.99",
		},
		Discounts: []DiscountConfig{
			{Code: "WELCOME10", Type: string(cart.DiscountPercentage), Value: "10"},
			{Code: "SAVE5", Type: string(cart.DiscountFixed), Value: "5"},
		},
		Window: WindowConfig{
			Title:  "printshop",
			Width:  960,
			Height: 640,
		},
		Canvas: CanvasConfig{
			Size:          500,
			ScreenshotDir: "screenshots",
			PreviewDir:    "previews",
		},
		Storage: StorageConfig{
			Path: filepath.Join(".printshop", "printshop.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("PRINTSHOP_DB"); path != "" {
		c.Storage.Path = path
	}
	if level := os.Getenv("PRINTSHOP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if path := os.Getenv("PRINTSHOP_CATALOG"); path != "" {
		c.CatalogPath = path
	}
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks every field that could otherwise fail later.
func (c *Config) Validate() error {
	if _, err := c.CartPricing(); err != nil {
		return err
	}
	if _, err := c.DiscountRules(); err != nil {
		return err
	}
	if c.Canvas.Size <= 0 {
		return fmt.Errorf("invalid canvas size: %d", c.Canvas.Size)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size: %dx%d", c.Window.Width, c.Window.Height)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	return nil
}

// CartPricing converts the pricing section.
func (c *Config) CartPricing() (cart.Pricing, error) {
	var p cart.Pricing
	var err error
	if p.TaxRate, err = parseAmount("pricing.tax_rate", c.Pricing.TaxRate); err != nil {
		return cart.Pricing{}, err
	}
	if p.FreeShippingThreshold, err = parseAmount("pricing.free_shipping_threshold", c.Pricing.FreeShippingThreshold); err != nil {
		return cart.Pricing{}, err
	}
	if p.FlatShipping, err = parseAmount("pricing.flat_shipping", c.Pricing.FlatShipping); err != nil {
		return cart.Pricing{}, err
	}
	return p, nil
}

// DiscountRules converts and validates the discount codes.
func (c *Config) DiscountRules() (map[string]cart.DiscountRule, error) {
	rules := make(map[string]cart.DiscountRule, len(c.Discounts))
	for _, d := range c.Discounts {
		if d.Code == "" {
			return nil, fmt.Errorf("discount without code")
		}
		v, err := decimal.NewFromString(d.Value)
		if err != nil {
			return nil, fmt.Errorf("discount %s: invalid value %q: %w", d.Code, d.Value, err)
		}
		rule := cart.DiscountRule{Type: cart.DiscountType(d.Type), Value: v}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("discount %s: %w", d.Code, err)
		}
		rules[d.Code] = rule
	}
	return rules, nil
}

// CartOptions returns the cart options derived from the configuration.
func (c *Config) CartOptions() ([]cart.Option, error) {
	pricing, err := c.CartPricing()
	if err != nil {
		return nil, err
	}
	rules, err := c.DiscountRules()
	if err != nil {
		return nil, err
	}
	return []cart.Option{cart.WithPricing(pricing), cart.WithDiscountCodes(rules)}, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: negative", field, s)
	}
	return d, nil
}
