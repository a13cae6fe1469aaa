// Package customize is the customization page model. A Session hosts a
// placement widget for one product, collects the shopper's selections and
// turns them into a cart line or a saved design.
package customize

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/account"
	"github.com/phanxgames/printshop/cart"
	"github.com/phanxgames/printshop/catalog"
	"github.com/phanxgames/printshop/placement"
)

var (
	ErrProductRequired    = errors.New("customize: product is required")
	ErrNotCustomizable    = errors.New("customize: product is not customizable")
	ErrNoVariant          = errors.New("customize: product has no variant in stock")
	ErrUnknownVariant     = errors.New("customize: unknown variant")
	ErrOutOfStock         = errors.New("customize: variant out of stock")
	ErrSizeUnavailable    = errors.New("customize: size not available for color")
	ErrOptionUnsupported  = errors.New("customize: option not offered for product")
	ErrMissingRequired    = errors.New("customize: required customization missing")
	ErrDesignWrongProduct = errors.New("customize: design belongs to another product")
)

// Default sizes used when Options leaves them zero.
const (
	DefaultContainerEdge = 500
	DefaultImageEdge     = 150
	DefaultFontSize      = 24
)

// MeasureFunc reports the untransformed size of an overlay.
type MeasureFunc func(placement.Overlay) placement.Size

// EstimateSize is the fallback MeasureFunc: images are a fixed square and
// text uses an average glyph advance of 0.6 em on a 1.2 em line.
func EstimateSize(o placement.Overlay) placement.Size {
	var s placement.Size
	if o.ImageRef != "" {
		s = placement.Size{Width: DefaultImageEdge, Height: DefaultImageEdge}
	}
	if o.Text != "" {
		w := float64(utf8.RuneCountInString(o.Text)) * DefaultFontSize * 0.6
		h := DefaultFontSize * 1.2
		s.Width = max(s.Width, w)
		s.Height = max(s.Height, h)
	}
	return s
}

// Options configures a Session.
type Options struct {
	ContainerSize placement.Size
	Measure       MeasureFunc
	// OnTransform observes every widget snapshot after the session has
	// recorded it.
	OnTransform placement.ChangeFunc
	Logger      *zap.Logger
}

// Session is one visit to the customization page.
type Session struct {
	product *catalog.Product
	variant *catalog.Variant

	text       string
	image      string
	position   placement.Position
	quantity   int
	designName string

	widget    *placement.Widget
	transform placement.Transform

	measure     MeasureFunc
	onTransform placement.ChangeFunc
	log         *zap.Logger
}

// NewSession opens product for customization with its first in-stock
// variant selected, quantity 1, and the default transform.
func NewSession(product *catalog.Product, opts Options) (*Session, error) {
	if product == nil {
		return nil, ErrProductRequired
	}
	if !product.Customizable {
		return nil, fmt.Errorf("%w: %s", ErrNotCustomizable, product.ID)
	}
	variant := product.DefaultVariant()
	if variant == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoVariant, product.ID)
	}

	s := &Session{
		product:     product,
		variant:     variant,
		position:    product.PrintPositions()[0],
		quantity:    cart.MinQuantity,
		measure:     opts.Measure,
		onTransform: opts.OnTransform,
		log:         opts.Logger,
	}
	if s.measure == nil {
		s.measure = EstimateSize
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	container := opts.ContainerSize
	if container.Empty() {
		container = placement.Size{Width: DefaultContainerEdge, Height: DefaultContainerEdge}
	}

	s.widget = placement.New(placement.Config{
		Container:   container,
		OverlaySize: s.measure(s.overlay()),
		Overlay:     s.overlay(),
		Position:    s.position,
		OnChange:    s.handleTransform,
	})
	s.log.Debug("customization session opened",
		zap.String("product", product.ID),
		zap.String("variant", variant.ID))
	return s, nil
}

// handleTransform is the widget's change callback.
func (s *Session) handleTransform(t placement.Transform) {
	s.transform = t
	s.log.Debug("design transform changed",
		zap.Float64("x", t.Translation.X),
		zap.Float64("y", t.Translation.Y),
		zap.Float64("scale", t.Scale),
		zap.Int("rotation", t.RotationDegrees))
	if s.onTransform != nil {
		s.onTransform(t)
	}
}

func (s *Session) overlay() placement.Overlay {
	return placement.Overlay{ImageRef: s.image, Text: s.text}
}

// refreshOverlay pushes the current content to the widget. The transform is
// kept; only a size change can re-clamp it.
func (s *Session) refreshOverlay() {
	o := s.overlay()
	s.widget.SetOverlay(o)
	s.widget.SetOverlaySize(s.measure(o))
}

// --- Variant selection ---

// SelectVariant selects a variant by id. Out-of-stock variants are refused.
func (s *Session) SelectVariant(id string) error {
	v := s.product.Variant(id)
	if v == nil {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, id)
	}
	if !v.InStock {
		return fmt.Errorf("%w: %s", ErrOutOfStock, id)
	}
	s.variant = v
	return nil
}

// SelectColor switches color, keeping the current size when it is in
// stock for the new color and otherwise taking the color's first in-stock
// variant.
func (s *Session) SelectColor(color string) error {
	if v := s.product.MatchVariant(color, s.variant.Size); v != nil && v.InStock {
		s.variant = v
		return nil
	}
	v := s.product.FirstVariantForColor(color)
	if v == nil {
		return fmt.Errorf("%w: color %q", ErrUnknownVariant, color)
	}
	if !v.InStock {
		return fmt.Errorf("%w: color %q", ErrOutOfStock, color)
	}
	s.variant = v
	return nil
}

// SelectSize selects size for the current color. Sizes that are missing or
// out of stock for that color are refused.
func (s *Session) SelectSize(size string) error {
	if !s.product.SizeAvailable(s.variant.Color, size) {
		return fmt.Errorf("%w: %s/%s", ErrSizeUnavailable, s.variant.Color, size)
	}
	s.variant = s.product.MatchVariant(s.variant.Color, size)
	return nil
}

// SizeChoice is one button of the size picker.
type SizeChoice struct {
	Size      string
	Available bool
}

// SizeChoices lists every size of the product, in catalog order, with its
// availability for the current color.
func (s *Session) SizeChoices() []SizeChoice {
	sizes := s.product.Sizes()
	out := make([]SizeChoice, len(sizes))
	for i, size := range sizes {
		out[i] = SizeChoice{Size: size, Available: s.product.SizeAvailable(s.variant.Color, size)}
	}
	return out
}

// --- Design content ---

// SetText sets the overlay text. An empty string removes it.
func (s *Session) SetText(text string) error {
	if !s.product.HasOption(catalog.OptionText) {
		return fmt.Errorf("%w: text", ErrOptionUnsupported)
	}
	s.text = text
	s.refreshOverlay()
	return nil
}

// SetImage sets the overlay image reference. An empty string removes it.
func (s *Session) SetImage(ref string) error {
	if !s.product.HasOption(catalog.OptionImage) {
		return fmt.Errorf("%w: image", ErrOptionUnsupported)
	}
	s.image = ref
	s.refreshOverlay()
	return nil
}

// SetPosition selects the print area guide.
func (s *Session) SetPosition(p placement.Position) error {
	for _, allowed := range s.product.PrintPositions() {
		if allowed == p {
			s.position = p
			s.widget.SetPosition(p)
			return nil
		}
	}
	return fmt.Errorf("%w: position %s", ErrOptionUnsupported, p)
}

// SetQuantity sets the quantity. Values outside 1..10 are ignored and
// reported as false.
func (s *Session) SetQuantity(q int) bool {
	if q < cart.MinQuantity || q > cart.MaxQuantity {
		return false
	}
	s.quantity = q
	return true
}

// SetDesignName sets the name used by SaveDesign.
func (s *Session) SetDesignName(name string) {
	s.designName = name
}

// SetContainerSize forwards a new container measurement to the widget.
func (s *Session) SetContainerSize(size placement.Size) {
	s.widget.SetContainerSize(size)
}

// --- Accessors ---

func (s *Session) Product() *catalog.Product { return s.product }
func (s *Session) Variant() *catalog.Variant { return s.variant }
func (s *Session) Text() string { return s.text }
func (s *Session) Image() string { return s.image }
func (s *Session) Position() placement.Position { return s.position }
func (s *Session) Quantity() int { return s.quantity }
func (s *Session) DesignName() string { return s.designName }
func (s *Session) Widget() *placement.Widget { return s.widget }
func (s *Session) Transform() placement.Transform { return s.transform }
func (s *Session) Overlay() placement.Overlay { return s.overlay() }
func (s *Session) Positions() []placement.Position { return s.product.PrintPositions() }
func (s *Session) UnitPrice() decimal.Decimal { return s.product.EffectivePrice(s.variant) }

// LineTotal returns the unit price times the selected quantity.
func (s *Session) LineTotal() decimal.Decimal {
	return s.UnitPrice().Mul(decimal.NewFromInt(int64(s.quantity)))
}

// --- Output ---

// Payload builds the customization payload from the current selections and
// the widget's last snapshot. A session with no text or image yields nil so
// that plain purchases merge with each other in the cart.
func (s *Session) Payload() cart.Payload {
	if s.overlay().Empty() {
		return nil
	}
	var p cart.Payload
	if s.text != "" {
		p = append(p, cart.Text{Value: s.text})
	}
	if s.image != "" {
		p = append(p, cart.Image{Ref: s.image})
	}
	if s.product.HasOption(catalog.OptionPosition) {
		p = append(p, cart.Position{Value: s.position})
	}
	return append(p, cart.Transform{Transform: s.transform})
}

// Validate checks that every required customization is present.
func (s *Session) Validate() error {
	if s.product.Requires(catalog.OptionImage) && s.image == "" {
		return fmt.Errorf("%w: image", ErrMissingRequired)
	}
	if s.product.Requires(catalog.OptionText) && strings.TrimSpace(s.text) == "" {
		return fmt.Errorf("%w: text", ErrMissingRequired)
	}
	return nil
}

// AddToCart adds the current selection to c.
func (s *Session) AddToCart(c *cart.Cart) (cart.LineItem, error) {
	if err := s.Validate(); err != nil {
		return cart.LineItem{}, err
	}
	li, err := c.AddLineItem(s.product, s.quantity, cart.LineOptions{
		Variant: s.variant,
		Payload: s.Payload(),
	})
	if err != nil {
		return cart.LineItem{}, fmt.Errorf("add to cart: %w", err)
	}
	s.log.Info("added to cart",
		zap.String("product", s.product.ID),
		zap.String("variant", s.variant.ID),
		zap.Int("quantity", s.quantity),
		zap.String("line", li.ID))
	return li, nil
}

// SaveDesign stores the current design under the session's design name.
// preview is an image reference for the gallery; when empty the product's
// first image is used.
func (s *Session) SaveDesign(designs *account.Designs, preview string) (account.Design, error) {
	if strings.TrimSpace(s.designName) == "" {
		return account.Design{}, account.ErrNameRequired
	}
	if preview == "" && len(s.product.Images) > 0 {
		preview = s.product.Images[0]
	}
	d, err := designs.Save(account.Design{
		Name:      s.designName,
		ProductID: s.product.ID,
		VariantID: s.variant.ID,
		Payload:   s.Payload(),
		Preview:   preview,
	})
	if err != nil {
		return account.Design{}, err
	}
	s.log.Info("design saved", zap.String("design", d.ID), zap.String("name", d.Name))
	return d, nil
}

// LoadDesign restores a saved design into the session: variant, text,
// image, print position, transform and name.
func (s *Session) LoadDesign(d account.Design) error {
	if d.ProductID != s.product.ID {
		return fmt.Errorf("%w: %s is for product %s", ErrDesignWrongProduct, d.ID, d.ProductID)
	}
	if v := s.product.Variant(d.VariantID); v != nil && v.InStock {
		s.variant = v
	}
	if s.product.HasOption(catalog.OptionText) {
		s.text, _ = d.Payload.TextValue()
	}
	if s.product.HasOption(catalog.OptionImage) {
		s.image, _ = d.Payload.ImageRef()
	}
	if pos, ok := d.Payload.PrintPosition(); ok {
		if err := s.SetPosition(pos); err != nil {
			s.log.Warn("saved design position not offered", zap.String("position", pos.String()))
		}
	}
	s.refreshOverlay()
	tr, _ := d.Payload.PlacementTransform()
	s.widget.SetTransform(tr)
	s.designName = d.Name
	return nil
}
