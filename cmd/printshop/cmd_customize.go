package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop"
	"github.com/phanxgames/printshop/account"
	"github.com/phanxgames/printshop/cart"
	"github.com/phanxgames/printshop/customize"
	"github.com/phanxgames/printshop/placement"
)

// customizeOptions holds the customize command flags.
type customizeOptions struct {
	variant  string
	color    string
	size     string
	text     string
	image    string
	imageDir string
	position string
	quantity int
	name     string
	design   string

	x, y     float64
	scale    float64
	rotation int

	script  string
	preview bool
	add     bool
	save    bool
}

var customizeFlags customizeOptions

var customizeCmd = &cobra.Command{
	Use:   "customize [product-id]",
	Short: "Customize a product on the design canvas",
	Long: `Opens the customization window for a product. Flags preselect the
variant, content and placement; --design reopens a saved design.

With --add, --save or --preview the window is not opened: the design is
added to the cart, saved, or rendered to a WebP preview directly.

Window keys:
  drag        move the design
  + / -       zoom
  R / 0       rotate 15° / reset
  Tab / C     cycle print position / color
  Enter       add to cart
  Ctrl+S      save the design (needs --name)
  Esc         close`,
	Args: cobra.ExactArgs(1),
	RunE: runCustomize,
}

func init() {
	f := customizeCmd.Flags()
	f.StringVar(&customizeFlags.variant, "variant", "", "variant id")
	f.StringVar(&customizeFlags.color, "color", "", "variant color")
	f.StringVar(&customizeFlags.size, "size", "", "variant size")
	f.StringVar(&customizeFlags.text, "text", "", "custom text")
	f.StringVar(&customizeFlags.image, "image", "", "image reference, relative to --image-dir")
	f.StringVar(&customizeFlags.imageDir, "image-dir", ".", "directory uploaded images are read from")
	f.StringVar(&customizeFlags.position, "position", "", "print position (front, back, left sleeve, right sleeve)")
	f.IntVarP(&customizeFlags.quantity, "qty", "q", 1, "quantity (1-10)")
	f.StringVar(&customizeFlags.name, "name", "", "design name for saving")
	f.StringVar(&customizeFlags.design, "design", "", "saved design id to reopen")
	f.Float64Var(&customizeFlags.x, "x", 0, "overlay left edge in container pixels")
	f.Float64Var(&customizeFlags.y, "y", 0, "overlay top edge in container pixels")
	f.Float64Var(&customizeFlags.scale, "scale", 1, "overlay scale (0.5-2)")
	f.IntVar(&customizeFlags.rotation, "rotate", 0, "overlay rotation in degrees (multiple of 15)")
	f.StringVar(&customizeFlags.script, "script", "", "JSON test script to drive the window")
	f.BoolVar(&customizeFlags.preview, "preview", false, "render a WebP preview without opening the window")
	f.BoolVar(&customizeFlags.add, "add", false, "add to the cart without opening the window")
	f.BoolVar(&customizeFlags.save, "save", false, "save the design without opening the window")
}

// designer bundles what a customization run needs.
type designer struct {
	session *customize.Session
	font    *printshop.Font
	images  *printshop.ImageCache
	cart    *cart.Cart
	designs *account.Designs
}

func runCustomize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := newDesigner(ctx, args[0])
	if err != nil {
		return err
	}
	if err := applyCustomizeFlags(cmd, d.session, d.designs); err != nil {
		return err
	}

	if !customizeFlags.preview && !customizeFlags.add && !customizeFlags.save {
		return d.run(ctx)
	}
	out := cmd.OutOrStdout()
	var previewPath string
	if customizeFlags.preview || customizeFlags.save {
		if previewPath, err = d.writePreview(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Preview written to %s\n", previewPath)
	}
	if customizeFlags.save {
		saved, err := d.session.SaveDesign(d.designs, previewPath)
		if err != nil {
			return err
		}
		if err := db.SaveDesign(ctx, saved); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved design %q as %s\n", saved.Name, saved.ID)
	}
	if customizeFlags.add {
		li, err := d.session.AddToCart(d.cart)
		if err != nil {
			return err
		}
		if err := saveCart(ctx, d.cart); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %d × %s to the cart (line %s)\n", li.Quantity, li.Name, li.ID)
		writeCart(out, d.cart)
	}
	return nil
}

func newDesigner(ctx context.Context, productID string) (*designer, error) {
	p, err := shop.FindProduct(productID)
	if err != nil {
		return nil, err
	}
	font, err := printshop.DefaultFont(printshop.DefaultFontSize)
	if err != nil {
		return nil, err
	}
	images := printshop.NewImageCache(customizeFlags.imageDir)
	m := &printshop.Measurer{Font: font, Images: images}

	edge := float64(cfg.Canvas.Size)
	s, err := customize.NewSession(p, customize.Options{
		ContainerSize: placement.Size{Width: edge, Height: edge},
		Measure:       m.Measure,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	c, err := loadCart(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := loadDesigns(ctx)
	if err != nil {
		return nil, err
	}
	return &designer{session: s, font: font, images: images, cart: c, designs: ds}, nil
}

// applyCustomizeFlags loads --design first so that the other flags can
// override parts of it.
func applyCustomizeFlags(cmd *cobra.Command, s *customize.Session, designs *account.Designs) error {
	fl := &customizeFlags
	if fl.design != "" {
		d, err := designs.Find(fl.design)
		if err != nil {
			return err
		}
		if err := s.LoadDesign(d); err != nil {
			return err
		}
	}
	if fl.variant != "" {
		if err := s.SelectVariant(fl.variant); err != nil {
			return err
		}
	}
	if fl.color != "" {
		if err := s.SelectColor(fl.color); err != nil {
			return err
		}
	}
	if fl.size != "" {
		if err := s.SelectSize(fl.size); err != nil {
			return err
		}
	}
	if fl.text != "" {
		if err := s.SetText(fl.text); err != nil {
			return err
		}
	}
	if fl.image != "" {
		if err := s.SetImage(fl.image); err != nil {
			return err
		}
	}
	if fl.position != "" {
		if err := s.SetPosition(placement.ParsePosition(fl.position)); err != nil {
			return err
		}
	}
	if !s.SetQuantity(fl.quantity) {
		return fmt.Errorf("quantity must be between %d and %d", cart.MinQuantity, cart.MaxQuantity)
	}
	if fl.name != "" {
		s.SetDesignName(fl.name)
	}

	flags := cmd.Flags()
	if flags.Changed("x") || flags.Changed("y") || flags.Changed("scale") || flags.Changed("rotate") {
		t := s.Transform()
		if flags.Changed("x") {
			t.Translation.X = fl.x
		}
		if flags.Changed("y") {
			t.Translation.Y = fl.y
		}
		if flags.Changed("scale") {
			t.Scale = fl.scale
		}
		if flags.Changed("rotate") {
			if fl.rotation%placement.RotationStep != 0 {
				return fmt.Errorf("rotation must be a multiple of %d degrees", placement.RotationStep)
			}
			t.RotationDegrees = fl.rotation
		}
		s.Widget().SetTransform(t)
	}
	return nil
}

func (d *designer) canvas() *printshop.Canvas {
	return printshop.NewCanvas(d.session.Widget(), printshop.CanvasConfig{
		Mockup:        printshop.MockupColor(d.session.Variant().Color),
		Font:          d.font,
		Images:        d.images,
		TweenDuration: -1,
		Logger:        logger,
	})
}

func (d *designer) writePreview() (string, error) {
	img, err := d.canvas().Preview()
	if err != nil {
		return "", err
	}
	name := d.session.DesignName()
	if name == "" {
		name = d.session.Product().Name
	}
	return printshop.WritePreview(cfg.Canvas.PreviewDir, name, img)
}

// run opens the window. Cart and design changes made there are persisted
// as they happen.
func (d *designer) run(ctx context.Context) error {
	rc := printshop.RunConfig{
		Title:         fmt.Sprintf("%s: %s", cfg.Window.Title, d.session.Product().Name),
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		ShowFPS:       cfg.Canvas.ShowFPS,
		Font:          d.font,
		Images:        d.images,
		ScreenshotDir: cfg.Canvas.ScreenshotDir,
		PreviewDir:    cfg.Canvas.PreviewDir,
		Cart:          d.cart,
		Designs:       d.designs,
		Logger:        logger,
		OnChange: func() error {
			return errors.Join(saveCart(ctx, d.cart), saveDesigns(ctx, d.designs))
		},
	}
	if customizeFlags.script != "" {
		data, err := os.ReadFile(customizeFlags.script)
		if err != nil {
			return fmt.Errorf("failed to read test script: %w", err)
		}
		rc.TestScript = data
	}
	logger.Debug("opening customization window",
		zap.String("product", d.session.Product().ID),
		zap.Int("width", rc.Width),
		zap.Int("height", rc.Height))
	return printshop.Run(d.session, rc)
}
