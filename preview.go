package printshop

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/phanxgames/printshop/placement"
)

// PreviewOptions describes one design to render in software.
type PreviewOptions struct {
	Container   placement.Size
	Mockup      Color
	Overlay     placement.Overlay
	OverlaySize placement.Size
	Transform   placement.Transform

	// Image is the decoded overlay image. Nil with a non-empty
	// Overlay.ImageRef draws a placeholder.
	Image image.Image

	// Font draws the overlay text. Nil uses the default font.
	Font *Font
}

// NRGBA converts c to a straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// RenderPreview draws the mockup with the design composed on top, the way
// the canvas shows it but without guide or toolbar. It does not need a
// running game loop.
func RenderPreview(opts PreviewOptions) (*image.NRGBA, error) {
	w := int(math.Ceil(opts.Container.Width))
	h := int(math.Ceil(opts.Container.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("preview: empty container %vx%v", opts.Container.Width, opts.Container.Height)
	}
	mockup := opts.Mockup
	if mockup == (Color{}) {
		mockup = defaultMockup
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(mockup.NRGBA()), image.Point{}, draw.Src)

	if opts.Overlay.Empty() || opts.OverlaySize.Empty() {
		return dst, nil
	}
	src, err := renderOverlay(opts, contrastColor(mockup))
	if err != nil {
		return nil, err
	}

	t := opts.Transform.Clamped(opts.Container, opts.OverlaySize)
	m := t.Matrix(opts.OverlaySize)
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	draw.BiLinear.Transform(dst, aff, src, src.Bounds(), draw.Over, nil)
	return dst, nil
}

// renderOverlay draws the untransformed overlay box: the image fitted and
// centred, then the text centred on top.
func renderOverlay(opts PreviewOptions, textColor Color) (*image.NRGBA, error) {
	ow, oh := opts.OverlaySize.Width, opts.OverlaySize.Height
	src := image.NewNRGBA(image.Rect(0, 0, int(math.Ceil(ow)), int(math.Ceil(oh))))

	if opts.Overlay.ImageRef != "" {
		if opts.Image == nil {
			draw.Draw(src, src.Bounds(), image.NewUniform(placeholder), image.Point{}, draw.Src)
		} else {
			b := opts.Image.Bounds()
			k := math.Min(ow/float64(b.Dx()), oh/float64(b.Dy()))
			iw, ih := float64(b.Dx())*k, float64(b.Dy())*k
			x0, y0 := int((ow-iw)/2), int((oh-ih)/2)
			r := image.Rect(x0, y0, x0+int(math.Round(iw)), y0+int(math.Round(ih)))
			draw.CatmullRom.Scale(src, r, opts.Image, b, draw.Over, nil)
		}
	}

	if s := opts.Overlay.Text; s != "" {
		f := opts.Font
		if f == nil {
			var err error
			if f, err = DefaultFont(DefaultFontSize); err != nil {
				return nil, err
			}
		}
		face, err := f.softwareFace(f.Size())
		if err != nil {
			return nil, err
		}
		defer face.Close()

		d := &font.Drawer{Dst: src, Src: image.NewUniform(textColor.NRGBA()), Face: face}
		m := face.Metrics()
		tw := d.MeasureString(s).Round()
		th := (m.Ascent + m.Descent).Ceil()
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(ow)-tw) / 2,
			Y: fixed.I(int(oh)-th)/2 + m.Ascent,
		}
		d.DrawString(s)
	}
	return src, nil
}

// EncodePreview writes img as lossless WebP.
func EncodePreview(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("preview: encode webp: %w", err)
	}
	return nil
}

// WritePreview encodes img to <dir>/<name>.webp and returns the path.
func WritePreview(dir, name string, img image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("preview: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, sanitizeLabel(name)+".webp")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("preview: create %s: %w", path, err)
	}
	if err := EncodePreview(f, img); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// Preview renders the canvas's current design in software.
func (c *Canvas) Preview() (*image.NRGBA, error) {
	o := c.widget.Overlay()
	opts := PreviewOptions{
		Container:   c.widget.Container(),
		Mockup:      c.mockup,
		Overlay:     o,
		OverlaySize: c.widget.OverlaySize(),
		Transform:   c.widget.Transform(),
		Font:        c.font,
	}
	if c.images != nil && o.ImageRef != "" {
		img, err := c.images.Resolve(o.ImageRef)
		if err == nil {
			opts.Image = img
		}
	}
	return RenderPreview(opts)
}
