package printshop

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/placement"
)

// Guide and chrome styling.
const (
	guideDash      = 6.0
	guideGap       = 4.0
	guideThickness = 2.0
	labelFontSize  = 14
)

var (
	buttonFill   = Color{0.20, 0.22, 0.27, 1}
	buttonActive = Color{0.35, 0.40, 0.95, 1}
	selectColor  = Color{0.35, 0.40, 0.95, 0.9}
)

// Draw renders the canvas onto screen and then captures any queued
// screenshots. Call it from ebiten.Game.Draw.
func (c *Canvas) Draw(screen *ebiten.Image) {
	c.drawMockup(screen)
	c.drawGuide(screen)
	c.drawOverlay(screen)
	c.drawToolbar(screen)
	c.flushScreenshots(screen)
}

func (c *Canvas) drawMockup(dst *ebiten.Image) {
	fillRect(dst, c.ContainerRect(), c.mockup)
}

// drawGuide outlines the print area with a dashed line.
func (c *Canvas) drawGuide(dst *ebiten.Image) {
	g := c.widget.GuideRect()
	g.X += c.origin.X
	g.Y += c.origin.Y
	col := contrastColor(c.mockup)
	col.A = 0.45
	dashedRect(dst, g, col)
}

func (c *Canvas) drawOverlay(dst *ebiten.Image) {
	o := c.widget.Overlay()
	size := c.widget.OverlaySize()
	if o.Empty() || size.Empty() {
		return
	}
	m := geoMFrom(c.shown.matrix(size))
	m.Translate(c.origin.X, c.origin.Y)

	if o.ImageRef != "" {
		c.drawOverlayImage(dst, o.ImageRef, size, m)
	}
	if o.Text != "" {
		c.drawOverlayText(dst, o.Text, size, m)
	}
	if c.widget.Dragging() {
		b := c.widget.OverlayBounds()
		b.X += c.origin.X
		b.Y += c.origin.Y
		outlineRect(dst, b, 1, selectColor)
	}
}

// drawOverlayImage fits the image inside the overlay box, keeping its
// aspect ratio, then applies the overlay matrix.
func (c *Canvas) drawOverlayImage(dst *ebiten.Image, ref string, size placement.Size, m ebiten.GeoM) {
	var img *ebiten.Image
	if c.images != nil {
		img = c.images.ebitenImage(ref)
	}
	if img == nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(size.Width, size.Height)
		op.GeoM.Concat(m)
		op.ColorScale.ScaleWithColor(placeholder)
		dst.DrawImage(solidPixel(), op)
		return
	}
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	k := math.Min(size.Width/iw, size.Height/ih)

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(k, k)
	op.GeoM.Translate((size.Width-iw*k)/2, (size.Height-ih*k)/2)
	op.GeoM.Concat(m)
	dst.DrawImage(img, op)
}

func (c *Canvas) drawOverlayText(dst *ebiten.Image, s string, size placement.Size, m ebiten.GeoM) {
	f := c.fontOrDefault()
	if f == nil {
		return
	}
	tw, th := f.MeasureString(s)

	op := &text.DrawOptions{}
	op.LineSpacing = f.LineHeight()
	op.GeoM.Translate((size.Width-tw)/2, (size.Height-th)/2)
	op.GeoM.Concat(m)
	op.ColorScale.ScaleWithColor(contrastColor(c.mockup).RGBA8())
	op.Filter = ebiten.FilterLinear
	text.Draw(dst, s, f.Face(), op)
}

func (c *Canvas) drawToolbar(dst *ebiten.Image) {
	if c.label == nil {
		if f := c.fontOrDefault(); f != nil {
			c.label = f.WithSize(labelFontSize)
		}
	}
	label := c.label
	for i, b := range c.buttons {
		fill := buttonFill
		if c.pointer.down && c.pointer.button == i {
			fill = buttonActive
		}
		fillRect(dst, b.rect, fill)
		if label == nil {
			continue
		}
		s := actionLabels[b.action]
		tw, th := label.MeasureString(s)
		op := &text.DrawOptions{}
		op.GeoM.Translate(b.rect.X+(b.rect.Width-tw)/2, b.rect.Y+(b.rect.Height-th)/2)
		op.ColorScale.ScaleWithColor(ColorWhite.RGBA8())
		text.Draw(dst, s, label.Face(), op)
	}
}

// fontOrDefault loads the default font on first use.
func (c *Canvas) fontOrDefault() *Font {
	if c.font != nil {
		return c.font
	}
	f, err := DefaultFont(DefaultFontSize)
	if err != nil {
		c.log.Error("failed to load default font", zap.Error(err))
		return nil
	}
	c.font = f
	return f
}

// --- Geometry helpers ---

// matrix returns the overlay matrix for the displayed values. It matches
// placement.Transform.Matrix but accepts fractional degrees so the rotation
// can be eased.
func (d display) matrix(overlay placement.Size) [6]float64 {
	sin, cos := math.Sincos(d.rotation * math.Pi / 180)
	s := d.scale
	px := overlay.Width / 2
	py := overlay.Height / 2

	a := cos * s
	b := sin * s
	c := -sin * s
	dd := cos * s

	bw := math.Abs(overlay.Width*s*cos) + math.Abs(overlay.Height*s*sin)
	bh := math.Abs(overlay.Width*s*sin) + math.Abs(overlay.Height*s*cos)
	tx := -(a*px + c*py) + bw/2 + d.x
	ty := -(b*px + dd*py) + bh/2 + d.y
	return [6]float64{a, b, c, dd, tx, ty}
}

// geoMFrom converts a [a b c d tx ty] affine matrix to an ebiten.GeoM.
func geoMFrom(t [6]float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	return m
}

// fillRect draws a solid rectangle by stretching the white pixel.
func fillRect(dst *ebiten.Image, r placement.Rect, col Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.ScaleWithColor(col.RGBA8())
	dst.DrawImage(solidPixel(), op)
}

// outlineRect draws the four edges of r with the given thickness.
func outlineRect(dst *ebiten.Image, r placement.Rect, t float64, col Color) {
	fillRect(dst, placement.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: t}, col)
	fillRect(dst, placement.Rect{X: r.X, Y: r.Y + r.Height - t, Width: r.Width, Height: t}, col)
	fillRect(dst, placement.Rect{X: r.X, Y: r.Y, Width: t, Height: r.Height}, col)
	fillRect(dst, placement.Rect{X: r.X + r.Width - t, Y: r.Y, Width: t, Height: r.Height}, col)
}

// dashedRect outlines r with guideDash-long dashes.
func dashedRect(dst *ebiten.Image, r placement.Rect, col Color) {
	for _, seg := range dashSegments(r) {
		fillRect(dst, seg, col)
	}
}

// dashSegments splits the outline of r into dash rectangles.
func dashSegments(r placement.Rect) []placement.Rect {
	var out []placement.Rect
	step := guideDash + guideGap
	for x := 0.0; x < r.Width; x += step {
		w := math.Min(guideDash, r.Width-x)
		out = append(out,
			placement.Rect{X: r.X + x, Y: r.Y, Width: w, Height: guideThickness},
			placement.Rect{X: r.X + x, Y: r.Y + r.Height - guideThickness, Width: w, Height: guideThickness})
	}
	for y := 0.0; y < r.Height; y += step {
		h := math.Min(guideDash, r.Height-y)
		out = append(out,
			placement.Rect{X: r.X, Y: r.Y + y, Width: guideThickness, Height: h},
			placement.Rect{X: r.X + r.Width - guideThickness, Y: r.Y + y, Width: guideThickness, Height: h})
	}
	return out
}
