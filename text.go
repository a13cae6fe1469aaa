package printshop

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is the overlay text size in pixels at scale 1.
const DefaultFontSize = 24

// Font wraps Ebitengine's text/v2 for TrueType rendering and keeps the raw
// font data so previews can be drawn in software with the same face.
type Font struct {
	face   *text.GoTextFace
	source *text.GoTextFaceSource
	data   []byte
	size   float64
	lh     float64 // cached line height
}

// LoadFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("printshop: failed to parse TTF data: %w", err)
	}
	return newFont(source, ttfData, size), nil
}

// DefaultFont returns Go Regular at the given size.
func DefaultFont(size float64) (*Font, error) {
	return LoadFont(goregular.TTF, size)
}

func newFont(source *text.GoTextFaceSource, data []byte, size float64) *Font {
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{
		face:   face,
		source: source,
		data:   data,
		size:   size,
		lh:     m.HAscent + m.HDescent + m.HLineGap,
	}
}

// WithSize returns the same typeface at another size.
func (f *Font) WithSize(size float64) *Font {
	return newFont(f.source, f.data, size)
}

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 {
	return f.lh
}

// Size returns the font size in pixels.
func (f *Font) Size() float64 {
	return f.size
}

// Face returns the underlying GoTextFace for direct text/v2 rendering.
func (f *Font) Face() *text.GoTextFace {
	return f.face
}

// softwareFace opens the font for x/image drawing at the given size.
func (f *Font) softwareFace(size float64) (font.Face, error) {
	otf, err := opentype.Parse(f.data)
	if err != nil {
		return nil, fmt.Errorf("printshop: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("printshop: failed to open face: %w", err)
	}
	return face, nil
}
