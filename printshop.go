package printshop

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// RGBA8 converts c to a premultiplied color.RGBA.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// mockupColors maps catalog variant colors to the garment fill.
var mockupColors = map[string]Color{
	"white": {0.96, 0.96, 0.96, 1},
	"black": {0.13, 0.13, 0.14, 1},
	"gray":  {0.55, 0.56, 0.58, 1},
	"navy":  {0.12, 0.17, 0.33, 1},
}

// defaultMockup is used for products without a color (canvas prints,
// phone cases) and for unknown color names.
var defaultMockup = Color{0.90, 0.91, 0.93, 1}

// MockupColor returns the fill used to draw a product of the named color.
func MockupColor(name string) Color {
	if c, ok := mockupColors[strings.ToLower(name)]; ok {
		return c
	}
	return defaultMockup
}

// contrastColor returns black or white, whichever reads better on c.
func contrastColor(c Color) Color {
	if 0.299*c.R+0.587*c.G+0.114*c.B > 0.5 {
		return ColorBlack
	}
	return ColorWhite
}

// whitePixel is a 1x1 white image scaled and tinted for solid fills.
var whitePixel *ebiten.Image

func solidPixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// Action is a toolbar command applied to the placement widget.
type Action uint8

const (
	ActionZoomIn  Action = iota // grow by one scale step
	ActionZoomOut               // shrink by one scale step
	ActionRotate                // rotate by one rotation step
	ActionReset                 // restore the default transform
)

var actionNames = [...]string{"zoom_in", "zoom_out", "rotate", "reset"}

var actionLabels = [...]string{"+", "-", "Rotate", "Reset"}

// String returns the script name of the action.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Actions lists the toolbar actions in display order.
func Actions() []Action {
	return []Action{ActionZoomIn, ActionZoomOut, ActionRotate, ActionReset}
}

// parseAction is the inverse of Action.String.
func parseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}
