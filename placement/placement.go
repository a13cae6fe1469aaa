// Package placement models the design placement widget: a translation,
// scale and rotation applied to an overlay sitting on top of a product
// mockup inside a square container.
//
// The model is renderer-agnostic. The root printshop package drives it from
// Ebitengine input and draws it; tests and the CLI drive it directly.
//
// All operations clamp rather than reject: there are no error returns.
package placement

// Scale and rotation limits.
const (
	MinScale     = 0.5
	MaxScale     = 2.0
	DefaultScale = 1.0
	ScaleStep    = 0.1
	RotationStep = 15  // degrees
	FullRotation = 360 // degrees
)

// Vec2 is a 2D point or offset in container pixels. The origin is the
// container's top-left corner with Y increasing downward.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Overlay is the content placed on the mockup. Both fields may be set; the
// renderer draws the image first and the text on top.
type Overlay struct {
	ImageRef string // opaque handle: file path, URL or upload id
	Text     string
}

// Empty reports whether there is nothing to place.
func (o Overlay) Empty() bool {
	return o.ImageRef == "" && o.Text == ""
}

// ChangeFunc receives a snapshot of the transform after every mutation.
type ChangeFunc func(Transform)
