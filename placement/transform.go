package placement

import "math"

// Transform is the widget's sole piece of state. It is a value type: the
// widget hands out copies, never pointers.
type Transform struct {
	Translation     Vec2    `json:"translation"`
	Scale           float64 `json:"scale"`
	RotationDegrees int     `json:"rotationDegrees"`
}

// DefaultTransform returns the transform a freshly mounted widget starts with.
func DefaultTransform() Transform {
	return Transform{Scale: DefaultScale}
}

// IsDefault reports whether t equals DefaultTransform.
func (t Transform) IsDefault() bool {
	return t == DefaultTransform()
}

// Radians returns the rotation in radians.
func (t Transform) Radians() float64 {
	return float64(t.RotationDegrees) * math.Pi / 180
}

// identityMatrix is the identity affine matrix.
var identityMatrix = [6]float64{1, 0, 0, 1, 0, 0}

// Matrix returns the affine matrix mapping overlay-local coordinates to
// container coordinates. Scale and rotation are applied about the overlay
// centre; the translation is the top-left corner of the resulting bounding
// box, so the box reported by BoundingSize starts exactly at Translation.
//
//	Translate(-w/2, -h/2) -> Scale -> Rotate -> Translate(x + bw/2, y + bh/2)
//
// Matrix layout: [a, b, c, d, tx, ty]
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func (t Transform) Matrix(overlay Size) [6]float64 {
	sin, cos := math.Sincos(t.Radians())
	s := t.Scale
	px := overlay.Width / 2
	py := overlay.Height / 2

	a := cos * s
	b := sin * s
	c := -sin * s
	d := cos * s

	box := t.BoundingSize(overlay)
	tx := -(a*px + c*py) + box.Width/2 + t.Translation.X
	ty := -(b*px + d*py) + box.Height/2 + t.Translation.Y
	return [6]float64{a, b, c, d, tx, ty}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityMatrix
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// BoundingSize returns the width and height of the axis-aligned box that
// encloses an overlay of the given size once scaled and rotated.
func (t Transform) BoundingSize(overlay Size) Size {
	sin, cos := math.Sincos(t.Radians())
	sin, cos = math.Abs(sin), math.Abs(cos)
	w := overlay.Width * t.Scale
	h := overlay.Height * t.Scale
	return Size{
		Width:  roundPixels(w*cos + h*sin),
		Height: roundPixels(w*sin + h*cos),
	}
}

// ContainsPoint reports whether p, in container coordinates, lies on the
// overlay after its transform is applied.
func (t Transform) ContainsPoint(overlay Size, p Vec2) bool {
	if overlay.Empty() {
		return false
	}
	inv := invertAffine(t.Matrix(overlay))
	lx, ly := transformPoint(inv, p.X, p.Y)
	return lx >= 0 && lx <= overlay.Width && ly >= 0 && ly <= overlay.Height
}

// --- Clamping ---

// clampAxis limits v to [0, container-overlay]. An overlay larger than the
// container pins the axis at 0.
func clampAxis(v, container, overlay float64) float64 {
	hi := container - overlay
	if hi < 0 {
		hi = 0
	}
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampTranslation returns p limited so that a box of the given size stays
// inside the container. Each axis is clamped independently.
func ClampTranslation(p Vec2, container, box Size) Vec2 {
	return Vec2{
		X: clampAxis(p.X, container.Width, box.Width),
		Y: clampAxis(p.Y, container.Height, box.Height),
	}
}

// clampScale saturates s to [MinScale, MaxScale] and rounds away float drift
// so that repeated ±ScaleStep lands on exact tenths.
func clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return DefaultScale
	}
	s = math.Round(s*10) / 10
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// normalizeRotation snaps deg to the nearest RotationStep and maps it into
// [0, 360).
func normalizeRotation(deg int) int {
	deg = int(math.Round(float64(deg)/RotationStep)) * RotationStep
	deg %= FullRotation
	if deg < 0 {
		deg += FullRotation
	}
	return deg
}

// roundPixels trims sub-micropixel noise from trigonometric results so that
// a 90° rotation of a square reports the same size as 0°.
func roundPixels(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Clamped returns a copy of t with every field forced into range for the
// given container and overlay sizes.
func (t Transform) Clamped(container, overlay Size) Transform {
	t.Scale = clampScale(t.Scale)
	t.RotationDegrees = normalizeRotation(t.RotationDegrees)
	t.Translation = ClampTranslation(t.Translation, container, t.BoundingSize(overlay))
	return t
}
