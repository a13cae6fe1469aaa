package placement

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- Matrix ---

func TestMatrixIdentity(t *testing.T) {
	got := DefaultTransform().Matrix(Size{100, 50})
	assertMatrix(t, "identity", got, [6]float64{1, 0, 0, 1, 0, 0})
}

func TestMatrixTranslation(t *testing.T) {
	tr := Transform{Translation: Vec2{10, 20}, Scale: 1}
	got := tr.Matrix(Size{100, 50})
	assertMatrix(t, "translation", got, [6]float64{1, 0, 0, 1, 10, 20})
}

func TestMatrixScaleKeepsBoxAtTranslation(t *testing.T) {
	tr := Transform{Translation: Vec2{10, 20}, Scale: 2}
	m := tr.Matrix(Size{100, 50})
	x, y := transformPoint(m, 0, 0)
	assertNear(t, "x", x, 10)
	assertNear(t, "y", y, 20)
	x, y = transformPoint(m, 100, 50)
	assertNear(t, "x", x, 210)
	assertNear(t, "y", y, 120)
}

func TestMatrixRotation90(t *testing.T) {
	tr := Transform{Scale: 1, RotationDegrees: 90}
	m := tr.Matrix(Size{100, 50})
	// Rotated 90° clockwise (Y down) about the centre, then moved so the
	// 50x100 bounding box starts at the origin.
	x, y := transformPoint(m, 0, 0)
	assertNear(t, "corner0.x", x, 50)
	assertNear(t, "corner0.y", y, 0)
	x, y = transformPoint(m, 100, 50)
	assertNear(t, "corner2.x", x, 0)
	assertNear(t, "corner2.y", y, 100)
}

func TestInvertAffine(t *testing.T) {
	tr := Transform{Translation: Vec2{30, 40}, Scale: 1.5, RotationDegrees: 45}
	m := tr.Matrix(Size{80, 60})
	inv := invertAffine(m)
	x, y := transformPoint(m, 12, 34)
	x, y = transformPoint(inv, x, y)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 34)
}

func TestInvertAffineSingular(t *testing.T) {
	got := invertAffine([6]float64{0, 0, 0, 0, 5, 5})
	assertMatrix(t, "singular", got, identityMatrix)
}

// --- BoundingSize ---

func TestBoundingSize(t *testing.T) {
	overlay := Size{100, 50}
	tests := []struct {
		name string
		tr   Transform
		want Size
	}{
		{"default", Transform{Scale: 1}, Size{100, 50}},
		{"scaled", Transform{Scale: 2}, Size{200, 100}},
		{"rot90", Transform{Scale: 1, RotationDegrees: 90}, Size{50, 100}},
		{"rot180", Transform{Scale: 1, RotationDegrees: 180}, Size{100, 50}},
		{"rot45", Transform{Scale: 1, RotationDegrees: 45}, Size{
			roundPixels(150 * math.Sqrt2 / 2),
			roundPixels(150 * math.Sqrt2 / 2),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tr.BoundingSize(overlay)
			assertNear(t, "width", got.Width, tt.want.Width)
			assertNear(t, "height", got.Height, tt.want.Height)
		})
	}
}

// --- ContainsPoint ---

func TestContainsPoint(t *testing.T) {
	overlay := Size{100, 20}
	flat := Transform{Translation: Vec2{50, 50}, Scale: 1}
	upright := Transform{Translation: Vec2{50, 50}, Scale: 1, RotationDegrees: 90}

	tests := []struct {
		name string
		tr   Transform
		p    Vec2
		want bool
	}{
		{"flat inside", flat, Vec2{100, 60}, true},
		{"flat top-left corner", flat, Vec2{50, 50}, true},
		{"flat below", flat, Vec2{100, 75}, false},
		{"upright inside", upright, Vec2{60, 140}, true},
		{"upright where flat was", upright, Vec2{140, 60}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.ContainsPoint(overlay, tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestContainsPointEmptyOverlay(t *testing.T) {
	if DefaultTransform().ContainsPoint(Size{}, Vec2{0, 0}) {
		t.Error("empty overlay should never be hit")
	}
}

// --- Clamping ---

func TestClampTranslation(t *testing.T) {
	container := Size{300, 300}
	box := Size{100, 100}
	tests := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"inside", Vec2{50, 60}, Vec2{50, 60}},
		{"negative", Vec2{-10, -20}, Vec2{0, 0}},
		{"overflow", Vec2{400, 400}, Vec2{200, 200}},
		{"mixed", Vec2{-5, 250}, Vec2{0, 200}},
		{"nan", Vec2{math.NaN(), 10}, Vec2{0, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampTranslation(tt.in, container, box)
			if got != tt.want {
				t.Errorf("ClampTranslation(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampTranslationOversizedOverlay(t *testing.T) {
	got := ClampTranslation(Vec2{40, 40}, Size{300, 300}, Size{400, 100})
	if got != (Vec2{0, 40}) {
		t.Errorf("oversized axis should pin to 0, got %v", got)
	}
}

func TestClampScale(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.0, 1.0},
		{0.1, MinScale},
		{5, MaxScale},
		{1.1000000000000003, 1.1},
		{math.NaN(), DefaultScale},
	}
	for _, tt := range tests {
		assertNear(t, "clampScale", clampScale(tt.in), tt.want)
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{15, 15},
		{360, 0},
		{375, 15},
		{-15, 345},
		{-720, 0},
		{7, 0},
		{8, 15},
		{100, 105},
		{-7, 0},
		{358, 0},
	}
	for _, tt := range tests {
		if got := normalizeRotation(tt.in); got != tt.want {
			t.Errorf("normalizeRotation(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTransformClamped(t *testing.T) {
	tr := Transform{Translation: Vec2{500, -3}, Scale: 9, RotationDegrees: -90}
	got := tr.Clamped(Size{300, 300}, Size{100, 50})
	// At 2x and 270° the 100x50 overlay occupies a 100x200 box.
	want := Transform{Translation: Vec2{200, 0}, Scale: MaxScale, RotationDegrees: 270}
	if got != want {
		t.Errorf("Clamped = %+v, want %+v", got, want)
	}
}
