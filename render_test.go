package printshop

import (
	"testing"

	"github.com/phanxgames/printshop/placement"
)

func TestDisplayMatrixMatchesWidget(t *testing.T) {
	overlay := placement.Size{Width: 120, Height: 80}
	tests := []placement.Transform{
		placement.DefaultTransform(),
		{Translation: placement.Vec2{X: 30, Y: 12}, Scale: 1.5, RotationDegrees: 0},
		{Translation: placement.Vec2{X: 5, Y: 40}, Scale: 0.7, RotationDegrees: 45},
		{Translation: placement.Vec2{X: 0, Y: 0}, Scale: 2, RotationDegrees: 90},
		{Translation: placement.Vec2{X: 80, Y: 9}, Scale: 1.1, RotationDegrees: 255},
	}
	for _, tr := range tests {
		got := displayOf(tr).matrix(overlay)
		want := tr.Matrix(overlay)
		for i := range got {
			if d := got[i] - want[i]; d > 1e-5 || d < -1e-5 {
				t.Errorf("%+v: matrix[%d] = %v, want %v", tr, i, got[i], want[i])
			}
		}
	}
}

func TestGeoMFrom(t *testing.T) {
	m := geoMFrom([6]float64{2, 0.5, -1, 3, 10, 20})
	x, y := m.Apply(1, 2)
	// x' = a*x + c*y + tx, y' = b*x + d*y + ty
	assertNear(t, "x", x, 2*1+-1*2+10)
	assertNear(t, "y", y, 0.5*1+3*2+20)
}

func TestDashSegments(t *testing.T) {
	r := placement.Rect{X: 5, Y: 5, Width: 20, Height: 10}
	segs := dashSegments(r)
	// Two dashes per horizontal edge, one per vertical edge.
	if len(segs) != 6 {
		t.Fatalf("len = %d, want 6", len(segs))
	}
	for _, s := range segs {
		if s.X < r.X || s.Y < r.Y || s.X+s.Width > r.X+r.Width+epsilon || s.Y+s.Height > r.Y+r.Height+epsilon {
			t.Errorf("segment %+v escapes %+v", s, r)
		}
	}

	if got := dashSegments(placement.Rect{}); len(got) != 0 {
		t.Errorf("empty rect produced %d segments", len(got))
	}
}
