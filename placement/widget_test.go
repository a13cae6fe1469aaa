package placement

import (
	"math/rand"
	"testing"
)

// recorder collects every transform the widget emits.
type recorder struct {
	got []Transform
}

func (r *recorder) fn(t Transform) { r.got = append(r.got, t) }

func (r *recorder) last() Transform {
	if len(r.got) == 0 {
		return Transform{}
	}
	return r.got[len(r.got)-1]
}

func newTestWidget(rec *recorder) *Widget {
	return New(Config{
		Container:   Size{300, 300},
		OverlaySize: Size{100, 100},
		Overlay:     Overlay{Text: "hello"},
		OnChange:    rec.fn,
	})
}

// --- Mount ---

func TestNewEmitsDefaultOnce(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	if len(rec.got) != 1 {
		t.Fatalf("emits on mount = %d, want 1", len(rec.got))
	}
	if !rec.last().IsDefault() {
		t.Errorf("mount transform = %+v, want default", rec.last())
	}
	if w.Dragging() {
		t.Error("new widget should not be dragging")
	}
}

func TestNewRestoresInitialClamped(t *testing.T) {
	initial := Transform{Translation: Vec2{999, 50}, Scale: 1.5, RotationDegrees: 30}
	w := New(Config{
		Container:   Size{300, 300},
		OverlaySize: Size{100, 100},
		Initial:     &initial,
	})
	got := w.Transform()
	if got.Scale != 1.5 || got.RotationDegrees != 30 {
		t.Errorf("initial scale/rotation not restored: %+v", got)
	}
	b := w.OverlayBounds()
	assertNear(t, "x", got.Translation.X, 300-b.Width)
}

// --- Drag ---

func TestDragClampsToContainer(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	w.SetTransform(Transform{Translation: Vec2{150, 150}, Scale: 1})

	if !w.BeginDrag(Vec2{150, 150}) {
		t.Fatal("BeginDrag on overlay corner should start a drag")
	}
	w.ContinueDrag(Vec2{400, 400})
	w.EndDrag()

	got := w.Transform().Translation
	if got != (Vec2{200, 200}) {
		t.Errorf("translation = %v, want (200, 200)", got)
	}
	if w.Dragging() {
		t.Error("EndDrag should leave dragging state")
	}
	if rec.last().Translation != (Vec2{200, 200}) {
		t.Errorf("last emitted = %v, want (200, 200)", rec.last().Translation)
	}
}

func TestDragKeepsGrabOffset(t *testing.T) {
	w := newTestWidget(&recorder{})
	if !w.BeginDrag(Vec2{30, 40}) {
		t.Fatal("expected hit")
	}
	w.ContinueDrag(Vec2{80, 90})
	if got := w.Transform().Translation; got != (Vec2{50, 50}) {
		t.Errorf("translation = %v, want (50, 50)", got)
	}
}

func TestBeginDragMissesOverlay(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	if w.BeginDrag(Vec2{250, 250}) {
		t.Error("BeginDrag outside the overlay should fail")
	}
	w.ContinueDrag(Vec2{10, 10})
	if w.Transform().Translation != (Vec2{}) {
		t.Error("ContinueDrag without a drag must be ignored")
	}
	if len(rec.got) != 1 {
		t.Errorf("emits = %d, want only the mount emit", len(rec.got))
	}
}

func TestBeginDragEmptyOverlay(t *testing.T) {
	w := New(Config{Container: Size{300, 300}, OverlaySize: Size{100, 100}})
	if w.BeginDrag(Vec2{10, 10}) {
		t.Error("nothing to drag without overlay content")
	}
}

func TestEndDragWithoutDragIsSilent(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	w.EndDrag()
	w.PointerLeave()
	if len(rec.got) != 1 {
		t.Errorf("emits = %d, want 1", len(rec.got))
	}
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	w.BeginDrag(Vec2{10, 10})
	w.ContinueDrag(Vec2{60, 10})
	n := len(rec.got)
	w.PointerLeave()
	if w.Dragging() {
		t.Error("PointerLeave should end the drag")
	}
	if len(rec.got) != n+1 {
		t.Error("PointerLeave should emit like EndDrag")
	}
	w.ContinueDrag(Vec2{200, 200})
	if got := w.Transform().Translation; got != (Vec2{50, 0}) {
		t.Errorf("translation moved after leave: %v", got)
	}
}

func TestDragOversizedOverlayDoesNotMove(t *testing.T) {
	w := New(Config{
		Container:   Size{300, 300},
		OverlaySize: Size{400, 100},
		Overlay:     Overlay{ImageRef: "big.png"},
	})
	w.BeginDrag(Vec2{10, 10})
	w.ContinueDrag(Vec2{120, 120})
	got := w.Transform().Translation
	if got.X != 0 {
		t.Errorf("x = %v, want 0 for oversized axis", got.X)
	}
	assertNear(t, "y", got.Y, 110)
}

func TestRandomDragsStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w := newTestWidget(&recorder{})
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			w.ZoomIn()
		case 1:
			w.ZoomOut()
		case 2:
			w.Rotate()
		}
		b := w.OverlayBounds()
		start := Vec2{b.X + rng.Float64()*b.Width, b.Y + rng.Float64()*b.Height}
		if !w.BeginDrag(start) {
			continue
		}
		for j := 0; j < 5; j++ {
			w.ContinueDrag(Vec2{rng.Float64()*900 - 300, rng.Float64()*900 - 300})
		}
		w.EndDrag()

		tr := w.Transform()
		b = w.OverlayBounds()
		maxX := max(0, 300-b.Width)
		maxY := max(0, 300-b.Height)
		if tr.Translation.X < 0 || tr.Translation.X > maxX ||
			tr.Translation.Y < 0 || tr.Translation.Y > maxY {
			t.Fatalf("step %d: translation %v outside [0,%v]x[0,%v]", i, tr.Translation, maxX, maxY)
		}
	}
}

// --- Zoom ---

func TestZoomOutSaturates(t *testing.T) {
	w := newTestWidget(&recorder{})
	for i := 0; i < 20; i++ {
		w.ZoomOut()
	}
	assertNear(t, "scale", w.Transform().Scale, MinScale)
}

func TestZoomInSaturates(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	for i := 0; i < 20; i++ {
		w.ZoomIn()
	}
	assertNear(t, "scale", w.Transform().Scale, MaxScale)
	n := len(rec.got)
	w.ZoomIn()
	if len(rec.got) != n {
		t.Error("ZoomIn at MaxScale should be a silent no-op")
	}
}

func TestZoomRoundTrip(t *testing.T) {
	for _, start := range []float64{0.5, 0.7, 1.0, 1.3, 1.9} {
		w := newTestWidget(&recorder{})
		w.SetTransform(Transform{Scale: start})
		w.ZoomIn()
		w.ZoomOut()
		assertNear(t, "scale", w.Transform().Scale, start)
	}
}

func TestZoomReclampsTranslation(t *testing.T) {
	w := newTestWidget(&recorder{})
	w.SetTransform(Transform{Translation: Vec2{200, 200}, Scale: 1})
	w.ZoomIn()
	got := w.Transform().Translation
	assertNear(t, "x", got.X, 190)
	assertNear(t, "y", got.Y, 190)
}

// --- Rotate ---

func TestRotateSixTimes(t *testing.T) {
	w := newTestWidget(&recorder{})
	for i := 0; i < 6; i++ {
		w.Rotate()
	}
	if got := w.Transform().RotationDegrees; got != 90 {
		t.Errorf("rotation = %d, want 90", got)
	}
}

func TestRotateFullTurn(t *testing.T) {
	w := newTestWidget(&recorder{})
	w.SetTransform(Transform{Scale: 1, RotationDegrees: 45})
	for i := 0; i < 24; i++ {
		w.Rotate()
	}
	if got := w.Transform().RotationDegrees; got != 45 {
		t.Errorf("rotation = %d, want 45", got)
	}
}

func TestSetTransformSnapsRotation(t *testing.T) {
	w := newTestWidget(&recorder{})
	w.SetTransform(Transform{Scale: 1, RotationDegrees: 50})
	if got := w.Transform().RotationDegrees; got != 45 {
		t.Errorf("rotation = %d, want 45", got)
	}
	w.Rotate()
	if got := w.Transform().RotationDegrees; got != 60 {
		t.Errorf("rotation after Rotate = %d, want 60", got)
	}
}

func TestRotateEmits(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	w.Rotate()
	if len(rec.got) != 2 || rec.last().RotationDegrees != 15 {
		t.Errorf("emits = %v", rec.got)
	}
}

// --- Reset ---

func TestResetRestoresDefaults(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	w.BeginDrag(Vec2{10, 10})
	w.ContinueDrag(Vec2{90, 70})
	w.ZoomOut()
	w.Rotate()
	w.Reset()

	if !w.Transform().IsDefault() {
		t.Errorf("after reset = %+v, want default", w.Transform())
	}
	if w.Dragging() {
		t.Error("reset should cancel the drag")
	}
	if !rec.last().IsDefault() {
		t.Error("reset should emit the default transform")
	}
}

func TestResetFromDefaultStillEmits(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	w.Reset()
	if len(rec.got) != 2 {
		t.Errorf("emits = %d, want 2", len(rec.got))
	}
}

// --- Host inputs ---

func TestContentSwapKeepsTransform(t *testing.T) {
	w := newTestWidget(&recorder{})
	w.SetTransform(Transform{Translation: Vec2{40, 60}, Scale: 1.2, RotationDegrees: 30})
	before := w.Transform()

	w.SetOverlay(Overlay{ImageRef: "logo.png"})
	w.SetPosition(Back)
	if w.Transform() != before {
		t.Errorf("transform changed on content swap: %+v -> %+v", before, w.Transform())
	}
	if w.Position() != Back {
		t.Errorf("position = %v, want back", w.Position())
	}
}

func TestSetOverlayEmptyCancelsDrag(t *testing.T) {
	w := newTestWidget(&recorder{})
	w.BeginDrag(Vec2{10, 10})
	w.SetOverlay(Overlay{})
	if w.Dragging() {
		t.Error("clearing the overlay should cancel the drag")
	}
}

func TestContainerShrinkReclamps(t *testing.T) {
	rec := &recorder{}
	w := newTestWidget(rec)
	w.SetTransform(Transform{Translation: Vec2{200, 150}, Scale: 1})
	n := len(rec.got)

	w.SetContainerSize(Size{250, 250})
	if got := w.Transform().Translation; got != (Vec2{150, 150}) {
		t.Errorf("translation = %v, want (150, 150)", got)
	}
	if len(rec.got) != n+1 {
		t.Error("re-clamp should emit")
	}

	w.SetContainerSize(Size{400, 400})
	if len(rec.got) != n+1 {
		t.Error("growing the container should not emit")
	}
}

func TestOverlayGrowReclamps(t *testing.T) {
	w := newTestWidget(&recorder{})
	w.SetTransform(Transform{Translation: Vec2{200, 200}, Scale: 1})
	w.SetOverlaySize(Size{150, 120})
	if got := w.Transform().Translation; got != (Vec2{150, 180}) {
		t.Errorf("translation = %v, want (150, 180)", got)
	}
}

func TestGuideRectFollowsPosition(t *testing.T) {
	w := newTestWidget(&recorder{})
	w.SetPosition(LeftSleeve)
	got := w.GuideRect()
	assertNear(t, "x", got.X, 45)
	assertNear(t, "y", got.Y, 60)
	assertNear(t, "width", got.Width, 60)
	assertNear(t, "height", got.Height, 60)
}
