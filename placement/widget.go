package placement

// Config describes the inputs a host supplies when mounting a Widget.
type Config struct {
	// Container is the square canvas the overlay lives in.
	Container Size

	// OverlaySize is the measured, untransformed size of the overlay
	// content (image pixels or laid-out text).
	OverlaySize Size

	Overlay  Overlay
	Position Position

	// Initial restores a previously saved transform. Nil starts from
	// DefaultTransform.
	Initial *Transform

	// OnChange is called with a snapshot after every mutation and once
	// from New.
	OnChange ChangeFunc
}

// Widget holds the authoritative transform for one overlay on one mockup.
// It is not safe for concurrent use; all calls are expected from the UI
// update loop.
type Widget struct {
	container   Size
	overlaySize Size
	overlay     Overlay
	position    Position
	transform   Transform

	dragging   bool
	grabOffset Vec2

	onChange ChangeFunc
}

// New mounts a widget and emits the initial transform.
func New(cfg Config) *Widget {
	w := &Widget{
		container:   cfg.Container,
		overlaySize: cfg.OverlaySize,
		overlay:     cfg.Overlay,
		position:    cfg.Position,
		transform:   DefaultTransform(),
		onChange:    cfg.OnChange,
	}
	if cfg.Initial != nil {
		w.transform = *cfg.Initial
	}
	w.transform = w.transform.Clamped(w.container, w.overlaySize)
	w.emit()
	return w
}

// emit hands a copy of the transform to the change callback.
func (w *Widget) emit() {
	if w.onChange != nil {
		w.onChange(w.transform)
	}
}

// OnChange replaces the change callback. The new callback is not invoked
// until the next mutation.
func (w *Widget) OnChange(fn ChangeFunc) {
	w.onChange = fn
}

// --- Drag ---

// BeginDrag starts a drag when p lies on the overlay. It records the offset
// between the pointer and the current translation so the overlay does not
// jump to the pointer. Returns false, and leaves the widget untouched, when
// p misses the overlay or there is nothing to drag.
func (w *Widget) BeginDrag(p Vec2) bool {
	if w.overlay.Empty() || !w.transform.ContainsPoint(w.overlaySize, p) {
		return false
	}
	w.grabOffset = p.Sub(w.transform.Translation)
	w.dragging = true
	return true
}

// ContinueDrag moves the overlay so that it stays under the pointer, clamped
// to the container. Calls outside an active drag are ignored.
func (w *Widget) ContinueDrag(p Vec2) {
	if !w.dragging {
		return
	}
	next := ClampTranslation(p.Sub(w.grabOffset), w.container, w.boundingSize())
	if next == w.transform.Translation {
		return
	}
	w.transform.Translation = next
	w.emit()
}

// EndDrag finishes an active drag and emits the final transform. It is a
// no-op when no drag is active.
func (w *Widget) EndDrag() {
	if !w.dragging {
		return
	}
	w.dragging = false
	w.grabOffset = Vec2{}
	w.emit()
}

// PointerLeave is called when the pointer leaves the container. It ends any
// active drag exactly like EndDrag.
func (w *Widget) PointerLeave() {
	w.EndDrag()
}

// Dragging reports whether a drag is in progress.
func (w *Widget) Dragging() bool {
	return w.dragging
}

// --- Buttons ---

// ZoomIn grows the overlay by ScaleStep, saturating at MaxScale.
func (w *Widget) ZoomIn() {
	w.setScale(w.transform.Scale + ScaleStep)
}

// ZoomOut shrinks the overlay by ScaleStep, saturating at MinScale.
func (w *Widget) ZoomOut() {
	w.setScale(w.transform.Scale - ScaleStep)
}

func (w *Widget) setScale(s float64) {
	s = clampScale(s)
	if s == w.transform.Scale {
		return
	}
	w.transform.Scale = s
	w.reclamp()
	w.emit()
}

// Rotate advances the rotation by RotationStep degrees, wrapping at 360.
func (w *Widget) Rotate() {
	w.transform.RotationDegrees = normalizeRotation(w.transform.RotationDegrees + RotationStep)
	w.reclamp()
	w.emit()
}

// Reset restores the default transform and cancels any drag.
func (w *Widget) Reset() {
	w.dragging = false
	w.grabOffset = Vec2{}
	w.transform = DefaultTransform()
	w.reclamp()
	w.emit()
}

// --- Host inputs ---

// SetContainerSize updates the container measurement and re-clamps the
// translation. The transform is emitted only if the clamp moved it.
func (w *Widget) SetContainerSize(s Size) {
	w.container = s
	w.reclampAndEmit()
}

// SetOverlaySize updates the overlay measurement, e.g. after an image
// finishes loading or the text changes, and re-clamps the translation.
func (w *Widget) SetOverlaySize(s Size) {
	w.overlaySize = s
	w.reclampAndEmit()
}

// SetOverlay swaps the overlay content. Position, scale and rotation are
// kept. Clearing the overlay ends any drag without emitting.
func (w *Widget) SetOverlay(o Overlay) {
	w.overlay = o
	if o.Empty() {
		w.dragging = false
	}
}

// SetPosition changes which print area guide is shown. It never touches the
// transform.
func (w *Widget) SetPosition(p Position) {
	w.position = p
}

// SetTransform restores a saved transform, clamped to the current sizes.
func (w *Widget) SetTransform(t Transform) {
	t = t.Clamped(w.container, w.overlaySize)
	if t == w.transform {
		return
	}
	w.transform = t
	w.emit()
}

func (w *Widget) reclamp() {
	w.transform.Translation = ClampTranslation(w.transform.Translation, w.container, w.boundingSize())
}

func (w *Widget) reclampAndEmit() {
	before := w.transform.Translation
	w.reclamp()
	if w.transform.Translation != before {
		w.emit()
	}
}

func (w *Widget) boundingSize() Size {
	return w.transform.BoundingSize(w.overlaySize)
}

// --- Accessors ---

// Transform returns a snapshot of the current transform.
func (w *Widget) Transform() Transform {
	return w.transform
}

// Container returns the container size.
func (w *Widget) Container() Size {
	return w.container
}

// OverlaySize returns the untransformed overlay size.
func (w *Widget) OverlaySize() Size {
	return w.overlaySize
}

// Overlay returns the current overlay content.
func (w *Widget) Overlay() Overlay {
	return w.overlay
}

// Position returns the selected print position.
func (w *Widget) Position() Position {
	return w.position
}

// GuideRect returns the dashed print-area guide in container pixels.
func (w *Widget) GuideRect() Rect {
	return PrintAreaFor(w.position).Rect(w.container)
}

// OverlayBounds returns the axis-aligned box the transformed overlay
// occupies in container pixels.
func (w *Widget) OverlayBounds() Rect {
	b := w.boundingSize()
	return Rect{
		X:      w.transform.Translation.X,
		Y:      w.transform.Translation.Y,
		Width:  b.Width,
		Height: b.Height,
	}
}

// Matrix returns the overlay-to-container affine matrix for rendering.
func (w *Widget) Matrix() [6]float64 {
	return w.transform.Matrix(w.overlaySize)
}
