package printshop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Pointer state ---

// pointerState follows the single pointer the canvas listens to: the left
// mouse button, or the first touch when no mouse button is held.
type pointerState struct {
	down   bool
	startX float64
	startY float64
	lastX  float64
	lastY  float64
	button int  // toolbar button captured at press time, -1 for none
	inside bool // pointer was over the container last frame
	touch  bool // interaction started from a touch
}

// keyActions maps keyboard shortcuts to toolbar actions.
var keyActions = []struct {
	keys   []ebiten.Key
	action Action
}{
	{[]ebiten.Key{ebiten.KeyEqual, ebiten.KeyNumpadAdd}, ActionZoomIn},
	{[]ebiten.Key{ebiten.KeyMinus, ebiten.KeyNumpadSubtract}, ActionZoomOut},
	{[]ebiten.Key{ebiten.KeyR}, ActionRotate},
	{[]ebiten.Key{ebiten.KeyDigit0, ebiten.KeyNumpad0}, ActionReset},
}

// --- Input processing ---

// processInput handles one frame of input. A queued synthetic event
// replaces real pointer input for that frame.
func (c *Canvas) processInput() {
	if !c.processInjectedInput() {
		c.processRealPointer()
	}
	c.processKeys()
}

// processRealPointer reads the mouse, falling back to the first touch.
func (c *Canvas) processRealPointer() {
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	touch := false

	if !pressed {
		c.touchIDs = ebiten.AppendTouchIDs(c.touchIDs[:0])
		if len(c.touchIDs) > 0 {
			tx, ty := ebiten.TouchPosition(c.touchIDs[0])
			sx, sy = float64(tx), float64(ty)
			pressed, touch = true, true
		} else if c.pointer.down && c.pointer.touch {
			// Finger lifted: release where it was last seen, not at the
			// stale cursor position.
			sx, sy = c.pointer.lastX, c.pointer.lastY
		}
	}
	if pressed && !c.pointer.down {
		c.pointer.touch = touch
	}
	c.processPointer(sx, sy, pressed)
}

// processKeys applies keyboard shortcuts.
func (c *Canvas) processKeys() {
	for _, ka := range keyActions {
		for _, k := range ka.keys {
			if inpututil.IsKeyJustPressed(k) {
				c.Do(ka.action)
				break
			}
		}
	}
}

// processPointer runs the pointer state machine for one sample in screen
// coordinates.
//
// A press over the overlay starts a drag, a press over a toolbar button arms
// it. Moves while down continue the drag. Leaving the container ends the
// drag. A release ends the drag, or fires the armed button when it is
// released over the same button.
func (c *Canvas) processPointer(sx, sy float64, pressed bool) {
	ps := &c.pointer
	local := c.toLocal(sx, sy)
	inside := c.ContainerRect().Contains(sx, sy)

	if ps.inside && !inside {
		c.widget.PointerLeave()
	}
	ps.inside = inside

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = sx, sy
		ps.lastX, ps.lastY = sx, sy
		ps.button = c.buttonAt(sx, sy)
		if ps.button < 0 && inside {
			c.widget.BeginDrag(local)
		}

	case pressed && ps.down:
		if sx == ps.lastX && sy == ps.lastY {
			return
		}
		ps.lastX, ps.lastY = sx, sy
		c.widget.ContinueDrag(local)

	case !pressed && ps.down:
		if c.widget.Dragging() {
			c.widget.EndDrag()
		} else if ps.button >= 0 && c.buttonAt(sx, sy) == ps.button {
			c.Do(c.buttons[ps.button].action)
		}
		ps.down = false
		ps.button = -1
		ps.touch = false
	}
}
