package printshop

// syntheticPointerEvent represents a single injected pointer event in
// screen coordinates, exactly as real input would report it.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next frame's processInput call.
func (c *Canvas) InjectPress(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, pressed: true})
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (c *Canvas) InjectMove(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, pressed: true})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (c *Canvas) InjectRelease(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, pressed: false})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (c *Canvas) InjectClick(x, y float64) {
	c.InjectPress(x, y)
	c.InjectRelease(x, y)
}

// InjectAction clicks the centre of a toolbar button.
func (c *Canvas) InjectAction(a Action) {
	r := c.ButtonRect(a)
	c.InjectClick(r.X+r.Width/2, r.Y+r.Height/2)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// frames-2 linearly interpolated moves ending exactly on (toX, toY), and a
// release there. The total sequence consumes `frames` frames. Minimum
// frames is 3 (press + move + release) since a release does not move the
// overlay.
func (c *Canvas) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	c.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	c.InjectRelease(toX, toY)
}

// Pending returns the number of queued synthetic events.
func (c *Canvas) Pending() int { return len(c.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed (real
// pointer input should be skipped).
func (c *Canvas) processInjectedInput() bool {
	if len(c.injectQueue) == 0 {
		return false
	}
	evt := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]

	c.processPointer(evt.screenX, evt.screenY, evt.pressed)
	return true
}
