package printshop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/placement"
)

// Toolbar layout, in screen pixels.
const (
	buttonWidth  = 72.0
	buttonHeight = 28.0
	buttonGap    = 8.0
	toolbarGap   = 12.0

	defaultTweenDuration float32 = 0.15 // seconds
)

// CanvasConfig configures a Canvas.
type CanvasConfig struct {
	// Origin is the screen position of the container's top-left corner.
	Origin placement.Vec2

	// Mockup is the garment fill behind the design.
	Mockup Color

	// Font draws the overlay text and the toolbar labels. Nil uses the
	// built-in Go Regular face at DefaultFontSize.
	Font *Font

	// Images resolves overlay image references. Nil disables image drawing.
	Images *ImageCache

	// ScreenshotDir is where Screenshot writes PNGs. Empty means
	// "screenshots".
	ScreenshotDir string

	// TweenDuration is how long the displayed scale and rotation take to
	// catch up with the widget. Zero uses the default; negative disables
	// easing.
	TweenDuration float32

	Logger *zap.Logger
}

// Canvas is the interactive host of a placement widget. It turns pointer
// and keyboard input into widget calls and draws the mockup, the print
// area guide, the overlay and a toolbar. The widget stays authoritative;
// the canvas only eases what is displayed.
type Canvas struct {
	widget *placement.Widget
	origin placement.Vec2
	mockup Color
	font   *Font
	label  *Font
	images *ImageCache
	log    *zap.Logger

	buttons []button

	// Input state
	pointer     pointerState
	touchIDs    []ebiten.TouchID
	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner

	// Screenshots
	ScreenshotDir string
	shots         []shot
	shotSeq       int

	// Display state
	shown         display
	target        placement.Transform
	tweens        *TweenGroup
	tweenDuration float32
}

// button is one toolbar entry in screen coordinates.
type button struct {
	action Action
	rect   placement.Rect
}

// NewCanvas wraps w. The widget must already be mounted.
func NewCanvas(w *placement.Widget, cfg CanvasConfig) *Canvas {
	c := &Canvas{
		widget:        w,
		origin:        cfg.Origin,
		mockup:        cfg.Mockup,
		font:          cfg.Font,
		images:        cfg.Images,
		log:           cfg.Logger,
		ScreenshotDir: cfg.ScreenshotDir,
		tweenDuration: cfg.TweenDuration,
	}
	if c.mockup == (Color{}) {
		c.mockup = defaultMockup
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	if c.tweenDuration == 0 {
		c.tweenDuration = defaultTweenDuration
	}
	c.pointer.button = -1
	c.target = w.Transform()
	c.shown = displayOf(c.target)
	c.layoutButtons()
	return c
}

// Widget returns the hosted widget.
func (c *Canvas) Widget() *placement.Widget { return c.widget }

// Origin returns the screen position of the container.
func (c *Canvas) Origin() placement.Vec2 { return c.origin }

// SetMockup changes the garment fill, e.g. after a color change.
func (c *Canvas) SetMockup(m Color) { c.mockup = m }

// ContainerRect returns the container in screen coordinates.
func (c *Canvas) ContainerRect() placement.Rect {
	s := c.widget.Container()
	return placement.Rect{X: c.origin.X, Y: c.origin.Y, Width: s.Width, Height: s.Height}
}

// ButtonRect returns the screen rectangle of a toolbar button.
func (c *Canvas) ButtonRect(a Action) placement.Rect {
	for _, b := range c.buttons {
		if b.action == a {
			return b.rect
		}
	}
	return placement.Rect{}
}

// Bounds returns the total screen area the canvas draws into.
func (c *Canvas) Bounds() placement.Rect {
	r := c.ContainerRect()
	last := c.buttons[len(c.buttons)-1].rect
	r.Width = max(r.Width, last.X+last.Width-r.X)
	r.Height = last.Y + last.Height - r.Y
	return r
}

// layoutButtons places the toolbar under the container, left aligned.
func (c *Canvas) layoutButtons() {
	c.buttons = c.buttons[:0]
	x := c.origin.X
	y := c.origin.Y + c.widget.Container().Height + toolbarGap
	for _, a := range Actions() {
		c.buttons = append(c.buttons, button{
			action: a,
			rect:   placement.Rect{X: x, Y: y, Width: buttonWidth, Height: buttonHeight},
		})
		x += buttonWidth + buttonGap
	}
}

// buttonAt returns the index of the toolbar button under (sx, sy), or -1.
func (c *Canvas) buttonAt(sx, sy float64) int {
	for i, b := range c.buttons {
		if b.rect.Contains(sx, sy) {
			return i
		}
	}
	return -1
}

// toLocal converts screen coordinates to container coordinates.
func (c *Canvas) toLocal(sx, sy float64) placement.Vec2 {
	return placement.Vec2{X: sx - c.origin.X, Y: sy - c.origin.Y}
}

// SetContainerSize resizes the container and moves the toolbar with it.
func (c *Canvas) SetContainerSize(s placement.Size) {
	c.widget.SetContainerSize(s)
	c.layoutButtons()
}

// Do applies a toolbar action to the widget.
func (c *Canvas) Do(a Action) {
	switch a {
	case ActionZoomIn:
		c.widget.ZoomIn()
	case ActionZoomOut:
		c.widget.ZoomOut()
	case ActionRotate:
		c.widget.Rotate()
	case ActionReset:
		c.widget.Reset()
	default:
		return
	}
	c.log.Debug("toolbar action", zap.Stringer("action", a))
}

// Update advances one frame: the test runner, input, then display easing.
// Call it from ebiten.Game.Update.
func (c *Canvas) Update() {
	if c.testRunner != nil {
		c.testRunner.step(c)
	}
	c.processInput()
	c.advance(float32(1 / float64(ebiten.TPS())))
}

// advance eases the displayed transform toward the widget by dt seconds.
func (c *Canvas) advance(dt float32) {
	if t := c.widget.Transform(); t != c.target {
		c.retarget(t)
	}
	if c.tweens != nil {
		c.tweens.Update(dt)
		if c.tweens.Done {
			c.tweens = nil
			c.shown = displayOf(c.target)
		}
	}
}

// retarget starts easing toward t. Translation always snaps so the overlay
// stays under the pointer during a drag.
func (c *Canvas) retarget(t placement.Transform) {
	c.target = t
	c.shown.x = t.Translation.X
	c.shown.y = t.Translation.Y
	if c.tweenDuration < 0 || (c.shown.scale == t.Scale && c.shown.rotation == float64(t.RotationDegrees)) {
		c.tweens = nil
		c.shown = displayOf(t)
		return
	}
	c.tweens = tweenDisplay(&c.shown, t, c.tweenDuration, ease.OutQuad)
}
