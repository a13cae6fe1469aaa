package printshop

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/account"
	"github.com/phanxgames/printshop/cart"
	"github.com/phanxgames/printshop/customize"
	"github.com/phanxgames/printshop/placement"
)

// RunConfig configures the customization window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool

	// Origin is where the design container is drawn.
	Origin placement.Vec2

	Font   *Font
	Images *ImageCache

	ScreenshotDir string
	PreviewDir    string

	// TestScript, when set, is run through a TestRunner and the window
	// closes once it finishes.
	TestScript []byte

	// Cart receives Enter (add to cart); Designs receives Ctrl+S (save
	// design). Either may be nil to disable the shortcut.
	Cart    *cart.Cart
	Designs *account.Designs

	// OnChange is called after the cart or the designs changed, typically
	// to persist them.
	OnChange func() error

	Logger *zap.Logger
}

// app implements ebiten.Game around one customization session.
type app struct {
	session *customize.Session
	canvas  *Canvas
	cfg     RunConfig
	log     *zap.Logger

	status    string
	finishing bool
}

// Run opens a window hosting s and blocks until it is closed, Escape is
// pressed or the test script finishes.
//
//	Drag the design to move it; + and - zoom, R rotates, 0 resets.
//	Tab cycles the print position, C cycles the color.
//	Enter adds to cart, Ctrl+S saves the design.
func Run(s *customize.Session, cfg RunConfig) error {
	a, err := newApp(s, cfg)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(a.cfg.Title)
	ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func newApp(s *customize.Session, cfg RunConfig) (*app, error) {
	if cfg.Title == "" {
		cfg.Title = "printshop: " + s.Product().Name
	}
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	if cfg.PreviewDir == "" {
		cfg.PreviewDir = "previews"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Origin == (placement.Vec2{}) {
		cfg.Origin = placement.Vec2{X: 24, Y: 48}
	}

	a := &app{session: s, cfg: cfg, log: cfg.Logger}
	a.canvas = NewCanvas(s.Widget(), CanvasConfig{
		Origin:        cfg.Origin,
		Mockup:        MockupColor(s.Variant().Color),
		Font:          cfg.Font,
		Images:        cfg.Images,
		ScreenshotDir: cfg.ScreenshotDir,
		Logger:        cfg.Logger,
	})

	if len(cfg.TestScript) > 0 {
		r, err := LoadTestScript(cfg.TestScript)
		if err != nil {
			return nil, err
		}
		a.canvas.SetTestRunner(r)
	}
	return a, nil
}

// Update implements ebiten.Game.
func (a *app) Update() error {
	if a.finishing || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	a.canvas.Update()
	a.handleKeys()

	// Give Draw one more frame so a final screenshot step is captured.
	if r := a.canvas.TestRunner(); r != nil && r.Done() {
		a.finishing = true
	}
	return nil
}

func (a *app) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		a.addToCart()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.saveDesign()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		a.cyclePosition()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		a.cycleColor()
	}
}

func (a *app) addToCart() {
	if a.cfg.Cart == nil {
		return
	}
	li, err := a.session.AddToCart(a.cfg.Cart)
	if err != nil {
		a.setStatus("Could not add to cart: %v", err)
		return
	}
	a.setStatus("Added %d x %s (%s)", li.Quantity, li.Name, li.LineTotal().StringFixed(2))
	a.commit()
}

func (a *app) saveDesign() {
	if a.cfg.Designs == nil {
		return
	}
	var preview string
	if img, err := a.canvas.Preview(); err != nil {
		a.log.Warn("preview render failed", zap.Error(err))
	} else {
		name := fmt.Sprintf("%s_%d", a.session.Product().ID, time.Now().UnixMilli())
		if preview, err = WritePreview(a.cfg.PreviewDir, name, img); err != nil {
			a.log.Warn("preview write failed", zap.Error(err))
			preview = ""
		}
	}
	d, err := a.session.SaveDesign(a.cfg.Designs, preview)
	if errors.Is(err, account.ErrNameRequired) {
		a.setStatus("Name the design before saving (--name)")
		return
	}
	if err != nil {
		a.setStatus("Could not save design: %v", err)
		return
	}
	a.setStatus("Saved design %q", d.Name)
	a.commit()
}

func (a *app) cyclePosition() {
	ps := a.session.Positions()
	for i, p := range ps {
		if p == a.session.Position() {
			next := ps[(i+1)%len(ps)]
			if err := a.session.SetPosition(next); err == nil {
				a.setStatus("Print position: %s", next)
			}
			return
		}
	}
}

func (a *app) cycleColor() {
	colors := a.session.Product().Colors()
	if len(colors) < 2 {
		return
	}
	cur := a.session.Variant().Color
	for i, col := range colors {
		if col != cur {
			continue
		}
		for j := 1; j < len(colors); j++ {
			next := colors[(i+j)%len(colors)]
			if err := a.session.SelectColor(next); err == nil {
				a.canvas.SetMockup(MockupColor(next))
				a.setStatus("Color: %s", a.session.Variant().Name)
				return
			}
		}
		return
	}
}

func (a *app) commit() {
	if a.cfg.OnChange == nil {
		return
	}
	if err := a.cfg.OnChange(); err != nil {
		a.log.Error("failed to persist changes", zap.Error(err))
		a.setStatus("Save failed: %v", err)
	}
}

func (a *app) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	a.log.Info(a.status)
}

// Draw implements ebiten.Game.
func (a *app) Draw(screen *ebiten.Image) {
	screen.Fill(ColorWhite.RGBA8())
	s := a.session
	header := fmt.Sprintf("%s  |  %s  |  %s x %d  |  %s",
		s.Product().Name, s.Variant().Name, s.UnitPrice().StringFixed(2), s.Quantity(), s.Position())
	ebitenutil.DebugPrintAt(screen, header, int(a.cfg.Origin.X), 8)
	ebitenutil.DebugPrintAt(screen, "drag | +/- zoom | R rotate | 0 reset | Tab position | C color | Enter add | Ctrl+S save",
		int(a.cfg.Origin.X), 24)

	a.canvas.Draw(screen)

	b := a.canvas.Bounds()
	if a.status != "" {
		ebitenutil.DebugPrintAt(screen, a.status, int(b.X), int(b.Y+b.Height)+12)
	}
	if a.cfg.ShowFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  TPS: %.0f",
			ebiten.ActualFPS(), ebiten.ActualTPS()), a.cfg.Width-140, a.cfg.Height-20)
	}
}

// Layout implements ebiten.Game.
func (a *app) Layout(_, _ int) (int, int) {
	return a.cfg.Width, a.cfg.Height
}
