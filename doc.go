// Package printshop is the interactive design canvas of the print-on-demand
// storefront, built on [Ebitengine].
//
// The canvas hosts a [placement.Widget]: it turns mouse, touch and keyboard
// input into widget calls, draws the product mockup with its print area
// guide and the design on top, and eases the displayed scale and rotation
// toward the widget's transform. The widget stays the single source of
// truth; nothing drawn here feeds back into it.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window around a
// [customize.Session]:
//
//	s, _ := customize.NewSession(product, customize.Options{})
//	printshop.Run(s, printshop.RunConfig{Cart: c})
//
// For full control, implement [ebiten.Game] yourself and call
// [Canvas.Update] and [Canvas.Draw] directly:
//
//	type Game struct{ canvas *printshop.Canvas }
//
//	func (g *Game) Update() error              { g.canvas.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image)       { g.canvas.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Input
//
// Pressing on the design starts a drag; moving keeps the grab offset;
// releasing or leaving the container ends it. The toolbar under the
// container zooms, rotates and resets. Keys: + and - zoom, R rotates,
// 0 resets.
//
// # Automated testing
//
// [Canvas.InjectPress], [Canvas.InjectMove], [Canvas.InjectRelease],
// [Canvas.InjectClick] and [Canvas.InjectDrag] queue synthetic pointer
// events that go through the same state machine as real input.
// [LoadTestScript] reads a JSON script of steps (click, drag, zoom_in,
// zoom_out, rotate, reset, wait, screenshot). [Canvas.Screenshot] and
// [Canvas.ScreenshotContainer] write PNGs of the window or of the design
// container alone to [Canvas.ScreenshotDir]:
//
//	{"steps":[
//	  {"action":"drag","fromX":80,"fromY":100,"toX":180,"toY":170,"frames":8},
//	  {"action":"rotate"},
//	  {"action":"screenshot","label":"rotated","region":"container"}
//	]}
//
// # Previews
//
// [RenderPreview] composes the same picture in software with
// golang.org/x/image, without a game loop, and [EncodePreview] writes it as
// lossless WebP. Saved designs use these as gallery thumbnails.
//
// [Ebitengine]: https://ebitengine.org
package printshop
