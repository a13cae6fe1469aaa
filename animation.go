package printshop

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/printshop/placement"
)

// display is what the canvas currently draws. It trails the widget's
// transform while a tween runs and equals it otherwise.
type display struct {
	x, y     float64
	scale    float64
	rotation float64 // degrees, may leave [0, 360) mid-tween
}

func displayOf(t placement.Transform) display {
	return display{
		x:        t.Translation.X,
		y:        t.Translation.Y,
		scale:    t.Scale,
		rotation: float64(t.RotationDegrees),
	}
}

// TweenGroup animates up to 4 float64 fields simultaneously. Call
// Update(dt) each frame; values are written straight into the fields.
//
// There is no global animation manager; the canvas owns at most one group.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// add registers one field. Fields already at their target are skipped.
func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	if *field == to || g.count == len(g.tweens) {
		*field = to
		return
	}
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// tweenDisplay eases d's scale and rotation toward t. Rotation takes the
// short way round, so 345 -> 0 turns forward through 360.
func tweenDisplay(d *display, t placement.Transform, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&d.scale, t.Scale, duration, fn)

	to := float64(t.RotationDegrees)
	switch diff := to - d.rotation; {
	case diff > placement.FullRotation/2:
		to -= placement.FullRotation
	case diff < -placement.FullRotation/2:
		to += placement.FullRotation
	}
	g.add(&d.rotation, to, duration, fn)

	g.Done = g.count == 0
	return g
}
