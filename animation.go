package solid2d

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a Box (or a sprite's tint)
// simultaneously. Create one via the convenience constructors and call
// Update(dt) each frame, or add it to a Scene as an Updatable. The group
// applies the values through the Box setters, so the box matrix is always
// current after Update.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	values [4]float64
	count  int
	apply  func(v *[4]float64)
	Done   bool
}

var _ Updatable = (*TweenGroup)(nil)

func newTweenGroup(from, to []float64, duration float32, fn ease.TweenFunc, apply func(v *[4]float64)) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: len(from), apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and writes the values to the
// target.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(&g.values)
	g.Done = allDone
}

// Reset rewinds every tween to its start. The target is not touched until
// the next Update.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenPosition animates box's position to the given target.
func TweenPosition(box *Box, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := box.Position()
	return newTweenGroup(
		[]float64{from.X, from.Y}, []float64{to.X, to.Y}, duration, fn,
		func(v *[4]float64) { box.SetPosition(Vec2{v[0], v[1]}) },
	)
}

// TweenScale animates box's scale factors to the given target.
func TweenScale(box *Box, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := box.Scale()
	return newTweenGroup(
		[]float64{from.X, from.Y}, []float64{to.X, to.Y}, duration, fn,
		func(v *[4]float64) { box.SetScale(Vec2{v[0], v[1]}) },
	)
}

// TweenSize animates box's local size to the given target. The position is
// left alone, so the box grows around its origin.
func TweenSize(box *Box, to Size, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := box.Size()
	return newTweenGroup(
		[]float64{from.Width, from.Height}, []float64{to.Width, to.Height}, duration, fn,
		func(v *[4]float64) { box.SetSize(Size{v[0], v[1]}) },
	)
}

// TweenRotation animates box's rotation to toDegrees. toDegrees is not
// normalized first, so a target of 720 spins the box twice.
func TweenRotation(box *Box, toDegrees float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(
		[]float64{box.Rotation().Degrees()}, []float64{toDegrees}, duration, fn,
		func(v *[4]float64) { box.SetRotation(NewRotation(v[0])) },
	)
}

// TweenColor animates all four components of op.Color to the target color.
// A zero starting color is treated as opaque white. Reaching transparent
// black stores the smallest positive alpha instead of the zero Color, which
// would draw untinted.
func TweenColor(op *DrawOptions, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := op.Color
	if from.isZero() {
		from = ColorWhite
	}
	return newTweenGroup(
		[]float64{from.R, from.G, from.B, from.A}, []float64{to.R, to.G, to.B, to.A}, duration, fn,
		func(v *[4]float64) {
			c := Color{v[0], v[1], v[2], v[3]}
			if c.isZero() {
				c.A = math.SmallestNonzeroFloat64
			}
			op.Color = c
		},
	)
}
