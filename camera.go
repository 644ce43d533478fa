package solid2d

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera controls the view into a scene: position, zoom, rotation, and
// viewport. Its ViewMatrix is the transform a Scene hands to
// Batch.BeginWithTransform.
type Camera struct {
	// Position is the world-space point the camera centers on.
	Position Vec2
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation turns the view; world content appears rotated the other way.
	Rotation Rotation
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	followTarget *Box
	followOffset Vec2
	followLerp   float64

	scrollTween *scrollAnim

	// cached view, keyed on the inputs it was computed from
	viewKey    cameraKey
	viewValid  bool
	viewMatrix Matrix2D
	invMatrix  Matrix2D
}

type cameraKey struct {
	pos      Vec2
	zoom     float64
	rot      Rotation
	viewport Rect
}

var _ Updatable = (*Camera)(nil)

// NewCamera creates a Camera with zoom 1 for the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
	}
}

// Follow makes the camera track the center of box with the given offset and
// lerp factor. A lerp of 1.0 snaps immediately; lower values give smoother
// following.
func (c *Camera) Follow(box *Box, offset Vec2, lerp float64) {
	c.followTarget = box
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration
// seconds. A nil easeFn uses linear easing.
func (c *Camera) ScrollTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.Position.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(c.Position.Y), float32(target.Y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position so the visible area
// stays within Bounds. No-op if BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// Update advances follow, scroll, and bounds clamping by dt seconds.
func (c *Camera) Update(dt float64) {
	if c.followTarget != nil {
		target := c.followTarget.Center().Add(c.followOffset)
		c.Position = c.Position.Add(target.Sub(c.Position).Scale(c.followLerp))
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(float32(dt))
			c.Position.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(float32(dt))
			c.Position.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts camera position so the visible area stays within Bounds.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// If bounds are smaller than visible area, center the camera.
	if minX > maxX {
		c.Position.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.Position.X = math.Max(minX, math.Min(c.Position.X, maxX))
	}
	if minY > maxY {
		c.Position.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Position.Y = math.Max(minY, math.Min(c.Position.Y, maxY))
	}
}

// ViewMatrix returns the world-to-screen transform:
//
//	Translate(-Position) * Rotate(-Rotation) * Scale(Zoom) * Translate(viewport center)
func (c *Camera) ViewMatrix() Matrix2D {
	c.computeViewMatrix()
	return c.viewMatrix
}

func (c *Camera) computeViewMatrix() {
	key := cameraKey{c.Position, c.Zoom, c.Rotation, c.Viewport}
	if c.viewValid && key == c.viewKey {
		return
	}
	center := Vec2{c.Viewport.X + c.Viewport.Width/2, c.Viewport.Y + c.Viewport.Height/2}

	c.viewMatrix = CreateTranslation(c.Position.Neg()).
		Mul(CreateRotation(-c.Rotation.Radians())).
		Mul(CreateScaleUniform(c.Zoom)).
		Mul(CreateTranslation(center))
	c.invMatrix = c.viewMatrix.Invert()
	c.viewKey = key
	c.viewValid = true
}

// WorldToScreen converts a world position to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	c.computeViewMatrix()
	return c.viewMatrix.TransformPoint(p)
}

// ScreenToWorld converts a screen position to world coordinates.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	c.computeViewMatrix()
	return c.invMatrix.TransformPoint(p)
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in world space.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	vx, vy := c.Viewport.X, c.Viewport.Y
	vr, vb := vx+c.Viewport.Width, vy+c.Viewport.Height
	return rectFromPoints(
		c.invMatrix.TransformPoint(Vec2{vx, vy}),
		c.invMatrix.TransformPoint(Vec2{vr, vy}),
		c.invMatrix.TransformPoint(Vec2{vr, vb}),
		c.invMatrix.TransformPoint(Vec2{vx, vb}),
	)
}

// InView reports whether box's world bounds overlap the visible area.
func (c *Camera) InView(box *Box) bool {
	return c.VisibleBounds().Intersects(box.Bounds())
}
