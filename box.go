package solid2d

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Anchor names the side or corner of a Box that moves during Resize and
// ScaleSize. The point opposite the anchor stays fixed in world space;
// AnchorCenter keeps the center fixed and grows every side evenly.
type Anchor uint8

const (
	AnchorCenter      Anchor = iota // grow evenly around the center
	AnchorTop                       // grow upward, bottom edge fixed
	AnchorRight                     // grow rightward, left edge fixed
	AnchorBottom                    // grow downward, top edge fixed
	AnchorLeft                      // grow leftward, right edge fixed
	AnchorTopLeft                   // grow up and left, bottom-right corner fixed
	AnchorTopRight                  // grow up and right, bottom-left corner fixed
	AnchorBottomLeft                // grow down and left, top-right corner fixed
	AnchorBottomRight               // grow down and right, top-left corner fixed
)

// fixedPoint returns the normalized local point that stays put when resizing
// toward a.
func (a Anchor) fixedPoint() (Vec2, bool) {
	switch a {
	case AnchorCenter:
		return Vec2{0.5, 0.5}, true
	case AnchorTop:
		return Vec2{0.5, 1}, true
	case AnchorRight:
		return Vec2{0, 0.5}, true
	case AnchorBottom:
		return Vec2{0.5, 0}, true
	case AnchorLeft:
		return Vec2{1, 0.5}, true
	case AnchorTopLeft:
		return Vec2{1, 1}, true
	case AnchorTopRight:
		return Vec2{0, 1}, true
	case AnchorBottomLeft:
		return Vec2{1, 0}, true
	case AnchorBottomRight:
		return Vec2{0, 0}, true
	}
	return Vec2{}, false
}

func (a Anchor) String() string {
	switch a {
	case AnchorCenter:
		return "center"
	case AnchorTop:
		return "top"
	case AnchorRight:
		return "right"
	case AnchorBottom:
		return "bottom"
	case AnchorLeft:
		return "left"
	case AnchorTopLeft:
		return "top-left"
	case AnchorTopRight:
		return "top-right"
	case AnchorBottomLeft:
		return "bottom-left"
	case AnchorBottomRight:
		return "bottom-right"
	default:
		return fmt.Sprintf("Anchor(%d)", uint8(a))
	}
}

// Box is an oriented rectangle: a size posed in the world by origin, scale,
// rotation and position.
//
// Origin is the pivot in normalized box space: (0, 0) is the top-left corner,
// (0.5, 0.5) the center, (1, 1) the bottom-right corner. Position is the world
// location of that pivot. Scale and rotation are applied around the pivot.
//
// The transform matrix is rebuilt on every setter, so reads never see a stale
// pose. The composition is
//
//	Translate(-origin*size) * Scale(scale) * Rotate(rotation) * Translate(position)
//
// mapping local pixel coordinates (top-left (0,0), bottom-right (w,h)) to world.
type Box struct {
	size     Size
	origin   Vec2
	scale    Vec2
	rotation Rotation
	position Vec2
	matrix   Matrix2D
}

// NewBox returns a box of the given size whose top-left corner is at position,
// with unit scale and no rotation.
func NewBox(position Vec2, size Size) *Box {
	b := &Box{
		size:     size,
		scale:    Vec2{1, 1},
		position: position,
	}
	b.transform()
	return b
}

// NewBoxXYWH is shorthand for NewBox(Vec2{x, y}, Size{w, h}).
func NewBoxXYWH(x, y, w, h float64) *Box {
	return NewBox(Vec2{x, y}, Size{w, h})
}

// transform rebuilds the cached matrix from the pose fields.
func (b *Box) transform() {
	pivot := b.origin.Mul(b.size.Vec())
	b.matrix = CreateTranslation(pivot.Neg()).
		Mul(CreateScale(b.scale)).
		Mul(CreateRotation(b.rotation.Radians())).
		Mul(CreateTranslation(b.position))
}

// Matrix returns the box's local-to-world transform.
func (b *Box) Matrix() Matrix2D { return b.matrix }

// --- Pose accessors ---

// Size returns the unscaled size of the box.
func (b *Box) Size() Size { return b.size }

// SetSize sets the unscaled size.
func (b *Box) SetSize(s Size) {
	b.size = s
	b.transform()
}

// Width returns the unscaled width.
func (b *Box) Width() float64 { return b.size.Width }

// SetWidth sets the unscaled width.
func (b *Box) SetWidth(w float64) {
	b.size.Width = w
	b.transform()
}

// Height returns the unscaled height.
func (b *Box) Height() float64 { return b.size.Height }

// SetHeight sets the unscaled height.
func (b *Box) SetHeight(h float64) {
	b.size.Height = h
	b.transform()
}

// Origin returns the normalized pivot.
func (b *Box) Origin() Vec2 { return b.origin }

// SetOrigin sets the normalized pivot. Position is unchanged, so the box moves
// so that the new pivot sits at Position.
func (b *Box) SetOrigin(o Vec2) {
	b.origin = o
	b.transform()
}

// Scale returns the scale factors.
func (b *Box) Scale() Vec2 { return b.scale }

// SetScale sets the scale factors.
func (b *Box) SetScale(s Vec2) {
	b.scale = s
	b.transform()
}

// Rotation returns the rotation around the pivot.
func (b *Box) Rotation() Rotation { return b.rotation }

// SetRotation sets the rotation around the pivot.
func (b *Box) SetRotation(r Rotation) {
	b.rotation = r
	b.transform()
}

// Rotate sets the rotation to the given angle in degrees.
func (b *Box) Rotate(degrees float64) {
	b.SetRotation(NewRotation(degrees))
}

// Position returns the world position of the pivot.
func (b *Box) Position() Vec2 { return b.position }

// SetPosition sets the world position of the pivot.
func (b *Box) SetPosition(p Vec2) {
	b.position = p
	b.transform()
}

// X returns Position().X.
func (b *Box) X() float64 { return b.position.X }

// SetX sets Position().X.
func (b *Box) SetX(x float64) {
	b.position.X = x
	b.transform()
}

// Y returns Position().Y.
func (b *Box) Y() float64 { return b.position.Y }

// SetY sets Position().Y.
func (b *Box) SetY(y float64) {
	b.position.Y = y
	b.transform()
}

// Move translates the box by v.
func (b *Box) Move(v Vec2) {
	b.SetPosition(b.position.Add(v))
}

// SetTopLeft moves the box so that its TopLeft corner lands on p, keeping
// size, scale and rotation.
func (b *Box) SetTopLeft(p Vec2) {
	b.Move(p.Sub(b.TopLeft()))
}

// --- Corners and edges ---

// local returns the world position of the local pixel point (x, y).
func (b *Box) local(x, y float64) Vec2 {
	t := b.matrix.Translation()
	return t.Add(b.matrix.Right().Scale(x)).Add(b.matrix.Down().Scale(y))
}

// TopLeft returns the world position of the local (0, 0) corner.
func (b *Box) TopLeft() Vec2 { return b.matrix.Translation() }

// TopRight returns the world position of the local (w, 0) corner.
func (b *Box) TopRight() Vec2 { return b.local(b.size.Width, 0) }

// BottomLeft returns the world position of the local (0, h) corner.
func (b *Box) BottomLeft() Vec2 { return b.local(0, b.size.Height) }

// BottomRight returns the world position of the local (w, h) corner.
func (b *Box) BottomRight() Vec2 { return b.local(b.size.Width, b.size.Height) }

// Center returns the world position of the box center.
func (b *Box) Center() Vec2 { return b.local(b.size.Width/2, b.size.Height/2) }

// CenterTop returns the midpoint of the top edge.
func (b *Box) CenterTop() Vec2 { return b.local(b.size.Width/2, 0) }

// CenterRight returns the midpoint of the right edge.
func (b *Box) CenterRight() Vec2 { return b.local(b.size.Width, b.size.Height/2) }

// CenterBottom returns the midpoint of the bottom edge.
func (b *Box) CenterBottom() Vec2 { return b.local(b.size.Width/2, b.size.Height) }

// CenterLeft returns the midpoint of the left edge.
func (b *Box) CenterLeft() Vec2 { return b.local(0, b.size.Height/2) }

// Corners returns the four corners in quad vertex order.
func (b *Box) Corners() (tl, tr, bl, br Vec2) {
	return b.TopLeft(), b.TopRight(), b.BottomLeft(), b.BottomRight()
}

// Bounds returns the axis-aligned bounding rectangle of the box in world space.
func (b *Box) Bounds() Rect {
	tl, tr, bl, br := b.Corners()
	return rectFromPoints(tl, tr, bl, br)
}

// Area returns the world-space area covered by the box.
func (b *Box) Area() float64 {
	return math.Abs(b.size.Area() * b.matrix.Determinant())
}

// Contains reports whether p lies inside the box. The test checks which side
// of each edge p falls on, walking TopLeft, TopRight, BottomRight, BottomLeft;
// p is inside when all four agree, which holds for any rotation or scale.
// Boxes with zero area contain no points.
func (b *Box) Contains(p Vec2) bool {
	if b.Area() == 0 {
		return false
	}
	tl, tr, bl, br := b.Corners()

	b1 := p.Sign(tl, tr) < 0
	b2 := p.Sign(tr, br) < 0
	b3 := p.Sign(br, bl) < 0
	b4 := p.Sign(bl, tl) < 0

	return b1 == b2 && b2 == b3 && b3 == b4
}

// ContainsXY is Contains(Vec2{x, y}).
func (b *Box) ContainsXY(x, y float64) bool {
	return b.Contains(Vec2{x, y})
}

// --- Resize and scale ---

// Resize sets the size to from + delta, growing toward anchor. The point
// opposite the anchor keeps its world position; for AnchorCenter the center
// stays put. The shift follows the box's own axes, so rotated and scaled boxes
// resize along their local edges.
func (b *Box) Resize(from Size, delta Vec2, anchor Anchor) error {
	fixed, ok := anchor.fixedPoint()
	if !ok {
		return errors.Wrapf(ErrInvalidAnchor, "resize toward %v", anchor)
	}

	before := b.local(fixed.X*b.size.Width, fixed.Y*b.size.Height)

	b.size = from.AddVec(delta)
	b.transform()

	after := b.local(fixed.X*b.size.Width, fixed.Y*b.size.Height)
	b.position = b.position.Add(before.Sub(after))
	b.transform()
	return nil
}

// ResizeBy grows the current size by delta toward anchor.
func (b *Box) ResizeBy(delta Vec2, anchor Anchor) error {
	return b.Resize(b.size, delta, anchor)
}

// ScaleSize sets the size to from * factors, growing toward anchor. It is
// defined as Resize(from, from*factors - from, anchor).
func (b *Box) ScaleSize(from Size, factors Vec2, anchor Anchor) error {
	delta := from.MulVec(factors).Sub(from).Vec()
	return b.Resize(from, delta, anchor)
}

// ScaleSizeBy multiplies the current size by factors toward anchor.
func (b *Box) ScaleSizeBy(factors Vec2, anchor Anchor) error {
	return b.ScaleSize(b.size, factors, anchor)
}
