package solid2d

import (
	"fmt"
	"math"
)

// smallestFloat is the tolerance used by Size and Rotation equality. It is the
// smallest positive float32, matching single-precision callers.
const smallestFloat = math.SmallestNonzeroFloat32

// Size is an immutable width/height pair.
type Size struct {
	Width, Height float64
}

// NewSize returns a Size with the given width and height.
func NewSize(w, h float64) Size { return Size{Width: w, Height: h} }

// SquareSize returns a Size with both sides set to s.
func SquareSize(s float64) Size { return Size{Width: s, Height: s} }

// Vec returns the size as a vector (Width, Height).
func (s Size) Vec() Vec2 { return Vec2{s.Width, s.Height} }

// Half returns the half extents of s.
func (s Size) Half() Size { return Size{s.Width / 2, s.Height / 2} }

// Area returns Width * Height.
func (s Size) Area() float64 { return s.Width * s.Height }

// Add returns the componentwise sum s + o.
func (s Size) Add(o Size) Size { return Size{s.Width + o.Width, s.Height + o.Height} }

// Sub returns the componentwise difference s - o.
func (s Size) Sub(o Size) Size { return Size{s.Width - o.Width, s.Height - o.Height} }

// Mul returns the componentwise product s * o.
func (s Size) Mul(o Size) Size { return Size{s.Width * o.Width, s.Height * o.Height} }

// Div returns the componentwise quotient s / o.
func (s Size) Div(o Size) Size { return Size{s.Width / o.Width, s.Height / o.Height} }

// MulScalar returns s with both sides multiplied by f.
func (s Size) MulScalar(f float64) Size { return Size{s.Width * f, s.Height * f} }

// DivScalar returns s with both sides divided by f.
func (s Size) DivScalar(f float64) Size { return Size{s.Width / f, s.Height / f} }

// AddVec returns (Width + v.X, Height + v.Y).
func (s Size) AddVec(v Vec2) Size { return Size{s.Width + v.X, s.Height + v.Y} }

// SubVec returns (Width - v.X, Height - v.Y).
func (s Size) SubVec(v Vec2) Size { return Size{s.Width - v.X, s.Height - v.Y} }

// MulVec returns (Width * v.X, Height * v.Y).
func (s Size) MulVec(v Vec2) Size { return Size{s.Width * v.X, s.Height * v.Y} }

// DivVec returns (Width / v.X, Height / v.Y).
func (s Size) DivVec(v Vec2) Size { return Size{s.Width / v.X, s.Height / v.Y} }

// Equal reports whether both sides differ by no more than the smallest
// positive float32.
func (s Size) Equal(o Size) bool {
	return math.Abs(s.Width-o.Width) <= smallestFloat &&
		math.Abs(s.Height-o.Height) <= smallestFloat
}

func (s Size) String() string {
	return fmt.Sprintf("{ Width: %g; Height: %g }", s.Width, s.Height)
}
