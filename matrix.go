package solid2d

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Matrix2D is a row-major 3x3 affine matrix for 2D transforms. Points are row
// vectors multiplied on the left, so the translation lives in the third row:
//
//	          | M11 M12 M13 |
//	[x y 1] * | M21 M22 M23 | = [x' y' 1]
//	          | M31 M32 M33 |
//
// Matrix2D is a value type; every operation returns a new matrix.
type Matrix2D struct {
	M11, M12, M13 float64
	M21, M22, M23 float64
	M31, M32, M33 float64
}

// identityMatrix is the identity affine matrix.
var identityMatrix = Matrix2D{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// Identity returns the identity matrix.
func Identity() Matrix2D { return identityMatrix }

// CreateTranslation returns a matrix translating by v.
func CreateTranslation(v Vec2) Matrix2D {
	return Matrix2D{
		1, 0, 0,
		0, 1, 0,
		v.X, v.Y, 1,
	}
}

// CreateScale returns a matrix scaling X by v.X and Y by v.Y.
func CreateScale(v Vec2) Matrix2D {
	return Matrix2D{
		v.X, 0, 0,
		0, v.Y, 0,
		0, 0, 1,
	}
}

// CreateScaleUniform returns a matrix scaling both axes by s.
func CreateScaleUniform(s float64) Matrix2D { return CreateScale(Vec2{s, s}) }

// CreateRotation returns a matrix rotating by the given angle in radians.
// With Y pointing down, positive angles turn clockwise on screen.
func CreateRotation(radians float64) Matrix2D {
	sin, cos := math.Sincos(radians)
	return Matrix2D{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	}
}

// Ortho returns the projection mapping a width x height viewport with its
// origin at the top-left onto clip space [-1, 1], Y up.
func Ortho(width, height float64) Matrix2D {
	return Matrix2D{
		2 / width, 0, 0,
		0, -2 / height, 0,
		-1, 1, 1,
	}
}

// Mul returns the matrix product m * o. Applied to a point, m acts first and
// o second.
func (m Matrix2D) Mul(o Matrix2D) Matrix2D {
	return Matrix2D{
		m.M11*o.M11 + m.M12*o.M21 + m.M13*o.M31,
		m.M11*o.M12 + m.M12*o.M22 + m.M13*o.M32,
		m.M11*o.M13 + m.M12*o.M23 + m.M13*o.M33,

		m.M21*o.M11 + m.M22*o.M21 + m.M23*o.M31,
		m.M21*o.M12 + m.M22*o.M22 + m.M23*o.M32,
		m.M21*o.M13 + m.M22*o.M23 + m.M23*o.M33,

		m.M31*o.M11 + m.M32*o.M21 + m.M33*o.M31,
		m.M31*o.M12 + m.M32*o.M22 + m.M33*o.M32,
		m.M31*o.M13 + m.M32*o.M23 + m.M33*o.M33,
	}
}

// Add returns the elementwise sum m + o.
func (m Matrix2D) Add(o Matrix2D) Matrix2D {
	return Matrix2D{
		m.M11 + o.M11, m.M12 + o.M12, m.M13 + o.M13,
		m.M21 + o.M21, m.M22 + o.M22, m.M23 + o.M23,
		m.M31 + o.M31, m.M32 + o.M32, m.M33 + o.M33,
	}
}

// Sub returns the elementwise difference m - o.
func (m Matrix2D) Sub(o Matrix2D) Matrix2D {
	return m.Add(o.Neg())
}

// Neg returns m with every element negated.
func (m Matrix2D) Neg() Matrix2D { return m.MulScalar(-1) }

// MulScalar returns m with every element multiplied by f.
func (m Matrix2D) MulScalar(f float64) Matrix2D {
	return Matrix2D{
		m.M11 * f, m.M12 * f, m.M13 * f,
		m.M21 * f, m.M22 * f, m.M23 * f,
		m.M31 * f, m.M32 * f, m.M33 * f,
	}
}

// Div returns the elementwise quotient m / o.
func (m Matrix2D) Div(o Matrix2D) Matrix2D {
	return Matrix2D{
		m.M11 / o.M11, m.M12 / o.M12, m.M13 / o.M13,
		m.M21 / o.M21, m.M22 / o.M22, m.M23 / o.M23,
		m.M31 / o.M31, m.M32 / o.M32, m.M33 / o.M33,
	}
}

// DivScalar returns m with every element divided by d.
func (m Matrix2D) DivScalar(d float64) Matrix2D { return m.MulScalar(1 / d) }

// Equal reports whether all nine elements are exactly equal. No tolerance is
// applied, so two matrices built along different float paths may differ.
func (m Matrix2D) Equal(o Matrix2D) bool {
	return m == o
}

// Up returns the negated second row, the local "up" axis in world space.
func (m Matrix2D) Up() Vec2 { return Vec2{-m.M21, -m.M22} }

// Down returns the second row, the local +Y axis in world space.
func (m Matrix2D) Down() Vec2 { return Vec2{m.M21, m.M22} }

// Left returns the negated first row.
func (m Matrix2D) Left() Vec2 { return Vec2{-m.M11, -m.M12} }

// Right returns the first row, the local +X axis in world space.
func (m Matrix2D) Right() Vec2 { return Vec2{m.M11, m.M12} }

// Translation returns the translation row.
func (m Matrix2D) Translation() Vec2 { return Vec2{m.M31, m.M32} }

// WithTranslation returns a copy of m with the translation row replaced.
func (m Matrix2D) WithTranslation(v Vec2) Matrix2D {
	m.M31, m.M32 = v.X, v.Y
	return m
}

// WithRight returns a copy of m with the first row's X/Y replaced.
func (m Matrix2D) WithRight(v Vec2) Matrix2D {
	m.M11, m.M12 = v.X, v.Y
	return m
}

// WithDown returns a copy of m with the second row's X/Y replaced.
func (m Matrix2D) WithDown(v Vec2) Matrix2D {
	m.M21, m.M22 = v.X, v.Y
	return m
}

// TransformPoint applies m to the point p, including translation.
func (m Matrix2D) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		p.X*m.M11 + p.Y*m.M21 + m.M31,
		p.X*m.M12 + p.Y*m.M22 + m.M32,
	}
}

// TransformVector applies only the linear part of m to v.
func (m Matrix2D) TransformVector(v Vec2) Vec2 {
	return Vec2{
		v.X*m.M11 + v.Y*m.M21,
		v.X*m.M12 + v.Y*m.M22,
	}
}

// Determinant returns the determinant of the linear 2x2 block.
func (m Matrix2D) Determinant() float64 {
	return m.M11*m.M22 - m.M12*m.M21
}

// Invert computes the inverse of an affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det > -1e-12 && det < 1e-12 {
		return identityMatrix
	}
	inv := 1 / det
	a := m.M22 * inv
	b := -m.M12 * inv
	c := -m.M21 * inv
	d := m.M11 * inv
	return Matrix2D{
		a, b, 0,
		c, d, 0,
		-(m.M31*a + m.M32*c), -(m.M31*b + m.M32*d), 1,
	}
}

// GeoM converts m to an ebiten.GeoM. Ebiten uses column vectors, so the
// matrix is transposed on the way.
func (m Matrix2D) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.M11)
	g.SetElement(0, 1, m.M21)
	g.SetElement(0, 2, m.M31)
	g.SetElement(1, 0, m.M12)
	g.SetElement(1, 1, m.M22)
	g.SetElement(1, 2, m.M32)
	return g
}

func (m Matrix2D) String() string {
	return fmt.Sprintf("{ {M11:%g M12:%g M13:%g} {M21:%g M22:%g M23:%g} {M31:%g M32:%g M33:%g} }",
		m.M11, m.M12, m.M13, m.M21, m.M22, m.M23, m.M31, m.M32, m.M33)
}
