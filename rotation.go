package solid2d

import (
	"math"
	"strconv"
)

// Rotation is an angle in degrees, always normalized into [0, 360).
// The zero value is a valid rotation of 0 degrees.
type Rotation struct {
	degrees float64
}

var (
	RotationZero      = NewRotation(0)
	RotationPiOverTwo = NewRotation(90)
	RotationPi        = NewRotation(180)
)

// NewRotation returns a Rotation for the given angle in degrees, wrapped into
// [0, 360). Negative angles wrap from the top: -10 becomes 350.
func NewRotation(degrees float64) Rotation {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	// -1e-17 + 360 rounds to 360, which is outside the range.
	if d >= 360 {
		d = 0
	}
	return Rotation{degrees: d + 0} // + 0 turns -0 into 0
}

// RotationFromRadians returns a Rotation for an angle in radians.
func RotationFromRadians(radians float64) Rotation {
	return NewRotation(radians * 180 / math.Pi)
}

// RotationFromVector returns the rotation of the direction v, measured from
// the positive X axis toward positive Y.
func RotationFromVector(v Vec2) Rotation {
	return RotationFromRadians(math.Atan2(v.Y, v.X))
}

// Degrees returns the normalized angle in degrees.
func (r Rotation) Degrees() float64 { return r.degrees }

// Radians returns the normalized angle in radians.
func (r Rotation) Radians() float64 { return r.degrees * math.Pi / 180 }

// Inverted returns the angle pointing the opposite way, in degrees.
func (r Rotation) Inverted() float64 {
	if r.degrees >= 180 {
		return r.degrees - 180
	}
	return r.degrees + 180
}

// InvertedRadians returns Inverted in radians.
func (r Rotation) InvertedRadians() float64 { return r.Inverted() * math.Pi / 180 }

// Add returns r rotated further by o.
func (r Rotation) Add(o Rotation) Rotation { return NewRotation(r.degrees + o.degrees) }

// AddDegrees returns r rotated further by the given degrees.
func (r Rotation) AddDegrees(degrees float64) Rotation { return NewRotation(r.degrees + degrees) }

// AddRadians returns r rotated further by the given radians.
func (r Rotation) AddRadians(radians float64) Rotation {
	return r.AddDegrees(radians * 180 / math.Pi)
}

// Sub returns r rotated back by o.
func (r Rotation) Sub(o Rotation) Rotation { return NewRotation(r.degrees - o.degrees) }

// MulScalar returns the normalized rotation of r's degrees times f.
func (r Rotation) MulScalar(f float64) Rotation { return NewRotation(r.degrees * f) }

// DivScalar returns the normalized rotation of r's degrees divided by f.
func (r Rotation) DivScalar(f float64) Rotation { return NewRotation(r.degrees / f) }

// Equal reports whether the two angles differ by no more than the smallest
// positive float32.
func (r Rotation) Equal(o Rotation) bool {
	return math.Abs(r.degrees-o.degrees) <= smallestFloat
}

func (r Rotation) String() string {
	return strconv.FormatFloat(r.degrees, 'g', -1, 64)
}
