package solid2d

// Circle is a center point and radius.
type Circle struct {
	Center Vec2
	R      float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Vec2) bool {
	return p.Sub(c.Center).Len() <= c.R
}

// Bounds returns the axis-aligned square enclosing the circle.
func (c Circle) Bounds() Rect {
	return Rect{X: c.Center.X - c.R, Y: c.Center.Y - c.R, Width: 2 * c.R, Height: 2 * c.R}
}

// Triangle is three points in any winding.
type Triangle struct {
	P1, P2, P3 Vec2
}

// Contains reports whether p lies inside the triangle, using the same
// edge-side test as Box.Contains.
func (t Triangle) Contains(p Vec2) bool {
	b1 := p.Sign(t.P1, t.P2) < 0
	b2 := p.Sign(t.P2, t.P3) < 0
	b3 := p.Sign(t.P3, t.P1) < 0
	return b1 == b2 && b2 == b3
}

// Bounds returns the axis-aligned rectangle enclosing the triangle.
func (t Triangle) Bounds() Rect {
	return rectFromPoints(t.P1, t.P2, t.P3)
}
