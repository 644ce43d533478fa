package solid2d

import (
	"image"
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Matrix2D) {
	t.Helper()
	g := [9]float64{got.M11, got.M12, got.M13, got.M21, got.M22, got.M23, got.M31, got.M32, got.M33}
	w := [9]float64{want.M11, want.M12, want.M13, want.M21, want.M22, want.M23, want.M31, want.M32, want.M33}
	for i := range g {
		if math.Abs(g[i]-w[i]) > 1e-9 {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, g[i], w[i], got, want)
			return
		}
	}
}

func assertVertexNear(t *testing.T, label string, got, want float32) {
	t.Helper()
	if diff := got - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("%s = %f, want %f", label, got, want)
	}
}

// fakeTexture is a comparable Texture with a fixed size.
type fakeTexture struct {
	name string
	w, h int
}

func newFakeTexture(name string, w, h int) *fakeTexture {
	return &fakeTexture{name: name, w: w, h: h}
}

func (t *fakeTexture) Bounds() image.Rectangle { return image.Rect(0, 0, t.w, t.h) }

// deviceDraw is one recorded DrawTriangles call.
type deviceDraw struct {
	texture  Texture
	vertices []Vertex
	indices  []uint32
}

// fakeDevice records every call made by a Batch.
type fakeDevice struct {
	viewport    image.Rectangle
	states      []RenderState
	projections []Matrix2D
	binds       []Texture
	draws       []deviceDraw
	bound       Texture
}

func newFakeDevice(w, h int) *fakeDevice {
	return &fakeDevice{viewport: image.Rect(0, 0, w, h)}
}

func (d *fakeDevice) Viewport() image.Rectangle { return d.viewport }

func (d *fakeDevice) SetRenderState(s RenderState) { d.states = append(d.states, s) }

func (d *fakeDevice) SetProjection(m Matrix2D) { d.projections = append(d.projections, m) }

func (d *fakeDevice) BindTexture(t Texture) {
	d.bound = t
	d.binds = append(d.binds, t)
}

func (d *fakeDevice) DrawTriangles(vertices []Vertex, indices []uint32) {
	// The batch reuses its buffers, so copy.
	d.draws = append(d.draws, deviceDraw{
		texture:  d.bound,
		vertices: append([]Vertex(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
	})
}

func newTestBatch(t *testing.T, dev Device, opts *BatchOptions) *Batch2D {
	t.Helper()
	b, err := NewBatch2D(dev, opts)
	if err != nil {
		t.Fatalf("NewBatch2D: %v", err)
	}
	return b
}

func mustOK(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatalf("unexpected error: %v", err)
	}
}
