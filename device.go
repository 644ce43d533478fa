package solid2d

import (
	"image"
	"reflect"
)

// Texture is a drawable image resource. Bounds gives its pixel rectangle.
// *ebiten.Image satisfies Texture.
//
// The batch compares textures by interface equality to find runs that can
// share a draw call, so implementations must be comparable (pointer types are).
type Texture interface {
	Bounds() image.Rectangle
}

// isNilTexture reports whether t is nil or wraps a nil pointer, such as a
// (*ebiten.Image)(nil) stored in a Texture.
func isNilTexture(t Texture) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Vertex is one corner of a batched quad. Position is in world units before
// projection; U and V are normalized texture coordinates; the color is
// straight (not premultiplied) alpha.
type Vertex struct {
	X, Y       float32
	R, G, B, A float32
	U, V       float32
}

// DepthStencilMode selects depth/stencil testing for a flush.
type DepthStencilMode uint8

// DepthDefault tests and writes depth.
const DepthDefault DepthStencilMode = 0

// CullMode selects which triangle winding is discarded.
type CullMode uint8

// CullCounterClockwise discards counter-clockwise triangles.
const CullCounterClockwise CullMode = 0

// SamplerMode selects texture filtering and addressing.
type SamplerMode uint8

// SamplerLinearClamp filters linearly and clamps outside the texture.
const SamplerLinearClamp SamplerMode = 0

// RenderState is the fixed pipeline configuration a Batch applies before
// flushing.
type RenderState struct {
	Blend        BlendMode
	DepthStencil DepthStencilMode
	Cull         CullMode
	Sampler      SamplerMode
}

// DefaultRenderState is the state Batch2D.End applies: straight-alpha
// blending, default depth-stencil, counter-clockwise culling, linear clamped
// sampling.
var DefaultRenderState = RenderState{
	Blend:        BlendNonPremultiplied,
	DepthStencil: DepthDefault,
	Cull:         CullCounterClockwise,
	Sampler:      SamplerLinearClamp,
}

// Device is the graphics backend a Batch flushes through.
//
// SetProjection carries the matrix mapping vertex positions to clip space
// ([-1, 1] on both axes, Y up). DrawTriangles draws an indexed triangle list
// with the most recently bound texture; the vertex and index slices are only
// valid for the duration of the call.
type Device interface {
	Viewport() image.Rectangle
	SetRenderState(RenderState)
	SetProjection(Matrix2D)
	BindTexture(Texture)
	DrawTriangles(vertices []Vertex, indices []uint32)
}
