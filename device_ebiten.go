package solid2d

import (
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageDevice is a Device that draws into an *ebiten.Image. Bound textures
// must be *ebiten.Image values; anything else is skipped with a warning.
//
// Projection output is clip space; ImageDevice maps it back onto the target
// bounds, so the pixel result matches drawing in viewport coordinates. Depth
// and cull settings have no ebiten equivalent and are ignored.
type ImageDevice struct {
	target     *ebiten.Image
	state      RenderState
	projection Matrix2D
	texture    *ebiten.Image
	logger     *slog.Logger

	verts []ebiten.Vertex
	warns map[Texture]struct{}
}

var _ Device = (*ImageDevice)(nil)

// NewImageDevice creates a device drawing into target. target may be nil and
// set later with SetTarget.
func NewImageDevice(target *ebiten.Image) *ImageDevice {
	return &ImageDevice{
		target:     target,
		state:      DefaultRenderState,
		projection: identityMatrix,
		logger:     slog.Default().With(slog.String("component", "image_device")),
	}
}

// SetTarget changes the image subsequent draws land in.
func (d *ImageDevice) SetTarget(target *ebiten.Image) { d.target = target }

// Target returns the current draw target.
func (d *ImageDevice) Target() *ebiten.Image { return d.target }

// Viewport returns the target bounds, or an empty rectangle without a target.
func (d *ImageDevice) Viewport() image.Rectangle {
	if d.target == nil {
		return image.Rectangle{}
	}
	return d.target.Bounds()
}

// SetRenderState implements Device.
func (d *ImageDevice) SetRenderState(s RenderState) { d.state = s }

// SetProjection implements Device.
func (d *ImageDevice) SetProjection(m Matrix2D) { d.projection = m }

// BindTexture implements Device.
func (d *ImageDevice) BindTexture(t Texture) {
	img, ok := t.(*ebiten.Image)
	if !ok {
		d.texture = nil
		d.warnUnsupported(t)
		return
	}
	d.texture = img
}

func (d *ImageDevice) warnUnsupported(t Texture) {
	if isNilTexture(t) {
		return
	}
	if d.warns == nil {
		d.warns = make(map[Texture]struct{})
	}
	if _, seen := d.warns[t]; seen {
		return
	}
	d.warns[t] = struct{}{}
	d.logger.Warn("texture is not an *ebiten.Image, skipping its draws",
		slog.String("bounds", t.Bounds().String()))
}

// DrawTriangles implements Device.
func (d *ImageDevice) DrawTriangles(vertices []Vertex, indices []uint32) {
	if d.target == nil || d.texture == nil || len(indices) == 0 {
		return
	}
	d.verts = appendEbitenVertices(d.verts[:0], vertices, d.projection,
		d.target.Bounds(), d.texture.Bounds())

	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = d.state.Blend.EbitenBlend()
	triOp.ColorScaleMode = d.state.Blend.colorScaleMode()
	// SamplerLinearClamp
	triOp.Filter = ebiten.FilterLinear
	triOp.Address = ebiten.AddressClampToZero

	d.target.DrawTriangles32(d.verts, indices, d.texture, &triOp)
}

// appendEbitenVertices converts batch vertices to ebiten vertices. Positions
// go through proj into clip space, then onto viewport pixels with Y down.
// UVs are scaled to texture pixels. Colors pass through as straight alpha.
func appendEbitenVertices(dst []ebiten.Vertex, src []Vertex, proj Matrix2D, viewport, tex image.Rectangle) []ebiten.Vertex {
	vw, vh := float64(viewport.Dx()), float64(viewport.Dy())
	vx, vy := float64(viewport.Min.X), float64(viewport.Min.Y)
	tw, th := float32(tex.Dx()), float32(tex.Dy())
	tx, ty := float32(tex.Min.X), float32(tex.Min.Y)

	for _, v := range src {
		clip := proj.TransformPoint(Vec2{float64(v.X), float64(v.Y)})
		dst = append(dst, ebiten.Vertex{
			DstX:   float32((clip.X+1)/2*vw + vx),
			DstY:   float32((1-clip.Y)/2*vh + vy),
			SrcX:   tx + v.U*tw,
			SrcY:   ty + v.V*th,
			ColorR: v.R,
			ColorG: v.G,
			ColorB: v.B,
			ColorA: v.A,
		})
	}
	return dst
}
