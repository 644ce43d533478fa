package solid2d

import "github.com/pkg/errors"

// Sprite draws a texture mapped onto a Box.
type Sprite struct {
	Texture Texture
	Box     *Box
	Options DrawOptions
	// Hidden sprites are skipped by Draw.
	Hidden bool
}

var (
	_ Drawable = (*Sprite)(nil)
	_ Bounder  = (*Sprite)(nil)
)

// NewSprite creates a sprite of tex's natural size with its top-left at
// position.
func NewSprite(tex Texture, position Vec2) *Sprite {
	var size Size
	if !isNilTexture(tex) {
		r := tex.Bounds()
		size = Size{float64(r.Dx()), float64(r.Dy())}
	}
	return &Sprite{Texture: tex, Box: NewBox(position, size)}
}

// SpriteFromRegion creates a sprite for the named atlas region. The box takes
// the packed size of the region.
func SpriteFromRegion(atlas *Atlas, name string, position Vec2) (*Sprite, error) {
	r, err := atlas.Region(name)
	if err != nil {
		return nil, err
	}
	tex := atlas.Texture(r)
	if isNilTexture(tex) {
		return nil, errors.Wrapf(ErrNilTexture, "atlas page %d for region %q", r.Page, name)
	}
	return &Sprite{
		Texture: tex,
		Box:     NewBox(position, Size{float64(r.Source.Dx()), float64(r.Source.Dy())}),
		Options: DrawOptions{Source: r.Source},
	}, nil
}

// Draw implements Drawable.
func (s *Sprite) Draw(b Batch) error {
	if s.Hidden {
		return nil
	}
	return b.Draw(s.Texture, s.Box, &s.Options)
}

// Bounds implements Bounder.
func (s *Sprite) Bounds() Rect { return s.Box.Bounds() }
