package solid2d

import (
	"encoding/json"
	"image"
	"maps"
	"slices"

	"github.com/pkg/errors"
)

var (
	// ErrRegionNotFound is returned by Atlas.Region for unknown names.
	ErrRegionNotFound = errors.New("solid2d: atlas region not found")
	// ErrRotatedFrame is returned by LoadAtlas for frames packed rotated.
	// Batched quads map texture corners to box corners one to one, so a
	// rotated frame would draw sideways.
	ErrRotatedFrame = errors.New("solid2d: rotated atlas frames are not supported")
)

// Region describes a named sub-rectangle within an atlas page.
type Region struct {
	// Page indexes Atlas.Pages.
	Page int
	// Source is the packed rectangle within the page, in page pixels.
	Source image.Rectangle
	// SourceSize is the untrimmed sprite size as authored.
	SourceSize Size
	// Offset is the trim offset of Source within the untrimmed sprite.
	Offset Vec2
}

// Trimmed reports whether the packer removed transparent borders.
func (r Region) Trimmed() bool {
	return r.Offset != (Vec2{}) ||
		float64(r.Source.Dx()) != r.SourceSize.Width ||
		float64(r.Source.Dy()) != r.SourceSize.Height
}

// Atlas holds one or more page textures and a map of named regions.
type Atlas struct {
	// Pages contains the page textures indexed by Region.Page.
	Pages   []Texture
	regions map[string]Region
}

// Region returns the region with the given name.
func (a *Atlas) Region(name string) (Region, error) {
	if r, ok := a.regions[name]; ok {
		return r, nil
	}
	return Region{}, errors.Wrapf(ErrRegionNotFound, "%q", name)
}

// Names returns every region name in sorted order.
func (a *Atlas) Names() []string {
	return slices.Sorted(maps.Keys(a.regions))
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// Texture returns the page texture a region lives on.
func (a *Atlas) Texture(r Region) Texture {
	if r.Page < 0 || r.Page >= len(a.Pages) {
		return nil
	}
	return a.Pages[r.Page]
}

// LoadAtlas parses TexturePacker JSON data and associates the given page
// textures. Supports both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists). Every region
// must reference a page in pages.
func LoadAtlas(jsonData []byte, pages []Texture) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, errors.Wrap(err, "solid2d: failed to parse atlas JSON")
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]Region),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(`solid2d: atlas JSON has neither "frames" nor "textures" key`)
	}

	for name, r := range atlas.regions {
		if r.Page >= len(pages) {
			return nil, errors.Errorf("solid2d: atlas region %q references page %d, have %d pages",
				name, r.Page, len(pages))
		}
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return errors.Wrap(err, "solid2d: failed to parse atlas frames")
	}
	for name, f := range frames {
		r, err := frameToRegion(name, f, page)
		if err != nil {
			return err
		}
		atlas.regions[name] = r
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return errors.Wrap(err, "solid2d: failed to parse atlas textures array")
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			r, err := frameToRegion(name, f, i)
			if err != nil {
				return err
			}
			atlas.regions[name] = r
		}
	}
	return nil
}

func frameToRegion(name string, f jsonFrame, page int) (Region, error) {
	if f.Rotated {
		return Region{}, errors.Wrapf(ErrRotatedFrame, "%q", name)
	}
	src := image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H)
	srcSize := Size{float64(f.SourceSize.W), float64(f.SourceSize.H)}
	if srcSize.Width == 0 && srcSize.Height == 0 {
		srcSize = Size{float64(f.Frame.W), float64(f.Frame.H)}
	}
	return Region{
		Page:       page,
		Source:     src,
		SourceSize: srcSize,
		Offset:     Vec2{float64(f.SpriteSourceSize.X), float64(f.SpriteSourceSize.Y)},
	}, nil
}
