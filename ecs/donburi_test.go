package ecs

import (
	"image"
	"math"
	"testing"

	"github.com/phanxgames/solid2d"

	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

type fakeTexture struct{ w, h int }

func (t *fakeTexture) Bounds() image.Rectangle { return image.Rect(0, 0, t.w, t.h) }

// recordingBatch captures Draw calls.
type recordingBatch struct {
	draws []drawCall
	err   error
}

type drawCall struct {
	tex solid2d.Texture
	box solid2d.Box
	op  solid2d.DrawOptions
}

func (b *recordingBatch) Begin() error { return nil }
func (b *recordingBatch) BeginWithTransform(solid2d.Matrix2D) error { return nil }
func (b *recordingBatch) End() error { return nil }

func (b *recordingBatch) Draw(tex solid2d.Texture, box *solid2d.Box, op *solid2d.DrawOptions) error {
	if b.err != nil {
		return b.err
	}
	b.draws = append(b.draws, drawCall{tex: tex, box: *box, op: *op})
	return nil
}

func (b *recordingBatch) DrawAt(tex solid2d.Texture, pos solid2d.Vec2, op *solid2d.DrawOptions) error {
	return b.Draw(tex, solid2d.NewBox(pos, solid2d.Size{}), op)
}

func TestSpriteSystemDrawsEntities(t *testing.T) {
	world := donburi.NewWorld()
	tex := &fakeTexture{8, 8}
	NewSpriteEntity(world, tex, solid2d.NewBoxXYWH(10, 20, 8, 8))
	hidden := NewSpriteEntity(world, tex, solid2d.NewBoxXYWH(0, 0, 8, 8))
	Sprite.Get(world.Entry(hidden)).Hidden = true

	// Entities without a Sprite are ignored.
	world.Create(Box)

	sys := NewSpriteSystem(world)
	b := &recordingBatch{}
	if err := sys.Draw(b); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if len(b.draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(b.draws))
	}
	if got := b.draws[0].box.TopLeft(); got != (solid2d.Vec2{X: 10, Y: 20}) {
		t.Errorf("TopLeft = %v, want (10,20)", got)
	}
	if b.draws[0].tex != tex {
		t.Error("texture not forwarded")
	}
}

func TestSpriteSystemReturnsFirstError(t *testing.T) {
	world := donburi.NewWorld()
	NewSpriteEntity(world, nil, solid2d.NewBoxXYWH(0, 0, 1, 1))
	NewSpriteEntity(world, nil, solid2d.NewBoxXYWH(0, 0, 1, 1))

	b := &recordingBatch{err: solid2d.ErrNilTexture}
	if err := NewSpriteSystem(world).Draw(b); err != solid2d.ErrNilTexture {
		t.Fatalf("Draw() = %v, want ErrNilTexture", err)
	}
}

func TestSpriteSystemWithBatch2D(t *testing.T) {
	world := donburi.NewWorld()
	tex := &fakeTexture{4, 4}
	NewSpriteEntity(world, tex, solid2d.NewBoxXYWH(0, 0, 4, 4))
	NewSpriteEntity(world, tex, solid2d.NewBoxXYWH(4, 0, 4, 4))

	dev := &countingDevice{}
	batch, err := solid2d.NewBatch2D(dev, nil)
	if err != nil {
		t.Fatal(err)
	}
	scene := solid2d.NewScene(batch)
	scene.Add(NewSpriteSystem(world))
	if err := scene.Draw(); err != nil {
		t.Fatalf("scene.Draw() error: %v", err)
	}
	if dev.draws != 1 || dev.quads != 2 {
		t.Errorf("draws=%d quads=%d, want 1 draw of 2 quads", dev.draws, dev.quads)
	}
}

type countingDevice struct{ draws, quads int }

func (d *countingDevice) Viewport() image.Rectangle { return image.Rect(0, 0, 64, 64) }
func (d *countingDevice) SetRenderState(solid2d.RenderState) {}
func (d *countingDevice) SetProjection(solid2d.Matrix2D) {}
func (d *countingDevice) BindTexture(solid2d.Texture) {}
func (d *countingDevice) DrawTriangles(v []solid2d.Vertex, _ []uint32) {
	d.draws++
	d.quads += len(v) / 4
}

func TestTweenSystemMovesBoxAndPublishesDone(t *testing.T) {
	world := donburi.NewWorld()
	box := solid2d.NewBoxXYWH(0, 0, 1, 1)
	e := NewSpriteEntity(world, &fakeTexture{1, 1}, box)
	AddTween(world, e, solid2d.TweenPosition(box, solid2d.Vec2{X: 100, Y: 50}, 1.0, ease.Linear))

	var done []donburi.Entity
	TweenDoneEventType.Subscribe(world, func(_ donburi.World, ev TweenDoneEvent) {
		done = append(done, ev.Entity)
	})

	sys := NewTweenSystem(world)
	sys.Update(0.5)

	pos := BoxOf(world, e).Position()
	if math.Abs(pos.X-50) > 0.5 || math.Abs(pos.Y-25) > 0.5 {
		t.Errorf("halfway position = %v, want ~(50,25)", pos)
	}
	if len(done) != 0 {
		t.Fatalf("done published early: %v", done)
	}

	sys.Update(0.5)
	pos = BoxOf(world, e).Position()
	if math.Abs(pos.X-100) > 0.5 || math.Abs(pos.Y-50) > 0.5 {
		t.Errorf("final position = %v, want ~(100,50)", pos)
	}
	if len(done) != 1 || done[0] != e {
		t.Fatalf("done = %v, want [%v]", done, e)
	}
	if world.Entry(e).HasComponent(Tween) {
		t.Error("finished tween should be removed")
	}
}

func TestTweenSystemSurvivesArchetypeMoves(t *testing.T) {
	world := donburi.NewWorld()
	short := solid2d.NewBoxXYWH(0, 0, 1, 1)
	long := solid2d.NewBoxXYWH(0, 0, 1, 1)
	es := NewSpriteEntity(world, &fakeTexture{1, 1}, short)
	el := NewSpriteEntity(world, &fakeTexture{1, 1}, long)
	AddTween(world, es, solid2d.TweenPosition(short, solid2d.Vec2{X: 10}, 0.5, ease.Linear))
	AddTween(world, el, solid2d.TweenPosition(long, solid2d.Vec2{X: 100}, 1.0, ease.Linear))

	sys := NewTweenSystem(world)
	sys.Update(0.5) // short finishes and loses its Tween component
	sys.Update(0.5)

	if got := BoxOf(world, el).Position().X; math.Abs(got-100) > 0.5 {
		t.Errorf("long tween X = %v, want ~100", got)
	}
	if got := BoxOf(world, es).Position().X; math.Abs(got-10) > 0.5 {
		t.Errorf("short tween X = %v, want ~10", got)
	}
	if BoxOf(world, el) != long {
		t.Error("BoxOf returned a different box")
	}
}

func TestBoxOfMissing(t *testing.T) {
	world := donburi.NewWorld()
	e := world.Create(Sprite)
	if BoxOf(world, e) != nil {
		t.Error("BoxOf on entity without Box should be nil")
	}
}
