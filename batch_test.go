package solid2d

import (
	"bytes"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestNewBatch2DRequiresDevice(t *testing.T) {
	b, err := NewBatch2D(nil, nil)
	if !errors.Is(err, ErrNilDevice) || b != nil {
		t.Fatalf("NewBatch2D(nil) = %v, %v; want nil, ErrNilDevice", b, err)
	}
}

func TestNewBatch2DDefaults(t *testing.T) {
	b := newTestBatch(t, newFakeDevice(10, 10), nil)
	if b.Capacity() != defaultInitialQuads {
		t.Errorf("Capacity = %d, want %d", b.Capacity(), defaultInitialQuads)
	}
	if b.Begun() || b.Pending() != 0 || b.FreeItems() != 0 {
		t.Error("new batch should be idle and empty")
	}
}

func TestBatchSortsByDepthAndCoalescesTextures(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	texA := newFakeTexture("a", 16, 16)
	texB := newFakeTexture("b", 16, 16)

	if err := b.Begin(); err != nil {
		t.Fatal(err)
	}
	draws := []struct {
		tex   Texture
		x     float64
		depth float64
	}{
		{texA, 0, 3},
		{texB, 10, 1},
		{texA, 20, 2},
	}
	for _, d := range draws {
		if err := b.Draw(d.tex, NewBoxXYWH(d.x, 0, 1, 1), &DrawOptions{Depth: d.depth}); err != nil {
			t.Fatal(err)
		}
	}
	if b.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", b.Pending())
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}

	if len(dev.draws) != 2 {
		t.Fatalf("draw calls = %d, want 2", len(dev.draws))
	}
	if len(dev.binds) != 2 || dev.binds[0] != texA || dev.binds[1] != texB {
		t.Fatalf("binds = %v, want [a b]", dev.binds)
	}

	first := dev.draws[0]
	if first.texture != texA || len(first.vertices) != 8 || len(first.indices) != 12 {
		t.Fatalf("first draw: tex=%v verts=%d inds=%d", first.texture, len(first.vertices), len(first.indices))
	}
	assertVertexNear(t, "depth 3 quad X", first.vertices[0].X, 0)
	assertVertexNear(t, "depth 2 quad X", first.vertices[4].X, 20)

	second := dev.draws[1]
	if second.texture != texB || len(second.vertices) != 4 {
		t.Fatalf("second draw: tex=%v verts=%d", second.texture, len(second.vertices))
	}
	assertVertexNear(t, "depth 1 quad X", second.vertices[0].X, 10)

	if s := b.Stats(); s.DrawCalls != 2 || s.QuadCount != 3 {
		t.Errorf("Stats = %+v, want 2 draws / 3 quads", s)
	}
	if s := b.Stats(); s.TotalVertexCount() != 12 || s.TotalIndexCount() != 18 {
		t.Errorf("totals = %d verts / %d inds", s.TotalVertexCount(), s.TotalIndexCount())
	}
}

func TestBatchEqualDepthKeepsSubmissionOrder(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	tex := newFakeTexture("a", 4, 4)

	mustOK(t, b.Begin())
	for i := 0; i < 20; i++ {
		if err := b.Draw(tex, NewBoxXYWH(float64(i), 0, 1, 1), nil); err != nil {
			t.Fatal(err)
		}
	}
	mustOK(t, b.End())

	if len(dev.draws) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(dev.draws))
	}
	verts := dev.draws[0].vertices
	for i := 0; i < 20; i++ {
		assertVertexNear(t, "quad X", verts[i*vertsPerQuad].X, float32(i))
	}
}

func TestBatchInterleavedTexturesAreNotMerged(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	texA := newFakeTexture("a", 4, 4)
	texB := newFakeTexture("b", 4, 4)

	mustOK(t, b.Begin())
	for _, tex := range []Texture{texA, texB, texA, texB} {
		mustOK(t, b.DrawAt(tex, Vec2{}, nil))
	}
	mustOK(t, b.End())

	if len(dev.draws) != 4 {
		t.Errorf("draw calls = %d, want 4", len(dev.draws))
	}
}

func TestBatchRecyclesItems(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	tex := newFakeTexture("a", 4, 4)

	mustOK(t, b.Begin())
	for i := 0; i < 5; i++ {
		mustOK(t, b.DrawAt(tex, Vec2{float64(i), 0}, nil))
	}
	mustOK(t, b.End())

	if b.FreeItems() != 5 {
		t.Fatalf("FreeItems = %d, want 5", b.FreeItems())
	}
	for i, it := range b.pool.free {
		if it.texture != nil {
			t.Errorf("free item %d still holds a texture", i)
		}
	}
	if b.Pending() != 0 {
		t.Errorf("Pending = %d after End", b.Pending())
	}

	mustOK(t, b.Begin())
	for i := 0; i < 3; i++ {
		mustOK(t, b.DrawAt(tex, Vec2{}, nil))
	}
	if b.FreeItems() != 2 {
		t.Errorf("FreeItems during second batch = %d, want 2", b.FreeItems())
	}
	mustOK(t, b.End())
	if b.FreeItems() != 5 {
		t.Errorf("FreeItems after second batch = %d, want 5", b.FreeItems())
	}
}

func TestBatchEmptyEnd(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)

	mustOK(t, b.Begin())
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(dev.draws) != 0 || len(dev.binds) != 0 {
		t.Errorf("empty batch drew %d times, bound %d textures", len(dev.draws), len(dev.binds))
	}
	if len(dev.states) != 1 || dev.states[0] != DefaultRenderState {
		t.Errorf("states = %v, want [DefaultRenderState]", dev.states)
	}
	if b.Begun() {
		t.Error("batch still begun after End")
	}
}

func TestBatchRenderStateAndProjection(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	tex := newFakeTexture("a", 4, 4)
	view := CreateTranslation(Vec2{5, -7}).Mul(CreateScaleUniform(2))

	mustOK(t, b.BeginWithTransform(view))
	mustOK(t, b.DrawAt(tex, Vec2{}, nil))
	mustOK(t, b.End())

	if len(dev.states) != 1 || dev.states[0] != DefaultRenderState {
		t.Fatalf("states = %v", dev.states)
	}
	if len(dev.projections) != 1 {
		t.Fatalf("projections = %d, want 1", len(dev.projections))
	}
	assertMatrix(t, "projection", dev.projections[0], view.Mul(Ortho(800, 600)))

	// The transform does not leak into the next batch.
	mustOK(t, b.Begin())
	mustOK(t, b.End())
	assertMatrix(t, "second projection", dev.projections[1], Ortho(800, 600))
}

func TestBatchTextureCoordinates(t *testing.T) {
	tex := newFakeTexture("sheet", 100, 50)
	src := image.Rect(10, 10, 60, 35)

	tests := []struct {
		name           string
		flip           FlipMode
		u0, v0, u1, v1 float32
	}{
		{"none", FlipNone, 0.1, 0.2, 0.6, 0.7},
		{"horizontal", FlipHorizontal, 0.6, 0.2, 0.1, 0.7},
		{"vertical", FlipVertical, 0.1, 0.7, 0.6, 0.2},
		{"both", FlipHorizontal | FlipVertical, 0.6, 0.7, 0.1, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice(800, 600)
			b := newTestBatch(t, dev, nil)
			mustOK(t, b.Begin())
			mustOK(t, b.Draw(tex, NewBoxXYWH(0, 0, 50, 25), &DrawOptions{Source: src, Flip: tt.flip}))
			mustOK(t, b.End())

			v := dev.draws[0].vertices
			assertVertexNear(t, "TL.U", v[0].U, tt.u0)
			assertVertexNear(t, "TL.V", v[0].V, tt.v0)
			assertVertexNear(t, "TR.U", v[1].U, tt.u1)
			assertVertexNear(t, "BL.V", v[2].V, tt.v1)
			assertVertexNear(t, "BR.U", v[3].U, tt.u1)
			assertVertexNear(t, "BR.V", v[3].V, tt.v1)
		})
	}
}

func TestBatchDefaultsToWholeTextureAndWhite(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	tex := newFakeTexture("a", 32, 16)

	mustOK(t, b.Begin())
	mustOK(t, b.DrawAt(tex, Vec2{3, 4}, nil))
	mustOK(t, b.End())

	v := dev.draws[0].vertices
	assertVertexNear(t, "BR.X", v[3].X, 35)
	assertVertexNear(t, "BR.Y", v[3].Y, 20)
	assertVertexNear(t, "TL.U", v[0].U, 0)
	assertVertexNear(t, "BR.U", v[3].U, 1)
	assertVertexNear(t, "BR.V", v[3].V, 1)
	assertVertexNear(t, "R", v[0].R, 1)
	assertVertexNear(t, "G", v[0].G, 1)
	assertVertexNear(t, "B", v[0].B, 1)
	assertVertexNear(t, "A", v[0].A, 1)
}

func TestBatchDrawAtUsesSourceSizeAndTint(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	tex := newFakeTexture("a", 100, 100)

	mustOK(t, b.Begin())
	mustOK(t, b.DrawAt(tex, Vec2{0, 0}, &DrawOptions{
		Source: image.Rect(0, 0, 10, 20),
		Color:  Color{0.5, 0, 0, 1},
	}))
	mustOK(t, b.End())

	v := dev.draws[0].vertices
	assertVertexNear(t, "BR.X", v[3].X, 10)
	assertVertexNear(t, "BR.Y", v[3].Y, 20)
	assertVertexNear(t, "R", v[0].R, 0.5)
	assertVertexNear(t, "G", v[0].G, 0)
	assertVertexNear(t, "A", v[0].A, 1)
}

func TestBatchDrawUsesRotatedBoxCorners(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	box := NewBoxXYWH(100, 100, 50, 20)
	box.Rotate(90)

	mustOK(t, b.Begin())
	mustOK(t, b.Draw(newFakeTexture("a", 1, 1), box, nil))
	mustOK(t, b.End())

	v := dev.draws[0].vertices
	tl, tr, bl, br := box.Corners()
	for i, want := range []Vec2{tl, tr, bl, br} {
		assertVertexNear(t, "X", v[i].X, float32(want.X))
		assertVertexNear(t, "Y", v[i].Y, float32(want.Y))
	}
}

func TestBatchGrowsBuffers(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, &BatchOptions{InitialQuads: 2})
	tex := newFakeTexture("a", 4, 4)
	if b.Capacity() != 2 {
		t.Fatalf("Capacity = %d, want 2", b.Capacity())
	}

	mustOK(t, b.Begin())
	for i := 0; i < 5; i++ {
		mustOK(t, b.DrawAt(tex, Vec2{float64(i), 0}, nil))
	}
	mustOK(t, b.End())

	if b.Capacity() != 8 {
		t.Errorf("Capacity = %d, want 8", b.Capacity())
	}
	if len(dev.draws) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(dev.draws))
	}
	inds := dev.draws[0].indices
	if len(inds) != 30 {
		t.Fatalf("indices = %d, want 30", len(inds))
	}
	pattern := [indsPerQuad]uint32{0, 1, 2, 1, 3, 2}
	for q := 0; q < 5; q++ {
		for k, off := range pattern {
			if got, want := inds[q*indsPerQuad+k], uint32(q*vertsPerQuad)+off; got != want {
				t.Fatalf("index[%d] = %d, want %d", q*indsPerQuad+k, got, want)
			}
		}
	}

	// Buffers do not shrink.
	mustOK(t, b.Begin())
	mustOK(t, b.DrawAt(tex, Vec2{}, nil))
	mustOK(t, b.End())
	if b.Capacity() != 8 {
		t.Errorf("Capacity after small batch = %d, want 8", b.Capacity())
	}
}

func TestBatchEmptyViewportDropsItems(t *testing.T) {
	dev := newFakeDevice(0, 0)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	b := newTestBatch(t, dev, &BatchOptions{Logger: logger})
	tex := newFakeTexture("a", 4, 4)

	mustOK(t, b.Begin())
	mustOK(t, b.DrawAt(tex, Vec2{}, nil))
	mustOK(t, b.DrawAt(tex, Vec2{}, nil))
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(dev.draws) != 0 || len(dev.projections) != 0 {
		t.Errorf("empty viewport drew %d times and set %d projections", len(dev.draws), len(dev.projections))
	}
	if b.FreeItems() != 2 || b.Pending() != 0 || b.Begun() {
		t.Errorf("free=%d pending=%d begun=%v", b.FreeItems(), b.Pending(), b.Begun())
	}
	if !strings.Contains(buf.String(), "empty viewport") {
		t.Errorf("expected a warning, log = %q", buf.String())
	}
}

func TestBatchUsageErrors(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	tex := newFakeTexture("a", 4, 4)

	if err := b.End(); !errors.Is(err, ErrBeginNotCalled) {
		t.Errorf("End before Begin: %v", err)
	}
	if err := b.Draw(tex, NewBoxXYWH(0, 0, 1, 1), nil); !errors.Is(err, ErrBeginNotCalled) {
		t.Errorf("Draw before Begin: %v", err)
	}
	if err := b.DrawAt(tex, Vec2{}, nil); !errors.Is(err, ErrBeginNotCalled) {
		t.Errorf("DrawAt before Begin: %v", err)
	}

	if err := b.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := b.Begin(); !errors.Is(err, ErrBeginCalled) {
		t.Errorf("second Begin: %v", err)
	}
	if err := b.BeginWithTransform(Identity()); !errors.Is(err, ErrBeginCalled) {
		t.Errorf("BeginWithTransform while begun: %v", err)
	}
	if err := b.Draw(nil, NewBoxXYWH(0, 0, 1, 1), nil); !errors.Is(err, ErrNilTexture) {
		t.Errorf("nil texture: %v", err)
	}
	if err := b.DrawAt(nil, Vec2{}, nil); !errors.Is(err, ErrNilTexture) {
		t.Errorf("DrawAt nil texture: %v", err)
	}
	if err := b.Draw(tex, nil, nil); !errors.Is(err, ErrNilBox) {
		t.Errorf("nil box: %v", err)
	}
	if b.Pending() != 0 {
		t.Errorf("rejected draws were queued: %d", b.Pending())
	}
	if err := b.End(); err != nil {
		t.Errorf("End: %v", err)
	}
}

func TestBatchRejectsTypedNilTexture(t *testing.T) {
	dev := newFakeDevice(800, 600)
	b := newTestBatch(t, dev, nil)
	var tex *fakeTexture
	mustOK(t, b.Begin())

	if err := b.Draw(tex, NewBoxXYWH(0, 0, 1, 1), nil); !errors.Is(err, ErrNilTexture) || !IsUsageError(err) {
		t.Errorf("Draw(typed nil) = %v, want ErrNilTexture", err)
	}
	if err := b.DrawAt(tex, Vec2{}, nil); !errors.Is(err, ErrNilTexture) || !IsUsageError(err) {
		t.Errorf("DrawAt(typed nil) = %v, want ErrNilTexture", err)
	}
	if b.Pending() != 0 {
		t.Errorf("Pending = %d, typed-nil draws must not queue", b.Pending())
	}
	mustOK(t, b.End())
}

func TestIsUsageError(t *testing.T) {
	for _, err := range []error{
		errors.WithStack(ErrBeginCalled),
		errors.Wrap(ErrBeginNotCalled, "draw"),
		ErrNilTexture,
		ErrNilBox,
	} {
		if !IsUsageError(err) {
			t.Errorf("IsUsageError(%v) = false", err)
		}
	}
	if IsUsageError(ErrInvalidAnchor) || IsUsageError(nil) {
		t.Error("IsUsageError matched a non-usage error")
	}
}

func TestBatchDebugLogging(t *testing.T) {
	dev := newFakeDevice(800, 600)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := newTestBatch(t, dev, &BatchOptions{Debug: true, Logger: logger})
	texA := newFakeTexture("a", 4, 4)
	texB := newFakeTexture("b", 4, 4)

	mustOK(t, b.Begin())
	for i := 0; i < 10; i++ {
		tex := Texture(texA)
		if i%2 == 1 {
			tex = texB
		}
		mustOK(t, b.DrawAt(tex, Vec2{}, nil))
	}
	mustOK(t, b.End())

	out := buf.String()
	for _, want := range []string{"batch flushed", "component=batch2d", "runs=10", "draw_calls=10", "fragmented"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
