package solid2d

import (
	"image"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

const (
	vertsPerQuad = 4
	indsPerQuad  = 6

	defaultInitialQuads = 256
)

// Batch defers sprite draws between Begin and End and submits them in as few
// draw calls as possible.
type Batch interface {
	// Begin starts a batch with the identity transform.
	Begin() error
	// BeginWithTransform starts a batch whose vertices are transformed by m
	// before projection.
	BeginWithTransform(m Matrix2D) error
	// Draw queues tex mapped onto box.
	Draw(tex Texture, box *Box, op *DrawOptions) error
	// DrawAt queues tex at its natural size with its top-left at position.
	DrawAt(tex Texture, position Vec2, op *DrawOptions) error
	// End sorts, groups and flushes everything queued since Begin.
	End() error
}

// FlipMode mirrors a sprite's texture coordinates. Values combine with |.
type FlipMode uint8

const FlipNone FlipMode = 0

const (
	FlipHorizontal FlipMode = 1 << iota // swap left and right texture edges
	FlipVertical                        // swap top and bottom texture edges
)

// DrawOptions controls a single Draw or DrawAt call. A nil *DrawOptions uses
// the zero value.
type DrawOptions struct {
	// Color tints the sprite. The zero value draws untinted (opaque white).
	Color Color
	// Depth orders sprites within a batch: larger depths are drawn first, so
	// smaller depths end up on top. Equal depths keep submission order.
	Depth float64
	// Source selects a sub-rectangle of the texture in texture pixels. An
	// empty rectangle selects the whole texture.
	Source image.Rectangle
	// Flip mirrors the texture coordinates.
	Flip FlipMode
}

// BatchOptions configures NewBatch2D. A nil *BatchOptions uses defaults.
type BatchOptions struct {
	// InitialQuads sizes the vertex and index scratch buffers. Zero means 256.
	InitialQuads int
	// Debug logs per-flush timing and draw-call counts at debug level.
	Debug bool
	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Stats captures the counts generated by the most recent End.
type Stats struct {
	DrawCalls int
	QuadCount int
}

// TotalVertexCount reports vertices submitted by the last End.
func (s Stats) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }

// TotalIndexCount reports indices submitted by the last End.
func (s Stats) TotalIndexCount() int { return s.QuadCount * indsPerQuad }

// Batch2D is the Device-backed Batch. It recycles queued items through a free
// list and shares one vertex/index scratch buffer across flushes. A Batch2D
// is not safe for concurrent use.
type Batch2D struct {
	device Device
	logger *slog.Logger
	debug  bool

	begun     bool
	transform Matrix2D

	pool    itemPool
	items   []*batchItem
	sortBuf []*batchItem
	nextSeq int

	vertices []Vertex
	indices  []uint32
	quadCap  int

	stats Stats
}

var _ Batch = (*Batch2D)(nil)

// NewBatch2D creates a batch flushing through device.
func NewBatch2D(device Device, opts *BatchOptions) (*Batch2D, error) {
	if device == nil {
		return nil, errors.WithStack(ErrNilDevice)
	}
	if opts == nil {
		opts = &BatchOptions{}
	}
	b := &Batch2D{
		device:    device,
		logger:    opts.Logger,
		debug:     opts.Debug,
		transform: identityMatrix,
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.logger = b.logger.With(slog.String("component", "batch2d"))

	quads := opts.InitialQuads
	if quads <= 0 {
		quads = defaultInitialQuads
	}
	b.ensureCapacity(quads)
	return b, nil
}

// ensureCapacity grows the scratch buffers to hold at least quads quads.
// Capacity is rounded up to a power of two and never shrinks; the existing
// index pattern is copied and only the new quads are filled in.
func (b *Batch2D) ensureCapacity(quads int) {
	if quads <= b.quadCap {
		return
	}
	newCap := nextPowerOfTwo(quads)

	indices := make([]uint32, newCap*indsPerQuad)
	copy(indices, b.indices)
	for i := b.quadCap; i < newCap; i++ {
		v := uint32(i * vertsPerQuad)
		k := i * indsPerQuad
		// Two triangles: TL-TR-BL, TR-BR-BL
		indices[k+0] = v + 0
		indices[k+1] = v + 1
		indices[k+2] = v + 2
		indices[k+3] = v + 1
		indices[k+4] = v + 3
		indices[k+5] = v + 2
	}

	b.indices = indices
	b.vertices = make([]Vertex, newCap*vertsPerQuad)
	b.quadCap = newCap
}

// Begin implements Batch.
func (b *Batch2D) Begin() error {
	return b.BeginWithTransform(identityMatrix)
}

// BeginWithTransform implements Batch.
func (b *Batch2D) BeginWithTransform(m Matrix2D) error {
	if b.begun {
		return errors.WithStack(ErrBeginCalled)
	}
	b.transform = m
	b.begun = true
	b.nextSeq = 0
	return nil
}

// Draw implements Batch. The quad's corners are the box's four corners; the
// texture coordinates come from op.Source normalized by the texture bounds.
func (b *Batch2D) Draw(tex Texture, box *Box, op *DrawOptions) error {
	if isNilTexture(tex) {
		return errors.WithStack(ErrNilTexture)
	}
	if box == nil {
		return errors.WithStack(ErrNilBox)
	}
	if !b.begun {
		return errors.Wrap(ErrBeginNotCalled, "draw")
	}
	tl, tr, bl, br := box.Corners()
	b.enqueue(tex, tl, tr, bl, br, op)
	return nil
}

// DrawAt implements Batch. The quad takes the size of op.Source, or of the
// whole texture when no source is set.
func (b *Batch2D) DrawAt(tex Texture, position Vec2, op *DrawOptions) error {
	if isNilTexture(tex) {
		return errors.WithStack(ErrNilTexture)
	}
	if !b.begun {
		return errors.Wrap(ErrBeginNotCalled, "draw")
	}
	r := tex.Bounds()
	if op != nil && !op.Source.Empty() {
		r = op.Source
	}
	w, h := float64(r.Dx()), float64(r.Dy())

	tl := position
	tr := Vec2{position.X + w, position.Y}
	bl := Vec2{position.X, position.Y + h}
	br := Vec2{position.X + w, position.Y + h}
	b.enqueue(tex, tl, tr, bl, br, op)
	return nil
}

// enqueue fills a pooled item and appends it to the pending list.
func (b *Batch2D) enqueue(tex Texture, tl, tr, bl, br Vec2, op *DrawOptions) {
	if op == nil {
		op = &DrawOptions{}
	}

	u0, v0, u1, v1 := float32(0), float32(0), float32(1), float32(1)
	if tb := tex.Bounds(); !op.Source.Empty() && !tb.Empty() {
		tw, th := float32(tb.Dx()), float32(tb.Dy())
		u0 = float32(op.Source.Min.X-tb.Min.X) / tw
		v0 = float32(op.Source.Min.Y-tb.Min.Y) / th
		u1 = float32(op.Source.Max.X-tb.Min.X) / tw
		v1 = float32(op.Source.Max.Y-tb.Min.Y) / th
	}
	if op.Flip&FlipHorizontal != 0 {
		u0, u1 = u1, u0
	}
	if op.Flip&FlipVertical != 0 {
		v0, v1 = v1, v0
	}

	c := op.Color
	if c.isZero() {
		c = ColorWhite
	}
	cr, cg, cb, ca := float32(c.R), float32(c.G), float32(c.B), float32(c.A)

	it := b.pool.Acquire()
	it.texture = tex
	it.depth = op.Depth
	it.seq = b.nextSeq
	b.nextSeq++

	it.tl = Vertex{X: float32(tl.X), Y: float32(tl.Y), R: cr, G: cg, B: cb, A: ca, U: u0, V: v0}
	it.tr = Vertex{X: float32(tr.X), Y: float32(tr.Y), R: cr, G: cg, B: cb, A: ca, U: u1, V: v0}
	it.bl = Vertex{X: float32(bl.X), Y: float32(bl.Y), R: cr, G: cg, B: cb, A: ca, U: u0, V: v1}
	it.br = Vertex{X: float32(br.X), Y: float32(br.Y), R: cr, G: cg, B: cb, A: ca, U: u1, V: v1}

	b.items = append(b.items, it)
}

// End implements Batch. It applies DefaultRenderState and the projection
// (begin transform * viewport ortho), sorts the queue back-to-front, then
// submits one DrawTriangles call per run of consecutive items sharing a
// texture. Every item goes back to the free list with its texture cleared.
func (b *Batch2D) End() error {
	if !b.begun {
		return errors.Wrap(ErrBeginNotCalled, "end")
	}
	defer b.reset()

	b.stats = Stats{}
	d := b.device
	d.SetRenderState(DefaultRenderState)

	vp := d.Viewport()
	if vp.Empty() {
		if len(b.items) > 0 {
			b.logger.Warn("empty viewport, dropping batch",
				slog.Int("items", len(b.items)),
				slog.String("viewport", vp.String()))
		}
		b.releaseAll()
		return nil
	}
	d.SetProjection(b.transform.Mul(Ortho(float64(vp.Dx()), float64(vp.Dy()))))

	if len(b.items) == 0 {
		return nil
	}

	var ds debugStats
	var t0 time.Time
	if b.debug {
		t0 = time.Now()
	}

	b.sortBuf = sortItems(b.items, b.sortBuf)
	b.ensureCapacity(len(b.items))

	if b.debug {
		ds.sortTime = time.Since(t0)
		ds.itemCount = len(b.items)
		ds.runCount = countRuns(b.items)
		b.debugCheckFragmentation(ds)
		t0 = time.Now()
	}

	var current Texture
	n := 0
	for i, it := range b.items {
		if it.texture != current {
			b.flush(n)
			n = 0
			current = it.texture
			d.BindTexture(current)
		}
		v := b.vertices[n*vertsPerQuad:]
		v[0], v[1], v[2], v[3] = it.tl, it.tr, it.bl, it.br
		n++

		b.pool.Release(it)
		b.items[i] = nil
	}
	b.flush(n)

	if b.debug {
		ds.submitTime = time.Since(t0)
		ds.drawCalls = b.stats.DrawCalls
		ds.capacity = b.quadCap
		b.debugLog(ds)
	}
	return nil
}

// flush submits the first n quads of the scratch buffer.
func (b *Batch2D) flush(n int) {
	if n == 0 {
		return
	}
	b.device.DrawTriangles(b.vertices[:n*vertsPerQuad], b.indices[:n*indsPerQuad])
	b.stats.DrawCalls++
	b.stats.QuadCount += n
}

// releaseAll returns every pending item to the free list.
func (b *Batch2D) releaseAll() {
	for i, it := range b.items {
		b.pool.Release(it)
		b.items[i] = nil
	}
}

// reset clears the pending list and returns the batch to idle.
func (b *Batch2D) reset() {
	b.items = b.items[:0]
	b.begun = false
	b.transform = identityMatrix
}

// Begun reports whether the batch is between Begin and End.
func (b *Batch2D) Begun() bool { return b.begun }

// Pending returns the number of items queued since Begin.
func (b *Batch2D) Pending() int { return len(b.items) }

// FreeItems returns the number of recycled items ready for reuse.
func (b *Batch2D) FreeItems() int { return b.pool.Len() }

// Capacity returns the scratch buffer capacity in quads.
func (b *Batch2D) Capacity() int { return b.quadCap }

// Stats returns the counts from the most recent End.
func (b *Batch2D) Stats() Stats { return b.stats }
