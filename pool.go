package solid2d

import "math"

// batchItem is one queued quad. Items are borrowed from the batch's itemPool
// for a single Begin/End cycle.
type batchItem struct {
	texture Texture
	tl, tr  Vertex
	bl, br  Vertex
	depth   float64
	seq     int // insertion order, breaks depth ties
}

// itemPool is a free list of batch items. After warmup, Acquire/Release are
// zero-alloc.
type itemPool struct {
	free []*batchItem
}

// Acquire returns a recycled item, or a new one if the list is empty.
func (p *itemPool) Acquire() *batchItem {
	if n := len(p.free); n > 0 {
		it := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return it
	}
	return new(batchItem)
}

// Release drops the item's texture reference and returns it to the list.
func (p *itemPool) Release(it *batchItem) {
	if it == nil {
		return
	}
	it.texture = nil
	p.free = append(p.free, it)
}

// Len returns the number of items available for reuse.
func (p *itemPool) Len() int {
	return len(p.free)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
