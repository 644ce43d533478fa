package solid2d

// itemLessOrEqual returns true if a should be drawn before or at the same
// position as b: larger depth first, insertion order among equal depths.
// Using <= for seq keeps the sort stable.
func itemLessOrEqual(a, b *batchItem) bool {
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.seq <= b.seq
}

// sortItems sorts items in place back-to-front using buf as scratch space.
// Bottom-up merge sort: zero allocations once buf reaches the high-water
// mark. Returns the (possibly regrown) scratch buffer for reuse.
func sortItems(items, buf []*batchItem) []*batchItem {
	n := len(items)
	if n <= 1 {
		return buf
	}
	if cap(buf) < n {
		buf = make([]*batchItem, n)
	}
	buf = buf[:n]

	a := items
	b := buf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(items, buf)
	}
	// Scratch must not keep items reachable past the flush.
	clear(buf)
	return buf
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []*batchItem, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if itemLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
