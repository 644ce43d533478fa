package solid2d

import (
	"log/slog"
	"time"
)

// debugStats holds per-flush timing and draw-call metrics.
// Only populated when the batch was created with BatchOptions.Debug.
type debugStats struct {
	sortTime   time.Duration
	submitTime time.Duration
	itemCount  int
	runCount   int
	drawCalls  int
	capacity   int
}

// debugLog writes timing and draw-call stats at debug level.
func (b *Batch2D) debugLog(stats debugStats) {
	if !b.debug {
		return
	}
	b.logger.Debug("batch flushed",
		slog.Duration("sort", stats.sortTime),
		slog.Duration("submit", stats.submitTime),
		slog.Duration("total", stats.sortTime+stats.submitTime),
		slog.Int("items", stats.itemCount),
		slog.Int("runs", stats.runCount),
		slog.Int("draw_calls", stats.drawCalls),
		slog.Int("capacity_quads", stats.capacity),
	)
	if stats.runCount != stats.drawCalls {
		b.logger.Warn("draw calls do not match texture runs",
			slog.Int("runs", stats.runCount),
			slog.Int("draw_calls", stats.drawCalls))
	}
}

// debugMaxRunRatio flags batches where texture changes break up most runs.
const debugMaxRunRatio = 0.5

// debugCheckFragmentation warns when more than half of the sorted items start
// a new texture run, which usually means sprites sharing a texture are spread
// across many depths.
func (b *Batch2D) debugCheckFragmentation(stats debugStats) {
	if stats.itemCount < 8 {
		return
	}
	if float64(stats.runCount)/float64(stats.itemCount) > debugMaxRunRatio {
		b.logger.Warn("batch is fragmented by texture changes",
			slog.Int("items", stats.itemCount),
			slog.Int("runs", stats.runCount))
	}
}

// countRuns counts contiguous groups of sorted items sharing a texture. This
// is the number of draw calls End will issue.
func countRuns(items []*batchItem) int {
	if len(items) == 0 {
		return 0
	}
	count := 1
	prev := items[0].texture
	for _, it := range items[1:] {
		if it.texture != prev {
			count++
			prev = it.texture
		}
	}
	return count
}
