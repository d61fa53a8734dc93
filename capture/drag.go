// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"sync"
	"time"

	"github.com/gogpu/ink"
)

// Drag frame-rate limits.
const (
	DefaultDragFPS = 60
	MinDragFPS     = 15
	MaxDragFPS     = 120
)

// DragUpdate is the latest position of one dragged shape.
type DragUpdate struct {
	ID       string
	Position ink.Point
}

// DragStats is a snapshot of a DragBatcher.
type DragStats struct {
	Pending   int
	Scheduled bool
	TargetFPS int
	Batches   uint64
}

// DragBatcher coalesces drag moves so that position updates are applied at
// most once per frame. Within a batch the latest position per id wins.
// A batch arriving sooner than the target frame interval after the previous
// one is deferred to a later frame.
//
// DragBatcher is safe for concurrent use. The apply and redraw callbacks
// run on the scheduler's goroutine without internal locks held.
type DragBatcher struct {
	sched Scheduler
	now   func() time.Time
	apply func([]DragUpdate)

	mu        sync.Mutex
	redraw    func()
	pending   map[string]ink.Point
	order     []string
	scheduled bool
	gen       uint64
	targetFPS int
	interval  time.Duration
	last      time.Time
	batches   uint64
}

// DragOption configures a DragBatcher.
type DragOption func(*DragBatcher)

// WithDragScheduler sets the frame scheduler. The default is
// DefaultScheduler.
func WithDragScheduler(s Scheduler) DragOption {
	return func(b *DragBatcher) {
		if s != nil {
			b.sched = s
		}
	}
}

// WithDragClock replaces time.Now.
func WithDragClock(now func() time.Time) DragOption {
	return func(b *DragBatcher) {
		if now != nil {
			b.now = now
		}
	}
}

// WithTargetFPS sets the initial target frame rate.
func WithTargetFPS(fps int) DragOption {
	return func(b *DragBatcher) {
		b.setTargetFPS(fps)
	}
}

// NewDragBatcher returns a batcher handing each batch to apply, in the
// order the ids were first scheduled.
func NewDragBatcher(apply func([]DragUpdate), opts ...DragOption) *DragBatcher {
	b := &DragBatcher{
		now:     time.Now,
		apply:   apply,
		pending: make(map[string]ink.Point),
	}
	b.setTargetFPS(DefaultDragFPS)
	for _, opt := range opts {
		opt(b)
	}
	if b.sched == nil {
		b.sched = DefaultScheduler()
	}
	return b
}

// SetRedrawCallback sets the function called once after each applied batch.
func (b *DragBatcher) SetRedrawCallback(fn func()) {
	b.mu.Lock()
	b.redraw = fn
	b.mu.Unlock()
}

// Schedule records the latest position of id and requests a batch on the
// next frame if none is pending.
func (b *DragBatcher) Schedule(id string, pos ink.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.pending[id]; !ok {
		b.order = append(b.order, id)
	}
	b.pending[id] = pos
	if b.scheduled {
		return
	}
	b.scheduled = true
	gen := b.gen
	b.sched.Schedule(func() { b.process(gen) })
}

func (b *DragBatcher) process(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || !b.scheduled {
		// Cancelled after scheduling.
		b.mu.Unlock()
		return
	}
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.interval {
		b.sched.Schedule(func() { b.process(gen) })
		b.mu.Unlock()
		return
	}

	updates := make([]DragUpdate, 0, len(b.order))
	for _, id := range b.order {
		updates = append(updates, DragUpdate{ID: id, Position: b.pending[id]})
	}
	clear(b.pending)
	b.order = b.order[:0]
	b.scheduled = false
	b.last = now
	b.batches++
	redraw := b.redraw
	b.mu.Unlock()

	if b.apply != nil {
		b.apply(updates)
	}
	if redraw != nil {
		redraw()
	}
}

// Cancel drops pending updates and any batch already scheduled.
func (b *DragBatcher) Cancel() {
	b.mu.Lock()
	clear(b.pending)
	b.order = b.order[:0]
	b.scheduled = false
	b.gen++
	b.mu.Unlock()
}

// SetTargetFPS sets the batch rate, clamped to [MinDragFPS, MaxDragFPS].
func (b *DragBatcher) SetTargetFPS(fps int) {
	b.mu.Lock()
	b.setTargetFPS(fps)
	b.mu.Unlock()
}

func (b *DragBatcher) setTargetFPS(fps int) {
	b.targetFPS = min(max(fps, MinDragFPS), MaxDragFPS)
	b.interval = time.Second / time.Duration(b.targetFPS)
}

// TargetFPS returns the current batch rate.
func (b *DragBatcher) TargetFPS() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.targetFPS
}

// AdjustForComplexity lowers the batch rate for heavy scenes: 20 fps above
// 25 polygons or 100 average points, 30 fps above 15 polygons or 50
// average points, 60 fps otherwise. It returns the rate chosen.
func (b *DragBatcher) AdjustForComplexity(totalPolygons int, averagePoints float64) int {
	fps := DefaultDragFPS
	switch {
	case totalPolygons > 25 || averagePoints > 100:
		fps = 20
	case totalPolygons > 15 || averagePoints > 50:
		fps = 30
	}

	b.mu.Lock()
	changed := fps != b.targetFPS
	b.setTargetFPS(fps)
	b.mu.Unlock()

	if changed {
		ink.Logger().Debug("capture: drag rate adjusted", "fps", fps, "polygons", totalPolygons, "avgPoints", averagePoints)
	}
	return fps
}

// Stats returns the current batcher state.
func (b *DragBatcher) Stats() DragStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return DragStats{
		Pending:   len(b.pending),
		Scheduled: b.scheduled,
		TargetFPS: b.targetFPS,
		Batches:   b.batches,
	}
}
