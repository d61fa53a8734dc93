// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/compute"
)

// State is the lifecycle state of a Buffer.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateCompleted
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Simplifier is the background simplification service. *compute.Channel
// implements it.
type Simplifier interface {
	Simplify(ctx context.Context, points []ink.Point, tolerance float64, preserveShape bool) (*compute.Result, error)
}

// BufferStatus is a snapshot of a Buffer.
type BufferStatus struct {
	State        State
	TotalPoints  int
	RenderPoints int
	Optimizing   bool
	// CompressionRatio is RenderPoints/TotalPoints in percent while
	// optimizing, 100 otherwise.
	CompressionRatio float64
}

// Buffer holds the points of one stroke.
//
// The full point list is authoritative and append-only while capturing.
// The render window is derived from it and may lag by one frame when
// BatchUpdates is set. Buffer is safe for concurrent use; scheduled
// recomputation runs on the scheduler's goroutine.
type Buffer struct {
	mu    sync.Mutex
	cfg   Config
	sched Scheduler
	now   func() time.Time

	state  State
	full   []ink.Point
	window []ink.Point

	last     ink.Point
	lastTime time.Time
	hasLast  bool

	optimizing bool

	// pending is set while a recomputation is scheduled; generation
	// invalidates recomputations scheduled for an earlier stroke.
	pending    bool
	generation uint64

	onRender func(window []ink.Point)
}

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithScheduler sets the scheduler for batched window updates.
func WithScheduler(s Scheduler) BufferOption {
	return func(b *Buffer) {
		if s != nil {
			b.sched = s
		}
	}
}

// WithClock replaces time.Now for admission timing.
func WithClock(now func() time.Time) BufferOption {
	return func(b *Buffer) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuffer returns an idle buffer.
func NewBuffer(cfg Config, opts ...BufferOption) *Buffer {
	b := &Buffer{
		cfg: cfg.normalized(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.sched == nil && b.cfg.BatchUpdates {
		b.sched = DefaultScheduler()
	}
	return b
}

// Config returns the buffer configuration.
func (b *Buffer) Config() Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// SetRenderCallback registers fn to receive the window after every batched
// recomputation. fn runs without the buffer lock held.
func (b *Buffer) SetRenderCallback(fn func(window []ink.Point)) {
	b.mu.Lock()
	b.onRender = fn
	b.mu.Unlock()
}

// Begin starts a new stroke, discarding any previous one.
func (b *Buffer) Begin() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear()
	b.full = make([]ink.Point, 0, b.cfg.BufferSize)
	b.state = StateCapturing
}

// Reset clears the buffer and returns it to idle. Recomputations still
// scheduled for the cleared stroke are ignored.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear()
	b.state = StateIdle
}

// Cancel clears the buffer like Reset and marks the stroke cancelled.
func (b *Buffer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear()
	b.state = StateCancelled
}

// End marks the stroke completed and returns a copy of its points.
// The points stay available through CompletePolygon until the next Begin
// or Reset.
func (b *Buffer) End() []ink.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateCapturing {
		b.state = StateCompleted
		b.generation++
		b.pending = false
	}
	return slices.Clone(b.full)
}

// Caller must hold b.mu.
func (b *Buffer) clear() {
	b.full = nil
	b.window = nil
	b.hasLast = false
	b.lastTime = time.Time{}
	b.optimizing = false
	b.pending = false
	b.generation++
}

// AddPoint offers a pointer sample. It reports whether the point was
// admitted and returns the current render window, which is one frame stale
// when updates are batched. Points are refused unless the buffer is
// capturing.
func (b *Buffer) AddPoint(x, y float64) ([]ink.Point, bool) {
	return b.add(ink.Pt(x, y), false)
}

// ForcePoint admits a point regardless of distance and time, for example
// the closing click of a polygon.
func (b *Buffer) ForcePoint(x, y float64) ([]ink.Point, bool) {
	return b.add(ink.Pt(x, y), true)
}

func (b *Buffer) add(p ink.Point, force bool) ([]ink.Point, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateCapturing {
		return slices.Clone(b.window), false
	}

	now := b.now()
	if !force && b.hasLast {
		near := p.Distance(b.last) < b.cfg.MinDistance
		recent := now.Sub(b.lastTime) < b.cfg.MinTimeInterval
		if near && recent {
			return slices.Clone(b.window), false
		}
	}

	b.full = append(b.full, p)
	b.last = p
	b.lastTime = now
	b.hasLast = true

	if n := len(b.full); !b.optimizing && n >= b.cfg.SimplificationThreshold {
		b.optimizing = true
		ink.Logger().Info("capture: buffer optimization activated", "points", n)
	}

	if !b.cfg.BatchUpdates {
		b.window = b.computeWindow()
		return slices.Clone(b.window), true
	}
	if !b.pending {
		b.pending = true
		gen := b.generation
		b.sched.Schedule(func() { b.flushScheduled(gen) })
	}
	return slices.Clone(b.window), true
}

func (b *Buffer) flushScheduled(gen uint64) {
	b.mu.Lock()
	if gen != b.generation || !b.pending {
		b.mu.Unlock()
		return
	}
	b.window = b.computeWindow()
	b.pending = false
	cb := b.onRender
	window := slices.Clone(b.window)
	b.mu.Unlock()

	ink.Logger().Debug("capture: window flushed", "render", len(window))
	if cb != nil {
		cb(window)
	}
}

// Flush performs a pending recomputation now and returns the window.
func (b *Buffer) Flush() []ink.Point {
	b.mu.Lock()
	if !b.pending {
		window := slices.Clone(b.window)
		b.mu.Unlock()
		return window
	}
	b.window = b.computeWindow()
	b.pending = false
	cb := b.onRender
	window := slices.Clone(b.window)
	b.mu.Unlock()

	if cb != nil {
		cb(slices.Clone(window))
	}
	return window
}

// Window returns the current render window.
func (b *Buffer) Window() []ink.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.window)
}

// computeWindow derives the render window from the full list: the leading
// context points, every RenderSkipInterval-th recent point and the last
// point. Caller must hold b.mu.
func (b *Buffer) computeWindow() []ink.Point {
	n := len(b.full)
	if n <= b.cfg.MaxVisiblePoints {
		return slices.Clone(b.full)
	}

	head := min(b.cfg.ContextPoints, n)
	start := max(head, n-b.cfg.MaxVisiblePoints)
	skip := b.cfg.RenderSkipInterval

	window := make([]ink.Point, 0, head+(n-start)/skip+2)
	window = append(window, b.full[:head]...)
	for i := start; i < n-1; i += skip {
		window = append(window, b.full[i])
	}
	if head < n {
		window = append(window, b.full[n-1])
	}
	return window
}

// Len returns the number of admitted points.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.full)
}

// State returns the lifecycle state.
func (b *Buffer) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// CompletePolygon returns a copy of every admitted point.
func (b *Buffer) CompletePolygon() []ink.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.full)
}

// OptimizedCompletePolygon simplifies the stroke synchronously.
func (b *Buffer) OptimizedCompletePolygon(tolerance float64) []ink.Point {
	return simplifySync(b.CompletePolygon(), tolerance)
}

// OptimizedCompletePolygonAsync simplifies the stroke through s and falls
// back to the synchronous simplifier on any failure. The returned points
// are always usable; a non-nil error reports why the fallback was taken.
func (b *Buffer) OptimizedCompletePolygonAsync(ctx context.Context, s Simplifier, tolerance float64, preserveShape bool) ([]ink.Point, error) {
	return simplifyWithFallback(ctx, s, b.CompletePolygon(), tolerance, preserveShape)
}

func simplifySync(points []ink.Point, tolerance float64) []ink.Point {
	if len(points) < 3 {
		return points
	}
	return ink.Simplify(points, tolerance, false)
}

func simplifyWithFallback(ctx context.Context, s Simplifier, points []ink.Point, tolerance float64, preserveShape bool) ([]ink.Point, error) {
	if len(points) < 3 || s == nil {
		return simplifySync(points, tolerance), nil
	}
	res, err := s.Simplify(ctx, points, tolerance, preserveShape)
	if err != nil {
		ink.Logger().Warn("capture: background simplification failed, falling back to synchronous",
			"points", len(points), "err", err)
		return simplifySync(points, tolerance), err
	}
	return res.Points, nil
}

// Status returns a snapshot of the buffer.
func (b *Buffer) Status() BufferStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := BufferStatus{
		State:            b.state,
		TotalPoints:      len(b.full),
		RenderPoints:     len(b.window),
		Optimizing:       b.optimizing,
		CompressionRatio: 100,
	}
	if b.optimizing && len(b.full) > 0 {
		st.CompressionRatio = float64(len(b.window)) / float64(len(b.full)) * 100
	}
	return st
}
