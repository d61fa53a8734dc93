// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/ink"
)

// ErrCancelled is reported by a completion whose stroke was cancelled
// before the result arrived.
var ErrCancelled = errors.New("capture: stroke cancelled")

// Session defaults.
const (
	DefaultTolerance           = 2.0
	DefaultPrecomputeThreshold = 250
)

// Source tells where the points of an Outcome came from.
type Source int

const (
	// SourceRaw means the stroke was too short to simplify.
	SourceRaw Source = iota
	// SourceChannel means the background simplifier produced the points.
	SourceChannel
	// SourceFallback means the synchronous simplifier produced the points.
	SourceFallback
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceRaw:
		return "raw"
	case SourceChannel:
		return "channel"
	case SourceFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Outcome is the result of completing a stroke.
type Outcome struct {
	Points []ink.Point
	Source Source
	// Err is the background failure that caused a fallback, or
	// ErrCancelled. Points are valid whenever Err is not ErrCancelled.
	Err error
}

// Session is the presentation layer's entry point for capturing strokes.
type Session struct {
	buf        *Buffer
	simplifier Simplifier

	tolerance           float64
	preserveShape       bool
	precomputeThreshold int

	mu     sync.Mutex
	stroke context.Context
	cancel context.CancelFunc
	// completing holds the cancel funcs of completions in flight, keyed by
	// completion number. Start leaves them running; Cancel stops them all.
	completing     map[uint64]context.CancelFunc
	nextCompletion uint64
	// precomputed is the background result for the first precomputedAt
	// points of the current stroke.
	precomputed    []ink.Point
	precomputedAt  int
	nextPrecompute int

	wg sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionTolerance sets the completion tolerance.
func WithSessionTolerance(tolerance float64) SessionOption {
	return func(s *Session) {
		if tolerance > 0 {
			s.tolerance = tolerance
		}
	}
}

// WithPreserveShape sets whether the background simplifier tightens the
// tolerance to preserve shape.
func WithPreserveShape(preserve bool) SessionOption {
	return func(s *Session) {
		s.preserveShape = preserve
	}
}

// WithPrecomputeThreshold sets the point interval at which the stroke is
// simplified in the background while capturing. Zero disables it.
func WithPrecomputeThreshold(n int) SessionOption {
	return func(s *Session) {
		if n >= 0 {
			s.precomputeThreshold = n
		}
	}
}

// NewSession returns a session capturing into buf. simplifier may be nil,
// in which case strokes are simplified synchronously.
func NewSession(buf *Buffer, simplifier Simplifier, opts ...SessionOption) *Session {
	s := &Session{
		buf:                 buf,
		simplifier:          simplifier,
		tolerance:           DefaultTolerance,
		preserveShape:       true,
		precomputeThreshold: DefaultPrecomputeThreshold,
		completing:          make(map[uint64]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Buffer returns the session's buffer.
func (s *Session) Buffer() *Buffer {
	return s.buf
}

// Start begins a new stroke. An unfinished previous stroke is cancelled.
func (s *Session) Start() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.stroke, s.cancel = context.WithCancel(context.Background())
	s.precomputed = nil
	s.precomputedAt = 0
	s.nextPrecompute = s.precomputeThreshold
	s.mu.Unlock()

	s.buf.Begin()
}

// AddPoint offers a pointer sample and returns the current render window.
func (s *Session) AddPoint(x, y float64) []ink.Point {
	window, admitted := s.buf.AddPoint(x, y)
	if admitted {
		s.maybePrecompute()
	}
	return window
}

// ForcePoint admits a point unconditionally and returns the render window.
func (s *Session) ForcePoint(x, y float64) []ink.Point {
	window, admitted := s.buf.ForcePoint(x, y)
	if admitted {
		s.maybePrecompute()
	}
	return window
}

func (s *Session) maybePrecompute() {
	if s.simplifier == nil || s.precomputeThreshold <= 0 {
		return
	}
	n := s.buf.Len()

	s.mu.Lock()
	if s.stroke == nil || n < s.nextPrecompute {
		s.mu.Unlock()
		return
	}
	for s.nextPrecompute <= n {
		s.nextPrecompute += s.precomputeThreshold
	}
	stroke := s.stroke
	s.mu.Unlock()

	points := s.buf.CompletePolygon()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res, err := s.simplifier.Simplify(stroke, points, s.tolerance, s.preserveShape)
		if err != nil {
			ink.Logger().Debug("capture: precompute failed", "points", len(points), "err", err)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stroke != stroke || stroke.Err() != nil || len(points) < s.precomputedAt {
			return
		}
		s.precomputed = res.Points
		s.precomputedAt = len(points)
	}()
}

// Complete finishes the stroke and blocks until the final points are
// available. Use CompleteAsync from an interactive goroutine.
func (s *Session) Complete(ctx context.Context) Outcome {
	return <-s.CompleteAsync(ctx)
}

// CompleteAsync finishes the stroke and delivers the outcome on the
// returned channel. The stroke is snapshotted before CompleteAsync returns,
// so a new stroke may be started immediately.
func (s *Session) CompleteAsync(ctx context.Context) <-chan Outcome {
	out := make(chan Outcome, 1)
	points := s.buf.End()

	s.mu.Lock()
	stroke, strokeCancel := s.stroke, s.cancel
	s.stroke, s.cancel = nil, nil
	var precomputed []ink.Point
	if s.precomputed != nil && s.precomputedAt == len(points) {
		precomputed = s.precomputed
	}
	s.precomputed = nil
	s.precomputedAt = 0
	if stroke == nil {
		stroke, strokeCancel = context.WithCancel(context.Background())
	}
	s.nextCompletion++
	id := s.nextCompletion
	s.completing[id] = strokeCancel
	s.mu.Unlock()

	done := func() {
		strokeCancel()
		s.mu.Lock()
		delete(s.completing, id)
		s.mu.Unlock()
	}

	switch {
	case len(points) < 3:
		done()
		out <- Outcome{Points: points, Source: SourceRaw}
		return out
	case precomputed != nil:
		done()
		ink.Logger().Debug("capture: reusing precomputed stroke", "points", len(points))
		out <- Outcome{Points: precomputed, Source: SourceChannel}
		return out
	case s.simplifier == nil:
		done()
		out <- Outcome{Points: simplifySync(points, s.tolerance), Source: SourceFallback}
		return out
	}

	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(stroke, cancel)

	go func() {
		defer cancel()
		defer stop()

		simplified, err := simplifyWithFallback(reqCtx, s.simplifier, points, s.tolerance, s.preserveShape)
		cancelled := stroke.Err() != nil
		done()
		if cancelled {
			// The late result belongs to a cancelled stroke.
			out <- Outcome{Source: SourceRaw, Err: ErrCancelled}
			return
		}
		if err != nil {
			out <- Outcome{Points: simplified, Source: SourceFallback, Err: err}
			return
		}
		out <- Outcome{Points: simplified, Source: SourceChannel}
	}()
	return out
}

// Cancel abandons the current stroke and every completion in flight. Their
// background work is cancelled and late results are discarded.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancelCompletions()
	s.precomputed = nil
	s.precomputedAt = 0
	s.mu.Unlock()

	s.buf.Cancel()
}

// Caller must hold s.mu.
func (s *Session) cancelCompletions() {
	for id, cancel := range s.completing {
		cancel()
		delete(s.completing, id)
	}
}

// Close cancels the current stroke and waits for background precomputation
// to stop.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancelCompletions()
	s.mu.Unlock()
	s.wg.Wait()
}

// Status returns the buffer status.
func (s *Session) Status() BufferStatus {
	return s.buf.Status()
}
