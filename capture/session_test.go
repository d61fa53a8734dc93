// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/compute"
)

// countingSimplifier simplifies synchronously and counts calls.
type countingSimplifier struct {
	calls atomic.Int32
}

func (c *countingSimplifier) Simplify(_ context.Context, points []ink.Point, tolerance float64, preserve bool) (*compute.Result, error) {
	c.calls.Add(1)
	return &compute.Result{Points: ink.Simplify(points, tolerance, preserve), OriginalPoints: len(points)}, nil
}

// blockingSimplifier waits for release or ctx.
type blockingSimplifier struct {
	release chan struct{}
}

func (b blockingSimplifier) Simplify(ctx context.Context, points []ink.Point, _ float64, _ bool) (*compute.Result, error) {
	select {
	case <-b.release:
		return &compute.Result{Points: points[:2]}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newTestSession(t *testing.T, s Simplifier, opts ...SessionOption) (*Session, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	buf := NewBuffer(immediateConfig(BalancedConfig()), WithClock(clock.Now))
	sess := NewSession(buf, s, opts...)
	t.Cleanup(sess.Close)
	return sess, clock
}

func draw(s *Session, clock *fakeClock, n int) {
	for i := range n {
		clock.Advance(20 * time.Millisecond)
		s.AddPoint(float64(i*10), float64(i%2))
	}
}

func TestSession_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("channel", func(t *testing.T) {
		sess, clock := newTestSession(t, &countingSimplifier{})
		sess.Start()
		draw(sess, clock, 10)

		out := sess.Complete(ctx)
		if out.Source != SourceChannel || out.Err != nil {
			t.Fatalf("Complete() = %v, %v; want channel result", out.Source, out.Err)
		}
		if len(out.Points) != 2 {
			t.Errorf("len(Points) = %d, want 2", len(out.Points))
		}
		if st := sess.Status(); st.State != StateCompleted {
			t.Errorf("State = %v, want completed", st.State)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		sess, clock := newTestSession(t, stubSimplifier{err: &compute.TransportError{Err: errors.New("gone")}})
		sess.Start()
		draw(sess, clock, 10)

		out := sess.Complete(ctx)
		if out.Source != SourceFallback || !errors.Is(out.Err, compute.ErrTransport) {
			t.Fatalf("Complete() = %v, %v; want fallback with transport error", out.Source, out.Err)
		}
		if len(out.Points) != 2 {
			t.Errorf("len(Points) = %d, want 2", len(out.Points))
		}
	})

	t.Run("raw", func(t *testing.T) {
		sess, clock := newTestSession(t, &countingSimplifier{})
		sess.Start()
		draw(sess, clock, 2)

		out := sess.Complete(ctx)
		if out.Source != SourceRaw || len(out.Points) != 2 {
			t.Errorf("Complete() = %v with %d points, want raw with 2", out.Source, len(out.Points))
		}
	})

	t.Run("no simplifier", func(t *testing.T) {
		sess, clock := newTestSession(t, nil)
		sess.Start()
		draw(sess, clock, 10)

		out := sess.Complete(ctx)
		if out.Source != SourceFallback || out.Err != nil {
			t.Errorf("Complete() = %v, %v; want synchronous fallback without error", out.Source, out.Err)
		}
	})
}

func TestSession_CancelDiscardsInFlightResult(t *testing.T) {
	sess, clock := newTestSession(t, blockingSimplifier{release: make(chan struct{})})
	sess.Start()
	draw(sess, clock, 10)

	result := sess.CompleteAsync(context.Background())
	sess.Cancel()

	select {
	case out := <-result:
		if !errors.Is(out.Err, ErrCancelled) || out.Points != nil {
			t.Errorf("outcome = %+v, want ErrCancelled without points", out)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled completion never resolved")
	}
	if st := sess.Status(); st.State != StateCancelled || st.TotalPoints != 0 {
		t.Errorf("Status() = %+v, want cancelled and empty", st)
	}
}

func TestSession_CancelStopsEveryCompletion(t *testing.T) {
	sess, clock := newTestSession(t, blockingSimplifier{release: make(chan struct{})})

	var results []<-chan Outcome
	for range 2 {
		sess.Start()
		draw(sess, clock, 10)
		results = append(results, sess.CompleteAsync(context.Background()))
	}
	sess.Cancel()

	for i, result := range results {
		select {
		case out := <-result:
			if !errors.Is(out.Err, ErrCancelled) {
				t.Errorf("completion %d: Err = %v, want ErrCancelled", i, out.Err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("completion %d never resolved", i)
		}
	}
}

func TestSession_StartDoesNotCancelCompletion(t *testing.T) {
	release := make(chan struct{})
	sess, clock := newTestSession(t, blockingSimplifier{release: release})
	sess.Start()
	draw(sess, clock, 10)

	result := sess.CompleteAsync(context.Background())
	sess.Start()
	draw(sess, clock, 3)
	close(release)

	out := <-result
	if out.Source != SourceChannel || out.Err != nil {
		t.Errorf("outcome = %v, %v; want channel result", out.Source, out.Err)
	}
	if got := sess.Buffer().Len(); got != 3 {
		t.Errorf("new stroke has %d points, want 3", got)
	}
}

func TestSession_Precompute(t *testing.T) {
	cs := &countingSimplifier{}
	sess, clock := newTestSession(t, cs, WithPrecomputeThreshold(5))
	sess.Start()
	draw(sess, clock, 5)

	waitPrecomputed(t, sess, 5)
	out := sess.Complete(context.Background())
	if out.Source != SourceChannel {
		t.Errorf("Source = %v, want channel", out.Source)
	}
	if got := cs.calls.Load(); got != 1 {
		t.Errorf("simplifier calls = %d, want 1 (precomputed result reused)", got)
	}
}

func TestSession_PrecomputeStaleAfterNewPoint(t *testing.T) {
	cs := &countingSimplifier{}
	sess, clock := newTestSession(t, cs, WithPrecomputeThreshold(5))
	sess.Start()
	draw(sess, clock, 5)
	waitPrecomputed(t, sess, 5)

	clock.Advance(20 * time.Millisecond)
	sess.AddPoint(1000, 1000)

	out := sess.Complete(context.Background())
	if out.Source != SourceChannel {
		t.Errorf("Source = %v, want channel", out.Source)
	}
	if got := cs.calls.Load(); got != 2 {
		t.Errorf("simplifier calls = %d, want 2", got)
	}
	if last := out.Points[len(out.Points)-1]; last != ink.Pt(1000, 1000) {
		t.Errorf("last point = %v, want the point added after precompute", last)
	}
}

func waitPrecomputed(t *testing.T, s *Session, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		at := s.precomputedAt
		s.mu.Unlock()
		if at == n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("stroke was not precomputed at %d points", n)
}
