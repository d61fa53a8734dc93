// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"sync"
	"time"
)

// Scheduler defers callbacks to the next display refresh. Every callback
// scheduled before a refresh runs once during it.
type Scheduler interface {
	Schedule(fn func())
}

// DefaultFrameInterval is one refresh at 60 Hz.
const DefaultFrameInterval = time.Second / 60

// FrameScheduler runs scheduled callbacks on its own goroutine once per
// frame interval.
type FrameScheduler struct {
	mu    sync.Mutex
	queue []func()

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewFrameScheduler starts a scheduler ticking every interval.
// interval <= 0 selects DefaultFrameInterval.
func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	s := &FrameScheduler{done: make(chan struct{})}
	s.wg.Add(1)
	go s.loop(interval)
	return s
}

func (s *FrameScheduler) loop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.runQueued()
		}
	}
}

func (s *FrameScheduler) runQueued() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

// Schedule queues fn for the next tick. Callbacks scheduled after Close
// never run.
func (s *FrameScheduler) Schedule(fn func()) {
	select {
	case <-s.done:
		return
	default:
	}
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// Close stops the ticker goroutine.
func (s *FrameScheduler) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

var (
	defaultSchedulerOnce sync.Once
	defaultScheduler     *FrameScheduler
)

// DefaultScheduler returns the process-wide 60 Hz scheduler used by
// buffers created without WithScheduler. It is never closed.
func DefaultScheduler() Scheduler {
	defaultSchedulerOnce.Do(func() {
		defaultScheduler = NewFrameScheduler(DefaultFrameInterval)
	})
	return defaultScheduler
}

// ManualScheduler queues callbacks until Tick. It suits hosts that drive
// their own frame loop, and tests.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// Schedule queues fn until the next Tick.
func (s *ManualScheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// Tick runs the queued callbacks and returns how many ran. Callbacks
// scheduled while ticking run on the next Tick.
func (s *ManualScheduler) Tick() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
