// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"slices"
	"sync"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/parallel"
)

// LocalTransport runs a Worker on a goroutine pool inside the process.
// Requests are copied on Send, so the pool never shares memory with the
// caller.
type LocalTransport struct {
	worker *Worker
	pool   *parallel.Pool

	in   chan Request
	out  chan Response
	done chan struct{}

	dispatcher sync.WaitGroup
	closeOnce  sync.Once
}

// NewLocalTransport starts the pool and queues the ready message.
func NewLocalTransport(opts ...Option) *LocalTransport {
	o := buildOptions(opts)
	pool := parallel.NewPool(o.workers, o.queueSize)

	depth := pool.Workers() * 4
	if o.queueSize > 0 {
		depth = o.queueSize
	}

	t := &LocalTransport{
		worker: NewWorker(o.preserveFactor),
		pool:   pool,
		in:     make(chan Request, depth),
		out:    make(chan Response, depth+1),
		done:   make(chan struct{}),
	}
	t.out <- readyResponse(msgReady)

	t.dispatcher.Add(1)
	go t.dispatch()

	ink.Logger().Info("compute: local worker ready", "workers", pool.Workers())
	return t
}

func (t *LocalTransport) dispatch() {
	defer t.dispatcher.Done()
	for {
		select {
		case <-t.done:
			return
		case req := <-t.in:
			t.pool.Submit(func() {
				resp := t.worker.Handle(req)
				select {
				case t.out <- resp:
				case <-t.done:
				}
			})
		}
	}
}

// Send queues req. It blocks while the queue is full.
func (t *LocalTransport) Send(ctx context.Context, req Request) error {
	req.Points = slices.Clone(req.Points)
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	select {
	case t.in <- req:
		return nil
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Messages returns the response stream.
func (t *LocalTransport) Messages() <-chan Response {
	return t.out
}

// Err always returns nil: a local worker only stops when closed.
func (t *LocalTransport) Err() error {
	return nil
}

// Close stops the pool. Responses not yet delivered are dropped.
func (t *LocalTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
		t.dispatcher.Wait()
		t.pool.Close()
		close(t.out)
	})
	return nil
}
