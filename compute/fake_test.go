// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeTransport lets tests control what the worker side sends.
type fakeTransport struct {
	out    chan Response
	sent   chan Request
	closed chan struct{}

	mu  sync.Mutex
	err error

	stopOnce  sync.Once
	closeOnce sync.Once
}

func newFakeTransport(ready bool) *fakeTransport {
	ft := &fakeTransport{
		out:    make(chan Response, 16),
		sent:   make(chan Request, 16),
		closed: make(chan struct{}),
	}
	if ready {
		ft.out <- readyResponse("fake worker ready")
	}
	return ft
}

func (ft *fakeTransport) Send(ctx context.Context, req Request) error {
	select {
	case <-ft.closed:
		return ErrClosed
	default:
	}
	select {
	case ft.sent <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ft *fakeTransport) Messages() <-chan Response { return ft.out }

func (ft *fakeTransport) Err() error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.err
}

func (ft *fakeTransport) stop() {
	ft.stopOnce.Do(func() { close(ft.out) })
}

// fail simulates a crash of the worker context.
func (ft *fakeTransport) fail(err error) {
	ft.mu.Lock()
	ft.err = err
	ft.mu.Unlock()
	ft.stop()
}

func (ft *fakeTransport) Close() error {
	ft.closeOnce.Do(func() { close(ft.closed) })
	ft.stop()
	return nil
}

// serve answers every request with w until the transport is closed.
func (ft *fakeTransport) serve(w *Worker) {
	go func() {
		for {
			select {
			case req := <-ft.sent:
				select {
				case ft.out <- w.Handle(req):
				case <-ft.closed:
					return
				}
			case <-ft.closed:
				return
			}
		}
	}()
}

func dialFake(ft *fakeTransport) DialFunc {
	return func(context.Context) (Transport, error) { return ft, nil }
}

func waitSent(t *testing.T, ft *fakeTransport) Request {
	t.Helper()
	select {
	case req := <-ft.sent:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("no request was sent")
		return Request{}
	}
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
