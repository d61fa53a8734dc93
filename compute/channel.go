// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/ink"
)

// Result is a successful simplification.
type Result struct {
	ID     string
	Points []ink.Point

	// OriginalPoints is the number of points sent.
	OriginalPoints int

	// ProcessingTime is the time the worker spent simplifying.
	ProcessingTime time.Duration

	// RoundTrip is the time from send to response.
	RoundTrip time.Duration

	// CompressionRatio is len(Points)/OriginalPoints in percent.
	CompressionRatio float64
}

// Status is a snapshot of the channel state.
type Status struct {
	Initialized bool
	Ready       bool
	Pending     int
	Orphaned    uint64
	Completed   uint64
	Failed      uint64
}

type outcome struct {
	resp Response
	err  error
}

type pendingRequest struct {
	// result is buffered so the delivering goroutine never blocks.
	result chan outcome
	start  time.Time
}

// Channel is a request/response client for a worker behind a Transport.
//
// Each request is registered in a correlation map under a unique id before
// it is sent, and removed exactly once: by its response, by its timeout or
// cancellation, or by a transport failure. Responses whose id is no longer
// registered are orphans and are dropped.
//
// A Channel is safe for concurrent use and may be shared by any number of
// capture sessions.
type Channel struct {
	dial DialFunc
	opts options

	// initMu serializes Init so that only one transport is dialled at a time.
	initMu sync.Mutex

	mu        sync.Mutex
	transport Transport
	pending   map[string]*pendingRequest
	closed    bool

	seq       atomic.Uint64
	orphaned  atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
}

// NewChannel returns an uninitialized channel. The transport is dialled by
// Init or lazily by the first Simplify.
func NewChannel(dial DialFunc, opts ...Option) *Channel {
	return &Channel{
		dial:    dial,
		opts:    buildOptions(opts),
		pending: make(map[string]*pendingRequest),
	}
}

// Init dials the transport and waits for the worker's ready message.
// It is a no-op on a ready channel.
func (c *Channel) Init(ctx context.Context) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	c.mu.Lock()
	closed, ready := c.closed, c.transport != nil
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if ready {
		return nil
	}

	t, err := c.dial(ctx)
	if err != nil {
		var te *TransportError
		if !errors.As(err, &te) {
			err = &TransportError{Err: err}
		}
		return err
	}

	if err := c.handshake(ctx, t); err != nil {
		_ = t.Close()
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = t.Close()
		return ErrClosed
	}
	c.transport = t
	c.mu.Unlock()

	go c.readLoop(t)
	return nil
}

func (c *Channel) handshake(ctx context.Context, t Transport) error {
	timer := time.NewTimer(c.opts.handshakeTimeout)
	defer timer.Stop()

	for {
		select {
		case msg, ok := <-t.Messages():
			if !ok {
				return &TransportError{Err: t.Err()}
			}
			if msg.Type == TypeReady {
				ink.Logger().Info("compute: worker ready", "message", msg.Message)
				return nil
			}
			if msg.ID != "" {
				return ErrNotReady
			}
		case <-timer.C:
			return fmt.Errorf("%w: no ready message within %v", ErrChannelTimeout, c.opts.handshakeTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Channel) readLoop(t Transport) {
	for msg := range t.Messages() {
		c.deliver(msg)
	}

	c.mu.Lock()
	if c.transport != t {
		// Replaced or closed by Close, which already rejected pending requests.
		c.mu.Unlock()
		return
	}
	c.transport = nil
	pending := c.pending
	c.pending = make(map[string]*pendingRequest)
	c.mu.Unlock()

	cause := t.Err()
	_ = t.Close()
	err := &TransportError{Err: cause}
	if len(pending) > 0 || (cause != nil && !IsClosedTransport(cause)) {
		ink.Logger().Warn("compute: transport failed", "err", cause, "rejected", len(pending))
	}
	for _, p := range pending {
		p.result <- outcome{err: err}
	}
	c.failed.Add(uint64(len(pending)))
}

func (c *Channel) deliver(msg Response) {
	if msg.Type == TypeReady {
		return
	}
	if msg.ID == "" {
		ink.Logger().Debug("compute: message without id", "type", msg.Type, "message", msg.Message)
		return
	}

	c.mu.Lock()
	p, ok := c.pending[msg.ID]
	if ok {
		delete(c.pending, msg.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.orphaned.Add(1)
		ink.Logger().Debug("compute: orphaned response", "id", msg.ID, "type", msg.Type)
		return
	}
	p.result <- outcome{resp: msg}
}

// Simplify sends points to the worker and waits for the result, the request
// timeout or ctx. The channel is initialized on first use and re-initialized
// after a transport failure.
//
// Errors: *ValidationError when the worker rejects the request,
// ErrChannelTimeout, *TransportError, ErrClosed, or ctx.Err().
func (c *Channel) Simplify(ctx context.Context, points []ink.Point, tolerance float64, preserveShape bool) (*Result, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	id := c.nextID()
	p := &pendingRequest{result: make(chan outcome, 1), start: time.Now()}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	t := c.transport
	if t == nil {
		// Failed between Init and registration; the next call redials.
		c.mu.Unlock()
		return nil, &TransportError{Err: ErrNotReady}
	}
	c.pending[id] = p
	c.mu.Unlock()

	req := Request{
		ID:            id,
		Type:          TypeSimplify,
		Points:        ink.Flatten(points),
		Tolerance:     tolerance,
		PreserveShape: preserveShape,
	}
	if err := t.Send(ctx, req); err != nil {
		c.remove(id)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var te *TransportError
		if !errors.Is(err, ErrClosed) && !errors.As(err, &te) {
			err = &TransportError{Err: err}
		}
		c.failed.Add(1)
		return nil, err
	}

	timer := time.NewTimer(c.opts.requestTimeout)
	defer timer.Stop()

	select {
	case o := <-p.result:
		return c.finish(id, p, o)
	case <-timer.C:
		if !c.remove(id) {
			// The response won the race with the timer.
			return c.finish(id, p, <-p.result)
		}
		c.failed.Add(1)
		ink.Logger().Debug("compute: request timed out", "id", id, "timeout", c.opts.requestTimeout)
		return nil, fmt.Errorf("%w: request %s", ErrChannelTimeout, id)
	case <-ctx.Done():
		if !c.remove(id) {
			return c.finish(id, p, <-p.result)
		}
		return nil, ctx.Err()
	}
}

func (c *Channel) finish(id string, p *pendingRequest, o outcome) (*Result, error) {
	if o.err != nil {
		return nil, o.err
	}
	switch o.resp.Type {
	case TypeSimplified:
		c.completed.Add(1)
		res := &Result{
			ID:               id,
			Points:           ink.Unflatten(o.resp.SimplifiedPoints),
			OriginalPoints:   o.resp.OriginalPoints,
			ProcessingTime:   time.Duration(o.resp.ProcessingTime * float64(time.Millisecond)),
			RoundTrip:        time.Since(p.start),
			CompressionRatio: o.resp.CompressionRatio,
		}
		ink.Logger().Debug("compute: polygon simplified",
			"id", id,
			"original", res.OriginalPoints,
			"simplified", len(res.Points),
			"roundTrip", res.RoundTrip)
		return res, nil
	case TypeError:
		c.failed.Add(1)
		return nil, &ValidationError{RequestID: id, Message: o.resp.Message}
	default:
		c.failed.Add(1)
		return nil, fmt.Errorf("compute: unexpected response type %q for request %s", o.resp.Type, id)
	}
}

// remove deletes the pending entry and reports whether it was still present.
func (c *Channel) remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[id]; !ok {
		return false
	}
	delete(c.pending, id)
	return true
}

// Close terminates the transport and rejects pending requests with
// ErrClosed. Subsequent calls return ErrClosed.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	t := c.transport
	c.transport = nil
	pending := c.pending
	c.pending = make(map[string]*pendingRequest)
	c.mu.Unlock()

	for _, p := range pending {
		p.result <- outcome{err: ErrClosed}
	}
	if t == nil {
		return nil
	}
	ink.Logger().Debug("compute: channel closed", "rejected", len(pending))
	return t.Close()
}

// Status returns a snapshot of the channel state.
func (c *Channel) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Initialized: c.transport != nil,
		Ready:       c.transport != nil && !c.closed,
		Pending:     len(c.pending),
		Orphaned:    c.orphaned.Load(),
		Completed:   c.completed.Load(),
		Failed:      c.failed.Load(),
	}
}
