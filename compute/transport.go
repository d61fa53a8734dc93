// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import "context"

// Transport connects a Channel to an isolated worker context.
//
// Implementations deliver the ready message first, then responses in any
// order. Messages is closed when the transport fails or is closed; Err then
// reports the cause (nil after a clean Close).
type Transport interface {
	// Send hands req to the worker. It must not retain req.Points.
	Send(ctx context.Context, req Request) error

	// Messages returns the stream of worker messages.
	Messages() <-chan Response

	// Err returns the failure that closed Messages, if any.
	Err() error

	// Close terminates the worker context.
	Close() error
}

// DialFunc creates a fresh Transport. A Channel calls it on first use and
// again after a transport failure.
type DialFunc func(ctx context.Context) (Transport, error)

// Local returns a DialFunc that starts an in-process worker pool.
func Local(opts ...Option) DialFunc {
	return func(context.Context) (Transport, error) {
		return NewLocalTransport(opts...), nil
	}
}

// WebSocket returns a DialFunc that connects to a remote worker served by
// NewHandler at url (ws:// or wss://).
func WebSocket(url string) DialFunc {
	return func(ctx context.Context) (Transport, error) {
		t, err := DialWebSocket(ctx, url)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}
