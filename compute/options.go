// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"time"

	"github.com/gogpu/ink"
)

// Default timeouts of a Channel.
const (
	DefaultHandshakeTimeout = 5 * time.Second
	DefaultRequestTimeout   = 10 * time.Second
)

// options holds the settings shared by channels, transports and handlers.
// Each consumer reads the fields it needs.
type options struct {
	handshakeTimeout time.Duration
	requestTimeout   time.Duration
	preserveFactor   float64
	workers          int
	queueSize        int
}

func defaultOptions() options {
	return options{
		handshakeTimeout: DefaultHandshakeTimeout,
		requestTimeout:   DefaultRequestTimeout,
		preserveFactor:   ink.DefaultPreserveFactor,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Channel, a LocalTransport or a Handler.
type Option func(*options)

// WithHandshakeTimeout sets how long Init waits for the ready message.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.handshakeTimeout = d
		}
	}
}

// WithRequestTimeout sets how long Simplify waits for a response.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

// WithPreserveFactor sets the worker's shape preservation factor.
func WithPreserveFactor(f float64) Option {
	return func(o *options) {
		if f > 0 && f <= 1 {
			o.preserveFactor = f
		}
	}
}

// WithWorkers sets the number of worker goroutines. Zero selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithQueueSize sets the per-worker request queue capacity.
func WithQueueSize(n int) Option {
	return func(o *options) {
		o.queueSize = n
	}
}
