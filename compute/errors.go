// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"errors"
	"fmt"
)

// Sentinel errors for the compute channel.
var (
	// ErrChannelTimeout is returned when the worker does not become ready
	// within the handshake timeout or a request gets no response within the
	// request timeout.
	ErrChannelTimeout = errors.New("compute: channel timeout")

	// ErrTransport is matched by every *TransportError.
	ErrTransport = errors.New("compute: transport failure")

	// ErrClosed is returned for requests issued on, or pending in, a closed channel.
	ErrClosed = errors.New("compute: channel closed")

	// ErrNotReady is returned when the transport delivers a response before
	// the ready message.
	ErrNotReady = errors.New("compute: worker not ready")
)

// ValidationError is a worker-side rejection of a request. It is
// recoverable: the channel stays usable.
type ValidationError struct {
	RequestID string
	Message   string
}

func (e *ValidationError) Error() string {
	if e.RequestID == "" {
		return "compute: " + e.Message
	}
	return fmt.Sprintf("compute: request %s: %s", e.RequestID, e.Message)
}

// TransportError reports that the isolated context failed. All requests
// pending at that moment are rejected with it.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ErrTransport.Error()
	}
	return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTransport) match any TransportError.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
