// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compute runs polygon simplification off the interactive path.
//
// A [Worker] executes simplify requests in an isolated context reached only
// through a [Transport]: either goroutines in the same process
// ([LocalTransport]) or a remote worker over WebSocket ([WebSocketTransport],
// served by [NewHandler]). Messages are copied values; nothing is shared.
//
// A [Channel] correlates requests and responses by id, performs the ready
// handshake, applies per-request timeouts and recovers from transport
// failures by re-initializing on the next call:
//
//	ch := compute.NewChannel(compute.Local())
//	defer ch.Close()
//
//	res, err := ch.Simplify(ctx, points, 2.0, true)
//	if err != nil {
//	    // fall back to ink.Simplify
//	}
//
// Workers can be discovered on the local network with [Advertise] and
// [Browse].
package compute
