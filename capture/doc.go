// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture ingests pointer samples for one stroke at a time.
//
// A [Buffer] keeps the authoritative list of admitted points and a bounded
// render window derived from it. Window recomputation is coalesced to at
// most once per display refresh through a [Scheduler]. A [Session] drives a
// Buffer for the presentation layer and produces the final simplified
// stroke, preferring a background simplifier and falling back to the
// synchronous one on any failure.
//
// A [DragBatcher] applies the same once-per-frame coalescing to shapes
// being dragged.
package capture
