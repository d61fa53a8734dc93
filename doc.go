// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ink captures, simplifies and budgets interactive point-based
// drawings.
//
// # Overview
//
// ink sits between pointer input and a 2D renderer. It keeps polygon and
// freehand strokes responsive while they are drawn, reduces their point
// counts once they are complete, and degrades presentation quality as the
// scene grows so that interaction stays smooth.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ink"
//	    "github.com/gogpu/ink/capture"
//	    "github.com/gogpu/ink/compute"
//	)
//
//	ch := compute.NewChannel(compute.Local())
//	defer ch.Close()
//
//	sess := capture.NewSession(capture.NewBuffer(capture.BalancedConfig()), ch)
//	sess.Start()
//	for _, p := range samples {
//	    window := sess.AddPoint(p.X, p.Y) // draw this while capturing
//	    _ = window
//	}
//	out := sess.Complete(ctx) // out.Points is the final stroke
//
// # Architecture
//
// The module is organized into:
//   - ink: Point, Simplify, TolerancePolicy, HitboxBuilder, BudgetController
//   - capture: sliding capture Buffer, frame Scheduler, Session
//   - compute: background simplification Channel, Worker and transports
//
// # Geometry
//
// Simplification is Douglas-Peucker over segment distances. The first and
// last point of a stroke are always kept, the output is never longer than
// the input, and simplifying a simplified stroke with the same tolerance
// changes nothing.
//
// # Coordinate System
//
// Points are in canvas units. Zoom is a scale factor where 1 is unscaled,
// values below 1 zoom out and values above 1 zoom in.
package ink

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
