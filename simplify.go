// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"github.com/paulmach/orb/planar"
)

// DefaultPreserveFactor scales the tolerance when shape preservation is
// requested. It is empirical; use Simplifier to tune it.
const DefaultPreserveFactor = 0.7

// Simplifier reduces polylines with the Douglas-Peucker algorithm.
//
// The zero value uses DefaultPreserveFactor. Simplifier holds no mutable
// state and is safe for concurrent use.
type Simplifier struct {
	// PreserveFactor multiplies the tolerance when preserveShape is set.
	// Values <= 0 select DefaultPreserveFactor.
	PreserveFactor float64
}

var defaultSimplifier Simplifier

// Simplify reduces points using the package default Simplifier.
//
// Sequences with fewer than 3 points are returned unchanged. Otherwise the
// first and last point are always kept, the result is never longer than the
// input, and identical inputs produce identical outputs.
//
// Distances are measured to the segment between the current endpoints, so
// a point lying beyond either end is measured to the nearest endpoint.
func Simplify(points []Point, tolerance float64, preserveShape bool) []Point {
	return defaultSimplifier.Simplify(points, tolerance, preserveShape)
}

// EffectiveTolerance returns the tolerance actually compared against
// segment distances.
func (s Simplifier) EffectiveTolerance(tolerance float64, preserveShape bool) float64 {
	if !preserveShape {
		return tolerance
	}
	f := s.PreserveFactor
	if f <= 0 {
		f = DefaultPreserveFactor
	}
	return tolerance * f
}

// Simplify reduces points so that every removed point lies within the
// effective tolerance of the kept polyline.
func (s Simplifier) Simplify(points []Point, tolerance float64, preserveShape bool) []Point {
	if len(points) < 3 {
		return points
	}
	keep := s.SimplifyIndices(points, tolerance, preserveShape)
	out := make([]Point, len(keep))
	for i, idx := range keep {
		out[i] = points[idx]
	}
	return out
}

// SimplifyIndices returns the ascending indices of the points Simplify keeps.
func (s Simplifier) SimplifyIndices(points []Point, tolerance float64, preserveShape bool) []int {
	n := len(points)
	if n < 3 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	eps := s.EffectiveTolerance(tolerance, preserveShape)
	eps2 := eps * eps
	if eps < 0 {
		// A negative tolerance keeps every point that deviates at all.
		eps2 = -1
	}

	mask := make([]bool, n)
	mask[0] = true
	mask[n-1] = true
	found := 2

	// Explicit stack of [start, end] ranges. Splitting at the first point of
	// maximum distance matches the recursive definition exactly.
	stack := make([]int, 0, 64)
	stack = append(stack, 0, n-1)
	for len(stack) > 0 {
		l := len(stack)
		start, end := stack[l-2], stack[l-1]
		stack = stack[:l-2]

		a, b := points[start].ToOrb(), points[end].ToOrb()
		maxDist := 0.0
		maxIndex := 0
		for i := start + 1; i < end; i++ {
			d := planar.DistanceFromSegmentSquared(a, b, points[i].ToOrb())
			if d > maxDist {
				maxDist = d
				maxIndex = i
			}
		}

		if maxIndex > 0 && maxDist > eps2 {
			mask[maxIndex] = true
			found++
			stack = append(stack, start, maxIndex, maxIndex, end)
		}
	}

	out := make([]int, 0, found)
	for i, k := range mask {
		if k {
			out = append(out, i)
		}
	}
	return out
}

// DistanceToSegment returns the distance from p to the segment [a, b].
// For a degenerate segment (a == b) it is the distance from p to a.
func DistanceToSegment(p, a, b Point) float64 {
	return planar.DistanceFromSegment(a.ToOrb(), b.ToOrb(), p.ToOrb())
}
