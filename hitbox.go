// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// HitboxPolygon pairs the polygon drawn on screen with the (possibly
// coarser) polygon used for pointer hit testing.
//
// Both fields are private copies taken at build time and must be treated
// as read-only.
type HitboxPolygon struct {
	Visual       []Point
	Hitbox       []Point
	IsSimplified bool
}

// Contains reports whether p lies inside the hit region.
// Regions with fewer than 3 points contain nothing.
func (h HitboxPolygon) Contains(p Point) bool {
	if len(h.Hitbox) < 3 {
		return false
	}
	return planar.RingContains(ring(h.Hitbox), p.ToOrb())
}

// Bound returns the bounding box of the hit region.
func (h HitboxPolygon) Bound() orb.Bound {
	if len(h.Hitbox) == 0 {
		return orb.Bound{}
	}
	return ring(h.Hitbox).Bound()
}

// HitboxBuilder derives two-tier polygons. The thresholds are empirical
// and exposed for tuning.
type HitboxBuilder struct {
	// PointThreshold activates the cheap tier for polygons with more points.
	PointThreshold int
	// AnnotationThreshold activates the cheap tier once the scene holds at
	// least this many annotations.
	AnnotationThreshold int
	// Policy supplies the hit tolerance when none is given.
	Policy TolerancePolicy
}

// NewHitboxBuilder returns a builder with the stock thresholds (20 points, 8 annotations).
func NewHitboxBuilder() *HitboxBuilder {
	return &HitboxBuilder{
		PointThreshold:      20,
		AnnotationThreshold: 8,
		Policy:              DefaultTolerancePolicy(),
	}
}

// Active reports whether a polygon of pointCount points in a scene of
// totalAnnotations needs a simplified hit region.
func (b *HitboxBuilder) Active(pointCount, totalAnnotations int) bool {
	return pointCount > b.PointThreshold || totalAnnotations >= b.AnnotationThreshold
}

// BuildTwoTier builds the visual and hit representations of points.
// A non-positive tolerance selects the policy's hit tolerance at zoom 1.
func (b *HitboxBuilder) BuildTwoTier(points []Point, totalAnnotations int, tolerance float64) HitboxPolygon {
	if tolerance <= 0 {
		tolerance = b.Policy.HitTolerance(len(points), 1)
	}
	return b.build(points, totalAnnotations, tolerance)
}

// BuildTwoTierAtZoom is BuildTwoTier with the hit tolerance derived from
// the policy at the given zoom level.
func (b *HitboxBuilder) BuildTwoTierAtZoom(points []Point, totalAnnotations int, zoom float64) HitboxPolygon {
	return b.build(points, totalAnnotations, b.Policy.HitTolerance(len(points), zoom))
}

func (b *HitboxBuilder) build(points []Point, totalAnnotations int, tolerance float64) HitboxPolygon {
	visual := slices.Clone(points)
	if !b.Active(len(points), totalAnnotations) {
		return HitboxPolygon{Visual: visual, Hitbox: visual}
	}
	return HitboxPolygon{
		Visual:       visual,
		Hitbox:       slices.Clone(Simplify(visual, tolerance, false)),
		IsSimplified: true,
	}
}
