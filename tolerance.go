// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import "math"

// Display base epsilons used by the presentation layer.
const (
	PolygonDisplayEpsilon  = 1.0
	FreehandDisplayEpsilon = 2.0
)

// TolerancePolicy maps zoom level and point density to simplification
// tolerances. The display scale protects shape fidelity and the hit scale
// protects interaction cost; the two never share a value.
type TolerancePolicy struct {
	// DisplayMinZoom clamps the zoom divisor of the display epsilon.
	DisplayMinZoom float64
	// DisplayMinPoints is the point count above which display simplification applies.
	DisplayMinPoints int
	// DisplayMaxZoom is the zoom level below which display simplification applies.
	DisplayMaxZoom float64

	// HitBase, HitMedium and HitHigh are the hit tolerances for ordinary,
	// dense (> HitMediumPoints) and very dense (> HitHighPoints) polygons.
	HitBase         float64
	HitMedium       float64
	HitHigh         float64
	HitMediumPoints int
	HitHighPoints   int
	// HitMinZoom clamps the zoom divisor of the hit tolerance.
	HitMinZoom float64
	// HitFloor is the smallest hit tolerance ever returned.
	HitFloor float64
}

// DefaultTolerancePolicy returns the stock thresholds.
func DefaultTolerancePolicy() TolerancePolicy {
	return TolerancePolicy{
		DisplayMinZoom:   0.1,
		DisplayMinPoints: 5,
		DisplayMaxZoom:   1.2,
		HitBase:          5.0,
		HitMedium:        8.0,
		HitHigh:          12.0,
		HitMediumPoints:  50,
		HitHighPoints:    100,
		HitMinZoom:       0.3,
		HitFloor:         2.0,
	}
}

// DisplayEpsilon returns base scaled inversely with zoom: aggressive when
// zoomed out, near identity when zoomed in.
func (tp TolerancePolicy) DisplayEpsilon(base, zoom float64) float64 {
	return base / math.Max(zoom, tp.DisplayMinZoom)
}

// ShouldSimplify reports whether display simplification applies.
func (tp TolerancePolicy) ShouldSimplify(pointCount int, zoom float64) bool {
	return pointCount > tp.DisplayMinPoints && zoom < tp.DisplayMaxZoom
}

// SimplifyForDisplay returns the point set to draw at the given zoom.
// When ShouldSimplify is false the input slice is returned as is.
func (tp TolerancePolicy) SimplifyForDisplay(points []Point, zoom, base float64) []Point {
	if !tp.ShouldSimplify(len(points), zoom) {
		return points
	}
	return Simplify(points, tp.DisplayEpsilon(base, zoom), false)
}

// HitTolerance returns the hit-region tolerance for a polygon of pointCount
// points at the given zoom.
func (tp TolerancePolicy) HitTolerance(pointCount int, zoom float64) float64 {
	tol := tp.HitBase
	switch {
	case pointCount > tp.HitHighPoints:
		tol = tp.HitHigh
	case pointCount > tp.HitMediumPoints:
		tol = tp.HitMedium
	}
	tol /= math.Max(zoom, tp.HitMinZoom)
	return math.Max(tp.HitFloor, tol)
}
