// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a 2D sample position. It has no identity beyond its coordinates.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// ToOrb converts p to an orb.Point.
func (p Point) ToOrb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// PointFromOrb converts an orb.Point to a Point.
func PointFromOrb(p orb.Point) Point {
	return Point{X: p[0], Y: p[1]}
}

// Flatten encodes points as [x0, y0, x1, y1, ...], the layout used by the
// compute wire protocol and by canvas line primitives.
func Flatten(points []Point) []float64 {
	if points == nil {
		return nil
	}
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
	}
	return flat
}

// Unflatten decodes a flat coordinate array. A trailing odd value is ignored.
func Unflatten(flat []float64) []Point {
	if flat == nil {
		return nil
	}
	points := make([]Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		points = append(points, Point{X: flat[i], Y: flat[i+1]})
	}
	return points
}

// ring converts points to a closed orb.Ring.
func ring(points []Point) orb.Ring {
	r := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		r = append(r, p.ToOrb())
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}
