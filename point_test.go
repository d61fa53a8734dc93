// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"slices"
	"testing"
)

func TestFlatten(t *testing.T) {
	pts := []Point{Pt(1, 2), Pt(3, 4)}
	flat := Flatten(pts)
	if !slices.Equal(flat, []float64{1, 2, 3, 4}) {
		t.Errorf("Flatten() = %v", flat)
	}
	if !slices.Equal(Unflatten(flat), pts) {
		t.Errorf("Unflatten(Flatten()) = %v, want %v", Unflatten(flat), pts)
	}
	if Flatten(nil) != nil || Unflatten(nil) != nil {
		t.Error("nil input produced non-nil output")
	}
}

func TestUnflatten_IgnoresTrailingValue(t *testing.T) {
	got := Unflatten([]float64{1, 2, 3})
	if !slices.Equal(got, []Point{Pt(1, 2)}) {
		t.Errorf("Unflatten() = %v, want [(1,2)]", got)
	}
}

func TestPoint_Distance(t *testing.T) {
	if got := Pt(0, 0).Distance(Pt(3, 4)); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
	if got := Pt(0, 0).Lerp(Pt(10, 20), 0.5); got != Pt(5, 10) {
		t.Errorf("Lerp() = %v, want (5,10)", got)
	}
	if got := PointFromOrb(Pt(7, 8).ToOrb()); got != Pt(7, 8) {
		t.Errorf("orb round trip = %v", got)
	}
}
