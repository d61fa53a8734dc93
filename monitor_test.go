// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"slices"
	"testing"
	"time"
)

func TestComplexity(t *testing.T) {
	annotations := []AnnotationSummary{
		{Kind: KindRectangle},
		{Kind: KindPolygon, PointCount: 10},
		{Kind: KindFreehand, PointCount: 30},
		{Kind: KindPolygon, PointCount: 21},
		{Kind: KindDot},
	}
	c := Complexity(annotations, false, true)

	if c.TotalAnnotations != 5 {
		t.Errorf("TotalAnnotations = %d, want 5", c.TotalAnnotations)
	}
	if c.ComplexPolygonCount != 2 {
		t.Errorf("ComplexPolygonCount = %d, want 2", c.ComplexPolygonCount)
	}
	if c.AveragePointCount != 61.0/3 {
		t.Errorf("AveragePointCount = %v, want %v", c.AveragePointCount, 61.0/3)
	}
	if !c.IsDragging || c.IsZooming {
		t.Errorf("interaction flags = zoom %v drag %v", c.IsZooming, c.IsDragging)
	}
}

func TestPerformanceMonitor(t *testing.T) {
	m := NewPerformanceMonitor(DefaultMonitorConfig())
	now := time.Unix(0, 0)
	m.now = func() time.Time { return now }

	if got := m.Metrics().FrameRate; got != 60 {
		t.Fatalf("initial FrameRate = %v, want 60", got)
	}
	if m.Status() != StatusGood {
		t.Errorf("initial Status() = %v, want good", m.Status())
	}

	scene := []AnnotationSummary{
		{Kind: KindPolygon, PointCount: 8},
		{Kind: KindFreehand, PointCount: 4},
		{Kind: KindCircle},
	}
	m.Observe(scene)
	now = now.Add(50 * time.Millisecond)
	m.Observe(scene)

	mt := m.Metrics()
	if mt.FrameRate != 20 {
		t.Errorf("FrameRate = %v, want 20", mt.FrameRate)
	}
	if mt.LastFrameTime != 50*time.Millisecond {
		t.Errorf("LastFrameTime = %v, want 50ms", mt.LastFrameTime)
	}
	if mt.TotalPolygons != 2 || mt.ComplexPolygons != 1 || mt.AveragePoints != 6 {
		t.Errorf("Metrics() = %+v", mt)
	}
	if !m.ShouldOptimize() {
		t.Error("ShouldOptimize() = false at 20 fps")
	}
	if m.ShouldActivatePerformanceMode() {
		t.Error("ShouldActivatePerformanceMode() = true at exactly 20 fps")
	}
	if m.Status() != StatusWarning {
		t.Errorf("Status() = %v, want warning", m.Status())
	}
	if recs := m.Recommendations(); !slices.Contains(recs, "Enable performance mode for smoother interaction") {
		t.Errorf("Recommendations() = %v", recs)
	}

	m.SetPerformanceMode(true)
	if !m.Metrics().PerformanceMode {
		t.Error("PerformanceMode not recorded")
	}
}

func TestPerformanceMonitor_FrameHistory(t *testing.T) {
	cfg := DefaultMonitorConfig()
	cfg.FrameHistory = 2
	m := NewPerformanceMonitor(cfg)
	now := time.Unix(0, 0)
	m.now = func() time.Time { return now }

	for _, d := range []time.Duration{100, 10, 10} {
		m.Observe(nil)
		now = now.Add(d * time.Millisecond)
	}
	m.Observe(nil)

	// Only the last two 10ms frames count.
	if got := m.Metrics().FrameRate; got != 100 {
		t.Errorf("FrameRate = %v, want 100", got)
	}
}

func TestMonitorStatus_String(t *testing.T) {
	for s, want := range map[MonitorStatus]string{
		StatusGood:       "good",
		StatusWarning:    "warning",
		StatusCritical:   "critical",
		MonitorStatus(7): "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
