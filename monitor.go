// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"sync"
	"time"
)

// ComplexPointThreshold is the point count above which a polygon counts as
// complex in SceneComplexity.
const ComplexPointThreshold = 20

// AnnotationKind distinguishes shapes for complexity accounting.
type AnnotationKind int

const (
	KindRectangle AnnotationKind = iota
	KindPolygon
	KindFreehand
	KindDot
	KindLine
	KindCircle
)

// isPath reports whether the kind carries an arbitrary point list.
func (k AnnotationKind) isPath() bool {
	return k == KindPolygon || k == KindFreehand
}

// AnnotationSummary is the minimal view of a stored annotation the budget
// needs. The presentation layer builds these from its own model.
type AnnotationSummary struct {
	Kind       AnnotationKind
	PointCount int
}

// Complexity builds a SceneComplexity snapshot. Polygons and freehand paths
// with more than ComplexPointThreshold points count as complex; the
// average point count covers path annotations only.
func Complexity(annotations []AnnotationSummary, zooming, dragging bool) SceneComplexity {
	c := SceneComplexity{
		TotalAnnotations: len(annotations),
		IsZooming:        zooming,
		IsDragging:       dragging,
	}
	paths, points := 0, 0
	for _, a := range annotations {
		if !a.Kind.isPath() {
			continue
		}
		paths++
		points += a.PointCount
		if a.PointCount > ComplexPointThreshold {
			c.ComplexPolygonCount++
		}
	}
	if paths > 0 {
		c.AveragePointCount = float64(points) / float64(paths)
	}
	return c
}

// MonitorStatus is a coarse health indicator.
type MonitorStatus int

const (
	StatusGood MonitorStatus = iota
	StatusWarning
	StatusCritical
)

// String returns the status name.
func (s MonitorStatus) String() string {
	switch s {
	case StatusGood:
		return "good"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MonitorConfig holds the PerformanceMonitor thresholds.
type MonitorConfig struct {
	MaxPolygonsBeforeOptimization int
	MaxPointsBeforeSimplification int
	TargetFrameRate               float64
	PerformanceModeThreshold      int
	// FrameHistory is the number of frame intervals averaged.
	FrameHistory int
}

// DefaultMonitorConfig returns the stock monitor thresholds.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		MaxPolygonsBeforeOptimization: 6,
		MaxPointsBeforeSimplification: 5,
		TargetFrameRate:               30,
		PerformanceModeThreshold:      12,
		FrameHistory:                  30,
	}
}

// MonitorMetrics is a snapshot of the monitor state.
type MonitorMetrics struct {
	TotalPolygons   int
	ComplexPolygons int
	AveragePoints   float64
	FrameRate       float64
	LastFrameTime   time.Duration
	PerformanceMode bool
}

// PerformanceMonitor tracks polygon load and frame rate over time.
// It is safe for concurrent use.
type PerformanceMonitor struct {
	mu      sync.Mutex
	cfg     MonitorConfig
	metrics MonitorMetrics
	frames  []time.Duration
	last    time.Time
	now     func() time.Time
}

// NewPerformanceMonitor returns a monitor using cfg. The initial frame rate
// is assumed to be 60 until two observations have been made.
func NewPerformanceMonitor(cfg MonitorConfig) *PerformanceMonitor {
	if cfg.FrameHistory <= 0 {
		cfg.FrameHistory = DefaultMonitorConfig().FrameHistory
	}
	return &PerformanceMonitor{
		cfg:     cfg,
		metrics: MonitorMetrics{FrameRate: 60},
		now:     time.Now,
	}
}

// Observe records one frame's annotations.
func (m *PerformanceMonitor) Observe(annotations []AnnotationSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()

	polygons, complexCount, points := 0, 0, 0
	for _, a := range annotations {
		if !a.Kind.isPath() {
			continue
		}
		polygons++
		points += a.PointCount
		if a.PointCount > m.cfg.MaxPointsBeforeSimplification {
			complexCount++
		}
	}
	m.metrics.TotalPolygons = polygons
	m.metrics.ComplexPolygons = complexCount
	if polygons > 0 {
		m.metrics.AveragePoints = float64(points) / float64(polygons)
	}
	m.observeFrame()
}

// Caller must hold m.mu.
func (m *PerformanceMonitor) observeFrame() {
	now := m.now()
	if !m.last.IsZero() {
		frame := now.Sub(m.last)
		m.frames = append(m.frames, frame)
		if len(m.frames) > m.cfg.FrameHistory {
			m.frames = m.frames[1:]
		}
		var total time.Duration
		for _, f := range m.frames {
			total += f
		}
		avg := total / time.Duration(len(m.frames))
		if avg > 0 {
			m.metrics.FrameRate = float64(time.Second) / float64(avg)
		}
		m.metrics.LastFrameTime = frame
	}
	m.last = now
}

// ShouldOptimize reports whether light optimizations should be enabled.
func (m *PerformanceMonitor) ShouldOptimize() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics.TotalPolygons >= m.cfg.MaxPolygonsBeforeOptimization ||
		m.metrics.FrameRate < m.cfg.TargetFrameRate ||
		m.metrics.ComplexPolygons > 3
}

// ShouldActivatePerformanceMode reports whether aggressive mode should be enabled.
func (m *PerformanceMonitor) ShouldActivatePerformanceMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics.TotalPolygons >= m.cfg.PerformanceModeThreshold ||
		m.metrics.FrameRate < 20 ||
		m.metrics.ComplexPolygons > 5
}

// SetPerformanceMode records whether the caller enabled performance mode.
func (m *PerformanceMonitor) SetPerformanceMode(active bool) {
	m.mu.Lock()
	m.metrics.PerformanceMode = active
	m.mu.Unlock()
}

// Status returns a coarse indicator derived from frame rate and load.
func (m *PerformanceMonitor) Status() MonitorStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.metrics.FrameRate < 15 || m.metrics.TotalPolygons > 20:
		return StatusCritical
	case m.metrics.FrameRate < 30 || m.metrics.TotalPolygons > 10:
		return StatusWarning
	default:
		return StatusGood
	}
}

// Recommendations returns hints derived from the current metrics.
func (m *PerformanceMonitor) Recommendations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var recs []string
	if m.metrics.TotalPolygons > 10 {
		recs = append(recs, "Consider using polygon simplification")
	}
	if m.metrics.FrameRate < 30 {
		recs = append(recs, "Enable performance mode for smoother interaction")
	}
	if m.metrics.ComplexPolygons > 3 {
		recs = append(recs, "Cache complex polygons to improve rendering")
	}
	if m.metrics.AveragePoints > 50 {
		recs = append(recs, "Reduce polygon detail for better performance")
	}
	return recs
}

// Metrics returns a copy of the current metrics.
func (m *PerformanceMonitor) Metrics() MonitorMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}
