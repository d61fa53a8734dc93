// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"fmt"
	"math"
)

// Level is a discrete rendering quality tier.
type Level int

const (
	// LevelOptimal renders with full fidelity.
	LevelOptimal Level = iota

	// LevelGood drops exact drawing and softens curves slightly.
	LevelGood

	// LevelReduced disables shadows and dashes unselected shapes.
	LevelReduced

	// LevelMinimal is the most aggressive degradation.
	LevelMinimal
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelOptimal:
		return "optimal"
	case LevelGood:
		return "good"
	case LevelReduced:
		return "reduced"
	case LevelMinimal:
		return "minimal"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// SceneComplexity is a snapshot of what the renderer has to draw.
// It is rebuilt every frame and never cached.
type SceneComplexity struct {
	TotalAnnotations    int
	ComplexPolygonCount int // polygons above the complex point threshold
	AveragePointCount   float64
	IsZooming           bool
	IsDragging          bool
}

// PerformanceBudget holds the presentation parameters for one render pass.
type PerformanceBudget struct {
	StrokeWidthFactor  float64
	ShadowEnabled      bool
	TensionFactor      float64
	PerfectDrawEnabled bool
	HitStrokeWidth     float64
	DashEnabled        bool
	FillOpacity        float64
}

// Thresholds are ascending complexity scores separating the levels.
// Scores above Critical are flagged by Metrics.
type Thresholds struct {
	Light    float64
	Medium   float64
	Heavy    float64
	Critical float64
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Light: 8, Medium: 15, Heavy: 25, Critical: 40}
}

// interactionPenalty multiplies the score while the user zooms or drags.
const interactionPenalty = 1.5

var levelBudgets = [...]PerformanceBudget{
	LevelOptimal: {
		StrokeWidthFactor:  1.0,
		ShadowEnabled:      true,
		TensionFactor:      0.3,
		PerfectDrawEnabled: true,
		HitStrokeWidth:     0,
		DashEnabled:        false,
		FillOpacity:        0.1,
	},
	LevelGood: {
		StrokeWidthFactor: 1.0,
		ShadowEnabled:     true,
		TensionFactor:     0.2,
		HitStrokeWidth:    4,
		FillOpacity:       0.08,
	},
	LevelReduced: {
		StrokeWidthFactor: 0.8,
		TensionFactor:     0.1,
		HitStrokeWidth:    6,
		DashEnabled:       true,
		FillOpacity:       0.05,
	},
	LevelMinimal: {
		StrokeWidthFactor: 0.6,
		TensionFactor:     0.05,
		HitStrokeWidth:    8,
		DashEnabled:       true,
		FillOpacity:       0.02,
	},
}

// BudgetController selects a quality level from scene complexity.
// Apart from its thresholds it is stateless and safe for concurrent use.
type BudgetController struct {
	thresholds Thresholds
}

// NewBudgetController returns a controller using DefaultThresholds.
func NewBudgetController() *BudgetController {
	return &BudgetController{thresholds: DefaultThresholds()}
}

// Thresholds returns the active thresholds.
func (bc *BudgetController) Thresholds() Thresholds {
	return bc.thresholds
}

// WithThresholds returns a copy of the controller with t applied.
// Zero fields in t keep the current value.
func (bc *BudgetController) WithThresholds(t Thresholds) *BudgetController {
	next := bc.thresholds
	if t.Light != 0 {
		next.Light = t.Light
	}
	if t.Medium != 0 {
		next.Medium = t.Medium
	}
	if t.Heavy != 0 {
		next.Heavy = t.Heavy
	}
	if t.Critical != 0 {
		next.Critical = t.Critical
	}
	return &BudgetController{thresholds: next}
}

// Score returns the complexity score of c:
// annotations + 2*complex polygons + floor(average points / 10),
// multiplied by 1.5 during zoom or drag.
func (bc *BudgetController) Score(c SceneComplexity) float64 {
	score := float64(c.TotalAnnotations) +
		2*float64(c.ComplexPolygonCount) +
		math.Floor(c.AveragePointCount/10)
	if c.IsZooming || c.IsDragging {
		score *= interactionPenalty
	}
	return score
}

// Level maps c to a quality level.
func (bc *BudgetController) Level(c SceneComplexity) Level {
	return bc.levelFor(bc.Score(c))
}

func (bc *BudgetController) levelFor(score float64) Level {
	switch {
	case score <= bc.thresholds.Light:
		return LevelOptimal
	case score <= bc.thresholds.Medium:
		return LevelGood
	case score <= bc.thresholds.Heavy:
		return LevelReduced
	default:
		return LevelMinimal
	}
}

// Budget returns the presentation parameters for c.
func (bc *BudgetController) Budget(c SceneComplexity) PerformanceBudget {
	return levelBudgets[bc.Level(c)]
}

// BudgetFor returns the fixed budget of level l.
func BudgetFor(l Level) PerformanceBudget {
	if l < LevelOptimal || l > LevelMinimal {
		l = LevelMinimal
	}
	return levelBudgets[l]
}

// Recommendations returns human readable hints for c.
func (bc *BudgetController) Recommendations(c SceneComplexity) []string {
	var recs []string
	score := bc.Score(c)
	switch bc.levelFor(score) {
	case LevelOptimal:
		recs = append(recs, "Performance is optimal")
	case LevelGood:
		recs = append(recs, "Good performance with minor optimizations")
	case LevelReduced:
		recs = append(recs,
			"Performance optimizations active",
			"Some visual quality reduced for smoother interaction")
	case LevelMinimal:
		recs = append(recs,
			"Aggressive performance mode active",
			"Consider simplifying complex polygons",
			"Visual quality significantly reduced")
	}
	if score > bc.thresholds.Critical {
		recs = append(recs, "Scene exceeds critical complexity")
	}
	if c.ComplexPolygonCount > 5 {
		recs = append(recs, "Consider using polygon simplification")
	}
	if c.AveragePointCount > 50 {
		recs = append(recs, "High polygon complexity detected")
	}
	return recs
}

// BudgetMetrics summarizes a budget decision.
type BudgetMetrics struct {
	Level           Level
	Budget          PerformanceBudget
	Score           float64
	Critical        bool
	Thresholds      Thresholds
	Recommendations []string
}

// Metrics returns the full decision for c.
func (bc *BudgetController) Metrics(c SceneComplexity) BudgetMetrics {
	score := bc.Score(c)
	level := bc.levelFor(score)
	return BudgetMetrics{
		Level:           level,
		Budget:          levelBudgets[level],
		Score:           score,
		Critical:        score > bc.thresholds.Critical,
		Thresholds:      bc.thresholds,
		Recommendations: bc.Recommendations(c),
	}
}
