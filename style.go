// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"image/color"
	"math"
	"slices"
)

// ShapeStyle is the transient presentation configuration handed to the
// renderer for one shape. Budgets are applied to a copy; stored annotation
// data is never touched.
type ShapeStyle struct {
	StrokeWidth        float64
	ShadowEnabled      bool
	PerfectDrawEnabled bool
	HitStrokeWidth     float64
	// Tension is only meaningful for curve shapes; HasTension marks them.
	Tension    float64
	HasTension bool
	Dash       []float64
	// Fill is nil for unfilled shapes.
	Fill *color.NRGBA
}

// Clone returns a deep copy of s.
func (s ShapeStyle) Clone() ShapeStyle {
	out := s
	out.Dash = slices.Clone(s.Dash)
	if s.Fill != nil {
		f := *s.Fill
		out.Fill = &f
	}
	return out
}

// dashPattern is used for unselected shapes when the budget enables dashing.
var dashPattern = []float64{3, 3}

// ApplyToPolygon applies the budget for c to a polygon or freehand style.
func (bc *BudgetController) ApplyToPolygon(style ShapeStyle, c SceneComplexity, selected bool, baseStrokeWidth float64) ShapeStyle {
	level := bc.Level(c)
	budget := levelBudgets[level]
	out := bc.applyCommon(style.Clone(), budget, level, selected, baseStrokeWidth)

	out.HitStrokeWidth = budget.HitStrokeWidth
	if out.HasTension {
		out.Tension = budget.TensionFactor
	}
	if !selected && budget.DashEnabled {
		out.Dash = slices.Clone(dashPattern)
	}
	return out
}

// ApplyToBasicShape applies the budget for c to a rectangle, circle, dot or line.
func (bc *BudgetController) ApplyToBasicShape(style ShapeStyle, c SceneComplexity, selected bool, baseStrokeWidth float64) ShapeStyle {
	level := bc.Level(c)
	return bc.applyCommon(style.Clone(), levelBudgets[level], level, selected, baseStrokeWidth)
}

func (bc *BudgetController) applyCommon(out ShapeStyle, budget PerformanceBudget, level Level, selected bool, baseStrokeWidth float64) ShapeStyle {
	out.StrokeWidth = math.Max(1, baseStrokeWidth*budget.StrokeWidthFactor)
	out.ShadowEnabled = budget.ShadowEnabled && (selected || level == LevelOptimal)
	out.PerfectDrawEnabled = budget.PerfectDrawEnabled
	if out.Fill != nil {
		out.Fill.A = uint8(math.Round(budget.FillOpacity * 255))
	}
	return out
}
