// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import "time"

// Config tunes admission and windowing of a Buffer.
type Config struct {
	// MaxVisiblePoints is the stroke length up to which the whole stroke
	// is rendered.
	MaxVisiblePoints int

	// SimplificationThreshold is the point count at which the buffer
	// reports that optimization is active.
	SimplificationThreshold int

	// RenderSkipInterval keeps every n-th recent point in the window.
	RenderSkipInterval int

	// BufferSize is the initial capacity of the point list.
	BufferSize int

	// MinDistance and MinTimeInterval gate admission: a point is admitted
	// if it is at least MinDistance away from the previous admitted point
	// or at least MinTimeInterval later.
	MinDistance     float64
	MinTimeInterval time.Duration

	// BatchUpdates defers window recomputation to the scheduler.
	BatchUpdates bool

	// ContextPoints is the number of leading points always in the window.
	ContextPoints int
}

// DefaultContextPoints anchors the rendered shape to its start.
const DefaultContextPoints = 3

// BalancedConfig is the default configuration.
func BalancedConfig() Config {
	return Config{
		MaxVisiblePoints:        8,
		SimplificationThreshold: 10,
		RenderSkipInterval:      2,
		BufferSize:              50,
		MinDistance:             2,
		MinTimeInterval:         16 * time.Millisecond,
		BatchUpdates:            true,
		ContextPoints:           DefaultContextPoints,
	}
}

// SmoothConfig favors precision: denser sampling and a larger window.
func SmoothConfig() Config {
	return Config{
		MaxVisiblePoints:        12,
		SimplificationThreshold: 8,
		RenderSkipInterval:      1,
		BufferSize:              100,
		MinDistance:             1.5,
		MinTimeInterval:         8 * time.Millisecond,
		BatchUpdates:            true,
		ContextPoints:           DefaultContextPoints,
	}
}

// PerformanceConfig throttles aggressively for slow devices.
func PerformanceConfig() Config {
	return Config{
		MaxVisiblePoints:        6,
		SimplificationThreshold: 6,
		RenderSkipInterval:      3,
		BufferSize:              30,
		MinDistance:             3,
		MinTimeInterval:         33 * time.Millisecond,
		BatchUpdates:            true,
		ContextPoints:           DefaultContextPoints,
	}
}

func (c Config) normalized() Config {
	if c.RenderSkipInterval < 1 {
		c.RenderSkipInterval = 1
	}
	if c.ContextPoints < 0 {
		c.ContextPoints = 0
	}
	if c.MaxVisiblePoints < 1 {
		c.MaxVisiblePoints = 1
	}
	if c.BufferSize < 0 {
		c.BufferSize = 0
	}
	return c
}
