// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import "github.com/gogpu/ink/internal/cache"

// DefaultHitRegionCapacity is the number of hit regions HitRegionCache keeps.
const DefaultHitRegionCapacity = 512

type hitRegionKey struct {
	id         string
	pointCount int
	active     bool
	zoom       float64
}

// HitRegionCache memoizes two-tier polygons per shape. An entry is rebuilt
// only when the shape's point count changes or the activation predicate
// flips (for example when the scene crosses the annotation threshold).
//
// Callers must Invalidate a shape whose points moved without changing count.
type HitRegionCache struct {
	builder *HitboxBuilder
	lru     *cache.Cache[hitRegionKey, HitboxPolygon]
}

// NewHitRegionCache returns a cache backed by builder. A nil builder uses
// NewHitboxBuilder; capacity <= 0 selects DefaultHitRegionCapacity.
func NewHitRegionCache(builder *HitboxBuilder, capacity int) *HitRegionCache {
	if builder == nil {
		builder = NewHitboxBuilder()
	}
	if capacity <= 0 {
		capacity = DefaultHitRegionCapacity
	}
	return &HitRegionCache{
		builder: builder,
		lru:     cache.New[hitRegionKey, HitboxPolygon](capacity),
	}
}

// Get returns the hit region for shape id.
func (c *HitRegionCache) Get(id string, points []Point, totalAnnotations int, zoom float64) HitboxPolygon {
	key := hitRegionKey{
		id:         id,
		pointCount: len(points),
		active:     c.builder.Active(len(points), totalAnnotations),
		zoom:       zoom,
	}
	return c.lru.GetOrCreate(key, func() HitboxPolygon {
		Logger().Debug("ink: hit region rebuilt",
			"id", id, "points", len(points), "active", key.active)
		return c.builder.BuildTwoTierAtZoom(points, totalAnnotations, zoom)
	})
}

// Invalidate drops every cached region of shape id.
func (c *HitRegionCache) Invalidate(id string) {
	c.lru.DeleteFunc(func(k hitRegionKey) bool { return k.id == id })
}

// Len returns the number of cached regions.
func (c *HitRegionCache) Len() int {
	return c.lru.Len()
}
