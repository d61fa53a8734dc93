// Package cache provides the bounded LRU used to memoize derived geometry
// such as hit regions.
//
//	c := cache.New[key, ink.HitboxPolygon](256)
//	c.Set(k, poly)
//	poly, ok := c.Get(k)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
