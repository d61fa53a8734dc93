// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ink"
)

// DefaultBatchTolerance is used for polygons with a zero Tolerance.
const DefaultBatchTolerance = 2.0

// Polygon is one entry of a batch.
type Polygon struct {
	Points        []ink.Point
	Tolerance     float64
	PreserveShape bool
}

// SimplifyBatch simplifies polygons concurrently through ch, with at most
// limit requests in flight (limit <= 0 means no limit). Results are in input
// order. The first failure cancels the remaining requests and is returned.
func SimplifyBatch(ctx context.Context, ch *Channel, polygons []Polygon, limit int) ([]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]*Result, len(polygons))
	for i, p := range polygons {
		g.Go(func() error {
			tol := p.Tolerance
			if tol == 0 {
				tol = DefaultBatchTolerance
			}
			res, err := ch.Simplify(ctx, p.Points, tol, p.PreserveShape)
			if err != nil {
				return fmt.Errorf("compute: polygon %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
