// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/ink"
)

// Validation messages sent back in error responses.
const (
	msgInvalidPoints    = "invalid points array: must have at least 6 elements (3 coordinate pairs)"
	msgOddPoints        = "invalid points array: must contain complete coordinate pairs"
	msgInvalidTolerance = "invalid tolerance: must be a positive number"
	msgReady            = "polygon simplification worker ready"
)

// Worker executes simplify requests. It never fails: every problem with a
// request becomes an error response carrying the request id.
//
// Worker is stateless and safe for concurrent use.
type Worker struct {
	simplifier ink.Simplifier
	now        func() time.Time
}

// NewWorker returns a worker whose shape preservation uses preserveFactor.
// Values outside (0, 1] select ink.DefaultPreserveFactor.
func NewWorker(preserveFactor float64) *Worker {
	if preserveFactor <= 0 || preserveFactor > 1 {
		preserveFactor = ink.DefaultPreserveFactor
	}
	return &Worker{
		simplifier: ink.Simplifier{PreserveFactor: preserveFactor},
		now:        time.Now,
	}
}

// Handle produces the response for req.
func (w *Worker) Handle(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = errorResponse(req.ID, fmt.Sprint(r))
		}
	}()

	if req.Type != TypeSimplify {
		return errorResponse(req.ID, fmt.Sprintf("unknown request type: %s", req.Type))
	}
	if len(req.Points) < 6 {
		return errorResponse(req.ID, msgInvalidPoints)
	}
	if len(req.Points)%2 != 0 {
		return errorResponse(req.ID, msgOddPoints)
	}
	if math.IsNaN(req.Tolerance) || math.IsInf(req.Tolerance, 0) || req.Tolerance <= 0 {
		return errorResponse(req.ID, msgInvalidTolerance)
	}

	start := w.now()
	points := ink.Unflatten(req.Points)
	simplified := w.simplifier.Simplify(points, req.Tolerance, req.PreserveShape)
	elapsed := w.now().Sub(start)

	original := len(points)
	resp = Response{
		ID:               req.ID,
		Type:             TypeSimplified,
		OriginalPoints:   original,
		SimplifiedPoints: ink.Flatten(simplified),
		ProcessingTime:   float64(elapsed) / float64(time.Millisecond),
		CompressionRatio: float64(len(simplified)) / float64(original) * 100,
	}
	ink.Logger().Debug("compute: simplified",
		"id", req.ID,
		"original", original,
		"simplified", len(simplified),
		"elapsed", elapsed)
	return resp
}
