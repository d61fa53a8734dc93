// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"math"
	"strings"
	"testing"
)

func TestWorker_Handle(t *testing.T) {
	w := NewWorker(0)

	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{
			name:    "unknown type",
			req:     Request{ID: "a", Type: "resize", Points: []float64{0, 0, 1, 1, 2, 2}, Tolerance: 1},
			wantErr: "unknown request type: resize",
		},
		{
			name:    "too few points",
			req:     Request{ID: "b", Type: TypeSimplify, Points: []float64{0, 0, 1, 1}, Tolerance: 1},
			wantErr: "at least 6 elements",
		},
		{
			name:    "incomplete pair",
			req:     Request{ID: "c", Type: TypeSimplify, Points: []float64{0, 0, 1, 1, 2, 2, 3}, Tolerance: 1},
			wantErr: "coordinate pairs",
		},
		{
			name:    "negative tolerance",
			req:     Request{ID: "d", Type: TypeSimplify, Points: []float64{0, 0, 1, 1, 2, 2}, Tolerance: -1},
			wantErr: "invalid tolerance",
		},
		{
			name:    "zero tolerance",
			req:     Request{ID: "e", Type: TypeSimplify, Points: []float64{0, 0, 1, 1, 2, 2}, Tolerance: 0},
			wantErr: "invalid tolerance",
		},
		{
			name:    "NaN tolerance",
			req:     Request{ID: "f", Type: TypeSimplify, Points: []float64{0, 0, 1, 1, 2, 2}, Tolerance: math.NaN()},
			wantErr: "invalid tolerance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := w.Handle(tt.req)
			if resp.Type != TypeError {
				t.Fatalf("Type = %q, want %q", resp.Type, TypeError)
			}
			if resp.ID != tt.req.ID {
				t.Errorf("ID = %q, want %q", resp.ID, tt.req.ID)
			}
			if !strings.Contains(resp.Message, tt.wantErr) {
				t.Errorf("Message = %q, want it to contain %q", resp.Message, tt.wantErr)
			}
		})
	}
}

func TestWorker_HandleSimplify(t *testing.T) {
	w := NewWorker(0)

	resp := w.Handle(Request{
		ID:        "ok",
		Type:      TypeSimplify,
		Points:    []float64{0, 0, 1, 0.1, 2, 0, 3, 0.1, 4, 0},
		Tolerance: 1,
	})
	if resp.Type != TypeSimplified {
		t.Fatalf("Type = %q (%s), want %q", resp.Type, resp.Message, TypeSimplified)
	}
	if resp.OriginalPoints != 5 {
		t.Errorf("OriginalPoints = %d, want 5", resp.OriginalPoints)
	}
	want := []float64{0, 0, 4, 0}
	if len(resp.SimplifiedPoints) != len(want) {
		t.Fatalf("SimplifiedPoints = %v, want %v", resp.SimplifiedPoints, want)
	}
	for i := range want {
		if resp.SimplifiedPoints[i] != want[i] {
			t.Fatalf("SimplifiedPoints = %v, want %v", resp.SimplifiedPoints, want)
		}
	}
	if math.Abs(resp.CompressionRatio-40) > 1e-9 {
		t.Errorf("CompressionRatio = %v, want 40", resp.CompressionRatio)
	}
	if resp.ProcessingTime < 0 {
		t.Errorf("ProcessingTime = %v, want >= 0", resp.ProcessingTime)
	}
}

func TestWorker_PreserveShapeTightensTolerance(t *testing.T) {
	w := NewWorker(0.5)
	// The middle point deviates by 0.8: dropped at tolerance 1, kept at
	// an effective tolerance of 0.5.
	points := []float64{0, 0, 5, 0.8, 10, 0}

	loose := w.Handle(Request{Type: TypeSimplify, Points: points, Tolerance: 1})
	if got := len(loose.SimplifiedPoints) / 2; got != 2 {
		t.Errorf("preserveShape=false kept %d points, want 2", got)
	}
	tight := w.Handle(Request{Type: TypeSimplify, Points: points, Tolerance: 1, PreserveShape: true})
	if got := len(tight.SimplifiedPoints) / 2; got != 3 {
		t.Errorf("preserveShape=true kept %d points, want 3", got)
	}
}
