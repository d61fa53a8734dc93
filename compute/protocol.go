// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

// Message types. The JSON field names below are the wire contract shared
// with remote workers.
const (
	TypeSimplify   = "simplify"
	TypeSimplified = "simplified"
	TypeError      = "error"
	TypeReady      = "ready"
)

// Request asks the worker to simplify a flat coordinate sequence
// [x0, y0, x1, y1, ...].
type Request struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Points        []float64 `json:"points"`
	Tolerance     float64   `json:"tolerance"`
	PreserveShape bool      `json:"preserveShape"`
}

// Response is a worker reply. Only the fields relevant to Type are set.
type Response struct {
	ID               string    `json:"id,omitempty"`
	Type             string    `json:"type"`
	OriginalPoints   int       `json:"originalPoints,omitempty"`
	SimplifiedPoints []float64 `json:"simplifiedPoints,omitempty"`
	// ProcessingTime is in milliseconds.
	ProcessingTime float64 `json:"processingTime,omitempty"`
	// CompressionRatio is simplified/original points in percent.
	CompressionRatio float64 `json:"compressionRatio,omitempty"`
	Message          string  `json:"message,omitempty"`
}

func readyResponse(msg string) Response {
	return Response{Type: TypeReady, Message: msg}
}

func errorResponse(id, msg string) Response {
	return Response{ID: id, Type: TypeError, Message: msg}
}
