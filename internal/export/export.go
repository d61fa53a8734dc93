// Package export renders strokes to PNG and PDF snapshots for diagnostics.
package export

import (
	"errors"
	"image/color"

	"github.com/paulmach/orb"

	"github.com/gogpu/ink"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("export: no points to draw")

// Stroke is one polyline to draw.
type Stroke struct {
	Points []ink.Point
	Color  color.NRGBA
	Closed bool
}

// Options controls the output size and line style.
type Options struct {
	Width, Height int
	Padding       float64
	LineWidth     float64
	Background    color.NRGBA
}

// DefaultOptions returns an 800x600 white canvas with 2px lines.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Padding:    20,
		LineWidth:  2,
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// fit maps stroke coordinates into a w x h box with padding, keeping the
// aspect ratio.
type fit struct {
	scale, offX, offY float64
	minX, minY        float64
}

func newFit(strokes []Stroke, w, h, padding float64) (fit, error) {
	var mp orb.MultiPoint
	for _, s := range strokes {
		for _, p := range s.Points {
			mp = append(mp, p.ToOrb())
		}
	}
	if len(mp) == 0 {
		return fit{}, ErrEmpty
	}
	b := mp.Bound()

	availW := max(w-2*padding, 1)
	availH := max(h-2*padding, 1)
	scale := 1.0
	if bw, bh := b.Max.X()-b.Min.X(), b.Max.Y()-b.Min.Y(); bw > 0 || bh > 0 {
		scale = min(availW/max(bw, 1e-9), availH/max(bh, 1e-9))
	}
	return fit{
		scale: scale,
		offX:  padding + (availW-(b.Max.X()-b.Min.X())*scale)/2,
		offY:  padding + (availH-(b.Max.Y()-b.Min.Y())*scale)/2,
		minX:  b.Min.X(),
		minY:  b.Min.Y(),
	}, nil
}

func (f fit) apply(p ink.Point) ink.Point {
	return ink.Pt((p.X-f.minX)*f.scale+f.offX, (p.Y-f.minY)*f.scale+f.offY)
}

// segments returns the consecutive point pairs of s, including the closing
// segment of a closed stroke.
func segments(s Stroke) [][2]ink.Point {
	n := len(s.Points)
	if n < 2 {
		return nil
	}
	segs := make([][2]ink.Point, 0, n)
	for i := 1; i < n; i++ {
		segs = append(segs, [2]ink.Point{s.Points[i-1], s.Points[i]})
	}
	if s.Closed && n > 2 {
		segs = append(segs, [2]ink.Point{s.Points[n-1], s.Points[0]})
	}
	return segs
}
