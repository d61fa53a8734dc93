package export

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/gogpu/ink"
)

// RenderImage rasterizes strokes into a new image.
func RenderImage(strokes []Stroke, opts Options) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("export: invalid size %dx%d", opts.Width, opts.Height)
	}
	f, err := newFit(strokes, float64(opts.Width), float64(opts.Height), opts.Padding)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	half := max(opts.LineWidth, 0.5) / 2
	for _, s := range strokes {
		z := vector.NewRasterizer(opts.Width, opts.Height)
		for _, seg := range segments(s) {
			addSegment(z, f.apply(seg[0]), f.apply(seg[1]), half)
		}
		if len(s.Points) == 1 {
			addDot(z, f.apply(s.Points[0]), half)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(s.Color), image.Point{})
	}
	return img, nil
}

// addSegment adds a line segment of width 2*half as a filled quad.
func addSegment(z *vector.Rasterizer, a, b ink.Point, half float64) {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		addDot(z, a, half)
		return
	}
	nx, ny := -d.Y/l*half, d.X/l*half
	z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	z.ClosePath()
}

// addDot adds a small octagon so that joints and single points are visible.
func addDot(z *vector.Rasterizer, p ink.Point, r float64) {
	const sides = 8
	for i := range sides {
		a := 2 * math.Pi * float64(i) / sides
		x, y := float32(p.X+r*math.Cos(a)), float32(p.Y+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// EncodePNG renders strokes and writes them as PNG to w.
func EncodePNG(w io.Writer, strokes []Stroke, opts Options) error {
	img, err := RenderImage(strokes, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WritePNG renders strokes into the PNG file at path.
func WritePNG(path string, strokes []Stroke, opts Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := EncodePNG(file, strokes, opts); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
