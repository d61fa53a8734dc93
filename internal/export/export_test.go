package export

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/gogpu/ink"
)

var red = color.NRGBA{R: 255, A: 255}

func square() Stroke {
	return Stroke{
		Points: []ink.Point{ink.Pt(0, 0), ink.Pt(100, 0), ink.Pt(100, 100), ink.Pt(0, 100)},
		Color:  red,
		Closed: true,
	}
}

func TestRenderImage(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 120, 120
	opts.Padding = 10
	opts.LineWidth = 4

	img, err := RenderImage([]Stroke{square()}, opts)
	if err != nil {
		t.Fatalf("RenderImage() error = %v", err)
	}

	// The square maps onto [10,110]; its left edge is at x=10.
	if got := img.NRGBAAt(10, 60); got.R != 255 || got.G > 64 {
		t.Errorf("pixel on edge = %v, want red", got)
	}
	if got := img.NRGBAAt(60, 60); got != opts.Background {
		t.Errorf("pixel inside = %v, want background", got)
	}
}

func TestRenderImage_Errors(t *testing.T) {
	if _, err := RenderImage(nil, DefaultOptions()); !errors.Is(err, ErrEmpty) {
		t.Errorf("RenderImage(nil) error = %v, want ErrEmpty", err)
	}
	opts := DefaultOptions()
	opts.Width = 0
	if _, err := RenderImage([]Stroke{square()}, opts); err == nil {
		t.Error("RenderImage() with zero width succeeded")
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, []Stroke{square()}, DefaultOptions()); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("bounds = %v, want 800x600", b)
	}
}

func TestEncodePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePDF(&buf, []Stroke{square()}, DefaultOptions()); err != nil {
		t.Fatalf("EncodePDF() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}
