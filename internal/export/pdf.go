package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

const pdfMargin = 10 // mm

func buildPDF(strokes []Stroke, opts Options) (*gofpdf.Fpdf, error) {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	pageW, pageH := p.GetPageSize()

	f, err := newFit(strokes, pageW, pageH, pdfMargin)
	if err != nil {
		return nil, err
	}

	// Options.LineWidth is in pixels; 1px = 0.2645 mm at 96 dpi.
	p.SetLineWidth(max(opts.LineWidth, 0.5) * 0.2645)
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	for _, s := range strokes {
		p.SetDrawColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
		for _, seg := range segments(s) {
			a, b := f.apply(seg[0]), f.apply(seg[1])
			p.Line(a.X, a.Y, b.X, b.Y)
		}
	}
	return p, p.Error()
}

// EncodePDF writes strokes as a one-page A4 landscape PDF to w.
func EncodePDF(w io.Writer, strokes []Stroke, opts Options) error {
	p, err := buildPDF(strokes, opts)
	if err != nil {
		return err
	}
	return p.Output(w)
}

// WritePDF writes strokes into the PDF file at path.
func WritePDF(path string, strokes []Stroke, opts Options) error {
	p, err := buildPDF(strokes, opts)
	if err != nil {
		return err
	}
	return p.OutputFileAndClose(path)
}
