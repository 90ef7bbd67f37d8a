package analysis

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"gonum.org/v1/plot"

	// Liberation fonts register automatically on import
	_ "gonum.org/v1/plot/font/liberation"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ConvergencePlot renders the cumulative power fraction against truncation
// degree, with a dashed marker at the recommended lmax for the given target
// fraction.
func ConvergencePlot(s *Spectrum, target float64, wPx, hPx float64) (image.Image, error) {
	p := plot.New()

	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.Title.Text = "Power convergence vs truncation degree"
	p.X.Label.Text = "lmax"
	p.Y.Label.Text = "retained power fraction"
	p.Y.Min = 0.0
	p.Y.Max = 1.05
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(s.Cumulative))
	for l, frac := range s.Cumulative {
		pts[l].X = float64(l)
		pts[l].Y = frac
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("analysis: convergence line: %w", err)
	}
	line.Color = color.RGBA{R: 0, G: 0, B: 128, A: 255} // navy
	p.Add(line)

	// Dashed vertical marker at the recommended truncation degree.
	rec := float64(s.RecommendLmax(target))
	vpts := plotter.XYs{
		{X: rec, Y: 0.0},
		{X: rec, Y: 1.05},
	}
	vline, err := plotter.NewLine(vpts)
	if err != nil {
		return nil, fmt.Errorf("analysis: recommendation marker: %w", err)
	}
	vline.Dashes = []vg.Length{
		vg.Points(6), // dash length
		vg.Points(4), // gap length
	}
	vline.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255} // red
	p.Add(vline)

	// Render into an in-memory image, mapping vg units to pixels via DPI.
	const dpi = 96
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi

	c := vgimg.New(width, height)
	dc := draw.New(c)
	p.Draw(dc)

	return c.Image(), nil
}

// SaveConvergencePlot writes the convergence plot as a PNG.
func SaveConvergencePlot(path string, s *Spectrum, target float64) error {
	img, err := ConvergencePlot(s, target, 900, 600)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("analysis: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("analysis: encode %s: %w", path, err)
	}
	return f.Close()
}
