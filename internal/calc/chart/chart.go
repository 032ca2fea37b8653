package chart

import (
	"fmt"
	"image/color"
	"io"

	lens "Sagitta/internal/calc/lens"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var (
	profileColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	markerColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Chart draws thickness against width for a sampled profile. A non-nil marker
// is drawn as the queried point.
func Chart(profile []lens.Sample, marker *lens.Point) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Lens profile"
	p.X.Label.Text = "Width (mm)"
	p.Y.Label.Text = "Thickness (mm)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(profile))
	for _, s := range profile {
		pts = append(pts, plotter.XY{X: s.XMM, Y: s.ThicknessMM})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("profile line: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = profileColor
	p.Add(line)
	p.Legend.Add("Profile", line)

	if marker != nil {
		sc, err := plotter.NewScatter(plotter.XYs{{X: marker.XMM, Y: marker.ThicknessMM}})
		if err != nil {
			return nil, fmt.Errorf("marker: %w", err)
		}
		sc.GlyphStyle.Color = markerColor
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("x=%.2f mm: %.3f mm", marker.XMM, marker.ThicknessMM), sc)
	}
	p.Legend.Top = true
	return p, nil
}

// Frame locates the data area of a rendered chart so that a click on the
// image can be turned back into an offset. Left and Right are fractions of
// the image width at which MinX and MaxX are drawn.
type Frame struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
	MinX  float64 `json:"min_x_mm"`
	MaxX  float64 `json:"max_x_mm"`
}

// XAt maps a horizontal position, as a fraction of the image width, to an
// offset in mm. The x axis is linear.
func (f Frame) XAt(frac float64) float64 {
	if f.Right == f.Left {
		return f.MinX
	}
	return f.MinX + (frac-f.Left)/(f.Right-f.Left)*(f.MaxX-f.MinX)
}

// WriteChart renders the chart in the given format and reports where its data
// area landed.
func WriteChart(w io.Writer, profile []lens.Sample, marker *lens.Point, format Format) (Frame, error) {
	p, err := Chart(profile, marker)
	if err != nil {
		return Frame{}, err
	}
	c, err := draw.NewFormattedCanvas(chartWidth, chartHeight, string(format))
	if err != nil {
		return Frame{}, fmt.Errorf("chart canvas: %w", err)
	}
	dc := draw.New(c)
	p.Draw(dc)
	data := p.DataCanvas(dc)
	frame := Frame{
		Left:  float64(data.X(p.X.Norm(p.X.Min)) / chartWidth),
		Right: float64(data.X(p.X.Norm(p.X.Max)) / chartWidth),
		MinX:  p.X.Min,
		MaxX:  p.X.Max,
	}
	if _, err := c.WriteTo(w); err != nil {
		return Frame{}, err
	}
	return frame, nil
}

func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", PNG:
		return PNG, true
	case SVG:
		return SVG, true
	}
	return "", false
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}
