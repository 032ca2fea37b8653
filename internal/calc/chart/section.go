package chart

import (
	"fmt"
	"io"
	"math"

	lens "Sagitta/internal/calc/lens"

	svg "github.com/ajstarks/svgo"
)

const (
	sectionWidth  = 480
	sectionHeight = 360
	sectionMargin = 40
)

// Section draws the lens cross-section as seen from the side: the front face
// at z = -y²/(2·R1), the back face at z = Tc - y²/(2·R2), y running over the
// diameter. Both axes share one scale so the shape is not distorted.
func Section(w io.Writer, s lens.Spec, r lens.Radii, n int) {
	profile := lens.SampleProfile(s, r, n)
	front := make([]float64, len(profile))
	back := make([]float64, len(profile))
	zMin, zMax := math.Inf(1), math.Inf(-1)
	for i, p := range profile {
		y2 := p.XMM * p.XMM
		front[i] = -y2 / (2 * r.R1MM)
		back[i] = s.CentralThicknessMM - y2/(2*r.R2MM)
		zMin = math.Min(zMin, math.Min(front[i], back[i]))
		zMax = math.Max(zMax, math.Max(front[i], back[i]))
	}

	innerW := float64(sectionWidth - 2*sectionMargin)
	innerH := float64(sectionHeight - 2*sectionMargin)
	depth := math.Max(zMax-zMin, 1e-6)
	scale := math.Min(innerW/depth, innerH/s.DiameterMM)
	cx := float64(sectionWidth) / 2
	cy := float64(sectionHeight) / 2
	zMid := (zMin + zMax) / 2

	px := func(z float64) int { return int(math.Round(cx + (z-zMid)*scale)) }
	py := func(y float64) int { return int(math.Round(cy - y*scale)) }

	xs := make([]int, 0, 2*len(profile))
	ys := make([]int, 0, 2*len(profile))
	for i, p := range profile {
		xs = append(xs, px(front[i]))
		ys = append(ys, py(p.XMM))
	}
	for i := len(profile) - 1; i >= 0; i-- {
		xs = append(xs, px(back[i]))
		ys = append(ys, py(profile[i].XMM))
	}

	canvas := svg.New(w)
	canvas.Start(sectionWidth, sectionHeight)
	canvas.Rect(0, 0, sectionWidth, sectionHeight, "fill:white")
	canvas.Line(sectionMargin/2, int(cy), sectionWidth-sectionMargin/2, int(cy), "stroke:#999;stroke-dasharray:4,4")
	canvas.Polygon(xs, ys, "fill:#cfe3f5;stroke:#1f77b4;stroke-width:1.5")
	canvas.Text(sectionMargin/2, sectionMargin/2, fmt.Sprintf("D %.1f mm  Tc %.2f mm  edge %.2f mm",
		s.DiameterMM, s.CentralThicknessMM, lens.EdgeThickness(s, r)), "font-family:sans-serif;font-size:13px")
	canvas.End()
}
