package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"Sagitta/internal/calc/chart"
	lens "Sagitta/internal/calc/lens"

	"github.com/phpdave11/gofpdf"
)

// tableRows caps the profile table so the report stays on one page.
const tableRows = 11

type Input struct {
	lens.Input
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

// Write renders a one-page PDF with the inputs, the results, a short profile
// table and the profile chart.
func Write(w io.Writer, in Input, now time.Time) error {
	if in.Title == "" {
		in.Title = "Lens Edge Thickness Report"
	}
	res, err := lens.Calculate(in.Input)
	if err != nil {
		return err
	}
	spec := in.Spec.WithDefaults()

	var img bytes.Buffer
	if _, err := chart.WriteChart(&img, res.Profile, res.Point, chart.PNG); err != nil {
		return fmt.Errorf("report chart: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	section(pdf, "Lens")
	row(pdf, "Diameter", fmt.Sprintf("%.2f mm", spec.DiameterMM))
	row(pdf, "Central thickness", fmt.Sprintf("%.2f mm", spec.CentralThicknessMM))
	row(pdf, "Refractive index", fmt.Sprintf("%.3f", spec.RefractiveIndex))
	if spec.Mode == lens.ModePower {
		row(pdf, "Power", fmt.Sprintf("%+.2f D (%s)", spec.PowerD, spec.Family))
	}
	row(pdf, "R1", fmt.Sprintf("%.1f mm", res.R1MM))
	row(pdf, "R2", fmt.Sprintf("%.1f mm", res.R2MM))
	pdf.Ln(4)

	section(pdf, "Result")
	pdf.SetFont("Helvetica", "B", 11)
	row(pdf, "Edge thickness", fmt.Sprintf("%.3f mm", res.EdgeThicknessMM))
	pdf.SetFont("Helvetica", "", 11)
	if res.Point != nil {
		row(pdf, fmt.Sprintf("Thickness at x=%.2f mm", res.Point.XMM), fmt.Sprintf("%.3f mm", res.Point.ThicknessMM))
	}
	for _, wn := range res.Warnings {
		pdf.MultiCell(0, 6, "Warning: "+wn.Message, "", "L", false)
	}
	pdf.Ln(4)

	pdf.RegisterImageOptionsReader("profile", gofpdf.ImageOptions{ImageType: "PNG"}, &img)
	pdf.ImageOptions("profile", 15, pdf.GetY(), 120, 0, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(4)

	section(pdf, "Profile")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "x (mm)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "thickness (mm)", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range pick(res.Profile, tableRows) {
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", s.XMM), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.3f", s.ThicknessMM), "1", 1, "R", false, 0, "")
	}

	if in.Notes != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 6, in.Notes, "", "L", false)
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.Cell(60, 6, label)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

// pick returns at most n samples spread evenly over the profile, ends included.
func pick(profile []lens.Sample, n int) []lens.Sample {
	if len(profile) <= n {
		return profile
	}
	out := make([]lens.Sample, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, profile[i*(len(profile)-1)/(n-1)])
	}
	return out
}
