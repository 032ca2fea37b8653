package importer

import (
	"fmt"
	"io"

	lens "Sagitta/internal/calc/lens"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	profileSheet = "Profile"
)

// WriteProfile exports a calculation as a workbook with a summary sheet and the
// sampled profile.
func WriteProfile(w io.Writer, spec lens.Spec, res lens.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"diameter_mm", spec.DiameterMM},
		{"central_thickness_mm", spec.CentralThicknessMM},
		{"refractive_index", spec.RefractiveIndex},
		{"mode", string(spec.Mode)},
		{"r1_mm", res.R1MM},
		{"r2_mm", res.R2MM},
		{"edge_thickness_mm", res.EdgeThicknessMM},
	}
	if spec.Mode == lens.ModePower {
		summary = append(summary, []any{"power_d", spec.PowerD}, []any{"family", string(spec.Family)})
	}
	for i, kv := range summary {
		if err := setRow(f, summarySheet, i+1, kv); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(profileSheet); err != nil {
		return err
	}
	if err := setRow(f, profileSheet, 1, []any{"x_mm", "thickness_mm"}); err != nil {
		return err
	}
	for i, s := range res.Profile {
		if err := setRow(f, profileSheet, i+2, []any{s.XMM, s.ThicknessMM}); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}
