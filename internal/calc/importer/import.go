package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	lens "Sagitta/internal/calc/lens"

	"github.com/xuri/excelize/v2"
)

// Recognised header cells. Columns may appear in any order; unknown ones are ignored.
var columns = []string{
	"diameter_mm", "central_thickness_mm", "refractive_index",
	"mode", "r1_mm", "r2_mm", "power_d", "family",
}

type Row struct {
	Row    int          `json:"row"`
	Result *lens.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
	Field  string       `json:"field,omitempty"`
}

type Result struct {
	Count  int   `json:"count"`
	Failed int   `json:"failed"`
	Rows   []Row `json:"rows"`
}

// ReadSheet calculates every data row of the first sheet. Bad rows are reported
// individually and do not stop the import.
func ReadSheet(r io.Reader, samples int) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, &InputError{Msg: "Invalid file"}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		return Result{}, &InputError{Msg: "Empty sheet"}
	}
	index := headerIndex(rows[0])
	if _, ok := index["diameter_mm"]; !ok {
		return Result{}, &InputError{Msg: "header row must name diameter_mm"}
	}

	var out Result
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		line := Row{Row: i + 1}
		spec, err := parseRow(rows[i], index)
		if err == nil {
			var res lens.Result
			res, err = lens.Calculate(lens.Input{Spec: spec, Samples: samples})
			if err == nil {
				line.Result = &res
			}
		}
		if err != nil {
			line.Error = err.Error()
			line.Field = lens.Field(err)
			out.Failed++
		} else {
			out.Count++
		}
		out.Rows = append(out.Rows, line)
	}
	return out, nil
}

type InputError struct {
	Msg string
}

func (e *InputError) Error() string      { return e.Msg }
func (e *InputError) InputField() string { return "file" }

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for _, c := range columns {
			if name == c {
				idx[c] = i
			}
		}
	}
	return idx
}

func parseRow(row []string, index map[string]int) (lens.Spec, error) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(name string) (float64, error) {
		s := cell(name)
		if s == "" {
			return 0, nil
		}
		v, err := toFloat(s)
		if err != nil {
			return 0, &lens.InvalidParameterError{Field: name, Reason: fmt.Sprintf("%q is not a number", s)}
		}
		return v, nil
	}

	var spec lens.Spec
	targets := []struct {
		name string
		dst  *float64
	}{
		{"diameter_mm", &spec.DiameterMM},
		{"central_thickness_mm", &spec.CentralThicknessMM},
		{"refractive_index", &spec.RefractiveIndex},
		{"r1_mm", &spec.R1MM},
		{"r2_mm", &spec.R2MM},
		{"power_d", &spec.PowerD},
	}
	for _, t := range targets {
		v, err := num(t.name)
		if err != nil {
			return lens.Spec{}, err
		}
		*t.dst = v
	}
	spec.Mode = lens.Mode(strings.ToLower(cell("mode")))
	spec.Family = lens.Family(strings.ToLower(cell("family")))
	return spec, nil
}

// toFloat accepts a decimal comma as well as a decimal point.
func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
