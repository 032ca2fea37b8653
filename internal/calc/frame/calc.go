package frame

import (
	"fmt"
	"math"

	lens "Sagitta/internal/calc/lens"
)

const defaultAllowanceMM = 2.0

type Input struct {
	Lens          lens.Spec `json:"lens"`
	CalibreMM     float64   `json:"calibre_mm"`      // A: horizontal box size
	FrameHeightMM float64   `json:"frame_height_mm"` // B: vertical box size
	BridgeMM      float64   `json:"bridge_mm"`       // DBL
	MonoPDMM      float64   `json:"mono_pd_mm"`      // naso-pupillary distance
	AllowanceMM   float64   `json:"allowance_mm"`
}

type Result struct {
	R1MM               float64        `json:"r1_mm"`
	R2MM               float64        `json:"r2_mm"`
	DecentrationMM     float64        `json:"decentration_mm"`
	EffectiveRadiusMM  float64        `json:"effective_radius_mm"`
	MinBlankDiameterMM float64        `json:"min_blank_diameter_mm"`
	TemporalEdgeMM     float64        `json:"temporal_edge_mm"`
	NasalEdgeMM        float64        `json:"nasal_edge_mm"`
	TopEdgeMM          float64        `json:"top_edge_mm"`
	WorstEdgeMM        float64        `json:"worst_edge_mm"`
	BlankFits          bool           `json:"blank_fits"`
	Warnings           []lens.Warning `json:"warnings,omitempty"`
	Notes              string         `json:"notes"`
}

// WarnBlankTooSmall flags a lens blank that cannot cover the decentred frame.
const WarnBlankTooSmall lens.WarningKind = "blank_too_small"

// Calculate estimates the edge thickness of a lens cut into a rectangular frame
// whose optical centre is moved nasally by the decentration. The worst edge is
// taken at the far box corner, sqrt(x² + y²) from the optical centre.
func Calculate(in Input) (Result, error) {
	if err := positive("calibre_mm", in.CalibreMM); err != nil {
		return Result{}, err
	}
	if err := positive("frame_height_mm", in.FrameHeightMM); err != nil {
		return Result{}, err
	}
	if err := positive("mono_pd_mm", in.MonoPDMM); err != nil {
		return Result{}, err
	}
	if err := nonNegative("bridge_mm", in.BridgeMM); err != nil {
		return Result{}, err
	}
	if err := nonNegative("allowance_mm", in.AllowanceMM); err != nil {
		return Result{}, err
	}
	if in.AllowanceMM == 0 {
		in.AllowanceMM = defaultAllowanceMM
	}

	spec := in.Lens.WithDefaults()
	r, err := lens.ComputeRadii(spec)
	if err != nil {
		return Result{}, err
	}

	dec := (in.CalibreMM+in.BridgeMM)/2 - in.MonoPDMM
	halfA := in.CalibreMM / 2
	halfB := in.FrameHeightMM / 2
	radius := math.Hypot(halfA+math.Abs(dec), halfB)
	blank := 2*radius + in.AllowanceMM

	res := Result{
		R1MM:               r.R1MM,
		R2MM:               r.R2MM,
		DecentrationMM:     dec,
		EffectiveRadiusMM:  radius,
		MinBlankDiameterMM: blank,
		TemporalEdgeMM:     lens.LocalThickness(halfA+dec, spec, r),
		NasalEdgeMM:        lens.LocalThickness(halfA-dec, spec, r),
		TopEdgeMM:          lens.LocalThickness(halfB, spec, r),
		WorstEdgeMM:        lens.LocalThickness(radius, spec, r),
		BlankFits:          blank <= spec.DiameterMM,
		Warnings:           lens.Diagnose(spec, r),
		Notes:              "Worst-case edge at the far box corner; paraxial approximation.",
	}
	if !res.BlankFits {
		res.Warnings = append(res.Warnings, lens.Warning{
			Kind:    WarnBlankTooSmall,
			Message: fmt.Sprintf("frame needs a %.1f mm blank, lens is %.1f mm", blank, spec.DiameterMM),
		})
	}
	return res, nil
}

// Frame dimensions share the lens diameter's upper bound.
func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > lens.MaxDiameterMM {
		return &lens.InvalidParameterError{Field: field, Value: v, Reason: fmt.Sprintf("must be a positive number up to %g mm", lens.MaxDiameterMM)}
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > lens.MaxDiameterMM {
		return &lens.InvalidParameterError{Field: field, Value: v, Reason: fmt.Sprintf("must be between 0 and %g mm", lens.MaxDiameterMM)}
	}
	return nil
}
