package lens

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultSamples = 200
	MaxSamples     = 4000
)

var fallbackSamples atomic.Int64

func init() { fallbackSamples.Store(DefaultSamples) }

// SetDefaultSamples changes the count used when a request asks for 0 samples.
func SetDefaultSamples(n int) error {
	if n < 2 || n > MaxSamples {
		return &InvalidParameterError{Field: "samples", Value: float64(n), Reason: "must be between 2 and 4000"}
	}
	fallbackSamples.Store(int64(n))
	return nil
}

type Sample struct {
	XMM         float64 `json:"x_mm"`
	ThicknessMM float64 `json:"thickness_mm"`
}

// Point is the answer to a pointer query on the profile.
type Point struct {
	XMM         float64 `json:"x_mm"`
	ThicknessMM float64 `json:"thickness_mm"`
	InsideLens  bool    `json:"inside_lens"`
}

// SampleProfile returns n evenly spaced samples over [-D/2, D/2], endpoints
// included. n below 2 is raised to 2.
func SampleProfile(s Spec, r Radii, n int) []Sample {
	if n < 2 {
		n = 2
	}
	half := s.DiameterMM / 2
	xs := floats.Span(make([]float64, n), -half, half)
	// The rim samples must match EdgeThickness exactly.
	xs[0], xs[n-1] = -half, half
	out := make([]Sample, n)
	for i, x := range xs {
		out[i] = Sample{XMM: x, ThicknessMM: LocalThickness(x, s, r)}
	}
	return out
}

// ResolveSamples maps 0 to the configured default (DefaultSamples unless
// SetDefaultSamples was called) and rejects counts outside [2, MaxSamples].
func ResolveSamples(n int) (int, error) {
	if n == 0 {
		return int(fallbackSamples.Load()), nil
	}
	if n < 2 || n > MaxSamples {
		return 0, &InvalidParameterError{Field: "samples", Value: float64(n), Reason: "must be between 2 and 4000"}
	}
	return n, nil
}

// ComputeProfile validates s and samples its thickness profile.
func ComputeProfile(s Spec, n int) ([]Sample, error) {
	n, err := ResolveSamples(n)
	if err != nil {
		return nil, err
	}
	r, err := ComputeRadii(s)
	if err != nil {
		return nil, err
	}
	return SampleProfile(s, r, n), nil
}

// QueryPoint looks up the thickness at x. Whether a point outside the lens is
// meaningful is left to the caller.
func QueryPoint(s Spec, r Radii, x float64) Point {
	return Point{
		XMM:         x,
		ThicknessMM: LocalThickness(x, s, r),
		InsideLens:  math.Abs(x) <= s.DiameterMM/2,
	}
}

type Input struct {
	Spec
	Samples int      `json:"samples,omitempty"`
	XMM     *float64 `json:"x_mm,omitempty"`
}

type Result struct {
	R1MM              float64   `json:"r1_mm"`
	R2MM              float64   `json:"r2_mm"`
	EdgeThicknessMM   float64   `json:"edge_thickness_mm"`
	CenterThicknessMM float64   `json:"center_thickness_mm"`
	MinThicknessMM    float64   `json:"min_thickness_mm"`
	MaxThicknessMM    float64   `json:"max_thickness_mm"`
	Profile           []Sample  `json:"profile"`
	Point             *Point    `json:"point,omitempty"`
	Warnings          []Warning `json:"warnings,omitempty"`
	Notes             string    `json:"notes"`
}

func Calculate(in Input) (Result, error) {
	n, err := ResolveSamples(in.Samples)
	if err != nil {
		return Result{}, err
	}
	if in.XMM != nil && !finite(*in.XMM) {
		return Result{}, &InvalidParameterError{Field: "x_mm", Value: *in.XMM, Reason: "must be finite"}
	}
	spec := in.Spec.WithDefaults()
	r, err := ComputeRadii(spec)
	if err != nil {
		return Result{}, err
	}

	edge, err := checkThickness("diameter_mm", EdgeThickness(spec, r))
	if err != nil {
		return Result{}, err
	}
	res := Result{
		R1MM:              r.R1MM,
		R2MM:              r.R2MM,
		EdgeThicknessMM:   edge,
		CenterThicknessMM: spec.CentralThicknessMM,
		MinThicknessMM:    math.Min(spec.CentralThicknessMM, edge),
		MaxThicknessMM:    math.Max(spec.CentralThicknessMM, edge),
		Profile:           SampleProfile(spec, r, n),
		Warnings:          Diagnose(spec, r),
		Notes:             "Paraxial sagitta approximation for spherical surfaces.",
	}
	if in.XMM != nil {
		p := QueryPoint(spec, r, *in.XMM)
		if _, err := checkThickness("x_mm", p.ThicknessMM); err != nil {
			return Result{}, err
		}
		res.Point = &p
	}
	return res, nil
}
