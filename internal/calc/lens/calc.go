package lens

import (
	"fmt"
	"math"
)

// FlatSurfaceRadiusMM stands in for an infinite radius. At a 100 mm diameter its
// sagitta is 1.25e-6 mm, far below what a lens gauge can read.
const FlatSurfaceRadiusMM = 1e9

// MinRadiusMM is the smallest radius magnitude accepted by the thickness formulas.
const MinRadiusMM = 1e-3

// Upper bounds for the scalar inputs. Within them and above MinRadiusMM every
// thickness the formulas produce is finite.
const (
	MaxDiameterMM         = 1000.0
	MaxCentralThicknessMM = 1000.0
)

// paraxialRatio is the half-diameter to radius ratio above which the sagitta
// approximation is reported as unreliable.
const paraxialRatio = 0.5

type Mode string

const (
	ModeRadii Mode = "radii"
	ModePower Mode = "power"
)

type Family string

const (
	Biconvex     Family = "biconvex"
	Biconcave    Family = "biconcave"
	PlanoConvex  Family = "plano_convex"
	PlanoConcave Family = "plano_concave"
)

func (f Family) plano() bool {
	return f == PlanoConvex || f == PlanoConcave
}

func (f Family) convex() bool {
	return f == Biconvex || f == PlanoConvex
}

func (f Family) valid() bool {
	switch f {
	case Biconvex, Biconcave, PlanoConvex, PlanoConcave:
		return true
	}
	return false
}

// Spec describes one lens. A new Spec is built for every parameter change.
type Spec struct {
	DiameterMM         float64 `json:"diameter_mm" yaml:"diameter_mm"`
	CentralThicknessMM float64 `json:"central_thickness_mm" yaml:"central_thickness_mm"`
	RefractiveIndex    float64 `json:"refractive_index" yaml:"refractive_index"`
	Mode               Mode    `json:"mode" yaml:"mode"`
	R1MM               float64 `json:"r1_mm,omitempty" yaml:"r1_mm,omitempty"`
	R2MM               float64 `json:"r2_mm,omitempty" yaml:"r2_mm,omitempty"`
	PowerD             float64 `json:"power_d,omitempty" yaml:"power_d,omitempty"`
	Family             Family  `json:"family,omitempty" yaml:"family,omitempty"`
}

// Radii holds the anterior (R1) and posterior (R2) curvature radii in mm.
type Radii struct {
	R1MM float64 `json:"r1_mm"`
	R2MM float64 `json:"r2_mm"`
}

// WithDefaults fills the mode and, in power mode, the family implied by the
// sign of the power.
func (s Spec) WithDefaults() Spec {
	if s.Mode == "" {
		s.Mode = ModeRadii
	}
	if s.Mode == ModePower && s.Family == "" {
		s.Family = defaultFamily(s.PowerD)
	}
	return s
}

func defaultFamily(power float64) Family {
	if power < 0 {
		return Biconcave
	}
	return Biconvex
}

// Validate checks the scalar inputs. Zero radii are left to ComputeRadii so the
// offending surface can be named.
func (s Spec) Validate() error {
	if !finite(s.DiameterMM) || s.DiameterMM <= 0 {
		return &InvalidParameterError{Field: "diameter_mm", Value: s.DiameterMM, Reason: "must be a positive number"}
	}
	if s.DiameterMM > MaxDiameterMM {
		return &InvalidParameterError{Field: "diameter_mm", Value: s.DiameterMM, Reason: fmt.Sprintf("must not exceed %g mm", MaxDiameterMM)}
	}
	if !finite(s.CentralThicknessMM) || s.CentralThicknessMM < 0 {
		return &InvalidParameterError{Field: "central_thickness_mm", Value: s.CentralThicknessMM, Reason: "must not be negative"}
	}
	if s.CentralThicknessMM > MaxCentralThicknessMM {
		return &InvalidParameterError{Field: "central_thickness_mm", Value: s.CentralThicknessMM, Reason: fmt.Sprintf("must not exceed %g mm", MaxCentralThicknessMM)}
	}
	if !finite(s.RefractiveIndex) || s.RefractiveIndex <= 1 {
		return &InvalidParameterError{Field: "refractive_index", Value: s.RefractiveIndex, Reason: "must be greater than 1"}
	}
	switch s.Mode {
	case ModeRadii, "":
		if !finite(s.R1MM) {
			return &InvalidParameterError{Field: "r1_mm", Value: s.R1MM, Reason: "must be finite"}
		}
		if !finite(s.R2MM) {
			return &InvalidParameterError{Field: "r2_mm", Value: s.R2MM, Reason: "must be finite"}
		}
	case ModePower:
		if !finite(s.PowerD) {
			return &InvalidParameterError{Field: "power_d", Value: s.PowerD, Reason: "must be finite"}
		}
		if s.Family != "" && !s.Family.valid() {
			return &InvalidParameterError{Field: "family", Reason: fmt.Sprintf("unknown lens family %q", s.Family)}
		}
	default:
		return &InvalidParameterError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", s.Mode)}
	}
	return nil
}

// DeriveRadii converts a dioptric power into surface radii (thin-lens split).
// Plano families put the whole power on the front surface; the others split it
// evenly with a mirrored back surface. Zero power gives a flat lens.
func DeriveRadii(index, power float64, family Family) (Radii, error) {
	if !finite(index) || index <= 1 {
		return Radii{}, &InvalidParameterError{Field: "refractive_index", Value: index, Reason: "must be greater than 1"}
	}
	if !finite(power) {
		return Radii{}, &InvalidParameterError{Field: "power_d", Value: power, Reason: "must be finite"}
	}
	if power == 0 {
		return Radii{R1MM: FlatSurfaceRadiusMM, R2MM: FlatSurfaceRadiusMM}, nil
	}
	if family == "" {
		family = defaultFamily(power)
	}
	if !family.valid() {
		return Radii{}, &InvalidParameterError{Field: "family", Reason: fmt.Sprintf("unknown lens family %q", family)}
	}

	var r Radii
	if family.plano() {
		r = Radii{R1MM: 1000 * (index - 1) / power, R2MM: FlatSurfaceRadiusMM}
	} else {
		r1 := 2000 * (index - 1) / power
		r = Radii{R1MM: r1, R2MM: -r1}
	}
	if err := checkRadii(r); err != nil {
		return Radii{}, err
	}
	return clampFlat(r), nil
}

// ComputeRadii validates s and returns the radii it describes.
func ComputeRadii(s Spec) (Radii, error) {
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return Radii{}, err
	}
	if s.Mode == ModePower {
		return DeriveRadii(s.RefractiveIndex, s.PowerD, s.Family)
	}
	r := Radii{R1MM: s.R1MM, R2MM: s.R2MM}
	if err := checkRadii(r); err != nil {
		return Radii{}, err
	}
	return clampFlat(r), nil
}

// EdgeThickness is the paraxial thickness at the rim:
// Tc + (D²/8)(1/R1 - 1/R2). Valid while the radii are large against the
// aperture; steep surfaces are flagged by Diagnose, not corrected.
func EdgeThickness(s Spec, r Radii) float64 {
	return s.CentralThicknessMM + float64(s.DiameterMM*s.DiameterMM/8*curvatureDiff(r))
}

// LocalThickness evaluates the same sagitta difference at offset x. x is not
// clamped to the lens.
func LocalThickness(x float64, s Spec, r Radii) float64 {
	return s.CentralThicknessMM + float64(x*x/2*curvatureDiff(r))
}

// ComputeEdgeThickness validates s and returns its edge thickness.
func ComputeEdgeThickness(s Spec) (float64, error) {
	r, err := ComputeRadii(s)
	if err != nil {
		return 0, err
	}
	return checkThickness("diameter_mm", EdgeThickness(s, r))
}

// ComputeLocalThickness validates s and returns the thickness at x.
func ComputeLocalThickness(s Spec, x float64) (float64, error) {
	if !finite(x) {
		return 0, &InvalidParameterError{Field: "x_mm", Value: x, Reason: "must be finite"}
	}
	r, err := ComputeRadii(s)
	if err != nil {
		return 0, err
	}
	return checkThickness("x_mm", LocalThickness(x, s, r))
}

// Diagnose lists the non-fatal conditions of an already valid lens.
func Diagnose(s Spec, r Radii) []Warning {
	s = s.WithDefaults()
	var out []Warning

	switch {
	case s.Mode == ModePower && s.PowerD == 0:
		out = append(out, Warning{Kind: WarnZeroPower, Message: "zero power: flat lens of uniform thickness"})
	case r.R1MM == r.R2MM:
		out = append(out, Warning{Kind: WarnEqualRadii, Message: "equal radii: edge thickness equals central thickness"})
	}

	if s.Mode == ModePower && s.PowerD != 0 && s.Family.convex() != (s.PowerD > 0) {
		out = append(out, Warning{
			Kind:    WarnFamilyMismatch,
			Message: fmt.Sprintf("%s lens with %+.2f D power; the sign of the power decides the curvature", s.Family, s.PowerD),
		})
	}

	edge := EdgeThickness(s, r)
	if thinnest := math.Min(s.CentralThicknessMM, edge); thinnest < 0 {
		out = append(out, Warning{
			Kind:    WarnNegativeThickness,
			Message: fmt.Sprintf("profile reaches %.3f mm; increase the central thickness", thinnest),
		})
	}

	steepest := math.Min(math.Abs(r.R1MM), math.Abs(r.R2MM))
	if s.DiameterMM/2 > paraxialRatio*steepest {
		out = append(out, Warning{
			Kind:    WarnParaxialLimit,
			Message: fmt.Sprintf("radius %.1f mm is steep for a %.1f mm lens; the sagitta approximation is coarse", steepest, s.DiameterMM),
		})
	}
	return out
}

func curvatureDiff(r Radii) float64 {
	return 1/r.R1MM - 1/r.R2MM
}

func checkRadii(r Radii) error {
	if !(math.Abs(r.R1MM) >= MinRadiusMM) {
		return &InvalidRadiusError{Surface: Anterior, RadiusMM: r.R1MM}
	}
	if !(math.Abs(r.R2MM) >= MinRadiusMM) {
		return &InvalidRadiusError{Surface: Posterior, RadiusMM: r.R2MM}
	}
	return nil
}

// clampFlat caps radius magnitudes at FlatSurfaceRadiusMM so an all-but-flat
// surface never turns into an infinity downstream.
func clampFlat(r Radii) Radii {
	clamp := func(v float64) float64 {
		if math.Abs(v) > FlatSurfaceRadiusMM {
			return math.Copysign(FlatSurfaceRadiusMM, v)
		}
		return v
	}
	return Radii{R1MM: clamp(r.R1MM), R2MM: clamp(r.R2MM)}
}

// checkThickness rejects a non-finite result, blaming field.
func checkThickness(field string, t float64) (float64, error) {
	if !finite(t) {
		return 0, &InvalidParameterError{Field: field, Value: t, Reason: "gives a thickness out of floating-point range"}
	}
	return t, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
