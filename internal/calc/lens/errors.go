package lens

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidRadius    = errors.New("invalid radius")
)

// InvalidParameterError reports an out-of-domain scalar input.
type InvalidParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s (got %g)", e.Field, e.Reason, e.Value)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func (e *InvalidParameterError) InputField() string { return e.Field }

type Surface string

const (
	Anterior  Surface = "anterior"
	Posterior Surface = "posterior"
)

// InvalidRadiusError is returned when a supplied or derived radius is too close
// to zero to divide by.
type InvalidRadiusError struct {
	Surface  Surface
	RadiusMM float64
}

func (e *InvalidRadiusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s radius %g mm is zero or below %g mm", e.Surface, e.RadiusMM, MinRadiusMM)
}

func (e *InvalidRadiusError) Is(target error) bool {
	return target == ErrInvalidRadius
}

func (e *InvalidRadiusError) InputField() string {
	if e.Surface == Posterior {
		return "r2_mm"
	}
	return "r1_mm"
}

// Field returns the input field a client should correct for err, or "".
func Field(err error) string {
	var pe *InvalidParameterError
	if errors.As(err, &pe) {
		return pe.Field
	}
	var re *InvalidRadiusError
	if errors.As(err, &re) {
		return re.InputField()
	}
	return ""
}

// IsValidation reports whether err is caused by bad input rather than a fault.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidParameter) || errors.Is(err, ErrInvalidRadius)
}

type WarningKind string

const (
	WarnZeroPower         WarningKind = "zero_power"
	WarnEqualRadii        WarningKind = "equal_radii"
	WarnFamilyMismatch    WarningKind = "family_mismatch"
	WarnNegativeThickness WarningKind = "negative_thickness"
	WarnParaxialLimit     WarningKind = "paraxial_limit"
)

// Warning is a non-fatal diagnostic; the calculation still produced a result.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// Degenerate reports whether the warning describes a flat, zero-curvature lens.
func (w Warning) Degenerate() bool {
	return w.Kind == WarnZeroPower || w.Kind == WarnEqualRadii
}
