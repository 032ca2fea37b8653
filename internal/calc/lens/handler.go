package lens

import (
	"context"
	"net/http"

	"Sagitta/internal/calc/respond"
	"Sagitta/internal/logger"
)

// Recorder stores finished calculations. It is optional.
type Recorder interface {
	SaveCalculation(ctx context.Context, spec Spec, res Result) error
}

type Handler struct {
	Store Recorder
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, err)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		logger.L().Debug("lens.calc.rejected", "err", err)
		respond.Error(w, err)
		return
	}
	if h.Store != nil {
		if err := h.Store.SaveCalculation(r.Context(), input.Spec.WithDefaults(), res); err != nil {
			logger.L().Warn("lens.history.save", "err", err)
		}
	}
	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) Radii(w http.ResponseWriter, r *http.Request) {
	var spec Spec
	if err := respond.Decode(r, &spec); err != nil {
		respond.Error(w, err)
		return
	}
	radii, err := ComputeRadii(spec)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, struct {
		Radii
		Warnings []Warning `json:"warnings,omitempty"`
	}{radii, Diagnose(spec, radii)})
}

// Point answers a click on the profile chart.
func (h *Handler) Point(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, err)
		return
	}
	if input.XMM == nil {
		respond.Error(w, &respond.BadRequestError{Msg: "x_mm is required", Field: "x_mm"})
		return
	}
	x := *input.XMM
	if !finite(x) {
		respond.Error(w, &InvalidParameterError{Field: "x_mm", Value: x, Reason: "must be finite"})
		return
	}
	radii, err := ComputeRadii(input.Spec)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, QueryPoint(input.Spec, radii, x))
}
