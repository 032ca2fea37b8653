package chart

import (
	"bytes"
	"net/http"
	"strconv"

	lens "Sagitta/internal/calc/lens"
	"Sagitta/internal/calc/respond"
)

type Handler struct{}

// Plot renders the thickness profile; x_mm in the body adds the query marker.
// The X-Plot-* headers carry the chart Frame for click lookups.
func (h *Handler) Plot(w http.ResponseWriter, r *http.Request) {
	format, ok := ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		respond.Error(w, &respond.BadRequestError{Msg: "format must be png or svg", Field: "format"})
		return
	}
	var input lens.Input
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, err)
		return
	}
	res, err := lens.Calculate(input)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var buf bytes.Buffer
	frame, err := WriteChart(&buf, res.Profile, res.Point, format)
	if err != nil {
		respond.Error(w, err)
		return
	}
	hdr := w.Header()
	hdr.Set("Content-Type", format.ContentType())
	hdr.Set("X-Plot-Left", formatFloat(frame.Left))
	hdr.Set("X-Plot-Right", formatFloat(frame.Right))
	hdr.Set("X-Plot-Min-X", formatFloat(frame.MinX))
	hdr.Set("X-Plot-Max-X", formatFloat(frame.MaxX))
	w.Write(buf.Bytes())
}

func (h *Handler) Section(w http.ResponseWriter, r *http.Request) {
	var input lens.Input
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, err)
		return
	}
	n, err := lens.ResolveSamples(input.Samples)
	if err != nil {
		respond.Error(w, err)
		return
	}
	radii, err := lens.ComputeRadii(input.Spec)
	if err != nil {
		respond.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", SVG.ContentType())
	Section(w, input.Spec, radii, n)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
