package report

import (
	"bytes"
	"net/http"
	"time"

	"Sagitta/internal/calc/respond"
)

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, input, time.Now()); err != nil {
		respond.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"lens-report.pdf\"")
	w.Write(buf.Bytes())
}
