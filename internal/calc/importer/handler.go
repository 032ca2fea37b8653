package importer

import (
	"bytes"
	"net/http"
	"strconv"

	lens "Sagitta/internal/calc/lens"
	"Sagitta/internal/calc/respond"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct{}

// Import calculates every row of an uploaded xlsx (multipart field "file").
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, &InputError{Msg: "File required"})
		return
	}
	defer file.Close()

	samples := 0
	if s := r.FormValue("samples"); s != "" {
		if samples, err = strconv.Atoi(s); err != nil {
			respond.Error(w, &respond.BadRequestError{Msg: "samples must be an integer", Field: "samples"})
			return
		}
	}
	if _, err := lens.ResolveSamples(samples); err != nil {
		respond.Error(w, err)
		return
	}

	res, err := ReadSheet(file, samples)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// Export returns the calculation for one lens as an xlsx workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
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
	if err := WriteProfile(&buf, input.Spec.WithDefaults(), res); err != nil {
		respond.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"lens-profile.xlsx\"")
	w.Write(buf.Bytes())
}
