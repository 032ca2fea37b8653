// Package respond writes the JSON bodies shared by the calculator handlers.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"Sagitta/internal/logger"
)

type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// inputError is implemented by every error caused by client input.
type inputError interface {
	error
	InputField() string
}

// JSON encodes v before writing the status; a value that cannot be encoded is
// answered with a 500.
func JSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.L().Error("respond.encode", "err", err)
		buf.Reset()
		json.NewEncoder(&buf).Encode(ErrorBody{Error: "Calculation error"})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Error maps input errors to 400 with the offending field and anything else
// to 500.
func Error(w http.ResponseWriter, err error) {
	var in inputError
	if errors.As(err, &in) {
		JSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error(), Field: in.InputField()})
		return
	}
	logger.L().Error("respond.internal", "err", err)
	JSON(w, http.StatusInternalServerError, ErrorBody{Error: "Calculation error"})
}

// BadRequestError is a client error that is not tied to a lens field.
type BadRequestError struct {
	Msg   string
	Field string
}

func (e *BadRequestError) Error() string      { return e.Msg }
func (e *BadRequestError) InputField() string { return e.Field }

func BadRequest(msg string) error {
	return &BadRequestError{Msg: msg}
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return BadRequest("Invalid request payload")
	}
	return nil
}
