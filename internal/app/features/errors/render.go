// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/committeehub/internal/app/system/inputval"
	"github.com/dalemusser/committeehub/internal/app/system/limits"
	"github.com/dalemusser/committeehub/internal/app/workflow"
	"go.uber.org/zap"
)

// Error codes carried in the "error" field of a JSON error body.
const (
	CodeValidation             = "validation"
	CodeForbidden              = "forbidden"
	CodeNotFound               = "not_found"
	CodeInvalidTransition      = "invalid_transition"
	CodeConcurrentModification = "concurrent_modification"
	CodeInternal               = "internal"
)

// Body is the JSON error envelope.
type Body struct {
	Error   string                `json:"error"`
	Message string                `json:"message"`
	Fields  []inputval.FieldError `json:"fields,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write sends {"error":code,"message":msg}.
func Write(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, Body{Error: code, Message: msg})
}

// WriteValidation sends a 400 listing every failed field.
func WriteValidation(w http.ResponseWriter, res *inputval.Result) {
	WriteJSON(w, http.StatusBadRequest, Body{
		Error:   CodeValidation,
		Message: res.First(),
		Fields:  res.Errors,
	})
}

// StatusFor maps a workflow error kind to its HTTP status and code.
// Anything without a kind is a 500.
func StatusFor(err error) (int, string) {
	switch workflow.Kind(err) {
	case workflow.ErrValidation:
		return http.StatusBadRequest, CodeValidation
	case workflow.ErrForbidden:
		return http.StatusForbidden, CodeForbidden
	case workflow.ErrNotFound:
		return http.StatusNotFound, CodeNotFound
	case workflow.ErrInvalidTransition:
		return http.StatusConflict, CodeInvalidTransition
	case workflow.ErrConcurrentModification:
		return http.StatusConflict, CodeConcurrentModification
	}
	return http.StatusInternalServerError, CodeInternal
}

// FromWorkflow writes err as a JSON error. Internal errors are logged and
// their text is not sent to the client.
func FromWorkflow(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		Write(w, status, code, "something went wrong, please try again")
		return
	}
	Write(w, status, code, workflow.Message(err))
}

// DecodeJSON reads a JSON body into dst and runs its validate tags.
// It writes the 400 itself and returns false on any problem.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decode(w, r, dst, false)
}

// DecodeOptionalJSON is DecodeJSON for endpoints where the body may be
// omitted. An empty body leaves dst untouched and succeeds; anything else
// gets the same size limit, unknown-field and validation checks.
func DecodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decode(w, r, dst, true)
}

func decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	body := http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		msg := "request body must be valid JSON"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body is required"
		case errors.As(err, &maxErr):
			msg = "request body is too large"
		}
		Write(w, http.StatusBadRequest, CodeValidation, msg)
		return false
	}
	if res := inputval.Validate(dst); res.HasErrors() {
		WriteValidation(w, res)
		return false
	}
	return true
}
