// Package response renders JSON bodies and structured errors for the api
// packages.
package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"golang.org/x/exp/slog"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// Created writes v with 201 and a Location header.
func Created(w http.ResponseWriter, r *http.Request, location string, v any) {
	w.Header().Set("Location", location)
	JSON(w, r, http.StatusCreated, v)
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter, r *http.Request) {
	render.NoContent(w, r)
}

// Error maps err to its HTTP status and renders it. Errors that carry no
// code are reported as internal errors without leaking their message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := liberrors.GetCode(err)
	status := liberrors.MapErrorCodeToHTTPStatus(code)

	body := ErrorResponse{Code: string(code)}
	var structured *liberrors.Error
	if errors.As(err, &structured) && code != liberrors.ErrCodeInternal {
		body.Error = structured.Message
		body.Details = structured.Details
	} else {
		body.Error = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
	} else {
		slog.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
	}

	JSON(w, r, status, body)
}

// BadRequest renders an INVALID_INPUT error with message.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, liberrors.New(liberrors.ErrCodeInvalidInput, message))
}
