// Package httputil writes JSON responses and domain errors in the shape every
// handler shares.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "census/pkg/domain-errors"
)

// ErrorResponse is the body of every error reply. Description is omitted for
// server-side failures so internals never leak.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// DataResponse wraps successful payloads.
type DataResponse struct {
	Data any `json:"data"`
}

// WriteJSON writes v as the JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes data inside the {"data": ...} envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, DataResponse{Data: data})
}

// WriteError maps err to its status and writes the error body. Errors without
// a domain code are reported as internal.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := ""
	if de, ok := dErrors.As(err); ok {
		code = de.Code
		message = de.Message
	}

	resp := ErrorResponse{Error: string(code)}
	if dErrors.IsClientError(code) {
		resp.ErrorDescription = message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
