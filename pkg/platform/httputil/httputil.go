// Package httputil centralizes JSON response writing so every handler emits
// the same success and error envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "represent/pkg/domain-errors"
)

// ErrorBody is the wire shape of the error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the stable code, a human-readable message, and
// optional debugging details.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the error envelope. Internal
// errors hide their message behind a generic one so infrastructure detail
// never leaks to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	detail := ErrorDetail{
		Code:    string(code),
		Message: "An unexpected error occurred",
	}
	var de *dErrors.Error
	if errors.As(err, &de) && code != dErrors.CodeInternal {
		detail.Message = de.Message
		detail.Details = de.Details
	}

	WriteJSON(w, status, ErrorBody{Error: detail})
}
