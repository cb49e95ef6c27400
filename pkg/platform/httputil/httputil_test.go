package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dErrors "represent/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error hides message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body ErrorBody
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Error.Code != "INTERNAL_ERROR" {
			t.Fatalf("expected error code INTERNAL_ERROR, got %q", body.Error.Code)
		}
		if body.Error.Message == "db failed" {
			t.Fatalf("expected internal error message to be hidden")
		}
	})

	t.Run("invalid address includes message and details", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInvalidAddress, "Address cannot be empty").
			WithDetails("The address must contain at least one non-whitespace character"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body ErrorBody
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Error.Code != "INVALID_ADDRESS" {
			t.Fatalf("expected error code INVALID_ADDRESS, got %q", body.Error.Code)
		}
		if body.Error.Message != "Address cannot be empty" {
			t.Fatalf("unexpected message %q", body.Error.Message)
		}
		if body.Error.Details == "" {
			t.Fatalf("expected details to be present")
		}
	})

	t.Run("wrapped provider failure maps to 503", func(t *testing.T) {
		w := httptest.NewRecorder()
		cause := errors.New("connect: connection refused")
		WriteError(w, dErrors.Wrap(cause, dErrors.CodeExternalService, "division provider unreachable"))

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
		}

		var body ErrorBody
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Error.Code != "EXTERNAL_SERVICE_ERROR" {
			t.Fatalf("expected error code EXTERNAL_SERVICE_ERROR, got %q", body.Error.Code)
		}
	})
}
