package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusBadRequest)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("connection refused")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if !errors.Is(wrapped, originalErr) {
		t.Errorf("errors.Is should see through AppError")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   Unavailable("DB not ready"),
			expected: "SERVICE_UNAVAILABLE: DB not ready",
		},
		{
			name:     "with underlying error",
			appErr:   Internal("internal error", errors.New("socket closed")),
			expected: "INTERNAL_ERROR: internal error (caused by: socket closed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructorsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation", Validation("Missing required fields", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad body"), CodeInvalidInput, http.StatusBadRequest},
		{"verification", VerificationFailed("Bot verification failed", nil), CodeVerification, http.StatusForbidden},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("Request timeout"), CodeTimeout, http.StatusServiceUnavailable},
		{"unavailable", Unavailable("Server initializing, try again"), CodeUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited("Rate limit exceeded"), CodeRateLimited, http.StatusTooManyRequests},
		{"not found", NotFound("Not found"), CodeNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestStore_SurfacesUnderlyingMessage(t *testing.T) {
	cause := errors.New("server selection error: context deadline exceeded")
	err := Store(cause)

	if err.Message != cause.Error() {
		t.Errorf("expected message %q, got %q", cause.Error(), err.Message)
	}
	if err.Err != cause {
		t.Errorf("expected cause to be kept")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Unavailable("DB not ready")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("handler: %w", appErr)
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should unwrap wrapped AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(VerificationFailed("x", nil), CodeVerification) {
		t.Errorf("IsCode should match")
	}
	if IsCode(errors.New("plain"), CodeInternal) {
		t.Errorf("IsCode should not match plain errors")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	raw := Validation("Missing required fields", map[string]any{"missing": []string{"room_type"}}).ToJSON()

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", err)
	}
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body["success"])
	}
	if body["error"] != "Missing required fields" {
		t.Errorf("expected error message, got %v", body["error"])
	}
	if _, ok := body["code"]; ok {
		t.Errorf("codes must not be sent to callers")
	}
	if _, ok := body["details"]; ok {
		t.Errorf("details must not be sent to callers")
	}
}
