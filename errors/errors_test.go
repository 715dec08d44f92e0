package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeTypeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeTypeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeTypeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("TYPE_NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_NotIterable_Success(t *testing.T) {
	err := NotIterable(2, "int")
	if err.Code != ErrCodeNotIterable {
		t.Errorf("expected NOT_ITERABLE, got %s", err.Code)
	}
	if err.Details["position"] != 2 {
		t.Errorf("expected position=2, got %v", err.Details["position"])
	}
	if err.Details["type"] != "int" {
		t.Errorf("expected type=int, got %v", err.Details["type"])
	}
	if !strings.Contains(err.Error(), "'int' object is not iterable") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAppError_NotCallable_Success(t *testing.T) {
	err := NotCallable("string")
	if err.Code != ErrCodeNotCallable {
		t.Errorf("expected NOT_CALLABLE, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("cursor leaked")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.Retryable {
		t.Error("Internal should NOT be retryable by default")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	root := stderrors.New("root")
	err := TypeNotFound("zip").WithCause(root)
	if !stderrors.Is(err, root) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "cause: root") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := Validation("bad")
	err.WithDetail("k", "v")
	if err.Details["k"] != "v" {
		t.Errorf("expected detail k=v, got %v", err.Details)
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"NotIterable", NotIterable(0, "int"), ErrCodeNotIterable, http.StatusBadRequest},
		{"NotCallable", NotCallable("int"), ErrCodeNotCallable, http.StatusBadRequest},
		{"TypeNotFound", TypeNotFound("zip"), ErrCodeTypeNotFound, http.StatusNotFound},
		{"FunctionNotFound", FunctionNotFound("pow"), ErrCodeFunctionNotFound, http.StatusNotFound},
		{"AlreadyExists", AlreadyExists("type", "map"), ErrCodeAlreadyExists, http.StatusConflict},
		{"UnsupportedSlot", UnsupportedSlot("map", "next"), ErrCodeUnsupportedSlot, http.StatusBadRequest},
		{"InvalidInput", InvalidInput("fn", "unknown"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"MissingField", MissingField("fn"), ErrCodeMissingField, http.StatusBadRequest},
		{"Timeout", Timeout("eval"), ErrCodeTimeout, http.StatusGatewayTimeout},
		{"RateLimited", RateLimited(time.Second), ErrCodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("binding arguments: %w", NotIterable(1, "int"))
	if !HasCode(err, ErrCodeNotIterable) {
		t.Error("expected wrapped NOT_ITERABLE to be detected")
	}
	if HasCode(err, ErrCodeNotCallable) {
		t.Error("did not expect NOT_CALLABLE")
	}
	if HasCode(stderrors.New("plain"), ErrCodeNotIterable) {
		t.Error("plain errors carry no code")
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	resp := NotIterable(3, "float64").ToResponse()
	if resp.Error.Code != ErrCodeNotIterable {
		t.Errorf("expected NOT_ITERABLE, got %s", resp.Error.Code)
	}
	if resp.Error.Details["position"] != 3 {
		t.Errorf("expected position detail, got %v", resp.Error.Details)
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", MissingField("fn"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed")
	}
	if appErr.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", appErr.Code)
	}
	if IsAppError(stderrors.New("plain")) {
		t.Error("plain error is not an AppError")
	}
}
