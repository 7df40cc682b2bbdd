package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := New(ErrCodeEngineClosed, "engine closed")
		got := err.Error()
		if !strings.Contains(got, "ENGINE_CLOSED") || !strings.Contains(got, "engine closed") {
			t.Errorf("unexpected error string: %q", got)
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := stderrors.New("boom")
		err := Internal(cause)
		if !strings.Contains(err.Error(), "boom") {
			t.Errorf("error string should include cause, got %q", err.Error())
		}
	})
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := WorkerFailure("producer", "cpu", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		retryable bool
	}{
		{"invalid configuration", InvalidConfiguration("queue scale must be positive"), ErrCodeInvalidConfiguration, false},
		{"engine closed", EngineClosed(), ErrCodeEngineClosed, false},
		{"worker failure", WorkerFailure("consumer", "", stderrors.New("x")), ErrCodeWorkerFailure, false},
		{"not found", NotFound("handler", "s3://"), ErrCodeNotFound, false},
		{"already exists", AlreadyExists("entry", "resnet"), ErrCodeAlreadyExists, false},
		{"unsupported", Unsupported("remove", "http"), ErrCodeUnsupported, false},
		{"download failed", DownloadFailed("http://example.com/f", stderrors.New("503")), ErrCodeDownloadFailed, true},
		{"internal", Internal(stderrors.New("x")), ErrCodeInternal, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("code = %s, want %s", tc.err.Code, tc.code)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("retryable = %v, want %v", tc.err.Retryable, tc.retryable)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		if got := GetCode(EngineClosed()); got != ErrCodeEngineClosed {
			t.Errorf("got %s", got)
		}
	})

	t.Run("wrapped app error", func(t *testing.T) {
		wrapped := fmt.Errorf("call failed: %w", EngineClosed())
		if got := GetCode(wrapped); got != ErrCodeEngineClosed {
			t.Errorf("got %s", got)
		}
	})

	t.Run("foreign error", func(t *testing.T) {
		if got := GetCode(stderrors.New("plain")); got != ErrCodeInternal {
			t.Errorf("got %s", got)
		}
	})
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", InvalidConfiguration("bad"))
	if !HasCode(err, ErrCodeInvalidConfiguration) {
		t.Error("expected HasCode to match through wrapping")
	}
	if HasCode(err, ErrCodeEngineClosed) {
		t.Error("unexpected code match")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(DownloadFailed("u", nil)) {
		t.Error("download failures should be retryable")
	}
	if IsRetryable(EngineClosed()) {
		t.Error("engine closed should not be retryable")
	}
	if IsRetryable(stderrors.New("plain")) {
		t.Error("foreign errors should not be retryable")
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeInternal, "x").WithDetail("k", 1).WithDetail("j", "v")
	if err.Details["k"] != 1 || err.Details["j"] != "v" {
		t.Errorf("details not recorded: %v", err.Details)
	}
}
