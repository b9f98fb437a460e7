package services_test

import (
	"errors"
	"strings"
	"testing"

	"vidnotes/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"extract", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestClassifyAndRetryable(t *testing.T) {
	tests := []struct {
		marker    error
		label     string
		retryable bool
	}{
		{services.ErrNotFound, "not_found", false},
		{services.ErrValidation, "validation", false},
		{services.ErrConfiguration, "configuration", false},
		{services.ErrTimeout, "timeout", true},
		{services.ErrExternalTool, "external_tool", true},
		{services.ErrTransient, "transient", true},
	}
	for _, tc := range tests {
		err := services.Wrap(tc.marker, "stage", "op", "msg", nil)
		if got := services.Classify(err); got != tc.label {
			t.Fatalf("expected %q, got %q", tc.label, got)
		}
		if got := services.Retryable(err); got != tc.retryable {
			t.Fatalf("%s: expected retryable=%v, got %v", tc.label, tc.retryable, got)
		}
		if services.Hint(err) == "" {
			t.Fatalf("%s: expected hint", tc.label)
		}
	}
	if services.Classify(nil) != "" || services.Retryable(nil) {
		t.Fatal("expected nil error to be unclassified")
	}
}
