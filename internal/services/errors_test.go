package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"hanru/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("disk full")
	err := services.Wrap(services.ErrSubmission, "scheduler", "submit", "batch 2", cause)

	if !errors.Is(err, services.ErrSubmission) {
		t.Errorf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause lost: %v", err)
	}
	for _, fragment := range []string{"scheduler", "submit", "batch 2", "disk full"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("message missing %q: %v", fragment, err)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrFormat, "glossary", "import", "not an array", nil)
	if !errors.Is(err, services.ErrFormat) {
		t.Errorf("marker lost: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "backend", "poll", "", errors.New("timeout"))
	if !errors.Is(err, services.ErrTransient) {
		t.Errorf("expected transient default: %v", err)
	}
}

func TestIsRecoverable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{services.Wrap(services.ErrFormat, "glossary", "parse", "", nil), true},
		{services.Wrap(services.ErrAcknowledgment, "backend", "ack", "", nil), true},
		{services.Wrap(services.ErrSubmission, "backend", "send", "", nil), false},
		{services.Wrap(services.ErrConfiguration, "scheduler", "split", "", nil), false},
		{fmt.Errorf("wrapped: %w", services.ErrFormat), true},
		{errors.New("plain"), false},
	}
	for _, tc := range cases {
		if got := services.IsRecoverable(tc.err); got != tc.want {
			t.Errorf("IsRecoverable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
