package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFormat         = errors.New("format error")
	ErrConfiguration  = errors.New("configuration error")
	ErrSubmission     = errors.New("submission failure")
	ErrAcknowledgment = errors.New("acknowledgment failure")
	ErrTransient      = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRecoverable reports whether an error should abort only the affected
// operation rather than the surrounding workflow. Format and acknowledgment
// failures are recoverable; submission and configuration failures are not.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrFormat) || errors.Is(err, ErrAcknowledgment)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
