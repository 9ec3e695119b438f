package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid option combinations detected before any
	// job starts.
	ErrConfiguration = errors.New("configuration error")
	// ErrMissingDependency marks an external codec tool that is required for
	// a format present in the input list but not installed.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrUnsupportedFormat marks an input extension outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExternalTool marks a decode or encode subprocess that exited non-zero.
	ErrExternalTool = errors.New("external tool error")
	// ErrLosslessCheck marks a WMA input whose embedded codec is not the
	// lossless variant.
	ErrLosslessCheck = errors.New("lossless verification failed")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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
