package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the pipeline error taxonomy. Per-folder failures wrap
// one of these so the queue processor can classify and report them without
// string matching.
var (
	ErrManifestMissing      = errors.New("manifest missing")
	ErrManifestMalformed    = errors.New("manifest malformed")
	ErrAgentOutputMissing   = errors.New("agent output missing")
	ErrAgentOutputMalformed = errors.New("agent output malformed")
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateListing     = errors.New("duplicate listing")
	ErrWorkbookWrite        = errors.New("workbook write failed")
)

// ValidationError reports a single rejected field. It unwraps to
// ErrValidation so callers can classify it with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validationf builds a ValidationError with a formatted reason.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Stage names recorded on failed queue entries and printed in reports.
const (
	StageManifest    = "manifest"
	StageAgentOutput = "agent-output"
	StageJoin        = "join"
	StageWorkbook    = "workbook"
)

// StageFor maps an error to the pipeline stage that produced it.
func StageFor(err error) string {
	switch {
	case errors.Is(err, ErrManifestMissing), errors.Is(err, ErrManifestMalformed):
		return StageManifest
	case errors.Is(err, ErrAgentOutputMissing), errors.Is(err, ErrAgentOutputMalformed):
		return StageAgentOutput
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicateListing):
		return StageJoin
	case errors.Is(err, ErrWorkbookWrite):
		return StageWorkbook
	default:
		return "unknown"
	}
}

// IsBatchFatal reports whether an error must abort the whole batch instead of
// being recorded against a single folder. Workbook integrity outranks
// per-folder forward progress.
func IsBatchFatal(err error) bool {
	return errors.Is(err, ErrWorkbookWrite)
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
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
