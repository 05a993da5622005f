package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected failure modes
var (
	ErrMissingFile       = errors.New("no file part")
	ErrEmptyFilename     = errors.New("no selected file")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrCorruptedFile     = errors.New("file corrupted or unreadable")
	ErrToolNotInstalled  = errors.New("required tool not installed")
	ErrNoMelodicContent  = errors.New("no melodic content found")
)

// ProcessError represents a failure in an external process
type ProcessError struct {
	Tool     string // "demucs", "ffmpeg"
	Stage    string // "stem_separation", "transcode"
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed at %s (exit %d): %s", e.Tool, e.Stage, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s failed at %s (exit %d)", e.Tool, e.Stage, e.ExitCode)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

func NewProcessError(tool, stage string, exitCode int, stderr string, cause error) *ProcessError {
	return &ProcessError{
		Tool:     tool,
		Stage:    stage,
		ExitCode: exitCode,
		Stderr:   stderr,
		Cause:    cause,
	}
}

// IsValidation reports whether err should be answered with a client error
// rather than a server error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrEmptyFilename) ||
		errors.Is(err, ErrUnsupportedFormat)
}
