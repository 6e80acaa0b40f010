package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates a document type the extractor cannot handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// Staging Errors.

	// ErrArtifactNotFound indicates every search strategy was exhausted
	// without finding the required shared library.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrStageFailed indicates a library could not be copied into the
	// staging directory.
	ErrStageFailed = errors.New("staging failed")

	// Extraction Errors.

	// ErrExtractorUnavailable indicates no extraction engine is configured.
	ErrExtractorUnavailable = errors.New("extractor unavailable")

	// ErrOCRUnavailable indicates OCR was requested but no OCR engine is available.
	ErrOCRUnavailable = errors.New("OCR engine unavailable")
)

// NotFoundError reports an exhausted artifact search. It names the
// descriptor and every region that was searched.
type NotFoundError struct {
	// File is the primary file name that was searched for.
	File string

	// Searched lists the searched regions in search order.
	Searched []string
}

func (e *NotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("could not locate %s", e.File)
	}
	return fmt.Sprintf("could not locate %s (searched: %s); build the upstream dependency first",
		e.File, strings.Join(e.Searched, "; "))
}

// Unwrap returns ErrArtifactNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrArtifactNotFound
}

// StageError reports a failed copy into the staging directory. Source is
// empty when the directory itself could not be created.
type StageError struct {
	Source      string
	Destination string
	Err         error
}

func (e *StageError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("create staging directory %s: %v", e.Destination, e.Err)
	}
	return fmt.Sprintf("copy %s to %s failed: %v", e.Source, e.Destination, e.Err)
}

// Unwrap returns both the staging sentinel and the underlying cause.
func (e *StageError) Unwrap() []error {
	return []error{ErrStageFailed, e.Err}
}
