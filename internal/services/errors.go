package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindFileTooLarge      ErrorKind = "file_too_large"
	KindExtractionFailed  ErrorKind = "extraction_failed"
	KindEmptyInput        ErrorKind = "empty_input"
	KindTooShort          ErrorKind = "too_short"
	KindTooLong           ErrorKind = "too_long"
	KindInvalidRequest    ErrorKind = "invalid_request"
	KindProviderError     ErrorKind = "provider_error"
	KindSchemaViolation   ErrorKind = "schema_violation"
	KindNotFound          ErrorKind = "not_found"
	KindInternal          ErrorKind = "internal"
)

const (
	msgAnalysisFailed = "AI analysis failed. Please try again."
	msgInternal       = "An error occurred while analyzing your resume. Please try again."
)

// AnalysisError is the single failure type of the analysis pipeline. Message is
// safe to show to the user; Err keeps the underlying cause for logs.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to an HTTP status. Client faults are 4xx.
func (e *AnalysisError) StatusCode() int {
	switch e.Kind {
	case KindUnsupportedFormat, KindEmptyInput, KindTooShort, KindTooLong, KindInvalidRequest:
		return http.StatusBadRequest
	case KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindExtractionFailed:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindProviderError, KindSchemaViolation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ClientFault reports whether the failure was caused by the caller's input.
func (e *AnalysisError) ClientFault() bool {
	return e.StatusCode() < http.StatusInternalServerError
}

func newError(kind ErrorKind, message string, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Message: message, Err: err}
}

func ErrUnsupportedFormat(mimeType string) *AnalysisError {
	return newError(KindUnsupportedFormat,
		"Invalid file type. Only PDF, DOCX, and TXT files are allowed.",
		fmt.Errorf("unsupported mime type %q", mimeType))
}

func ErrFileTooLarge(size, limit int64) *AnalysisError {
	return newError(KindFileTooLarge,
		FileTooLargeMessage(limit),
		fmt.Errorf("file is %d bytes, limit is %d", size, limit))
}

// FileTooLargeMessage names the upload limit in the largest unit that divides
// it exactly.
func FileTooLargeMessage(limit int64) string {
	var size string
	switch {
	case limit >= 1<<20 && limit%(1<<20) == 0:
		size = fmt.Sprintf("%dMB", limit>>20)
	case limit >= 1<<10 && limit%(1<<10) == 0:
		size = fmt.Sprintf("%dKB", limit>>10)
	default:
		size = fmt.Sprintf("%d bytes", limit)
	}
	return fmt.Sprintf("File size exceeds %s limit", size)
}

func ErrExtractionFailed(format string, err error) *AnalysisError {
	return newError(KindExtractionFailed,
		fmt.Sprintf("Could not read text from the %s file. It may be scanned, image-only, or corrupted. Please upload a text-based file or paste the text.", format),
		err)
}

func ErrProvider(err error) *AnalysisError {
	return newError(KindProviderError, msgAnalysisFailed, err)
}

func ErrSchemaViolation(err error) *AnalysisError {
	return newError(KindSchemaViolation, msgAnalysisFailed, err)
}

func ErrNotFound(what string) *AnalysisError {
	return newError(KindNotFound, fmt.Sprintf("%s not found", what), nil)
}

func ErrInternal(err error) *AnalysisError {
	return newError(KindInternal, msgInternal, err)
}

// AsAnalysisError unwraps err into an *AnalysisError, classifying anything
// unknown as an internal failure.
func AsAnalysisError(err error) *AnalysisError {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae
	}
	return ErrInternal(err)
}

// IsKind reports whether err is an *AnalysisError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *AnalysisError
	return errors.As(err, &ae) && ae.Kind == kind
}
