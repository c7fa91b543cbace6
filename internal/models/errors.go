// -----------------------------------------------------------------------
// Error Taxonomy - one base error type with a kind tag so callers can
// match broadly with errors.As or narrowly on kind
// -----------------------------------------------------------------------

package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a processing failure.
type ErrorKind string

const (
	// KindValidation marks user-correctable input failures.
	KindValidation ErrorKind = "validation"

	// KindDocumentRead marks documents that cannot be opened or parsed.
	KindDocumentRead ErrorKind = "document_read"

	// KindRecognition marks render and OCR failures.
	KindRecognition ErrorKind = "recognition"

	// KindConversion marks artifact-writing failures.
	KindConversion ErrorKind = "conversion"

	// KindConfiguration marks bad or unusable configuration.
	KindConfiguration ErrorKind = "configuration"
)

// ProcessingError is the error type every pipeline failure surfaces as.
type ProcessingError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a user-correctable validation failure.
func NewValidationError(format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewDocumentReadError creates a document parse/open failure.
func NewDocumentReadError(format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{Kind: KindDocumentRead, Message: fmt.Sprintf(format, args...)}
}

// NewRecognitionError creates a render or OCR failure.
func NewRecognitionError(format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{Kind: KindRecognition, Message: fmt.Sprintf(format, args...)}
}

// NewConversionError creates an artifact-writing failure.
func NewConversionError(format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{Kind: KindConversion, Message: fmt.Sprintf(format, args...)}
}

// NewConfigurationError creates a configuration failure.
func NewConfigurationError(format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps a cause with a kind and message. The cause stays
// reachable through errors.Is / errors.As.
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// IsKind reports whether err is a ProcessingError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// KindOf returns the kind of a ProcessingError anywhere in err's chain,
// or the empty kind when there is none.
func KindOf(err error) ErrorKind {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
