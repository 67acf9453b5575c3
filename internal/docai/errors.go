package docai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Common processing errors
var (
	// ErrProcessingFailed is returned when remote processing fails for a
	// reason that has no more specific error below.
	ErrProcessingFailed = errors.New("OCR processing failed")

	// ErrUnauthenticated is returned when the credentials are rejected.
	ErrUnauthenticated = errors.New("Google Cloud authentication failed")

	// ErrPermissionDenied is returned when the credentials lack access to the processor.
	ErrPermissionDenied = errors.New("insufficient permissions for the OCR service")

	// ErrQuotaExceeded is returned when API quota limits are exceeded.
	ErrQuotaExceeded = errors.New("OCR service API quota exceeded")

	// ErrProcessorNotFound is returned when the processor does not exist in the
	// configured project and location.
	ErrProcessorNotFound = errors.New("Document AI processor not found")

	// ErrInvalidRequest is returned when the service rejects the request, for
	// example an unsupported page count or a corrupt document.
	ErrInvalidRequest = errors.New("OCR service rejected the request")

	// ErrEmptyResponse is returned when the response carries no document.
	ErrEmptyResponse = errors.New("no document in Document AI response")

	// ErrContextCanceled is returned when processing is canceled via context.
	ErrContextCanceled = errors.New("document processing was canceled")
)

// ProcessingError wraps errors with the operation and processor that produced them.
type ProcessingError struct {
	// Op is the operation that failed (e.g., "NewClient", "Process").
	Op string

	// Err is the classified error.
	Err error

	// Details provides additional context about the failure.
	Details string

	// Cause is the original service error, kept in the chain.
	Cause error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	msg := fmt.Sprintf("docai: %s failed", e.Op)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	msg += fmt.Sprintf(": %v", e.Err)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (%v)", e.Cause)
	}
	return msg
}

// Unwrap returns both the classified and the original error.
func (e *ProcessingError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// WrapProcessingError wraps an error as a ProcessingError if it isn't already one.
func WrapProcessingError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var procErr *ProcessingError
	if errors.As(err, &procErr) {
		return err
	}

	return &ProcessingError{Op: op, Err: err, Details: details}
}

// ClassifyError maps a gRPC error from a Google Cloud client to one of the
// sentinel errors, keeping the original error as the cause.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var kind error
	switch status.Code(err) {
	case codes.Unauthenticated:
		kind = ErrUnauthenticated
	case codes.PermissionDenied:
		kind = ErrPermissionDenied
	case codes.ResourceExhausted:
		kind = ErrQuotaExceeded
	case codes.NotFound:
		kind = ErrProcessorNotFound
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		kind = ErrInvalidRequest
	case codes.DeadlineExceeded:
		kind = context.DeadlineExceeded
	case codes.Canceled:
		kind = ErrContextCanceled
	default:
		if errors.Is(err, context.Canceled) {
			kind = ErrContextCanceled
		} else {
			kind = ErrProcessingFailed
		}
	}

	return &ProcessingError{Op: op, Err: kind, Cause: err}
}
