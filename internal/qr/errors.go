package qr

import (
	"errors"
	"fmt"
)

// Kind classifies a scan failure so callers and tests can assert on cause.
type Kind string

const (
	KindEmptyInput            Kind = "EMPTY_INPUT"
	KindMalformedToken        Kind = "MALFORMED_TOKEN"
	KindDecodeFailure         Kind = "DECODE_FAILURE"
	KindInvalidManualCode     Kind = "INVALID_MANUAL_CODE_SHAPE"
	KindDuplicateCheckIn      Kind = "DUPLICATE_CHECK_IN"
	KindCheckOutBeforeCheckIn Kind = "CHECK_OUT_BEFORE_CHECK_IN"
	KindIdentityMismatch      Kind = "IDENTITY_MISMATCH"
	KindTicketNotFound        Kind = "TICKET_NOT_FOUND"
	KindAttendeeNotFound      Kind = "ATTENDEE_NOT_FOUND"
)

// BadRequestError is the single client-facing error type for scan
// operations. Message is the user-facing text; Err keeps the cause.
type BadRequestError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *BadRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BadRequestError) Unwrap() error {
	return e.Err
}

func NewBadRequest(kind Kind, message string, cause error) *BadRequestError {
	return &BadRequestError{Kind: kind, Message: message, Err: cause}
}

// IsKind reports whether err is a BadRequestError of the given kind.
func IsKind(err error, kind Kind) bool {
	var bre *BadRequestError
	return errors.As(err, &bre) && bre.Kind == kind
}

// KindOf returns the kind of err, or "" if it is not a BadRequestError.
func KindOf(err error) Kind {
	var bre *BadRequestError
	if errors.As(err, &bre) {
		return bre.Kind
	}
	return ""
}
