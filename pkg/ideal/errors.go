package ideal

import (
	"fmt"
	"strings"
)

// Kind classifies a protocol failure.
type Kind string

const (
	KindConfiguration        Kind = "configuration"
	KindTransport            Kind = "transport"
	KindMalformedResponse    Kind = "malformed_response"
	KindUnrecognizedResponse Kind = "unrecognized_response"
	KindSignature            Kind = "signature"
	KindBusiness             Kind = "business"
	KindNoSuccess            Kind = "no_success"
)

// Sentinels for errors.Is. Every error returned by this package matches
// exactly one of them.
var (
	ErrConfiguration        = &Error{Kind: KindConfiguration}
	ErrTransport            = &Error{Kind: KindTransport}
	ErrMalformedResponse    = &Error{Kind: KindMalformedResponse}
	ErrUnrecognizedResponse = &Error{Kind: KindUnrecognizedResponse}
	ErrSignature            = &Error{Kind: KindSignature}
	ErrBusiness             = &Error{Kind: KindBusiness}
	ErrNoSuccess            = &Error{Kind: KindNoSuccess}
)

// Error is a fatal protocol failure. No response is available alongside it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ideal: ")
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// ResponseError is returned when the acquirer answers with AcquirerErrorRes.
// The parsed reply stays reachable, including its signature check.
type ResponseError struct {
	*ErrorResponse
}

func (e *ResponseError) Error() string {
	code, _ := e.ErrorCode()
	msg, _ := e.ErrorMessage()
	return fmt.Sprintf("ideal: acquirer error %s: %s", code, msg)
}

// Is matches ErrBusiness.
func (e *ResponseError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindBusiness
}

// NoSuccessError is returned for a status reply other than Success when the
// client is configured with FailOnNonSuccess.
type NoSuccessError struct {
	*StatusResponse
}

func (e *NoSuccessError) Error() string {
	id, _ := e.TransactionID()
	status, _ := e.Status()
	return fmt.Sprintf("ideal: transaction %s has status %s", id, status)
}

// Is matches ErrNoSuccess.
func (e *NoSuccessError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindNoSuccess
}
