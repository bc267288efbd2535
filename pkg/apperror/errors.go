package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"ideal-gateway/pkg/ideal"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string            `json:"error_code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithDetail attaches a client visible detail and returns e.
func (e *AppError) WithDetail(key, value string) *AppError {
	if value == "" {
		return e
	}
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// ---- Security & Signatures (SEC) ----

func ErrInvalidSignature(err error) *AppError {
	return Wrap("SEC_001", "Acquirer reply signature invalid", http.StatusBadGateway, err)
}

func ErrSigningFailure(err error) *AppError {
	return Wrap("SEC_002", "Request could not be signed", http.StatusInternalServerError, err)
}

// ---- Acquirer Exchange (ACQ) ----

// ErrAcquirer carries the acquirer's business error code and the message
// meant for the consumer.
func ErrAcquirer(acquirerCode, consumerMessage string, err error) *AppError {
	return Wrap("ACQ_001", "Acquirer rejected the request", http.StatusUnprocessableEntity, err).
		WithDetail("acquirer_code", acquirerCode).
		WithDetail("consumer_message", consumerMessage)
}

func ErrMalformedReply(err error) *AppError {
	return Wrap("ACQ_002", "Acquirer reply is malformed", http.StatusBadGateway, err)
}

func ErrUnrecognizedReply(err error) *AppError {
	return Wrap("ACQ_003", "Acquirer reply is not recognized", http.StatusBadGateway, err)
}

func ErrAcquirerUnavailable(err error) *AppError {
	return Wrap("ACQ_004", "Acquirer unavailable", http.StatusServiceUnavailable, err)
}

func ErrTransactionNotSuccessful(status string, err error) *AppError {
	return Wrap("ACQ_005", fmt.Sprintf("Transaction status is %s", status), http.StatusConflict, err).
		WithDetail("status", status)
}

// ---- Payment Requests (PAY) ----

func ErrInvalidAmount() *AppError {
	return New("PAY_001", "Invalid amount", http.StatusBadRequest)
}

// Validation returns a PAY_002 validation error.
func Validation(message string) *AppError {
	return New("PAY_002", message, http.StatusBadRequest)
}

func ErrUnknownIssuer(issuer string) *AppError {
	return New("PAY_003", fmt.Sprintf("Issuer %s is not in the directory", issuer), http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrConfiguration(err error) *AppError {
	return Wrap("SYS_002", "Gateway misconfigured", http.StatusInternalServerError, err)
}

func ErrCacheFailure(err error) *AppError {
	return Wrap("SYS_003", "Cache failure", http.StatusInternalServerError, err)
}

// FromIdeal maps protocol errors to gateway errors. Errors that are already
// an *AppError pass through; anything unknown becomes SYS_001.
func FromIdeal(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var respErr *ideal.ResponseError
	if errors.As(err, &respErr) {
		code, _ := respErr.ErrorCode()
		consumer, _ := respErr.ConsumerMessage()
		return ErrAcquirer(code, consumer, err)
	}

	var noSuccess *ideal.NoSuccessError
	if errors.As(err, &noSuccess) {
		status, _ := noSuccess.Status()
		return ErrTransactionNotSuccessful(status, err)
	}

	var protoErr *ideal.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Kind {
		case ideal.KindSignature:
			return ErrInvalidSignature(err)
		case ideal.KindMalformedResponse:
			return ErrMalformedReply(err)
		case ideal.KindUnrecognizedResponse:
			return ErrUnrecognizedReply(err)
		case ideal.KindTransport:
			return ErrAcquirerUnavailable(err)
		case ideal.KindConfiguration:
			return ErrConfiguration(err)
		}
	}
	return InternalError(err)
}
