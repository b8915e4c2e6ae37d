package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorType classifies an error for HTTP mapping.
type ErrorType uint

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound
	ErrorTypeInternal
	ErrorTypeExternal
	ErrorTypeUnavailable
	ErrorTypeRateLimit
)

// Error is a typed error carrying HTTP mapping and context details.
type Error struct {
	Type       ErrorType
	Message    string
	Details    map[string]interface{}
	Err        error
	StatusCode int
	ErrorCode  string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetails attaches context details to the error.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

func NewError(errType ErrorType, message string, err error) *Error {
	return &Error{
		Type:       errType,
		Message:    message,
		Err:        err,
		StatusCode: errorTypeToStatusCode(errType),
		ErrorCode:  errorTypeToCode(errType),
		Details:    make(map[string]interface{}),
	}
}

func NewValidationError(message string, err error) *Error {
	return NewError(ErrorTypeValidation, message, err)
}

func NewNotFoundError(message string, err error) *Error {
	return NewError(ErrorTypeNotFound, message, err)
}

func NewInternalError(message string, err error) *Error {
	return NewError(ErrorTypeInternal, message, err)
}

func NewExternalError(message string, err error) *Error {
	return NewError(ErrorTypeExternal, message, err)
}

func NewUnavailableError(message string, err error) *Error {
	return NewError(ErrorTypeUnavailable, message, err)
}

func errorTypeToStatusCode(errType ErrorType) int {
	switch errType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeInternal:
		return http.StatusInternalServerError
	case ErrorTypeExternal:
		return http.StatusBadGateway
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func errorTypeToCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeInternal:
		return "INTERNAL_ERROR"
	case ErrorTypeExternal:
		return "EXTERNAL_ERROR"
	case ErrorTypeUnavailable:
		return "SERVICE_UNAVAILABLE"
	case ErrorTypeRateLimit:
		return "RATE_LIMIT_EXCEEDED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Domain-specific error constructors.

func NewModelNotLoadedError() *Error {
	return NewUnavailableError("Prediction model is not loaded", nil)
}

func NewPredictionError(model string, err error) *Error {
	return NewInternalError(
		fmt.Sprintf("Model prediction failed for %s", model),
		err,
	).WithDetails(map[string]interface{}{
		"model": model,
	})
}

func NewInvalidTripError(message string, validationErrors map[string]string) *Error {
	return NewValidationError(message, nil).WithDetails(map[string]interface{}{
		"validation_errors": validationErrors,
	})
}

func NewGeoServiceError(operation string, err error) *Error {
	return NewExternalError(
		fmt.Sprintf("Google services request failed: %s", operation),
		err,
	).WithDetails(map[string]interface{}{
		"operation": operation,
	})
}

func NewRouteNotFoundError(origin, destination string) *Error {
	return NewNotFoundError(
		"No route found between addresses",
		nil,
	).WithDetails(map[string]interface{}{
		"origin":      origin,
		"destination": destination,
	})
}

func NewDatasetError(operation string, err error) *Error {
	return NewInternalError(
		fmt.Sprintf("Dataset operation failed: %s", operation),
		err,
	).WithDetails(map[string]interface{}{
		"operation": operation,
	})
}

// ErrorResponse is the JSON body sent for failed requests.
type ErrorResponse struct {
	Status    string                 `json:"status"`
	ErrorCode string                 `json:"error_code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// NewErrorResponse builds the wire form of an Error.
func NewErrorResponse(err *Error, requestID string) *ErrorResponse {
	return &ErrorResponse{
		Status:    "error",
		ErrorCode: err.ErrorCode,
		Message:   err.Message,
		Details:   err.Details,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}
}
