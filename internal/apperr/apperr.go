package apperr

import (
	"errors"
	"net/http"
)

// Code is the fixed enumeration of result statuses exposed by the API.
type Code int

const (
	Success Code = iota
	ServerError
	BadRequest
	NotFound
	ListEmpty
	Unauthorized
	LogicError
)

// Message returns the default user-visible message for a code.
func (c Code) Message() string {
	switch c {
	case Success:
		return "operation completed successfully"
	case ServerError:
		return "an error occurred on the server"
	case BadRequest:
		return "the submitted parameters are not valid"
	case NotFound:
		return "not found"
	case ListEmpty:
		return "the list is empty"
	case Unauthorized:
		return "authentication has not been performed"
	case LogicError:
		return "an error occurred while processing"
	default:
		return "unknown status"
	}
}

// HTTPStatus maps a code to the response status the handlers emit.
func (c Code) HTTPStatus() int {
	switch c {
	case Success:
		return http.StatusOK
	case BadRequest, LogicError:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure carrying one of the fixed status codes and a single
// user-visible message. Repository and service failures surface as *Error;
// handlers translate them to HTTP responses.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error with the code's default message.
func New(code Code) *Error {
	return &Error{Code: code, Message: code.Message()}
}

// NewMessage creates an error with an explicit message.
func NewMessage(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches an underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFoundf reports an absent entity.
func NotFoundf(message string) *Error { return NewMessage(NotFound, message) }

// BadRequestf reports malformed input or a business-rule violation.
func BadRequestf(message string) *Error { return NewMessage(BadRequest, message) }

// Unauthorizedf reports a missing or invalid caller identity.
func Unauthorizedf(message string) *Error { return NewMessage(Unauthorized, message) }

// CodeOf extracts the status code from err, defaulting to ServerError.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ServerError
}

// MessageOf extracts the user-visible message from err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ServerError.Message()
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
