package ntake

import (
	"net/http"

	"github.com/pkg/errors"
)

// ReturnCode associates an HTTP return code with a error.
// if err is nil, then nil is returned.
func ReturnCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &StatusError{
		cause: err,
		code:  code,
	}
}

// StatusError is an error that carries an HTTP status code.  Create
// them with ReturnCode and friends.
type StatusError struct {
	cause error
	code  int
}

func (err *StatusError) Error() string {
	return err.cause.Error()
}

// Code is the HTTP status code
func (err *StatusError) Code() int {
	return err.code
}

func (err *StatusError) Cause() error {
	return err.cause
}

func (err *StatusError) Unwrap() error {
	return err.cause
}

// Errorf creates an error with a message and an HTTP status code
func Errorf(code int, format string, args ...interface{}) error {
	return ReturnCode(errors.Errorf(format, args...), code)
}

// NotFound annotates an error has giving 404 HTTP return code
func NotFound(err error) error {
	return ReturnCode(err, http.StatusNotFound)
}

// BadRequest annotates an error has giving 400 HTTP return code
func BadRequest(err error) error {
	return ReturnCode(err, http.StatusBadRequest)
}

// Unauthorized annotates an error has giving 401 HTTP return code
func Unauthorized(err error) error {
	return ReturnCode(err, http.StatusUnauthorized)
}

// Forbidden annotates an error has giving 403 HTTP return code
func Forbidden(err error) error {
	return ReturnCode(err, http.StatusForbidden)
}

// MethodNotAllowed annotates an error has giving 405 HTTP return code
func MethodNotAllowed(err error) error {
	return ReturnCode(err, http.StatusMethodNotAllowed)
}

// GetReturnCode returns the HTTP status code carried by err.  Errors
// that do not carry one are internal server errors.
func GetReturnCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.code
	}
	return http.StatusInternalServerError
}
