package nfallback

import (
	"net/http"

	"github.com/muir/nfallback/ntake"
	"github.com/pkg/errors"
)

// Failure is either a StatusFailure or an OtherFailure
type Failure interface {
	// Code is the HTTP status code to report
	Code() int
	// Unwrap returns the error that was classified
	Unwrap() error
	failure()
}

// StatusFailure is an error that carries its own HTTP status code
type StatusFailure struct {
	Status int
	Err    error
}

// OtherFailure is any error without a status code.  It is reported
// as an internal server error.
type OtherFailure struct {
	Err error
}

func (f StatusFailure) Code() int {
	return f.Status
}

func (f StatusFailure) Unwrap() error {
	return f.Err
}

func (f StatusFailure) failure() {}

func (f OtherFailure) Code() int {
	return http.StatusInternalServerError
}

func (f OtherFailure) Unwrap() error {
	return f.Err
}

func (f OtherFailure) failure() {}

// Classify looks for an *ntake.StatusError anywhere in the chain of err.
func Classify(err error) Failure {
	var se *ntake.StatusError
	if errors.As(err, &se) {
		return StatusFailure{Status: se.Code(), Err: err}
	}
	return OtherFailure{Err: err}
}

// StatusOf returns the HTTP status code for err: the code it carries,
// or 500.
func StatusOf(err error) int {
	return Classify(err).Code()
}
