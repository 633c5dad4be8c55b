package nfallback

import (
	"fmt"
	"reflect"

	"github.com/muir/reflectutils"
	"go.uber.org/multierr"
)

// Point says where a failure happened
type Point int

const (
	// Stage is a failure returned by the wrapped Take
	Stage Point = iota
	// Head is a failure reading the response head
	Head
	// Body is a failure reading the response body
	Body
)

func (p Point) String() string {
	switch p {
	case Stage:
		return "stage"
	case Head:
		return "head"
	case Body:
		return "body"
	default:
		return fmt.Sprintf("point(%d)", int(p))
	}
}

// EscalationError is returned when the Resolver declined to provide
// a response or failed while providing one.
//
// errors.Is and errors.As see both the recovery failure, if any, and
// the described original failure.  errors.Cause (from pkg/errors)
// walks down to the original failure.
type EscalationError struct {
	point    Point
	resolver string
	failure  Failure
	cause    error
	recovery error
}

// Point is where the original failure happened
func (err *EscalationError) Point() Point { return err.point }

// Failure is the classified original failure
func (err *EscalationError) Failure() Failure { return err.failure }

// Cause is the description of the original failure as given to
// the Resolver
func (err *EscalationError) Cause() error { return err.cause }

// Recovery is what went wrong while recovering.  It is nil if the
// Resolver simply declined.
func (err *EscalationError) Recovery() error { return err.recovery }

func (err *EscalationError) Unwrap() error {
	return multierr.Combine(err.recovery, err.cause)
}

func (err *EscalationError) Error() string {
	var failing string
	if other, ok := err.failure.(OtherFailure); ok {
		failing = " for " + typeName(other.Err)
	}
	var msg string
	switch {
	case err.recovery != nil:
		msg = fmt.Sprintf("fallback%s in %s failed at %s: %s", failing, err.resolver, err.point, err.recovery)
	case err.point == Stage:
		msg = fmt.Sprintf("there is no fallback available%s in %s", failing, err.resolver)
	default:
		msg = fmt.Sprintf("there is no fallback available%s in %s for the response %s", failing, err.resolver, err.point)
	}
	return msg + ": " + err.cause.Error()
}

func typeName(v interface{}) string {
	if v == nil {
		return "<nil>"
	}
	return reflectutils.TypeName(reflect.TypeOf(v))
}
