package nfallback

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Context is what a Resolver gets to look at.  A new Context is made
// for each failure.
type Context struct {
	req   *http.Request
	code  int
	cause error
}

// NewContext is mostly useful for testing resolvers
func NewContext(req *http.Request, code int, cause error) Context {
	return Context{
		req:   req,
		code:  code,
		cause: cause,
	}
}

// Request is the original request.  Do not modify it.
func (fc Context) Request() *http.Request { return fc.req }

// Code is the HTTP status code for the failure
func (fc Context) Code() int { return fc.code }

// Cause describes the failure: "[GET /x] failed in 250ms: original message".
// The original error is in its chain.
func (fc Context) Cause() error { return fc.cause }

// Describe wraps err with the request method and URL and the time
// spent.
func Describe(err error, r *http.Request, elapsed time.Duration) error {
	return errors.Wrapf(err, "[%s %s] failed in %s", r.Method, href(r), FormatElapsed(elapsed))
}

// FormatElapsed formats d as milliseconds when it is under a second
// and as whole seconds otherwise.
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%ds", int64(d/time.Second))
}

func href(r *http.Request) string {
	if r.URL == nil {
		return r.RequestURI
	}
	return r.URL.String()
}
