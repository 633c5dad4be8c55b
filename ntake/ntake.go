package ntake

import (
	"io"
	"net/http"
)

// Response is what a Take produces.  Head and Body are independent
// of each other: calling one must not call the other.  Both may be
// called more than once.
type Response interface {
	// Head returns the header lines.  The first line is the status
	// line, for example "HTTP/1.1 200 OK".
	Head() ([]string, error)
	Body() (io.Reader, error)
}

// Take converts a request into a response.
type Take interface {
	Act(r *http.Request) (Response, error)
}

// TakeFunc adapts a function to be a Take
type TakeFunc func(r *http.Request) (Response, error)

var _ Take = TakeFunc(nil)

func (f TakeFunc) Act(r *http.Request) (Response, error) {
	return f(r)
}

type deferredResponse struct {
	head func() ([]string, error)
	body func() (io.Reader, error)
}

// RsOf builds a Response from a pair of functions.  Neither
// function is invoked until the corresponding accessor is called
// and every call to an accessor invokes its function again.
func RsOf(head func() ([]string, error), body func() (io.Reader, error)) Response {
	return deferredResponse{
		head: head,
		body: body,
	}
}

func (res deferredResponse) Head() ([]string, error) {
	return res.head()
}

func (res deferredResponse) Body() (io.Reader, error) {
	return res.body()
}
