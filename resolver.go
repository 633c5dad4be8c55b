package nfallback

import (
	"fmt"
	"net/http"

	"github.com/muir/nfallback/ntake"
)

// Resolver picks a replacement response for a failure.  It returns
// ok=false to decline.  Declining is not an error: a non-nil error
// means the resolver itself failed.  Resolvers are shared between
// requests and must be safe for concurrent use.
type Resolver interface {
	Route(fc Context) (res ntake.Response, ok bool, err error)
}

// ResolverFunc adapts a function to be a Resolver
type ResolverFunc func(fc Context) (ntake.Response, bool, error)

var _ Resolver = ResolverFunc(nil)

func (f ResolverFunc) Route(fc Context) (ntake.Response, bool, error) {
	return f(fc)
}

// Empty never has a response
func Empty() Resolver {
	return ResolverFunc(func(Context) (ntake.Response, bool, error) {
		return nil, false, nil
	})
}

// Fixed always responds with res
func Fixed(res ntake.Response) Resolver {
	return ResolverFunc(func(Context) (ntake.Response, bool, error) {
		return res, true, nil
	})
}

// Chain asks each resolver in turn and returns the first response.
// An error from any resolver ends the chain.
func Chain(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(fc Context) (ntake.Response, bool, error) {
		for _, r := range resolvers {
			res, ok, err := r.Route(fc)
			if err != nil || ok {
				return res, ok, err
			}
		}
		return nil, false, nil
	})
}

// Status consults resolver only for failures with the given code
func Status(code int, resolver Resolver) Resolver {
	return StatusRange(code, code, resolver)
}

// StatusRange consults resolver only for failures with codes
// between low and high, inclusive.
func StatusRange(low, high int, resolver Resolver) Resolver {
	return ResolverFunc(func(fc Context) (ntake.Response, bool, error) {
		if fc.Code() < low || fc.Code() > high {
			return nil, false, nil
		}
		return resolver.Route(fc)
	})
}

// Text responds to everything with a plain text page showing the
// status and the cause.
func Text() Resolver {
	return ResolverFunc(func(fc Context) (ntake.Response, bool, error) {
		return ntake.RsText(fc.Code(),
			fmt.Sprintf("%d %s\n\n%s\n", fc.Code(), http.StatusText(fc.Code()), fc.Cause())), true, nil
	})
}

// Logging logs every failure it sees and then declines.  Put it
// first in a Chain.
func Logging(log ntake.BasicLogger) Resolver {
	return ResolverFunc(func(fc Context) (ntake.Response, bool, error) {
		fields := map[string]interface{}{
			"code":  fc.Code(),
			"error": fc.Cause().Error(),
		}
		if r := fc.Request(); r != nil {
			fields["method"] = r.Method
			fields["uri"] = href(r)
		}
		if fc.Code() >= http.StatusInternalServerError {
			log.Error("Request failed", fields)
		} else {
			log.Warn("Request failed", fields)
		}
		return nil, false, nil
	})
}
