// Obligatory // comment

/*

Package nfallback gives every failure in producing an HTTP response
one more chance to become a valid response.

A Router wraps an ntake.Take.  There are three places where producing
a response can go wrong: the Take itself can return an error (or
panic), and the response it returns can fail later when its head or
its body is read.  Body failures in particular tend to happen late:
a file that has gone missing or a connection that was reset is
only noticed when the stream is opened.

At each of these points the Router builds a Context (the request,
an HTTP status code, and an error describing what went wrong and
how long it took) and asks a Resolver for a replacement response.
The Resolver may answer with a response or decline.  When it declines
(or fails), the Router returns an *EscalationError.

	take := nfallback.New(routes,
		nfallback.Chain(
			nfallback.Status(404, nfallback.Fixed(notFoundPage)),
			nfallback.Text(),
		),
		nfallback.WithLogger(log))

Status codes

The status code comes from the error.  Errors annotated with
ntake.ReturnCode (or ntake.NotFound, ntake.Forbidden, etc) carry
their own code.  Any other error is a 500.  Classify turns an error
into a StatusFailure or an OtherFailure.

Laziness

The response returned by the Router does not read the underlying
head or body until asked.  Head and body are recovered independently
and each access repeats the recovery: nothing is cached.

Responses returned by a Resolver at the Take level are wrapped the
same way, so a fallback response whose own body fails to open gets
another trip through the Resolver.

*/
package nfallback
